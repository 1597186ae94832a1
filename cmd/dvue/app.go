package main

import (
	"bytes"
	"context"
	"log/slog"
	"sync"

	"github.com/vango-dev/dvue"
	"github.com/vango-dev/dvue/internal/actions"
	"github.com/vango-dev/dvue/internal/config"
	"github.com/vango-dev/dvue/internal/errors"
	"github.com/vango-dev/dvue/internal/source"
	"github.com/vango-dev/dvue/pkg/dom"
	"github.com/vango-dev/dvue/pkg/reactive"
)

// app mounts fresh instances of the configured template and data. The
// sources are read once and re-read by reload.
type app struct {
	cfg     *config.Config
	loader  *source.Loader
	methods map[string]dvue.Method
	logger  *slog.Logger

	mu       sync.RWMutex
	template []byte
	data     []byte
}

// newApp builds the methods and loads the sources.
func newApp(ctx context.Context, cfg *config.Config, loader *source.Loader, logger *slog.Logger) (*app, error) {
	methods, err := actions.Build(cfg.Methods, logger)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:     cfg,
		loader:  loader,
		methods: methods,
		logger:  logger.With("component", "app"),
	}
	if err := a.reload(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// reload re-reads template and data. Sources that fail to parse or do
// not mount leave the previous version in place.
func (a *app) reload(ctx context.Context) error {
	tplRef := a.cfg.TemplatePath()
	template, err := a.loader.Read(ctx, tplRef)
	if err != nil {
		return err
	}

	var data []byte
	if ref := a.cfg.DataPath(); ref != "" {
		a.loader.Invalidate(ref)
		if data, err = a.loader.Read(ctx, ref); err != nil {
			return err
		}
	}

	if _, err := a.build(template, data); err != nil {
		return err
	}

	a.mu.Lock()
	a.template, a.data = template, data
	a.mu.Unlock()

	a.logger.Debug("sources loaded", "template", tplRef, "bytes", len(template))
	return nil
}

// mount creates a new instance from the current sources.
func (a *app) mount() (*dvue.Instance, error) {
	a.mu.RLock()
	template, data := a.template, a.data
	a.mu.RUnlock()
	return a.build(template, data)
}

func (a *app) build(template, data []byte) (*dvue.Instance, error) {
	doc, err := dom.Parse(bytes.NewReader(template))
	if err != nil {
		return nil, errors.New("E140").
			WithDetail(a.cfg.Template + " could not be parsed").
			Wrap(err)
	}

	obj := reactive.NewObject()
	if len(bytes.TrimSpace(data)) > 0 {
		if obj, err = reactive.ParseJSON(data); err != nil {
			return nil, errors.New("E141").
				WithDetail(a.cfg.Data + " is not a JSON object").
				Wrap(err)
		}
	}

	vm := dvue.New(doc, dvue.Options{
		Data:    obj,
		El:      a.cfg.El,
		Methods: a.methods,
		Logger:  a.logger,
	})
	if vm.El() == nil {
		return nil, errors.New("E142").
			WithDetail("Nothing in " + a.cfg.Template + " matches " + a.cfg.El).
			WithSuggestion("Set el to the selector of the element to bind, such as \"#app\"")
	}
	return vm, nil
}
