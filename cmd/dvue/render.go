package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/vango-dev/dvue/internal/errors"
	"github.com/vango-dev/dvue/internal/source"
	"github.com/vango-dev/dvue/pkg/render"
)

func renderCmd(global *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the bound template once",
		Long: `Render the template with its data bound and print the resulting
HTML. The output carries no client script and no hydration markers.

Examples:
  dvue render
  dvue render -o dist/index.html
  dvue render -c site/dvue.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return errors.New("E180").
						WithDetail("Cannot write " + output).
						Wrap(err)
				}
				defer f.Close()
				w = f
			}
			return runRender(cmd.Context(), global.configPath, w, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runRender(ctx context.Context, configPath string, w, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, logOut)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, source.NewLoaderFromConfig(cfg.S3, logger), logger)
	if err != nil {
		return err
	}
	vm, err := a.mount()
	if err != nil {
		return err
	}

	r := render.NewRenderer(render.RendererConfig{OmitHIDs: true})
	return r.RenderPage(w, render.PageData{Doc: vm.Document(), NoClient: true})
}
