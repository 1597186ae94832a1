package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/vango-dev/dvue/internal/config"
	"github.com/vango-dev/dvue/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if !isTTY(os.Stderr) {
		errors.DisableColors()
	}
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "dvue",
		Short: "Serve reactive HTML templates from the server",
		Long: `dvue binds a JSON data document to an HTML template and keeps
them in sync. The page is rendered on the server and mirrored into
the browser over a WebSocket, so every event runs server side.

The project is described by dvue.yaml or dvue.json:

  template: index.html
  data: data.json
  el: "#app"
  methods:
    add: {action: increment, key: count}`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"Config file or project directory (default: search upward from the working directory)")

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(opts),
		renderCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

// loadConfig resolves the --config flag. A directory is searched for a
// config file, a file is loaded as is, and no flag searches upward from
// the working directory.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		root, err := config.FindProjectRoot(wd)
		if err != nil {
			return nil, err
		}
		path = root
	}

	var (
		cfg *config.Config
		err error
	)
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFile(path)
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isTTY reports whether w is a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// info prints a status line to w.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
