package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vango-dev/dvue/internal/errors"
	"github.com/vango-dev/dvue/internal/templates"
)

func initCmd() *cobra.Command {
	var (
		template string
		title    string
	)

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create a new project",
		Long: `Create a new project directory with a config file, a template
and a data document.

Templates:
  counter  a number with increment and reset (default)
  todo     a list fed by a text input, with a stylesheet
  static   a page with bound data, for dvue render

Examples:
  dvue init demo
  dvue init shop --template=todo --title="Shopping list"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0], template, title, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", templates.DefaultTemplate,
		"Project template ("+strings.Join(templates.List(), ", ")+")")
	cmd.Flags().StringVar(&title, "title", "", "Page title (default: the project name)")

	return cmd
}

func runInit(name, templateName, title string, out io.Writer) error {
	if !isValidProjectName(name) {
		return errors.New("E180").
			WithDetail("Invalid project name " + name).
			WithSuggestion("Use letters, numbers, dots, hyphens and underscores")
	}

	tmpl, err := templates.Get(templateName)
	if err != nil {
		return err
	}

	dir, err := filepath.Abs(name)
	if err != nil {
		return err
	}
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return errors.New("E183").
			WithDetail("Directory '" + name + "' already exists").
			WithSuggestion("Choose a different name or remove the existing directory")
	}

	info(out, "Creating %s from the '%s' template...", name, templateName)
	if err := tmpl.Create(dir, templates.Config{ProjectName: filepath.Base(dir), Title: title}); err != nil {
		_ = os.RemoveAll(dir)
		return err
	}

	info(out, "To get started:")
	info(out, "  cd %s", name)
	info(out, "  dvue serve --watch")
	return nil
}

// isValidProjectName accepts a single path element without spaces.
func isValidProjectName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return true
}
