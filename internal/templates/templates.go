package templates

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/vango-dev/dvue/internal/errors"
)

// Config contains template configuration.
type Config struct {
	// ProjectName is the name of the project.
	ProjectName string

	// Title is the page title. Defaults to ProjectName.
	Title string
}

// Template represents a project template.
type Template struct {
	Name        string
	Description string

	// Files maps relative paths to file sources.
	Files map[string]string
}

var funcs = template.FuncMap{
	// json quotes a string for JSON and YAML files.
	"json": func(s string) (string, error) {
		b, err := json.Marshal(s)
		return string(b), err
	},
}

// DefaultTemplate is used when no template is named.
const DefaultTemplate = "counter"

var templates = map[string]*Template{
	"counter": counterTemplate(),
	"todo":    todoTemplate(),
	"static":  staticTemplate(),
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	tmpl, ok := templates[name]
	if !ok {
		return nil, errors.New("E182").
			WithDetail("Template '" + name + "' not found").
			WithSuggestion("Available templates: " + strings.Join(List(), ", "))
	}
	return tmpl, nil
}

// List returns all available template names, sorted.
func List() []string {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create writes the template's files below dir.
func (t *Template) Create(dir string, cfg Config) error {
	if cfg.Title == "" {
		cfg.Title = cfg.ProjectName
	}

	for relPath, content := range t.Files {
		tmpl, err := template.New(relPath).Delims("[[", "]]").Funcs(funcs).Parse(content)
		if err != nil {
			return errors.Newf(errors.CategoryCLI, "invalid template %s: %v", relPath, err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, cfg); err != nil {
			return errors.Newf(errors.CategoryCLI, "template execute error %s: %v", relPath, err)
		}

		fullPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(fullPath, buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func counterTemplate() *Template {
	return &Template{
		Name:        "counter",
		Description: "A counter with increment and reset",
		Files: map[string]string{
			"dvue.yaml": `name: [[json .ProjectName]]
template: index.html
data: data.json
el: "#app"
methods:
  increment: {action: increment, key: count}
  reset: {action: clear, key: count}
`,
			"data.json": `{"count": 0}
`,
			"index.html": `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>[[html .Title]]</title>
</head>
<body>
  <div id="app">
    <h1>[[html .Title]]</h1>
    <p>Count: <span>{{ count }}</span></p>
    <button @click="increment">+1</button>
    <button @click="reset">Reset</button>
  </div>
</body>
</html>
`,
		},
	}
}

func todoTemplate() *Template {
	return &Template{
		Name:        "todo",
		Description: "A list fed by a text input",
		Files: map[string]string{
			"dvue.yaml": `name: [[json .ProjectName]]
template: index.html
data: data.json
el: "#app"
static:
  dir: public
methods:
  add: {action: push, key: items}
  undo: {action: pop, key: items}
  sort: {action: sort, key: items}
  clear: {action: clear, key: items}
`,
			"data.json": `{"draft": "", "items": ["write a template"]}
`,
			"index.html": `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>[[html .Title]]</title>
  <link rel="stylesheet" href="/static/app.css">
</head>
<body>
  <div id="app">
    <h1>[[html .Title]]</h1>
    <input v-model="draft" placeholder="Something to do" @change="add">
    <p class="items">{{ items }}</p>
    <button @click="undo">Undo</button>
    <button @click="sort">Sort</button>
    <button @click="clear">Clear</button>
  </div>
</body>
</html>
`,
			"public/app.css": `body { font-family: system-ui, sans-serif; max-width: 40rem; margin: 0 auto; padding: 2rem; }
.items { min-height: 1.5em; }
`,
		},
	}
}

func staticTemplate() *Template {
	return &Template{
		Name:        "static",
		Description: "A page rendered once from data",
		Files: map[string]string{
			"dvue.yaml": `name: [[json .ProjectName]]
template: index.html
data: data.json
el: "#page"
`,
			"data.json": `{"headline": [[json .Title]], "body": "<p>Edit data.json and run <code>dvue render</code>.</p>"}
`,
			"index.html": `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>[[html .Title]]</title>
</head>
<body>
  <main id="page">
    <h1 v-text="headline"></h1>
    <section v-html="body"></section>
  </main>
</body>
</html>
`,
		},
	}
}
