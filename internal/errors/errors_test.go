package errors

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"config error", "E101", "Invalid config file", CategoryConfig},
		{"source error", "E121", "Unsupported source", CategorySource},
		{"template error", "E142", "Mount target not found", CategoryTemplate},
		{"unknown error code", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	if got := New("E120").Error(); got != "E120: Source not found" {
		t.Errorf("Error() = %q", got)
	}
	if got := New("E120").Wrap(os.ErrNotExist).Error(); got != "E120: Source not found: file does not exist" {
		t.Errorf("wrapped Error() = %q", got)
	}
	if got := Newf(CategoryCLI, "bad %s", "flag").Error(); got != "bad flag" {
		t.Errorf("uncoded Error() = %q", got)
	}
}

func TestWrapSupportsIs(t *testing.T) {
	err := fmt.Errorf("load: %w", New("E120").Wrap(os.ErrNotExist))
	if !Is(err, os.ErrNotExist) {
		t.Error("Is should see the wrapped cause")
	}
	if !HasCode(err, "E120") {
		t.Error("HasCode should find E120")
	}
	if HasCode(err, "E121") {
		t.Error("HasCode matched the wrong code")
	}
}

func TestHasCodeNested(t *testing.T) {
	err := New("E140").Wrap(New("E122").Wrap(os.ErrPermission))
	if !HasCode(err, "E122") {
		t.Error("HasCode should look through nested Errors")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E101") != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New("E102")
	if FromError(fmt.Errorf("x: %w", orig), "E101") != orig {
		t.Error("FromError should return an existing Error")
	}

	plain := fmt.Errorf("plain")
	got := FromError(plain, "E101")
	if got.Code != "E101" || got.Wrapped != plain {
		t.Errorf("FromError = %+v", got)
	}
}

func TestWithLocationReadsContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dvue.yaml")
	content := "name: app\nserver:\n\tport: 8080\nwatch: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	err := New("E101").WithLocation(path, 3, 2)
	if len(err.Context) != 3 || err.Context[1] != "\tport: 8080" {
		t.Errorf("Context = %q", err.Context)
	}
	if err.Location.String() != path+":3:2" {
		t.Errorf("Location = %q", err.Location.String())
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	path := filepath.Join(t.TempDir(), "dvue.yaml")
	os.WriteFile(path, []byte("a: 1\nb: [\nc: 3\n"), 0o644)

	out := New("E101").
		WithLocation(path, 2, 4).
		WithSuggestion("Close the list").
		Wrap(fmt.Errorf("yaml: line 2: did not find expected node content")).
		Format()

	for _, want := range []string{
		"ERROR E101: Invalid config file",
		path + ":2:4",
		"→    2 │ b: [",
		"   ^",
		"Cause: yaml: line 2",
		"Hint: Close the list",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Error("Format() used colors while disabled")
	}
}

func TestFormatJSON(t *testing.T) {
	var got map[string]any
	raw := New("E142").WithSuggestion("check el").FormatJSON()
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("invalid JSON %s: %v", raw, err)
	}
	if got["code"] != "E142" || got["category"] != "template" || got["suggestion"] != "check el" {
		t.Errorf("FormatJSON = %s", raw)
	}
}

func TestPrintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	PrintError(&b, New("E161"))
	if !strings.Contains(b.String(), "E161: Port in use") {
		t.Errorf("PrintError = %q", b.String())
	}

	b.Reset()
	PrintError(&b, fmt.Errorf("boom"))
	if !strings.Contains(b.String(), "ERROR: boom") {
		t.Errorf("PrintError plain = %q", b.String())
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("empty text should wrap to nil")
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 || codes[0] != "E100" {
		t.Errorf("codes = %v", codes)
	}
	Register("E900", Template{Category: CategoryCLI, Message: "custom"})
	defer delete(registry, "E900")
	if tmpl, ok := GetTemplate("E900"); !ok || tmpl.Message != "custom" {
		t.Error("Register did not add E900")
	}
}
