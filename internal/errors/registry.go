package errors

import "sort"

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]Template{
	// Config errors (E100-E119)

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No dvue.json or dvue.yaml was found in the project directory.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "The config file could not be parsed.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid config value",
		Detail:   "A config field has a value outside its allowed range.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Config write failed",
		Detail:   "The config file could not be written.",
	},

	// Source errors (E120-E139)

	"E120": {
		Category: CategorySource,
		Message:  "Source not found",
		Detail:   "The template or data file does not exist.",
	},
	"E121": {
		Category: CategorySource,
		Message:  "Unsupported source",
		Detail:   "Sources are local paths or s3://bucket/key URIs.",
	},
	"E122": {
		Category: CategorySource,
		Message:  "Source read failed",
		Detail:   "The template or data could not be read.",
	},

	// Template errors (E140-E159)

	"E140": {
		Category: CategoryTemplate,
		Message:  "Template parse failed",
		Detail:   "The template is not valid HTML.",
	},
	"E141": {
		Category: CategoryTemplate,
		Message:  "Invalid data",
		Detail:   "The data document must be a JSON object.",
	},
	"E142": {
		Category: CategoryTemplate,
		Message:  "Mount target not found",
		Detail:   "No element in the template matches the configured el selector.",
	},
	"E143": {
		Category: CategoryTemplate,
		Message:  "Unknown action",
		Detail:   "A method is bound to an action that does not exist.",
	},

	// Server errors (E160-E179)

	"E160": {
		Category: CategoryServer,
		Message:  "Server failed",
		Detail:   "The HTTP server stopped with an error.",
	},
	"E161": {
		Category: CategoryServer,
		Message:  "Port in use",
		Detail:   "Another process is listening on the configured port.",
	},

	// CLI errors (E180-E199)

	"E180": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was called with invalid arguments.",
	},
	"E181": {
		Category: CategoryCLI,
		Message:  "Watcher failed",
		Detail:   "The file watcher could not be started.",
	},
	"E182": {
		Category: CategoryCLI,
		Message:  "Unknown project template",
		Detail:   "There is no project template with that name.",
	},
	"E183": {
		Category: CategoryCLI,
		Message:  "Project directory exists",
		Detail:   "The project directory already exists and is not empty.",
	},
}

// GetAllCodes returns all registered error codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template Template) {
	registry[code] = template
}
