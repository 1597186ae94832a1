// Package templates provides project scaffolding for `dvue init`.
//
// # Available Templates
//
//   - counter: a number with increment and reset buttons
//   - todo: a list fed by a text input, with a stylesheet
//   - static: a page with bound data and no methods, for `dvue render`
//
// # Usage
//
//	tmpl, err := templates.Get("counter")
//	if err != nil {
//	    return err
//	}
//	if err := tmpl.Create(projectDir, templates.Config{ProjectName: "demo"}); err != nil {
//	    return err
//	}
//
// # Template Variables
//
// Files are text/template sources delimited by [[ and ]] so that the
// {{ }} bindings of the generated pages pass through unchanged:
//
//	[[.ProjectName]]  Project name
//	[[.Title]]        Page title, defaults to the project name
package templates
