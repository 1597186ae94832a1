// Package errors provides structured, coded errors for the dvue CLI and
// its loaders.
//
// Each error has a code (e.g. "E101") that maps to a category, a short
// message and a longer explanation. Callers add a location, a hint or a
// wrapped cause:
//
//	err := errors.New("E101").
//	    WithLocation("dvue.yaml", 4, 3).
//	    WithSuggestion("Indent nested keys with spaces, not tabs").
//	    Wrap(yamlErr)
//
//	errors.PrintError(err)
//	// ERROR E101: Invalid config file
//	//
//	//   dvue.yaml:4:3
//	//
//	//     3 │ server:
//	//   → 4 │ 	port: 8080
//	//       │   ^
//	//
//	//   Hint: Indent nested keys with spaces, not tabs
package errors
