package render

// rawTextElements hold text the HTML parser does not decode, so it must
// be written back without escaping.
var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"xmp":      true,
	"iframe":   true,
	"noembed":  true,
	"noframes": true,
	"noscript": true,
}

// booleanAttrs are attributes whose presence is their value. An empty
// value is written as the bare attribute name.
var booleanAttrs = map[string]bool{
	"allowfullscreen": true,
	"async":           true,
	"autofocus":       true,
	"autoplay":        true,
	"checked":         true,
	"controls":        true,
	"default":         true,
	"defer":           true,
	"disabled":        true,
	"formnovalidate":  true,
	"hidden":          true,
	"ismap":           true,
	"loop":            true,
	"multiple":        true,
	"muted":           true,
	"novalidate":      true,
	"open":            true,
	"readonly":        true,
	"required":        true,
	"reversed":        true,
	"selected":        true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

// valueElements expose their value property through the value attribute
// on first paint.
var valueElements = map[string]bool{
	"input":  true,
	"option": true,
	"button": true,
}
