package dom

import "strings"

// selector is one compound selector: an optional tag followed by any
// number of #id and .class parts.
type selector struct {
	tag     string
	id      string
	classes []string
}

// parseSelector parses a compound selector like "div#app.main".
// Combinators are not supported; an empty result means "no match".
func parseSelector(s string) (selector, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " >+~[,") {
		return selector{}, false
	}

	var sel selector
	i := strings.IndexAny(s, "#.")
	if i < 0 {
		sel.tag = strings.ToLower(s)
		return sel, true
	}
	sel.tag = strings.ToLower(s[:i])

	rest := s[i:]
	for rest != "" {
		kind := rest[0]
		rest = rest[1:]
		end := strings.IndexAny(rest, "#.")
		if end < 0 {
			end = len(rest)
		}
		part := rest[:end]
		rest = rest[end:]
		if part == "" {
			return selector{}, false
		}
		if kind == '#' {
			sel.id = part
		} else {
			sel.classes = append(sel.classes, part)
		}
	}
	return sel, true
}

func (sel selector) matches(n *Node) bool {
	if n.typ != ElementNode {
		return false
	}
	if sel.tag != "" && sel.tag != "*" && sel.tag != n.tag {
		return false
	}
	if sel.id != "" {
		if id, _ := n.GetAttribute("id"); id != sel.id {
			return false
		}
	}
	if len(sel.classes) > 0 {
		class, _ := n.GetAttribute("class")
		have := strings.Fields(class)
		for _, want := range sel.classes {
			found := false
			for _, c := range have {
				if c == want {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

// QuerySelector returns the first element in document order matching a
// compound selector ("#app", "div.card", "main"), or nil.
func (d *Document) QuerySelector(s string) *Node {
	return d.root.QuerySelector(s)
}

// QuerySelector returns the first descendant of n matching s, or nil.
func (n *Node) QuerySelector(s string) *Node {
	sel, ok := parseSelector(s)
	if !ok {
		return nil
	}
	var found *Node
	for _, c := range n.children {
		c.Walk(func(x *Node) bool {
			if found != nil {
				return false
			}
			if sel.matches(x) {
				found = x
				return false
			}
			return true
		})
		if found != nil {
			break
		}
	}
	return found
}

// GetElementByID returns the element whose id attribute equals id.
func (d *Document) GetElementByID(id string) *Node {
	if id == "" || strings.ContainsAny(id, "#. ") {
		return nil
	}
	return d.QuerySelector("#" + id)
}
