package dom

import "testing"

func collect(doc *Document) *[]Mutation {
	var muts []Mutation
	doc.OnMutation(func(m Mutation) { muts = append(muts, m) })
	return &muts
}

func TestSetTextContentOnTextNode(t *testing.T) {
	doc, _ := ParseString(`<p id="p">{{ msg }}</p>`)
	text := doc.GetElementByID("p").ChildNodes()[0]
	muts := collect(doc)

	text.SetTextContent("hi")

	if text.Data() != "hi" {
		t.Errorf("Data = %q, want hi", text.Data())
	}
	if len(*muts) != 1 {
		t.Fatalf("Expected 1 mutation, got %d", len(*muts))
	}
	m := (*muts)[0]
	if m.Op != MutSetText || m.Target != text || m.Value != "hi" {
		t.Errorf("Mutation = %+v", m)
	}
}

func TestSetTextContentOnElementReplacesChildren(t *testing.T) {
	doc, _ := ParseString(`<p id="p"><b>x</b><i>y</i></p>`)
	p := doc.GetElementByID("p")

	p.SetTextContent("plain")

	children := p.ChildNodes()
	if len(children) != 1 || !children[0].IsText() {
		t.Fatalf("Expected a single text child, got %d children", len(children))
	}
	if p.TextContent() != "plain" {
		t.Errorf("TextContent = %q, want plain", p.TextContent())
	}

	p.SetTextContent("")
	if p.HasChildNodes() {
		t.Error("Empty text should leave no children")
	}
}

func TestAttributes(t *testing.T) {
	doc, _ := ParseString(`<a id="link" href="/a">x</a>`)
	a := doc.GetElementByID("link")
	muts := collect(doc)

	a.SetAttribute("HREF", "/b")
	a.SetAttribute("title", "t")
	a.RemoveAttribute("title")
	a.RemoveAttribute("missing")

	if v, _ := a.GetAttribute("href"); v != "/b" {
		t.Errorf("href = %q, want /b", v)
	}
	if a.HasAttribute("title") {
		t.Error("title should be removed")
	}
	if len(*muts) != 3 {
		t.Fatalf("Expected 3 mutations, got %d", len(*muts))
	}
	wantOps := []MutationOp{MutSetAttr, MutSetAttr, MutRemoveAttr}
	for i, op := range wantOps {
		if (*muts)[i].Op != op {
			t.Errorf("muts[%d].Op = %v, want %v", i, (*muts)[i].Op, op)
		}
	}
	if (*muts)[0].Key != "href" {
		t.Errorf("Key = %q, want href", (*muts)[0].Key)
	}
}

func TestValueProperty(t *testing.T) {
	doc, _ := ParseString(`<input id="i" value="attr"><textarea id="t">body</textarea>`)
	input := doc.GetElementByID("i")
	area := doc.GetElementByID("t")

	if area.Value() != "body" {
		t.Errorf("textarea Value = %q, want body", area.Value())
	}

	input.SetValue("typed")
	if input.Value() != "typed" {
		t.Errorf("Value = %q, want typed", input.Value())
	}
	if v, _ := input.GetAttribute("value"); v != "attr" {
		t.Errorf("value attribute changed to %q", v)
	}
}

func TestAppendAndRemoveChild(t *testing.T) {
	doc, _ := ParseString(`<div id="a"></div><div id="b"></div>`)
	a := doc.GetElementByID("a")
	b := doc.GetElementByID("b")

	span := doc.CreateElement("SPAN")
	if doc.NodeByHID(span.HID()) != nil {
		t.Error("Detached node should not be indexed")
	}

	a.AppendChild(span)
	if span.TagName() != "span" {
		t.Errorf("TagName = %q, want span", span.TagName())
	}
	if doc.NodeByHID(span.HID()) != span {
		t.Error("Attached node should be indexed")
	}

	b.AppendChild(span)
	if a.HasChildNodes() {
		t.Error("AppendChild should detach from the old parent")
	}
	if span.Parent() != b {
		t.Error("Parent should be b")
	}

	b.RemoveChild(span)
	if span.Parent() != nil || doc.NodeByHID(span.HID()) != nil {
		t.Error("Removed node should be detached and unindexed")
	}
}

func TestOnMutationCancel(t *testing.T) {
	doc, _ := ParseString(`<p id="p"></p>`)
	p := doc.GetElementByID("p")

	count := 0
	cancel := doc.OnMutation(func(Mutation) { count++ })
	p.SetAttribute("a", "1")
	cancel()
	p.SetAttribute("a", "2")

	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestNodeTypeString(t *testing.T) {
	if ElementNode.String() != "Element" || TextNode.String() != "Text" {
		t.Error("Unexpected NodeType names")
	}
	if MutSetHTML.String() != "SetHTML" {
		t.Errorf("MutSetHTML.String() = %q", MutSetHTML.String())
	}
}

func TestSyncValueRecordsNothing(t *testing.T) {
	doc, _ := ParseString(`<input id="i">`)
	input := doc.GetElementByID("i")
	muts := collect(doc)

	input.SyncValue("typed")

	if input.Value() != "typed" {
		t.Errorf("Value = %q, want typed", input.Value())
	}
	if len(*muts) != 0 {
		t.Errorf("SyncValue recorded %d mutations", len(*muts))
	}
}
