// Package dom provides the in-memory DOM that dvue binds data to.
//
// A Document is parsed from HTML (golang.org/x/net/html) and exposes the
// small capability surface the compiler needs: selecting the mount
// element, walking child nodes and attributes, reading and writing
// textContent, innerHTML, element values and attributes, and adding and
// dispatching event listeners.
//
// # Node identity
//
// Every node owned by a Document has a hydration ID (HID), unique within
// the document. The server uses HIDs to route browser events to nodes
// and to address patches.
//
// # Mutations
//
// Every write through the Node API is reported to the Document's
// mutation observers as a Mutation record:
//
//	doc.OnMutation(func(m dom.Mutation) {
//	    fmt.Println(m.Op, m.Target.HID(), m.Value)
//	})
//
// The server turns these records into patches for the browser.
package dom
