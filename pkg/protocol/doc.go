// Package protocol defines the messages exchanged between the server and
// the thin client over a session's WebSocket.
//
// Every WebSocket text message carries one JSON-encoded Frame. The frame
// type says which payload field is set:
//
//   - FrameEvent (client → server): a DOM event on a node, by HID
//   - FramePatches (server → client): DOM writes to replay, in order
//   - FrameControl (both ways): ping, pong and close
//   - FrameError (server → client): an error, possibly fatal
//
// # Addressing
//
// Elements are addressed by their hydration ID (the data-hid attribute).
// Text nodes have no attribute to carry one, so a patch on a text node
// names its parent element's HID and the node's child index.
//
// # Sequencing
//
// Patch frames carry a sequence number that increases by one per frame
// within a session, so the client can detect a gap and reload.
package protocol
