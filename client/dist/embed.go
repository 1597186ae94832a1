package clientdist

import _ "embed"

// DvueJS is the thin client JavaScript.
//
// It is served by the framework at "/_dvue/client.js".
//
//go:embed dvue.js
var DvueJS []byte
