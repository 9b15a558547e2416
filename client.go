package widgetdemo

import (
	_ "embed"
	"net/http"
)

// ClientLibraryPath is where ServeClientLibrary is expected to be mounted.
const ClientLibraryPath = "/widgetdemo-client.js"

//go:embed client/widgetdemo-client.js
var clientLibrary []byte

// ServeClientLibrary serves the browser side of the redraw protocol.
func ServeClientLibrary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(clientLibrary)
}
