// Package site serves the embedded landing page.
package site

import (
	"context"
	"net/http"
)

// Register serves the embedded static files at the root. Paths without a
// matching file answer 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
