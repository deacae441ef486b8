// Package site serves the embedded dashboard pages. The pages fetch the
// JSON views of package api and draw them in the browser.
package site

import (
	"context"
	"net/http"
)

// Register attaches the dashboard pages at / to mux. Every other route
// must carry a method so it does not conflict with "GET /".
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", Handler())
}

// Handler serves the embedded files. Responses are revalidated on each
// visit so a redeploy is picked up without a hard refresh.
func Handler() http.Handler {
	files := http.FileServer(FS())
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}
