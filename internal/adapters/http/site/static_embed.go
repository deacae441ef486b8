package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// FS returns the embedded pages rooted at static/.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static is a literal directory of the embed, Sub cannot fail on it.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
