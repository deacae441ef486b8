package api

import (
	"context"
	"net/http"
)

// Reloader reloads the dataset from disk.
type Reloader interface {
	Reload(ctx context.Context) (uint64, error)
}

// AdminHandler handles operator requests.
type AdminHandler struct {
	reloader Reloader
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(reloader Reloader) *AdminHandler {
	return &AdminHandler{reloader: reloader}
}

type reloadResponse struct {
	Status     string `json:"status"`
	Generation uint64 `json:"generation"`
}

// HandleReload handles POST /admin/reload. A failed reload keeps the
// previous dataset; the error explains why.
func (h *AdminHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	gen, err := h.reloader.Reload(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded", Generation: gen})
}
