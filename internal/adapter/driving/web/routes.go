package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Repository routes are guarded by the allow-list.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/{file}", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /search", h.Search)
	mux.HandleFunc("GET /{owner}/{repo}", h.allowed(h.Overview))
	mux.HandleFunc("GET /{owner}/{repo}/blob/{ref}/{path...}", h.allowed(h.Blob))
	mux.HandleFunc("GET /{owner}/{repo}/issues", h.allowed(h.Issues))
	mux.HandleFunc("GET /{owner}/{repo}/issues/{number}", h.allowed(h.Issue))
	mux.HandleFunc("GET /{owner}/{repo}/pulls", h.allowed(h.Pulls))
	mux.HandleFunc("GET /{owner}/{repo}/pulls/{number}", h.allowed(h.Pull))
	mux.HandleFunc("GET /", h.NotFound)
}
