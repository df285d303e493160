package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleWeb serves the browser UI from dir. Unknown paths get index.html
// so the page can pick its own view.
func handleWeb(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeDetail(w, http.StatusNotFound, "Not Found")
			return
		}

		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}
		if _, err := os.Stat(index); err != nil {
			writeDetail(w, http.StatusNotFound, "Not Found")
			return
		}
		http.ServeFile(w, r, index)
	}
}
