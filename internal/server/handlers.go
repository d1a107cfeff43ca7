package server

import "net/http"

// serveArtifact writes one snapshot artifact with no-cache headers, or
// a 404 when the section is absent. Handlers read the store once per
// request and never re-run any pipeline step.
func (s *Server) serveArtifact(w http.ResponseWriter, r *http.Request, body, contentType string) {
	if body == "" {
		s.logger.Debug(r.Context(), "artifact absent", "path", r.URL.Path)
		notFound(w, "Resource not found")
		return
	}

	w.Header().Set("Content-Type", contentType+"; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Write([]byte(body))
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// The "/" pattern also catches every otherwise-unmatched path.
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		notFound(w, "Page not found")
		return
	}
	s.serveArtifact(w, r, s.store.Current().InjectedMarkup, "text/html")
}

func (s *Server) handleStyle(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, s.store.Current().CSS, "text/css")
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, s.store.Current().Parsed.Script, "application/javascript")
}

func (s *Server) handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	w.WriteHeader(http.StatusNoContent)
}

func notFound(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	http.Error(w, msg, http.StatusNotFound)
}
