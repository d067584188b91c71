package host

import (
	"encoding/json"
	"net/http"
)

// registerRoutes wires the read-only introspection surface: a snapshot of
// a session's mode and a dump of its recorded event log, for a dashboard
// or the replay command to consume (spec.md §9, grounded on the
// teacher's inspector RoutesMap shape but as plain http.Handlers, since
// the JSONRPC server framework itself was not brought into this domain).
// The /metrics scrape endpoint is registered separately by NewServer,
// since it serves the whole process rather than one session.
func registerRoutes(mux *http.ServeMux, mgr *Manager) {
	mux.HandleFunc("GET /sessions/{id}/state", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mgr.Get(r.PathValue("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, struct {
			Mode Mode `json:"mode"`
		}{Mode: sess.Mode()})
	})

	mux.HandleFunc("GET /sessions/{id}/events", func(w http.ResponseWriter, r *http.Request) {
		sess, ok := mgr.Get(r.PathValue("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, sess.Entries())
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
