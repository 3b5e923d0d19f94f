package handlers

import "net/http"

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Version reports the build version.
func (h *Handlers) VersionInfo(w http.ResponseWriter, r *http.Request) {
	v := h.Version
	if v == "" {
		v = "dev"
	}
	writeJSON(w, http.StatusOK, map[string]string{"version": v})
}
