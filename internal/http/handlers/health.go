package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if a.Describer == nil || a.Relay == nil {
		status["status"] = "degraded"
	}
	a.json(w, http.StatusOK, status)
}
