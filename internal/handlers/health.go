package handlers

import (
	"log"
	"net/http"

	"SwapMarket/server/internal/db"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	if err := db.Ping(r.Context()); err != nil {
		log.Printf("Health check failed: %v", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
