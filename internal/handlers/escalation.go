package handlers

import (
	"log"
	"net/http"
)

func JoinAsAdmin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentUserID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadID, err := threadIDParam(r)
	if err != nil {
		http.Error(w, "Invalid thread ID", http.StatusBadRequest)
		return
	}

	if err := escalationService.JoinAsAdmin(ctx, threadID, currentUserID); err != nil {
		log.Printf("Error joining thread %d as admin %d: %v", threadID, currentUserID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Joined thread as administrator",
	})
}

func LeaveThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentUserID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadID, err := threadIDParam(r)
	if err != nil {
		http.Error(w, "Invalid thread ID", http.StatusBadRequest)
		return
	}

	if err := escalationService.LeaveAsAdmin(ctx, threadID, currentUserID); err != nil {
		log.Printf("Error leaving thread %d by admin %d: %v", threadID, currentUserID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Left thread",
	})
}
