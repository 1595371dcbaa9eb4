package handlers

import (
	"log"
	"net/http"
)

func MarkThreadRead(w http.ResponseWriter, r *http.Request) {
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

	if err := readService.MarkThreadRead(ctx, threadID, currentUserID); err != nil {
		log.Printf("Error marking thread %d read for user %d: %v", threadID, currentUserID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Thread marked as read",
	})
}
