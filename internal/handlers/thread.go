package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"SwapMarket/server/internal/models"
)

func CreateThread(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentUserID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		OtherParticipantIDs []int   `json:"other_participant_ids"`
		Title               *string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	thread, err := threadService.CreateThread(ctx, currentUserID, req.OtherParticipantIDs, req.Title)
	if err != nil {
		log.Printf("Error creating thread for user %d: %v", currentUserID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, thread)
}

func ListThreads(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	currentUserID, ok := currentUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	filter := r.URL.Query().Get("filter")
	summaries, err := threadService.ListThreads(ctx, currentUserID, filter)
	if err != nil {
		log.Printf("Error listing threads for user %d: %v", currentUserID, err)
		respondError(w, err)
		return
	}
	if summaries == nil {
		summaries = []models.ThreadSummary{}
	}

	respondJSON(w, http.StatusOK, summaries)
}

func GetThread(w http.ResponseWriter, r *http.Request) {
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

	thread, err := threadService.GetThread(ctx, threadID, currentUserID)
	if err != nil {
		log.Printf("Error getting thread %d for user %d: %v", threadID, currentUserID, err)
		respondError(w, err)
		return
	}

	participants, err := rosterService.ListParticipants(ctx, threadID)
	if err != nil {
		log.Printf("Error getting participants for thread %d: %v", threadID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"thread":       thread,
		"participants": participants,
	})
}

func ArchiveThread(w http.ResponseWriter, r *http.Request) {
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

	if err := threadService.ArchiveThread(ctx, threadID, currentUserID); err != nil {
		log.Printf("Error archiving thread %d by user %d: %v", threadID, currentUserID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Thread archived successfully",
	})
}

func LinkExternalMatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := currentUserID(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	threadID, err := threadIDParam(r)
	if err != nil {
		http.Error(w, "Invalid thread ID", http.StatusBadRequest)
		return
	}

	var ref models.MatchRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil {
		log.Printf("Error decoding request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := threadService.LinkExternalMatch(ctx, threadID, ref); err != nil {
		log.Printf("Error linking match %s to thread %d: %v", ref.MatchID, threadID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Match reference linked successfully",
	})
}
