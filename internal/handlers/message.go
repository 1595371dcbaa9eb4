package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"SwapMarket/server/internal/models"
)

func SendMessage(w http.ResponseWriter, r *http.Request) {
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

	var req struct {
		Content string `json:"content"`
		AsAdmin bool   `json:"as_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding request body: %v", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// A global administrator sending as admin joins the thread first;
	// JoinAsAdmin is idempotent so repeated sends are unaffected.
	if req.AsAdmin {
		if err := escalationService.JoinAsAdmin(ctx, threadID, currentUserID); err != nil {
			if errors.Is(err, models.ErrPermissionDenied) {
				err = fmt.Errorf("%w: admin role required to send as admin", models.ErrUnauthorized)
			}
			log.Printf("Error joining thread %d as admin %d: %v", threadID, currentUserID, err)
			respondError(w, err)
			return
		}
	}

	msg, err := messageService.SendMessage(ctx, threadID, currentUserID, req.Content, req.AsAdmin)
	if err != nil {
		log.Printf("Error sending message to thread %d by user %d: %v", threadID, currentUserID, err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, msg)
}

func ListMessages(w http.ResponseWriter, r *http.Request) {
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

	messages, err := messageService.ListMessages(ctx, threadID, currentUserID)
	if err != nil {
		log.Printf("Error listing messages in thread %d for user %d: %v", threadID, currentUserID, err)
		respondError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}

	respondJSON(w, http.StatusOK, messages)
}
