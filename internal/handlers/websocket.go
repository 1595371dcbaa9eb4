package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"

	"SwapMarket/server/internal/appMiddleware"
	"SwapMarket/server/internal/pool"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return appMiddleware.JWTSecret(), nil
	})
	if err != nil || !token.Valid {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}
	userID := int(claims["user_id"].(float64))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}
	defer conn.Close()

	clientPool := pool.GlobalPool
	clientPool.AddClient(userID, conn)
	defer clientPool.RemoveClient(userID)

	log.Printf("User %d connected to WebSocket", userID)

	for {
		var msg struct {
			Event    string `json:"event"`
			ThreadID int    `json:"thread_id"`
			Content  string `json:"content"`
			AsAdmin  bool   `json:"as_admin"`
		}

		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		switch msg.Event {
		case "send_message":
			message, err := messageService.SendMessage(r.Context(), msg.ThreadID, userID, msg.Content, msg.AsAdmin)
			if err != nil {
				log.Printf("Error sending message to thread %d by user %d: %v", msg.ThreadID, userID, err)
				continue
			}
			log.Printf("Message %d sent to thread %d by user %d", message.ID, msg.ThreadID, userID)

		case "mark_read":
			if err := readService.MarkThreadRead(r.Context(), msg.ThreadID, userID); err != nil {
				log.Printf("Error marking thread %d read for user %d: %v", msg.ThreadID, userID, err)
			}

		default:
			log.Printf("Unknown event %q from user %d", msg.Event, userID)
		}
	}
}
