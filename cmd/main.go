package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"SwapMarket/server/internal/appMiddleware"
	"SwapMarket/server/internal/db"
	"SwapMarket/server/internal/handlers"
	"SwapMarket/server/internal/notify"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	db.InitDB()
	notify.InitQueue()

	r := chi.NewRouter()

	r.Use(appMiddleware.CorsMiddleware)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handlers.Healthz)

	r.Group(func(r chi.Router) {
		r.Use(appMiddleware.AuthMiddleware)

		r.Post("/api/threads", handlers.CreateThread)
		r.Get("/api/threads", handlers.ListThreads)
		r.Get("/api/threads/{thread_id}", handlers.GetThread)
		r.Post("/api/threads/{thread_id}/archive", handlers.ArchiveThread)
		r.Put("/api/threads/{thread_id}/match", handlers.LinkExternalMatch)
		r.Post("/api/threads/{thread_id}/messages", handlers.SendMessage)
		r.Get("/api/threads/{thread_id}/messages", handlers.ListMessages)
		r.Post("/api/threads/{thread_id}/read", handlers.MarkThreadRead)
		r.Post("/api/threads/{thread_id}/admin/join", handlers.JoinAsAdmin)
		r.Post("/api/threads/{thread_id}/admin/leave", handlers.LeaveThread)
	})

	r.Get("/ws", handlers.WebSocketHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server started on port %s\n", port)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %s\n", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Stopping the server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %s\n", err)
	}
	log.Println("Server has been successfully stopped")
}
