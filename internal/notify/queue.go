package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"SwapMarket/server/internal/models"

	"github.com/hibiken/asynq"
	"github.com/sethvargo/go-retry"
)

// TaskTypePrefix namespaces notification tasks on the shared queue; the
// delivery workers (push, email digests) register handlers per event type.
const TaskTypePrefix = "notify:"

var queueClient *asynq.Client

// InitQueue connects the asynq client. Without REDIS_URL the queue half of
// the bridge is disabled and events only reach connected websocket clients.
func InitQueue() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Println("REDIS_URL is not set, notification queue disabled")
		return
	}
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		log.Printf("Invalid REDIS_URL, notification queue disabled: %v", err)
		return
	}
	queueClient = asynq.NewClient(opt)
	log.Println("Notification queue connected")
}

func enqueue(ctx context.Context, event Event) error {
	if queueClient == nil {
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TaskTypePrefix+event.Type, payload)

	backoff := retry.WithMaxRetries(2, retry.NewConstant(100*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := queueClient.EnqueueContext(ctx, task,
			asynq.Queue("notifications"),
			asynq.MaxRetry(5),
			asynq.Retention(24*time.Hour))
		if err != nil {
			return retry.RetryableError(fmt.Errorf("%w: enqueue %s: %v", models.ErrUpstream, event.Type, err))
		}
		return nil
	})
}
