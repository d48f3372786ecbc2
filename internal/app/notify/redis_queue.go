package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spesuez/recruitment/internal/pkg/email"
	"github.com/spesuez/recruitment/internal/pkg/logger"
)

// confirmationQueueKey is the Redis list the dispatcher pushes to and
// the worker pops from.
const confirmationQueueKey = "recruitment:confirmation_emails"

// popTimeout bounds each BLPOP so the worker can notice shutdown.
const popTimeout = 5 * time.Second

// RedisDispatcher queues confirmation messages onto a Redis list.
type RedisDispatcher struct {
	client *redis.Client
}

// NewRedisDispatcher creates a dispatcher over an existing Redis client.
func NewRedisDispatcher(client *redis.Client) *RedisDispatcher {
	return &RedisDispatcher{client: client}
}

// DispatchConfirmation pushes the message onto the queue.
func (d *RedisDispatcher) DispatchConfirmation(ctx context.Context, msg ConfirmationMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation message: %w", err)
	}
	if err := d.client.RPush(ctx, confirmationQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue confirmation message: %w", err)
	}
	logger.Debug().Int64("applicationID", msg.ApplicationID).Msg("Confirmation email enqueued")
	return nil
}

// Worker drains the confirmation queue and sends emails. Failed sends
// are re-queued with a growing delay until the attempts run out.
type Worker struct {
	client  *redis.Client
	service email.EmailService
}

// NewWorker creates a confirmation email worker.
func NewWorker(client *redis.Client, service email.EmailService) *Worker {
	return &Worker{client: client, service: service}
}

// Run processes messages until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	logger.Info().Msg("Confirmation email worker started")
	for {
		result, err := w.client.BLPop(ctx, popTimeout, confirmationQueueKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				logger.Info().Msg("Confirmation email worker stopped")
				return
			}
			if errors.Is(err, redis.Nil) {
				continue
			}
			logger.Error().Err(err).Msg("Error polling confirmation queue")
			select {
			case <-ctx.Done():
				return
			case <-time.After(popTimeout):
			}
			continue
		}

		var msg ConfirmationMessage
		if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
			logger.Error().Err(err).Msg("Dropping malformed confirmation message")
			continue
		}

		w.process(ctx, msg)
	}
}

func (w *Worker) process(ctx context.Context, msg ConfirmationMessage) {
	if err := w.service.SendApplicationConfirmation(msg.Summary); err == nil {
		logger.Info().Int64("applicationID", msg.ApplicationID).Int("attempt", msg.Attempt+1).Msg("Confirmation email sent")
		return
	} else if msg.Attempt >= len(backoffSchedule) {
		logger.Error().Err(err).Int64("applicationID", msg.ApplicationID).Int("attempt", msg.Attempt+1).Msg("Confirmation email given up")
		return
	} else {
		delay := backoffSchedule[msg.Attempt]
		logger.Warn().Err(err).Int64("applicationID", msg.ApplicationID).Int("attempt", msg.Attempt+1).Dur("retryIn", delay).Msg("Confirmation email failed, will retry")

		msg.Attempt++
		go w.requeueAfter(ctx, msg, delay)
	}
}

func (w *Worker) requeueAfter(ctx context.Context, msg ConfirmationMessage, delay time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", msg.ApplicationID).Msg("Failed to re-queue confirmation message")
		return
	}
	if err := w.client.RPush(ctx, confirmationQueueKey, payload).Err(); err != nil {
		logger.Error().Err(err).Int64("applicationID", msg.ApplicationID).Msg("Failed to re-queue confirmation message")
	}
}
