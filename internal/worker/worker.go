package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/campus-events/backend/internal/notifications"
	"github.com/campus-events/backend/internal/realtime"
	"github.com/campus-events/backend/pkg/queue"
)

// NotificationProcessor drains the notification queue: each job becomes a
// notification row plus a realtime push on the recipient's user topic.
type NotificationProcessor struct {
	jobs   *queue.Queue
	repo   *notifications.Repository
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewNotificationProcessor creates a processor.
func NewNotificationProcessor(jobs *queue.Queue, repo *notifications.Repository, hub *realtime.Hub, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{jobs: jobs, repo: repo, hub: hub, logger: logger}
}

// Run blocks draining the queue until ctx is cancelled. Failed jobs go back
// through the queue's retry path and eventually to the DLQ.
func (p *NotificationProcessor) Run(ctx context.Context) {
	p.logger.Info("notification worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, _, err := p.jobs.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}
		if err := p.process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.Error(err), zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
			if err := p.jobs.Retry(ctx, job); err != nil {
				p.logger.Error("retry failed", zap.Error(err), zap.String("job_id", job.ID))
			}
		}
	}
}

func (p *NotificationProcessor) process(ctx context.Context, job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeNotification:
		var payload queue.NotificationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			// malformed payloads are dropped, retrying cannot fix them
			p.logger.Warn("dropping malformed job", zap.String("job_id", job.ID), zap.Error(err))
			return nil
		}
		n, err := p.repo.Create(ctx, payload.UserID, payload.Kind, payload.Title, payload.Body)
		if err != nil {
			return err
		}
		if p.hub != nil {
			p.hub.Publish(realtime.UserTopic(payload.UserID), "notification", n)
		}
		p.logger.Info("notification dispatched",
			zap.String("job_id", job.ID),
			zap.String("user_id", payload.UserID.String()),
			zap.String("kind", payload.Kind))
		return nil
	default:
		p.logger.Warn("unknown job type", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		return nil
	}
}
