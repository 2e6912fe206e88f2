package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hymn-fly/pm-po-newsletter/internal/domain"
	"github.com/hymn-fly/pm-po-newsletter/internal/pkg/logger"
	"go.uber.org/zap"
)

// RunSummary reports what one pass over the subscribers did.
type RunSummary struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Total     int           `json:"total"`
	Sent      int           `json:"sent"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
}

// Job is the progress advancement job.
type Job struct {
	store Store
	email EmailClient
	log   *zap.Logger
	loc   *time.Location
	now   func() time.Time
}

// NewJob creates a job. loc is the time zone the cadence day is evaluated
// in; nil means UTC.
func NewJob(store Store, email EmailClient, log *zap.Logger, loc *time.Location) *Job {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Job{
		store: store,
		email: email,
		log:   log,
		loc:   loc,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the job's clock.
func (j *Job) SetClock(now func() time.Time) { j.now = now }

// Run makes one pass over all subscribers. The returned error is non-nil
// only if listing fails or ctx is cancelled mid-run; per-subscriber
// failures are logged and counted in the summary.
func (j *Job) Run(ctx context.Context) (RunSummary, error) {
	now := j.now()
	summary := RunSummary{RunID: uuid.New().String(), StartedAt: now}
	log := j.log.With(zap.String("run_id", summary.RunID))

	subs, err := j.store.ListAll(ctx)
	if err != nil {
		return summary, fmt.Errorf("list subscribers: %w", err)
	}
	summary.Total = len(subs)

	if len(subs) == 0 {
		log.Info("no subscriptions to process")
		return summary, nil
	}

	today := now.In(j.loc).Weekday()
	log.Info("progress run started",
		zap.Int("subscribers", len(subs)),
		zap.Stringer("weekday", today),
	)

	for _, sub := range subs {
		if err := ctx.Err(); err != nil {
			log.Warn("progress run interrupted", zap.Error(err))
			summary.Duration = j.now().Sub(now)
			return summary, err
		}

		decision := Classify(sub, today)
		if !decision.Sendable() {
			summary.Skipped++
			continue
		}

		fields := []zap.Field{
			zap.Int64("subscriber_id", sub.ID),
			logger.Email("email", sub.Email),
			zap.Int("day", sub.ProgressDay),
			zap.Stringer("decision", decision),
		}

		if err := j.advance(ctx, sub, now); err != nil {
			summary.Failed++
			log.Error("course email failed", append(fields, zap.Error(err))...)
			continue
		}

		summary.Sent++
		log.Info("course email sent", fields...)
	}

	summary.Duration = j.now().Sub(now)
	log.Info("progress run finished",
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("duration", summary.Duration),
	)
	return summary, nil
}

// advance sends the email for sub's current day and records the next day.
// Progress is only written after the provider accepted the trigger.
func (j *Job) advance(ctx context.Context, sub domain.Subscriber, now time.Time) error {
	mapping, err := j.email.LookupTrigger(ctx, sub.ProgressDay)
	if err != nil {
		return err
	}

	if err := j.email.Trigger(ctx, sub.Email, mapping); err != nil {
		return err
	}

	adv := domain.Advancement{
		ProgressDay: sub.ProgressDay + 1,
		LastSentAt:  now,
	}
	if sub.ProgressDay == domain.IntroCourseDays {
		adv.IntroCompletedAt = &now
	}

	if _, err := j.store.RecordSend(ctx, sub.ID, adv); err != nil {
		return fmt.Errorf("record send: %w", err)
	}
	return nil
}
