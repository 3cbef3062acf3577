package cos

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically aborts multipart uploads that were never completed,
// e.g. because the process died between the first and last part.
type Janitor struct {
	client   *Client
	prefix   string
	maxAge   time.Duration
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
	now      func() time.Time
}

// NewJanitor returns a janitor for the uploads under the service's root directory.
func NewJanitor(log *slog.Logger, svc *Service, schedule string, maxAge time.Duration) *Janitor {
	if log == nil {
		log = slog.Default()
	}
	prefix := svc.Keys().Root()
	if prefix != "" {
		prefix += "/"
	}
	return &Janitor{
		client:   svc.Client(),
		prefix:   prefix,
		maxAge:   maxAge,
		schedule: schedule,
		cron:     cron.New(),
		logger:   log.With(slog.String("service", "cos-janitor")),
		now:      time.Now,
	}
}

// Start schedules RunOnce. An empty schedule leaves the janitor idle.
func (j *Janitor) Start() error {
	if j.schedule == "" {
		j.logger.Info("janitor disabled")
		return nil
	}
	if _, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(context.Background()); err != nil {
			j.logger.Error("janitor run failed", slog.Any("error", err))
		}
	}); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.schedule, err)
	}
	j.cron.Start()
	j.logger.Info("janitor scheduled", slog.String("schedule", j.schedule), slog.Duration("max_age", j.maxAge))
	return nil
}

// Stop halts scheduling and waits for a running cleanup to finish or ctx to end.
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce aborts every stale upload and returns how many were aborted.
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	uploads, err := j.client.ListIncompleteUploads(ctx, j.prefix)
	if err != nil {
		return 0, err
	}
	cutoff := j.now().Add(-j.maxAge)
	aborted := 0
	for _, u := range uploads {
		if u.Initiated.After(cutoff) {
			continue
		}
		if err := j.client.AbortMultipartUpload(ctx, u.Key, u.UploadID); err != nil {
			j.logger.Warn("abort stale upload failed",
				slog.String("key", u.Key), slog.String("upload_id", u.UploadID), slog.Any("error", err))
			continue
		}
		aborted++
		j.logger.Info("aborted stale upload",
			slog.String("key", u.Key), slog.String("upload_id", u.UploadID), slog.Time("initiated", u.Initiated))
	}
	return aborted, nil
}
