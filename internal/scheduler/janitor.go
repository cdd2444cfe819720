package scheduler

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lumihub/lumi-gateway/internal/audio"
	"github.com/lumihub/lumi-gateway/internal/metrics"
)

// Janitor periodically drops synthesized audio blobs that outlived the
// configured retention. Without it the blob store grows for the process
// lifetime, which is the original behavior when retention is unset.
type Janitor struct {
	cron      *cron.Cron
	blobs     *audio.Store
	retention time.Duration
	logger    *slog.Logger
}

// NewJanitor creates a janitor sweeping the blob store every few minutes.
func NewJanitor(blobs *audio.Store, retention time.Duration, logger *slog.Logger) *Janitor {
	j := &Janitor{
		cron:      cron.New(),
		blobs:     blobs,
		retention: retention,
		logger:    logger,
	}
	j.cron.AddFunc("@every 5m", j.sweep)
	return j
}

// Start starts the janitor
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop stops the janitor and waits for a running sweep to finish
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *Janitor) sweep() {
	if j.retention <= 0 {
		return
	}
	removed := j.blobs.SweepOlderThan(time.Now().Add(-j.retention))
	metrics.AudioBlobs.Set(float64(j.blobs.Len()))
	if removed > 0 {
		j.logger.Info("swept expired audio blobs", "removed", removed, "remaining", j.blobs.Len())
	}
}
