package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumihub/lumi-gateway/internal/audio"
	"github.com/lumihub/lumi-gateway/internal/logging"
)

func TestSweepRespectsRetention(t *testing.T) {
	blobs := audio.NewStore()
	blobs.Put([]byte("fresh"), "audio/mpeg")

	j := NewJanitor(blobs, time.Hour, logging.WithComponent("janitor"))
	j.sweep()

	assert.Equal(t, 1, blobs.Len(), "fresh blobs survive the sweep")
}

func TestSweepDisabledWithoutRetention(t *testing.T) {
	blobs := audio.NewStore()
	blobs.Put([]byte("kept"), "audio/mpeg")

	j := NewJanitor(blobs, 0, logging.WithComponent("janitor"))
	j.sweep()

	assert.Equal(t, 1, blobs.Len(), "zero retention keeps blobs forever")
}
