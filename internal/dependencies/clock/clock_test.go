package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowIsUTCAtStorePrecision(t *testing.T) {
	now := New().Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.Zero(t, now.Nanosecond()%int(Precision))
	assert.WithinDuration(t, time.Now(), now, time.Second)
}
