package telegramruntime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	telegramruntime "peerwatch/internal/telegram/runtime"
)

func TestWaitRandomTimeMsRespectsContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	telegramruntime.WaitRandomTimeMs(ctx, 5000, 6000)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitRandomTimeMsWindow(t *testing.T) {
	t.Parallel()

	start := time.Now()
	telegramruntime.WaitRandomTimeMs(context.Background(), 20, 20)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	start = time.Now()
	telegramruntime.WaitRandomTimeMs(context.Background(), 50, 10)
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}
