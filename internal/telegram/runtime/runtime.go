// Package telegramruntime — паузы между запросами к API со случайной
// длительностью, прерываемые отменой контекста.
package telegramruntime

import (
	"context"
	"math/rand/v2"
	"time"

	"peerwatch/internal/infra/logger"
)

const (
	defaultWaitMinMs = 1111
	defaultWaitMaxMs = 3333
)

// WaitRandomTimeMs ждёт случайный интервал из [minMs, maxMs) или до ctx.Done().
// Нули с обеих сторон — окно по умолчанию; некорректные границы — без ожидания.
func WaitRandomTimeMs(ctx context.Context, minMs, maxMs int) {
	switch {
	case minMs == 0 && maxMs == 0:
		minMs, maxMs = defaultWaitMinMs, defaultWaitMaxMs
	case minMs <= 0:
		logger.Error("WaitRandomTimeMs: wait time <= 0")
		return
	case maxMs < minMs:
		logger.Error("WaitRandomTimeMs: max < min")
		return
	}

	delta := maxMs
	if maxMs > minMs {
		delta = rand.IntN(maxMs-minMs) + minMs // #nosec G404
	}

	timer := time.NewTimer(time.Duration(delta) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
