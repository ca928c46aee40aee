package tasks

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunner_RunsDetached(t *testing.T) {
	runner := NewRunner(testLogger())

	var ran atomic.Bool
	runner.Go("test", func(context.Context) {
		ran.Store(true)
	})

	assert.True(t, runner.Wait(time.Second))
	assert.True(t, ran.Load())
}

func TestRunner_PanicIsCaptured(t *testing.T) {
	runner := NewRunner(testLogger())

	runner.Go("explosive", func(context.Context) {
		panic("boom")
	})

	// The panic must stay inside the runner.
	assert.True(t, runner.Wait(time.Second))
}

func TestRunner_NilTaskIgnored(t *testing.T) {
	runner := NewRunner(testLogger())
	runner.Go("noop", nil)

	assert.True(t, runner.Wait(time.Second))
}

func TestRunner_ShutdownTimesOut(t *testing.T) {
	runner := NewRunner(testLogger())

	release := make(chan struct{})
	runner.Go("slow", func(context.Context) {
		<-release
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.Error(t, runner.Shutdown(ctx))
	close(release)
}
