package logging_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicossoftware/go-rifx/logging"
)

func TestLoggerDefaultsToDiscard(t *testing.T) {
	old := logging.Logger()
	defer logging.SetLogger(old)

	logging.SetLogger(nil)
	l := logging.Logger()
	require.NotNil(t, l)
	assert.Equal(t, slog.DiscardHandler, l.Handler())
}

func TestSetLogger(t *testing.T) {
	old := logging.Logger()
	defer logging.SetLogger(old)

	var buf bytes.Buffer
	logging.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	logging.Logger().Debug("inline segment missing", slog.Int("id", 7))

	assert.Contains(t, buf.String(), "inline segment missing")
	assert.Contains(t, buf.String(), "id=7")
}

func TestLoggerConcurrentAccess(t *testing.T) {
	old := logging.Logger()
	defer logging.SetLogger(old)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				logging.SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
				return
			}
			assert.NotNil(t, logging.Logger())
		}(i)
	}
	wg.Wait()
}
