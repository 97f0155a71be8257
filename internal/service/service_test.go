package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dogclock/api/internal/clock"
	"github.com/dogclock/api/internal/memstore"
)

var epoch = time.Date(2025, 3, 4, 14, 3, 25, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFixture(t *testing.T) (*memstore.Store, *clock.Mock) {
	t.Helper()
	return memstore.New(), clock.NewMock(epoch)
}
