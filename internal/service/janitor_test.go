package service_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tbellamy/wayfarer/backend/internal/service"
)

func TestJanitor_StartStop(t *testing.T) {
	registry, _ := newRegistry(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	j := service.NewJanitor(registry, 30*time.Minute, log)

	require.NoError(t, j.Start())
	j.Stop()
}
