package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Janitor periodically prunes idle planner sessions so abandoned browsers
// do not pin memory (and session subscriptions) forever.
type Janitor struct {
	cron     *cron.Cron
	registry *PlannerRegistry
	idleFor  time.Duration
	log      *slog.Logger
}

// NewJanitor constructs a Janitor that prunes sessions idle for idleFor.
// The sweep runs every five minutes regardless of idleFor.
func NewJanitor(registry *PlannerRegistry, idleFor time.Duration, log *slog.Logger) *Janitor {
	return &Janitor{
		cron:     cron.New(),
		registry: registry,
		idleFor:  idleFor,
		log:      log,
	}
}

// Start registers the sweep job and starts the scheduler.
func (j *Janitor) Start() error {
	_, err := j.cron.AddFunc("@every 5m", j.sweep)
	if err != nil {
		return fmt.Errorf("service.Janitor.Start: cron.AddFunc: %w", err)
	}
	j.cron.Start()
	j.log.Info("planner janitor started", "idle_for", j.idleFor.String())
	return nil
}

// Stop shuts the scheduler down. A sweep already in flight completes.
func (j *Janitor) Stop() {
	j.cron.Stop()
	j.log.Info("planner janitor stopped")
}

func (j *Janitor) sweep() {
	if n := j.registry.PruneIdle(j.idleFor); n > 0 {
		j.log.Info("pruned idle planner sessions", "count", n)
	}
}
