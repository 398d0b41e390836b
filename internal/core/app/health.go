package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if s.app.Parser != nil {
		status.Components["parser"] = "ok"
	} else {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	}

	// The resolution config is loaded lazily, so pending is still healthy.
	if r := s.app.loadedResolver(); r != nil {
		cfg := r.Config()
		status.Components["resolution_config"] = fmt.Sprintf("ok (%d aliases, %d module dirs)", len(cfg.Aliases), len(cfg.ModuleDirs))
	} else {
		status.Components["resolution_config"] = "pending"
	}

	if s.app.loadedWatcher() != nil {
		status.Components["watcher"] = "running"
	}

	return status
}
