package health

import (
	"context"
	"time"

	"github.com/avdeev21/accounts/pkg/clock"
)

// Checker represents a dependency health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// Report is a point-in-time view of the service and its dependencies.
// Dependencies maps checker name to a status string ("connected", "ok" or
// "error: ..."); probe failures never escape as errors.
type Report struct {
	Status       string
	Message      string
	Dependencies map[string]string
	Timestamp    time.Time
}

// StatusUseCase describes the health probe.
type StatusUseCase interface {
	Status(ctx context.Context) Report
}

type service struct {
	critical []Checker
	soft     []Checker
	clock    clock.Clock
}

// NewService aggregates dependency checkers. A failing critical checker
// degrades the whole report to an error; soft checkers only mark their own
// entry.
func NewService(clk clock.Clock, critical []Checker, soft []Checker) StatusUseCase {
	return &service{critical: critical, soft: soft, clock: clk}
}

func (s *service) Status(ctx context.Context) Report {
	rep := Report{
		Status:       "ok",
		Dependencies: make(map[string]string),
		Timestamp:    s.clock.Now(),
	}

	for _, ch := range s.critical {
		if err := ch.Check(ctx); err != nil {
			rep.Status = "error"
			rep.Message = ch.Name() + ": " + err.Error()
			return rep
		}
		rep.Dependencies[ch.Name()] = "connected"
	}
	for _, ch := range s.soft {
		if err := ch.Check(ctx); err != nil {
			rep.Dependencies[ch.Name()] = "error: " + err.Error()
			continue
		}
		rep.Dependencies[ch.Name()] = "ok"
	}
	return rep
}
