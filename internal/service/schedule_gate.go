// internal/service/schedule_gate.go
package service

import (
	"time"

	"github.com/pkg/errors"
)

type GateState int

const (
	GateImmediate GateState = iota
	GatePending
	GateArmed
)

func (s GateState) String() string {
	switch s {
	case GateImmediate:
		return "immediate"
	case GatePending:
		return "pending"
	case GateArmed:
		return "armed"
	}
	return "unknown"
}

// ScheduleGate defers a batch until a target wall-clock time. The gate is
// advisory: it never blocks; the caller re-evaluates until it reports Armed.
type ScheduleGate struct {
	requested    bool
	hour, minute int

	target   time.Time
	computed bool
	armed    bool
}

// NewScheduleGate builds a gate for a wall-clock time formatted "15:04".
// An empty string means no scheduling: the gate arms on first evaluation.
func NewScheduleGate(at string) (*ScheduleGate, error) {
	if at == "" {
		return &ScheduleGate{}, nil
	}
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid schedule time %q", at)
	}
	return &ScheduleGate{requested: true, hour: t.Hour(), minute: t.Minute()}, nil
}

// Scheduled reports whether a target time was requested at all.
func (g *ScheduleGate) Scheduled() bool { return g.requested }

// Target returns the computed target time; zero until the first evaluation.
func (g *ScheduleGate) Target() time.Time { return g.target }

// Evaluate checks the gate against now. On the first evaluation the target
// is fixed as today at the requested time, rolled forward one day if that
// moment already passed; it is never recomputed afterwards. Once Armed the
// gate stays Armed. For a Pending gate the remaining duration is returned.
func (g *ScheduleGate) Evaluate(now time.Time) (GateState, time.Duration) {
	if !g.requested {
		g.armed = true
		return GateArmed, 0
	}
	if g.armed {
		return GateArmed, 0
	}
	if !g.computed {
		g.target = time.Date(now.Year(), now.Month(), now.Day(), g.hour, g.minute, 0, 0, now.Location())
		if g.target.Before(now) {
			g.target = g.target.Add(24 * time.Hour)
		}
		g.computed = true
	}
	if now.Before(g.target) {
		return GatePending, g.target.Sub(now)
	}
	g.armed = true
	return GateArmed, 0
}
