package service

import (
	"context"
	"testing"
	"time"

	"co_monitoring/internal/config"
	"co_monitoring/internal/models"
)

// sinkStub collects appended readings.
type sinkStub struct {
	readings []models.TelemetryReading
	err      error
}

func (s *sinkStub) Append(_ context.Context, r models.TelemetryReading) error {
	s.readings = append(s.readings, r)
	return s.err
}

func TestSimulator_GeneratesOneReadingPerTent(t *testing.T) {
	sim := NewSimulatorService(&sinkStub{}, config.Simulator{
		Tents:      []string{"a", "b", "c"},
		DangerTent: "a",
	}, nil)

	now := time.Unix(1700000000, 0).UTC()
	out := sim.generate(now)
	if len(out) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(out))
	}
	for _, r := range out {
		if r.Timestamp != now.Unix() {
			t.Fatalf("timestamp: want %d, got %d", now.Unix(), r.Timestamp)
		}
		if r.TemperatureC < tempMinC || r.TemperatureC > tempMaxC {
			t.Fatalf("temperature out of range: %+v", r)
		}
		if r.HumidityPct < humidityMinPct || r.HumidityPct > humidityMaxPct {
			t.Fatalf("humidity out of range: %+v", r)
		}
	}
}

func TestSimulator_DangerTentEscalates(t *testing.T) {
	sim := NewSimulatorService(&sinkStub{}, config.Simulator{
		Tents:      []string{"danger", "safe"},
		DangerTent: "danger",
	}, nil)
	sim.step = dangerousAtStep + 1 // inside the danger phase of the cycle

	out := sim.generate(time.Unix(1700000000, 0).UTC())
	for _, r := range out {
		switch r.TentID {
		case "danger":
			if r.COPpm < warnCOMaxPpm || r.COPpm > dangerCOMaxPpm {
				t.Fatalf("danger tent CO out of danger band: %+v", r)
			}
		case "safe":
			if r.COPpm < safeCOMinPpm || r.COPpm > safeCOMaxPpm {
				t.Fatalf("safe tent CO out of safe band: %+v", r)
			}
		}
	}
}

func TestSimulator_SafePhaseForAllTents(t *testing.T) {
	sim := NewSimulatorService(&sinkStub{}, config.Simulator{}, nil)
	// steps before the elevated phase keep every tent in the safe band
	for i := 0; i <= elevatedAtStep; i++ {
		for _, r := range sim.generate(time.Unix(1700000000, 0).UTC()) {
			if r.COPpm < safeCOMinPpm || r.COPpm > safeCOMaxPpm {
				t.Fatalf("step %d: CO out of safe band: %+v", i, r)
			}
		}
	}
}

func TestSimulator_DefaultsApplied(t *testing.T) {
	sim := NewSimulatorService(&sinkStub{}, config.Simulator{}, nil)
	if len(sim.tents) != len(defaultTents) {
		t.Fatalf("default tents not applied: %v", sim.tents)
	}
	if sim.dangerTent != defaultTents[0] {
		t.Fatalf("default danger tent: %q", sim.dangerTent)
	}
}
