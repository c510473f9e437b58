package service

import (
	"context"
	"math/rand"
	"time"

	"co_monitoring/internal/config"
	"co_monitoring/internal/logger"
	"co_monitoring/internal/models"
	"co_monitoring/internal/storage"
)

// ----------- Simulation constants -----------
const (
	safeCOMinPpm   = 3.0   // baseline CO floor
	safeCOMaxPpm   = 8.0   // baseline CO ceiling
	warnCOMaxPpm   = 120.0 // elevated phase ceiling for the danger tent
	dangerCOMaxPpm = 130.5 // danger phase ceiling for the danger tent

	tempMinC       = 20.0
	tempMaxC       = 32.0
	humidityMinPct = 30.0
	humidityMaxPct = 60.0

	// The danger tent walks through safe → elevated → danger and wraps.
	cycleSteps      = 50
	elevatedAtStep  = 30
	dangerousAtStep = 40
)

// Default tents, matching the demo dataset's device identifiers.
var defaultTents = []string{"b8:27:eb:bf:9d:51", "00:0f:00:70:91:0a", "1c:bf:ce:15:ec:4d"}

// SimulatorService feeds synthetic readings into the pipeline so the
// dashboard has something to chart; one designated tent escalates toward the
// danger ceiling so the alert path gets exercised too.
type SimulatorService struct {
	sink       storage.ReadingSink
	tents      []string
	dangerTent string
	log        *logger.Logger
	rnd        *rand.Rand
	step       int
}

func NewSimulatorService(sink storage.ReadingSink, cfg config.Simulator, log *logger.Logger) *SimulatorService {
	tents := cfg.Tents
	if len(tents) == 0 {
		tents = defaultTents
	}
	danger := cfg.DangerTent
	if danger == "" {
		danger = tents[0]
	}
	return &SimulatorService{
		sink:       sink,
		tents:      tents,
		dangerTent: danger,
		log:        log,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			for _, r := range s.generate(now.UTC()) {
				if err := s.sink.Append(ctx, r); err != nil {
					if s.log != nil {
						s.log.Warnw("simulator append failed", "tent", r.TentID, "err", err)
					}
				}
			}
		}
	}
}

// generate produces one reading per tent and advances the cycle.
func (s *SimulatorService) generate(now time.Time) []models.TelemetryReading {
	phase := s.step % cycleSteps
	s.step++

	out := make([]models.TelemetryReading, 0, len(s.tents))
	for _, tent := range s.tents {
		out = append(out, models.TelemetryReading{
			TentID:       tent,
			Timestamp:    now.Unix(),
			TemperatureC: s.uniform(tempMinC, tempMaxC),
			HumidityPct:  s.uniform(humidityMinPct, humidityMaxPct),
			COPpm:        s.coLevel(tent, phase),
		})
	}
	return out
}

func (s *SimulatorService) coLevel(tent string, phase int) float64 {
	if tent == s.dangerTent {
		switch {
		case phase > dangerousAtStep:
			return s.uniform(warnCOMaxPpm, dangerCOMaxPpm)
		case phase > elevatedAtStep:
			return s.uniform(safeCOMaxPpm*10, warnCOMaxPpm)
		}
	}
	return s.uniform(safeCOMinPpm, safeCOMaxPpm)
}

func (s *SimulatorService) uniform(lo, hi float64) float64 {
	return lo + s.rnd.Float64()*(hi-lo)
}
