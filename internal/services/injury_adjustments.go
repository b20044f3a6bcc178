package services

import (
	"math"

	"github.com/courtsight/nba-dashboard/internal/engine"
)

// InjuryAdjustment is the upstream adjustment applied to one player's
// projection when teammates or opponents sit out: an expected minutes boost
// plus per-stat usage multipliers. The engine consumes it as input; the boost
// feeds the rescaling baseline so it is never scaled twice.
type InjuryAdjustment struct {
	MinutesBoost float64                 `json:"minutes_boost"`
	Multipliers  map[engine.Stat]float64 `json:"multipliers"`
}

// MinutesRedistribution estimates extra minutes a player picks up when
// teammates are out. Higher-minute players absorb proportionally more of the
// vacated minutes, with role-banded caps. Constants are empirically tuned;
// keep them as is.
func MinutesRedistribution(playerMinutes float64, teammatesOut []string, minutesByPlayer map[string]float64) float64 {
	if len(teammatesOut) == 0 {
		return 0
	}

	totalMinutesOut := 0.0
	for _, id := range teammatesOut {
		totalMinutesOut += minutesByPlayer[id]
	}
	if totalMinutesOut == 0 {
		return 0
	}

	var pct, maxBoost float64
	switch {
	case playerMinutes >= 32: // star
		pct, maxBoost = 0.18, 6
	case playerMinutes >= 28: // starter
		pct, maxBoost = 0.14, 5
	case playerMinutes >= 22: // rotation
		pct, maxBoost = 0.10, 5
	case playerMinutes >= 15: // bench
		pct, maxBoost = 0.08, 6
	default: // deep bench can see the biggest jumps
		pct, maxBoost = 0.05, 8
	}

	extra := math.Min(totalMinutesOut*pct, maxBoost)
	return math.Round(extra*10) / 10
}

// UsageBoost estimates the usage multiplier when high-usage teammates are
// out. Capped at 1.25.
func UsageBoost(teammatesOut []string, minutesByPlayer map[string]float64) float64 {
	if len(teammatesOut) == 0 {
		return 1.0
	}

	boost := 1.0
	for _, id := range teammatesOut {
		outMinutes := minutesByPlayer[id]
		switch {
		case outMinutes >= 34:
			boost += 0.08
		case outMinutes >= 30:
			boost += 0.05
		case outMinutes >= 25:
			boost += 0.03
		case outMinutes >= 18:
			boost += 0.01
		}
	}
	return math.Min(boost, 1.25)
}

// ComputeInjuryAdjustment combines the minutes boost and usage multipliers
// for one player given who is sitting out around them. Scoring stats take the
// full usage boost; rebounds and defensive stats move less.
func ComputeInjuryAdjustment(playerMinutes float64, teammatesOut []string, minutesByPlayer map[string]float64) InjuryAdjustment {
	adj := InjuryAdjustment{
		Multipliers: map[engine.Stat]float64{
			engine.StatPoints:     1.0,
			engine.StatRebounds:   1.0,
			engine.StatAssists:    1.0,
			engine.StatSteals:     1.0,
			engine.StatBlocks:     1.0,
			engine.StatTurnovers:  1.0,
			engine.StatThreesMade: 1.0,
			engine.StatFTMade:     1.0,
		},
	}
	if len(teammatesOut) == 0 {
		return adj
	}

	adj.MinutesBoost = MinutesRedistribution(playerMinutes, teammatesOut, minutesByPlayer)

	usage := UsageBoost(teammatesOut, minutesByPlayer)
	halfUsage := 1.0 + (usage-1.0)*0.5

	adj.Multipliers[engine.StatPoints] = usage
	adj.Multipliers[engine.StatThreesMade] = usage
	adj.Multipliers[engine.StatFTMade] = usage
	adj.Multipliers[engine.StatAssists] = halfUsage
	adj.Multipliers[engine.StatTurnovers] = halfUsage
	adj.Multipliers[engine.StatRebounds] = halfUsage

	return adj
}
