package srs

import (
	"math"
	"time"

	"wortschatz/internal/domain"
)

// Base review intervals in hours, keyed by the state the item lands in
// after the answer is applied.
var baseIntervalHours = map[domain.MemoryState]float64{
	domain.StateNew:      1,
	domain.StateLearning: 6,
	domain.StateWeak:     12,
	domain.StateStrong:   24,
	domain.StateMastered: 48,
}

// Strength deltas. Gains are tiered by response speed so fast recall is
// rewarded and slow guessing is not; a miss costs one sharp penalty.
const (
	gainFast   = 0.25 // answered in under 4s
	gainMedium = 0.15 // answered in under 8s
	gainSlow   = 0.05

	fastAnswerSeconds   = 4.0
	mediumAnswerSeconds = 8.0

	streakBonusPerAnswer = 0.03
	streakBonusCap       = 0.2
	streakBonusMinRun    = 3

	missPenalty = 0.4
)

// Interval multiplier bounds.
const (
	minMultiplier = 0.5
	maxMultiplier = 10.0
)

// ReviewResult is what Update reports back to the caller after one
// answered review.
type ReviewResult struct {
	NextReview         time.Time
	Strength           float64
	State              domain.MemoryState
	ConsecutiveCorrect int
}

// Engine is the memory model updater. Given an item and one observed
// answer it recomputes the item's strength, state and next due time.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Update applies one answered review to the item. It mutates the item's
// scheduling fields and returns the resulting snapshot. It never fails:
// out-of-range inputs are clamped rather than rejected.
func (e *Engine) Update(item *domain.ReviewItem, isCorrect bool, responseTime float64) ReviewResult {
	now := e.now().UTC()
	if responseTime < 0 {
		responseTime = 0
	}

	// Counters and running mean of response time.
	item.TotalReviews++
	if isCorrect {
		item.CorrectReviews++
		item.ConsecutiveCorrect++
	} else {
		item.ConsecutiveCorrect = 0
	}
	if item.TotalReviews == 1 {
		item.AvgResponseTime = responseTime
	} else {
		n := float64(item.TotalReviews)
		item.AvgResponseTime = (item.AvgResponseTime*(n-1) + responseTime) / n
	}

	// Strength delta. Never decreases on a correct answer.
	if isCorrect {
		var gain float64
		switch {
		case responseTime < fastAnswerSeconds:
			gain = gainFast
		case responseTime < mediumAnswerSeconds:
			gain = gainMedium
		default:
			gain = gainSlow
		}
		if item.ConsecutiveCorrect > streakBonusMinRun {
			gain += math.Min(streakBonusCap, float64(item.ConsecutiveCorrect)*streakBonusPerAnswer)
		}
		item.MemoryStrength = math.Min(1.0, item.MemoryStrength+gain)
	} else {
		item.MemoryStrength = math.Max(0.0, item.MemoryStrength-missPenalty)
	}

	// State is always re-derived from strength, never adjusted in place.
	item.MemoryState = domain.StateForStrength(item.MemoryStrength)

	item.NextReview = e.nextReview(now, item, isCorrect)
	last := now
	item.LastReviewed = &last

	return ReviewResult{
		NextReview:         item.NextReview,
		Strength:           item.MemoryStrength,
		State:              item.MemoryState,
		ConsecutiveCorrect: item.ConsecutiveCorrect,
	}
}

// nextReview computes the next due timestamp from the item's post-answer
// state. Streak, confidence and forgetting speed compound
// multiplicatively, clamped to [minMultiplier, maxMultiplier].
func (e *Engine) nextReview(now time.Time, item *domain.ReviewItem, isCorrect bool) time.Time {
	base, ok := baseIntervalHours[item.MemoryState]
	if !ok {
		base = 1
	}

	var multiplier float64
	if isCorrect {
		streak := 1.0 + float64(item.ConsecutiveCorrect)*0.5
		confidence := 1.0 + item.MemoryStrength*2.0
		multiplier = streak * confidence
	} else {
		multiplier = 0.5
	}

	// Higher decay rate shortens the interval.
	multiplier *= 1.5 - item.DecayRate
	multiplier = math.Max(minMultiplier, math.Min(multiplier, maxMultiplier))

	hours := base * multiplier
	if hours >= 24 {
		days := math.Ceil(hours / 24)
		return now.Add(time.Duration(days) * 24 * time.Hour)
	}
	return now.Add(time.Duration(hours * float64(time.Hour)))
}
