package usecase

import (
	"fmt"
	"math"
	"strings"
	"time"

	"wellbeing/model"
)

// Activity thresholds on cumulative keyboard presses and mouse travel (px).
const (
	moderateKeys  = 50
	moderateMouse = 5000
	highKeys      = 200
	highMouse     = 20000
)

// Plant health adjustments driven by the most recent session's blink count.
const (
	plantStartHealth   = 100
	lowBlinkThreshold  = 15
	lowBlinkPenalty    = 30
	highBlinkThreshold = 50
	highBlinkPenalty   = 20
)

const chartTimeLayout = "15:04:05"

type ActivityLevel string

const (
	ActivityLow      ActivityLevel = "Low"
	ActivityModerate ActivityLevel = "Moderate"
	ActivityHigh     ActivityLevel = "High"
)

// ClassifyActivity buckets a session's interaction counts. The High check
// runs last so it wins over Moderate.
func ClassifyActivity(keys, mouse int) ActivityLevel {
	level := ActivityLow
	if keys > moderateKeys || mouse > moderateMouse {
		level = ActivityModerate
	}
	if keys > highKeys || mouse > highMouse {
		level = ActivityHigh
	}
	return level
}

// Describe is the wording used inside generation prompts.
func (a ActivityLevel) Describe() string {
	switch a {
	case ActivityLow:
		return "Low (Passive/Reading)"
	case ActivityHigh:
		return "High (Intense Focus)"
	default:
		return string(a)
	}
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}

// SessionDurationMinutes is end minus start in minutes, rounded to two
// decimals and never negative.
func SessionDurationMinutes(start, end time.Time) float64 {
	minutes := end.Sub(start).Minutes()
	if minutes < 0 {
		minutes = 0
	}
	return roundTo(minutes, 2)
}

// BlinkRate is blinks per minute, one decimal. A non-positive duration
// divides by 1.
func BlinkRate(totalBlinks int, durationMinutes float64) float64 {
	divisor := durationMinutes
	if divisor <= 0 {
		divisor = 1
	}
	return roundTo(float64(totalBlinks)/divisor, 1)
}

type EmotionCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// EmotionSummary keeps counts in first-seen order so ties and rendering
// are deterministic.
type EmotionSummary struct {
	Dominant string         `json:"dominant"`
	Counts   []EmotionCount `json:"counts"`
}

func (s EmotionSummary) Breakdown() map[string]int {
	out := make(map[string]int, len(s.Counts))
	for _, c := range s.Counts {
		out[c.Label] = c.Count
	}
	return out
}

// Describe renders the breakdown for a prompt.
func (s EmotionSummary) Describe() string {
	if len(s.Counts) == 0 {
		return "No distinct emotions detected."
	}
	parts := make([]string, len(s.Counts))
	for i, c := range s.Counts {
		parts[i] = fmt.Sprintf("%s: %d", c.Label, c.Count)
	}
	return strings.Join(parts, ", ")
}

// SummarizeEmotions finds the most frequent non-empty label. On a tie the
// label seen first wins; an empty log yields Neutral.
func SummarizeEmotions(points []*model.SessionData) EmotionSummary {
	index := make(map[string]int)
	var counts []EmotionCount

	for _, p := range points {
		if p == nil || p.DetectedEmotion == "" {
			continue
		}
		if i, ok := index[p.DetectedEmotion]; ok {
			counts[i].Count++
			continue
		}
		index[p.DetectedEmotion] = len(counts)
		counts = append(counts, EmotionCount{Label: p.DetectedEmotion, Count: 1})
	}

	summary := EmotionSummary{Dominant: model.NeutralEmotion, Counts: counts}
	best := 0
	for _, c := range counts {
		if c.Count > best {
			best = c.Count
			summary.Dominant = c.Label
		}
	}
	return summary
}

// ChartSeries holds parallel x/y arrays for the blink chart.
type ChartSeries struct {
	Timestamps []string `json:"timestamps"`
	Blinks     []int    `json:"blinks"`
}

// BuildChart expects points already ordered by timestamp.
func BuildChart(points []*model.SessionData) ChartSeries {
	chart := ChartSeries{
		Timestamps: make([]string, 0, len(points)),
		Blinks:     make([]int, 0, len(points)),
	}
	for _, p := range points {
		chart.Timestamps = append(chart.Timestamps, p.Timestamp.Format(chartTimeLayout))
		chart.Blinks = append(chart.Blinks, p.BlinkCountSnapshot)
	}
	return chart
}

type PlantStatus string

const (
	PlantRadiant  PlantStatus = "Radiant"
	PlantHealthy  PlantStatus = "Healthy"
	PlantThirsty  PlantStatus = "Thirsty"
	PlantWithered PlantStatus = "Withered"
)

type PlantHealth struct {
	Health int         `json:"health"`
	Status PlantStatus `json:"status"`
}

// ComputePlantHealth scores the dashboard plant from the latest session.
// Without any session the plant is at full health.
func ComputePlantHealth(last *model.MonitoringSession) PlantHealth {
	health := plantStartHealth
	if last == nil {
		return PlantHealth{Health: health, Status: PlantRadiant}
	}

	if last.TotalBlinks < lowBlinkThreshold {
		health -= lowBlinkPenalty
	}
	if last.TotalBlinks > highBlinkThreshold {
		health -= highBlinkPenalty
	}
	health = max(0, min(100, health))

	return PlantHealth{Health: health, Status: plantStatusFor(health)}
}

func plantStatusFor(health int) PlantStatus {
	switch {
	case health > 80:
		return PlantRadiant
	case health > 50:
		return PlantHealthy
	case health > 20:
		return PlantThirsty
	default:
		return PlantWithered
	}
}
