// ABOUTME: Performance query engine deriving display-ready summaries.
// ABOUTME: Last known stats, historical series, and change-over-time deltas.
package query

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/josemarichal/gym-tracker/internal/models"
	"github.com/josemarichal/gym-tracker/internal/storage"
)

// Metric selects which value a history series carries.
type Metric string

const (
	MetricWeight Metric = "weight"
	MetricReps   Metric = "reps"
	MetricVolume Metric = "volume"
)

// ParseMetric validates a metric name from an outer layer.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricWeight, MetricReps, MetricVolume:
		return Metric(s), nil
	}
	return "", models.NewValidationError("metric", fmt.Sprintf("unknown metric %q", s))
}

// Stats is the most recent prior performance for an exercise, shaped for
// the "Last: 135lbs x 10" display.
type Stats struct {
	Weight    float64
	Reps      int
	SetNumber int
	LoggedAt  time.Time
}

// Point is one sample of a history series.
type Point struct {
	At    time.Time
	Value float64
}

// Engine computes performance summaries. Its only dependency is the entity
// repository; every call is a pure read recomputed from storage.
type Engine struct {
	repo storage.Repository
}

// NewEngine creates a query engine over the given repository.
func NewEngine(repo storage.Repository) *Engine {
	return &Engine{repo: repo}
}

// LastStatsFor returns the entry with the greatest logged_at strictly before
// the given instant, breaking timestamp ties on the highest set number.
// Returns nil when no prior entry exists: the caller must treat that as
// "first time doing this exercise", never as zero values.
func (e *Engine) LastStatsFor(exerciseID uuid.UUID, before time.Time) (*Stats, error) {
	entry, err := e.repo.LatestSetBefore(exerciseID, before)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return &Stats{
		Weight:    entry.Weight,
		Reps:      entry.Reps,
		SetNumber: entry.SetNumber,
		LoggedAt:  entry.LoggedAt,
	}, nil
}

// HistorySeries returns the exercise's history for the given metric in
// ascending time order. Weight and reps yield one point per set entry.
// Volume (weight x reps) is summed per session, one point per session
// stamped with the first time the exercise was logged in it — the shape the
// charting layer renders as "change over time".
func (e *Engine) HistorySeries(exerciseID uuid.UUID, metric Metric) ([]Point, error) {
	sets, err := e.repo.SetsForExercise(exerciseID)
	if err != nil {
		return nil, err
	}

	switch metric {
	case MetricWeight:
		points := make([]Point, 0, len(sets))
		for _, s := range sets {
			points = append(points, Point{At: s.LoggedAt, Value: s.Weight})
		}
		return points, nil
	case MetricReps:
		points := make([]Point, 0, len(sets))
		for _, s := range sets {
			points = append(points, Point{At: s.LoggedAt, Value: float64(s.Reps)})
		}
		return points, nil
	case MetricVolume:
		return sessionVolumes(sets), nil
	}
	return nil, models.NewValidationError("metric", fmt.Sprintf("unknown metric %q", metric))
}

// sessionVolumes groups set entries by session and sums weight*reps.
func sessionVolumes(sets []*models.SetEntry) []Point {
	type accum struct {
		first  time.Time
		volume float64
	}
	bySession := make(map[uuid.UUID]*accum)
	for _, s := range sets {
		a, ok := bySession[s.SessionID]
		if !ok {
			a = &accum{first: s.LoggedAt}
			bySession[s.SessionID] = a
		}
		if s.LoggedAt.Before(a.first) {
			a.first = s.LoggedAt
		}
		a.volume += s.Volume()
	}

	points := make([]Point, 0, len(bySession))
	for _, a := range bySession {
		points = append(points, Point{At: a.first, Value: a.volume})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })
	return points
}

// RoutineExercises returns the routine's exercises ordered by position.
func (e *Engine) RoutineExercises(routineID uuid.UUID) ([]*models.Exercise, error) {
	return e.repo.RoutineExercises(routineID)
}

// ChangeOver returns the difference between the last and first value of the
// metric series within the window ending at the most recent entry. Returns
// nil when fewer than two points fall inside the window.
func (e *Engine) ChangeOver(exerciseID uuid.UUID, metric Metric, window time.Duration) (*float64, error) {
	points, err := e.HistorySeries(exerciseID, metric)
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, nil
	}

	start := points[len(points)-1].At.Add(-window)
	var inWindow []Point
	for _, p := range points {
		if !p.At.Before(start) {
			inWindow = append(inWindow, p)
		}
	}
	if len(inWindow) < 2 {
		return nil, nil
	}

	delta := inWindow[len(inWindow)-1].Value - inWindow[0].Value
	return &delta, nil
}

// progressWindows are the periods the summary screen reports, in days.
var progressWindows = []int{30, 90, 180}

// WindowDelta holds the change of each metric over one window. Nil values
// mean the window held fewer than two data points.
type WindowDelta struct {
	Days   int
	Weight *float64
	Reps   *float64
	Volume *float64
}

// Progress summarizes an exercise's change over 1, 3, and 6 months.
type Progress struct {
	Windows []WindowDelta
}

// ProgressSummary computes change-over-period deltas for every metric.
func (e *Engine) ProgressSummary(exerciseID uuid.UUID) (*Progress, error) {
	p := &Progress{}
	for _, days := range progressWindows {
		window := time.Duration(days) * 24 * time.Hour
		wd := WindowDelta{Days: days}

		var err error
		if wd.Weight, err = e.ChangeOver(exerciseID, MetricWeight, window); err != nil {
			return nil, err
		}
		if wd.Reps, err = e.ChangeOver(exerciseID, MetricReps, window); err != nil {
			return nil, err
		}
		if wd.Volume, err = e.ChangeOver(exerciseID, MetricVolume, window); err != nil {
			return nil, err
		}
		p.Windows = append(p.Windows, wd)
	}
	return p, nil
}
