package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultChartWindow is the number of most recent session dates shown
// on a line chart.
const DefaultChartWindow = 6

// ChartSeries is chart-ready output: short date labels and one aligned
// sequence of cumulative values per participant.
type ChartSeries struct {
	Labels []string
	Series []ParticipantSeries
}

// ParticipantSeries is one participant's cumulative win/loss values,
// aligned index-for-index with the chart labels.
type ParticipantSeries struct {
	ParticipantID string
	Name          string
	Points        []decimal.Decimal
}

// BuildRoomSeries turns the histories of a room's participants into
// date-aligned cumulative series. Labels are the last `window` distinct
// session dates across all participants, ascending. A participant
// without an entry on a label date keeps its prior cumulative value
// (step function); a participant with no entries at all plots flat
// zero. When no participant has any entry the room has nothing to
// chart and ErrNoChartData is returned.
func BuildRoomSeries(participants []*Participant, window int) (*ChartSeries, error) {
	if window <= 0 {
		window = DefaultChartWindow
	}

	dateSet := make(map[string]struct{})
	total := 0
	for _, p := range participants {
		for _, e := range p.History {
			dateSet[e.Date] = struct{}{}
			total++
		}
	}

	if total == 0 {
		return nil, ErrNoChartData
	}

	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	if len(dates) > window {
		dates = dates[len(dates)-window:]
	}

	series := make([]ParticipantSeries, 0, len(participants))
	for _, p := range participants {
		series = append(series, ParticipantSeries{
			ParticipantID: p.ID,
			Name:          p.Name,
			Points:        cumulativeAt(p.History, dates),
		})
	}

	return &ChartSeries{
		Labels: shortLabels(dates),
		Series: series,
	}, nil
}

// BuildProgressSeries produces a single cumulative line for one entry
// history, one point per entry, trimmed to the last `window` points.
// Used for the per-user progress chart.
func BuildProgressSeries(history []LedgerEntry, window int) (*ChartSeries, error) {
	if window <= 0 {
		window = DefaultChartWindow
	}

	if len(history) == 0 {
		return nil, ErrNoChartData
	}

	sorted := make([]LedgerEntry, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	labels := make([]string, 0, len(sorted))
	points := make([]decimal.Decimal, 0, len(sorted))

	running := decimal.Zero
	for _, e := range sorted {
		running = running.Add(e.Net())
		labels = append(labels, shortLabel(e.Date))
		points = append(points, running)
	}

	if len(labels) > window {
		labels = labels[len(labels)-window:]
		points = points[len(points)-window:]
	}

	return &ChartSeries{
		Labels: labels,
		Series: []ParticipantSeries{{Points: points}},
	}, nil
}

// cumulativeAt computes the participant's cumulative total as of each
// label date. Entries after the last label still exist in the history
// but never make it onto the chart; entries before the first label are
// folded into the first point so the carried-forward value is correct.
func cumulativeAt(history []LedgerEntry, dates []string) []decimal.Decimal {
	sorted := make([]LedgerEntry, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	points := make([]decimal.Decimal, len(dates))
	running := decimal.Zero
	idx := 0

	for i, d := range dates {
		for idx < len(sorted) && sorted[idx].Date <= d {
			running = running.Add(sorted[idx].Net())
			idx++
		}

		points[i] = running
	}

	return points
}

func shortLabels(dates []string) []string {
	labels := make([]string, len(dates))
	for i, d := range dates {
		labels[i] = shortLabel(d)
	}

	return labels
}

// shortLabel renders an ISO date as the M/D form the charts use.
func shortLabel(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}

	return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
}
