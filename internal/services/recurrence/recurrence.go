// Package recurrence expands weekly rules into dated occurrences and converts
// floating local wall-clock values into the UTC instants the platform expects.
//
// Floating values are carried in time.UTC: only their fields matter, never
// their location.
package recurrence

import (
	"time"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

// Expand returns every civil date in [start, end] whose weekday is selected,
// in ascending order. It returns nil when no weekday is selected.
func Expand(start, end time.Time, days models.Weekdays) []time.Time {
	if !days.Any() {
		return nil
	}

	var dates []time.Time
	for d, last := civil(start), civil(end); !d.After(last); d = d.AddDate(0, 0, 1) {
		if days.Has(d.Weekday()) {
			dates = append(dates, d)
		}
	}

	return dates
}

// NaiveUTC subtracts the zone offset in effect at now from a local wall clock.
func NaiveUTC(local, now time.Time, loc *time.Location) time.Time {
	_, offset := now.In(loc).Zone()

	return floating(local).Add(-time.Duration(offset) * time.Second)
}

// CorrectForDST converts a local wall clock to UTC using the offset in effect
// at now, then shifts by one hour when now and the target disagree on DST.
func CorrectForDST(local, now time.Time, loc *time.Location) time.Time {
	naive := NaiveUTC(local, now, loc)

	nowDST := now.In(loc).IsDST()
	targetDST := inZone(local, loc).IsDST()

	switch {
	case nowDST && !targetDST:
		return naive.Add(time.Hour)
	case !nowDST && targetDST:
		return naive.Add(-time.Hour)
	}

	return naive
}

// Occurrences builds the corrected occurrence list of a weekly request.
func Occurrences(req models.ScheduleRequest, now time.Time, loc *time.Location) []models.Occurrence {
	dates := Expand(req.StartAt, req.EndAt, req.Weekdays)

	hour, minute, sec := req.StartAt.Clock()

	out := make([]models.Occurrence, 0, len(dates))
	for _, d := range dates {
		local := d.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(sec)*time.Second)

		out = append(out, models.Occurrence{
			Local:    local,
			Start:    CorrectForDST(local, now, loc),
			Duration: req.Duration,
		})
	}

	return out
}

// Single converts the start and end of a one-time request. No DST correction
// is applied.
func Single(req models.ScheduleRequest, now time.Time, loc *time.Location) (start, end time.Time) {
	return NaiveUTC(req.StartAt, now, loc), NaiveUTC(req.EndAt, now, loc)
}

// Wire formats an instant the way the platform accepts date times.
func Wire(t time.Time) string {
	return t.UTC().Format(constants.WireTimeLayout)
}

func civil(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func floating(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func inZone(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	return time.Date(y, m, d, hh, mm, ss, 0, loc)
}
