package recurrence

import (
	"testing"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekdays(days ...time.Weekday) models.Weekdays {
	var w models.Weekdays
	for _, d := range days {
		w[d] = true
	}

	return w
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		days  models.Weekdays
		want  []time.Time
	}{
		{
			name:  "single wednesday in range",
			start: date(2024, time.March, 1),
			end:   date(2024, time.March, 8),
			days:  weekdays(time.Wednesday),
			want:  []time.Time{date(2024, time.March, 6)},
		},
		{
			name:  "no weekday selected",
			start: date(2024, time.March, 1),
			end:   date(2024, time.March, 31),
			days:  weekdays(),
			want:  nil,
		},
		{
			name:  "inclusive bounds",
			start: date(2024, time.March, 4),
			end:   date(2024, time.March, 11),
			days:  weekdays(time.Monday),
			want:  []time.Time{date(2024, time.March, 4), date(2024, time.March, 11)},
		},
		{
			name:  "end before start",
			start: date(2024, time.March, 11),
			end:   date(2024, time.March, 4),
			days:  weekdays(time.Monday),
			want:  nil,
		},
		{
			name:  "time of day is ignored",
			start: time.Date(2024, time.March, 5, 23, 30, 0, 0, time.UTC),
			end:   time.Date(2024, time.March, 7, 1, 0, 0, 0, time.UTC),
			days:  weekdays(time.Tuesday, time.Thursday),
			want:  []time.Time{date(2024, time.March, 5), date(2024, time.March, 7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.start, tt.end, tt.days)

			if len(got) != len(tt.want) {
				t.Fatalf("Expand() returned %d dates %v, want %d", len(got), got, len(tt.want))
			}

			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("date %d = %s, want %s", i, got[i], tt.want[i])
				}
			}

			again := Expand(tt.start, tt.end, tt.days)
			if len(again) != len(got) {
				t.Fatalf("second Expand() returned %d dates, first returned %d", len(again), len(got))
			}
			for i := range again {
				if !again[i].Equal(got[i]) {
					t.Errorf("second Expand() date %d = %s, first = %s", i, again[i], got[i])
				}
			}
		})
	}
}

func TestExpandMatchesRRule(t *testing.T) {
	byDay := map[time.Weekday]rrule.Weekday{
		time.Sunday:    rrule.SU,
		time.Monday:    rrule.MO,
		time.Tuesday:   rrule.TU,
		time.Wednesday: rrule.WE,
		time.Thursday:  rrule.TH,
		time.Friday:    rrule.FR,
		time.Saturday:  rrule.SA,
	}

	selections := []models.Weekdays{
		weekdays(time.Monday, time.Wednesday, time.Friday),
		weekdays(time.Tuesday, time.Thursday),
		weekdays(time.Sunday, time.Saturday),
		weekdays(time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday),
	}

	start := date(2024, time.January, 8)
	end := date(2024, time.May, 17)

	for _, days := range selections {
		t.Run(days.Pattern(), func(t *testing.T) {
			var wd []rrule.Weekday
			for d := time.Sunday; d <= time.Saturday; d++ {
				if days.Has(d) {
					wd = append(wd, byDay[d])
				}
			}

			rule, err := rrule.NewRRule(rrule.ROption{
				Freq:      rrule.WEEKLY,
				Byweekday: wd,
				Dtstart:   start,
				Until:     end,
			})
			if err != nil {
				t.Fatalf("rrule: %v", err)
			}

			want := rule.All()
			got := Expand(start, end, days)

			if len(got) != len(want) {
				t.Fatalf("Expand() returned %d dates, rrule returned %d", len(got), len(want))
			}

			for i := range got {
				if !got[i].Equal(want[i]) {
					t.Errorf("date %d = %s, want %s", i, got[i], want[i])
				}
			}
		})
	}
}

func TestCorrectForDST(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	winter := time.Date(2024, time.January, 15, 12, 0, 0, 0, denver)
	summer := time.Date(2024, time.July, 15, 12, 0, 0, 0, denver)

	tests := []struct {
		name  string
		local time.Time
		now   time.Time
		want  time.Time
	}{
		{
			name:  "winter now, summer target",
			local: time.Date(2024, time.April, 1, 10, 0, 0, 0, time.UTC),
			now:   winter,
			want:  time.Date(2024, time.April, 1, 16, 0, 0, 0, time.UTC),
		},
		{
			name:  "summer now, winter target",
			local: time.Date(2024, time.December, 2, 10, 0, 0, 0, time.UTC),
			now:   summer,
			want:  time.Date(2024, time.December, 2, 17, 0, 0, 0, time.UTC),
		},
		{
			name:  "both winter",
			local: time.Date(2024, time.February, 5, 8, 30, 0, 0, time.UTC),
			now:   winter,
			want:  time.Date(2024, time.February, 5, 15, 30, 0, 0, time.UTC),
		},
		{
			name:  "both summer",
			local: time.Date(2024, time.August, 5, 8, 30, 0, 0, time.UTC),
			now:   summer,
			want:  time.Date(2024, time.August, 5, 14, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CorrectForDST(tt.local, tt.now, denver)
			if !got.Equal(tt.want) {
				t.Errorf("CorrectForDST() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCorrectForDSTMatchesZoneConversion(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	nows := []time.Time{
		time.Date(2024, time.January, 15, 12, 0, 0, 0, denver),
		time.Date(2024, time.July, 15, 12, 0, 0, 0, denver),
	}

	for _, now := range nows {
		for d := date(2024, time.January, 1); d.Year() == 2024; d = d.AddDate(0, 0, 1) {
			local := d.Add(10 * time.Hour)

			want := time.Date(d.Year(), d.Month(), d.Day(), 10, 0, 0, 0, denver).UTC()
			got := CorrectForDST(local, now, denver)

			if !got.Equal(want) {
				t.Fatalf("now %s, local %s: got %s, want %s", now, local, got, want)
			}
		}
	}
}

func TestCorrectForDSTWithoutDST(t *testing.T) {
	now := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	local := time.Date(2024, time.March, 31, 9, 0, 0, 0, time.UTC)

	if got := CorrectForDST(local, now, time.UTC); !got.Equal(local) {
		t.Errorf("CorrectForDST() = %s, want %s", got, local)
	}
}

func TestOccurrences(t *testing.T) {
	req := models.ScheduleRequest{
		Recurrence: constants.RecurrenceWeekly,
		Weekdays:   weekdays(time.Tuesday, time.Thursday),
		StartAt:    time.Date(2024, time.March, 4, 9, 15, 0, 0, time.UTC),
		EndAt:      time.Date(2024, time.March, 10, 10, 30, 0, 0, time.UTC),
		Duration:   75,
	}
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	got := Occurrences(req, now, time.UTC)

	want := []string{"2024-03-05T09:15:00", "2024-03-07T09:15:00"}
	if len(got) != len(want) {
		t.Fatalf("got %d occurrences, want %d", len(got), len(want))
	}

	for i, o := range got {
		if s := Wire(o.Start); s != want[i] {
			t.Errorf("occurrence %d start = %s, want %s", i, s, want[i])
		}
		if o.Duration != 75 {
			t.Errorf("occurrence %d duration = %d, want 75", i, o.Duration)
		}
	}
}

func TestSingle(t *testing.T) {
	denver, err := time.LoadLocation("America/Denver")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	req := models.ScheduleRequest{
		StartAt: time.Date(2024, time.August, 1, 9, 0, 0, 0, time.UTC),
		EndAt:   time.Date(2024, time.August, 1, 10, 0, 0, 0, time.UTC),
	}
	now := time.Date(2024, time.January, 15, 12, 0, 0, 0, denver)

	start, end := Single(req, now, denver)

	// offset at now (MST) is applied without correction
	if s := Wire(start); s != "2024-08-01T16:00:00" {
		t.Errorf("start = %s", s)
	}
	if s := Wire(end); s != "2024-08-01T17:00:00" {
		t.Errorf("end = %s", s)
	}
}
