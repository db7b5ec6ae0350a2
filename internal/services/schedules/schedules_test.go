package scheduleservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/storage/lookup"
)

type fakeModules struct{ existing map[string]bool }

func (f fakeModules) ModuleIDExists(_ context.Context, id string) (bool, error) {
	return f.existing[id], nil
}

type fakeResources struct{ calls int }

func (f *fakeResources) EnsureResources(context.Context, models.ScheduleRequest) (models.Resources, error) {
	f.calls++

	return models.Resources{FolderID: "folder-1"}, nil
}

type fakeSchedules struct{ created []models.Schedule }

func (f *fakeSchedules) CreateSchedule(_ context.Context, s models.Schedule) (models.Schedule, error) {
	f.created = append(f.created, s)
	s.ID = "schedule-1"

	return s, nil
}

type fakeOccurrences struct {
	all    []models.Occurrence
	single int
}

func (f *fakeOccurrences) ScheduleAll(_ context.Context, _ string, occ []models.Occurrence) []models.OccurrenceResult {
	f.all = append(f.all, occ...)

	out := make([]models.OccurrenceResult, len(occ))
	for i, o := range occ {
		out[i] = models.OccurrenceResult{Start: o.Start, RecurrenceID: "r"}
	}

	return out
}

func (f *fakeOccurrences) ScheduleSingle(_ context.Context, _ string, _ models.ScheduleRequest, start, _ time.Time) models.OccurrenceResult {
	f.single++

	return models.OccurrenceResult{Start: start, RecurrenceID: "r"}
}

type fixture struct {
	svc         *ScheduleService
	resources   *fakeResources
	schedules   *fakeSchedules
	occurrences *fakeOccurrences
	fetches     map[lookup.Category]int
}

func newFixture() *fixture {
	f := &fixture{
		resources:   &fakeResources{},
		schedules:   &fakeSchedules{},
		occurrences: &fakeOccurrences{},
		fetches:     make(map[lookup.Category]int),
	}

	cache := lookup.New(map[lookup.Category]lookup.Loader{
		lookup.Templates: func(context.Context) (map[string]string, error) {
			f.fetches[lookup.Templates]++

			return map[string]string{"Lecture": "tpl-1"}, nil
		},
		lookup.Recorders: func(context.Context) (map[string]string, error) {
			f.fetches[lookup.Recorders]++

			return map[string]string{"Room 1": "rec-1"}, nil
		},
	})

	f.svc = New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache,
		fakeModules{existing: map[string]bool{"TAKEN": true}},
		f.resources,
		f.schedules,
		f.occurrences,
		"jdoe",
		time.UTC,
	)
	f.svc.now = func() time.Time { return time.Date(2024, time.February, 1, 8, 0, 0, 0, time.UTC) }

	return f
}

func weeklyRequest() models.ScheduleRequest {
	var days models.Weekdays
	days[time.Monday] = true
	days[time.Wednesday] = true

	return models.ScheduleRequest{
		Name:         "Biology 101",
		FolderPath:   []string{"Spring"},
		Template:     "Lecture",
		Recorder:     "Room 1",
		NamingScheme: "Record Date",
		Recurrence:   constants.RecurrenceWeekly,
		Weekdays:     days,
		StartAt:      time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC),
		EndAt:        time.Date(2024, time.March, 11, 9, 50, 0, 0, time.UTC),
		Duration:     50,
	}
}

func TestProcessRowWeekly(t *testing.T) {
	f := newFixture()

	res := f.svc.ProcessRow(context.Background(), weeklyRequest())
	if res.Err != nil {
		t.Fatalf("ProcessRow() error = %v", res.Err)
	}

	if res.ScheduleID != "schedule-1" {
		t.Errorf("ScheduleID = %q", res.ScheduleID)
	}
	if len(f.occurrences.all) != 3 {
		t.Fatalf("scheduled %d occurrences, want 3", len(f.occurrences.all))
	}
	if len(res.Occurrences) != 3 {
		t.Errorf("result has %d occurrences, want 3", len(res.Occurrences))
	}

	s := f.schedules.created[0]
	if s.ScheduleTemplateID != "tpl-1" || s.RecorderID != "rec-1" || s.RecorderName != "Room 1" {
		t.Errorf("schedule ids = %+v", s)
	}
	if s.FolderID != "folder-1" {
		t.Errorf("FolderID = %q", s.FolderID)
	}
	if s.TitleType != constants.TitleTypeAirDateTime {
		t.Errorf("TitleType = %q", s.TitleType)
	}
	if s.AdvanceCreationTime != 7200 {
		t.Errorf("AdvanceCreationTime = %d", s.AdvanceCreationTime)
	}
	if !strings.HasPrefix(s.Description, "Scheduled by jdoe on 2-1-2024_8-0-0") {
		t.Errorf("Description = %q", s.Description)
	}
}

func TestProcessRowSingle(t *testing.T) {
	f := newFixture()

	req := weeklyRequest()
	req.Recurrence = constants.RecurrenceSingle
	req.Weekdays = models.Weekdays{}

	res := f.svc.ProcessRow(context.Background(), req)
	if res.Err != nil {
		t.Fatalf("ProcessRow() error = %v", res.Err)
	}

	if f.occurrences.single != 1 || len(f.occurrences.all) != 0 {
		t.Errorf("single = %d, all = %d", f.occurrences.single, len(f.occurrences.all))
	}
}

func TestProcessRowRejections(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.ScheduleRequest)
		want   error
	}{
		{
			name: "no catalog name",
			modify: func(r *models.ScheduleRequest) {
				r.IncludeCatalog = true
			},
			want: errs.ErrNoCatalogName,
		},
		{
			name: "no weekday in range",
			modify: func(r *models.ScheduleRequest) {
				r.StartAt = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
				r.EndAt = time.Date(2024, time.March, 2, 9, 50, 0, 0, time.UTC)
			},
			want: errs.ErrNoOccurrences,
		},
		{
			name: "no module id",
			modify: func(r *models.ScheduleRequest) {
				r.IncludeModule = true
			},
			want: errs.ErrNoModuleID,
		},
		{
			name: "module id taken",
			modify: func(r *models.ScheduleRequest) {
				r.IncludeModule = true
				r.ModuleID = "TAKEN"
			},
			want: errs.ErrModuleIDExists,
		},
		{
			name: "unknown template",
			modify: func(r *models.ScheduleRequest) {
				r.Template = "Missing"
			},
			want: errs.ErrUnknownTemplate,
		},
		{
			name: "unknown recorder",
			modify: func(r *models.ScheduleRequest) {
				r.Recorder = "Basement"
			},
			want: errs.ErrUnknownRecorder,
		},
		{
			name: "weekly end time before start time",
			modify: func(r *models.ScheduleRequest) {
				r.StartAt = time.Date(2024, time.March, 4, 14, 0, 0, 0, time.UTC)
				r.EndAt = time.Date(2024, time.March, 11, 13, 0, 0, 0, time.UTC)
				r.Duration = -60
			},
			want: errs.ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			req := weeklyRequest()
			tt.modify(&req)

			res := f.svc.ProcessRow(context.Background(), req)

			if !errors.Is(res.Err, tt.want) {
				t.Fatalf("error = %v, want %v", res.Err, tt.want)
			}
			if !errors.Is(res.Err, errs.ErrValidation) {
				t.Errorf("error = %v, want ErrValidation", res.Err)
			}
			if f.resources.calls != 0 || len(f.schedules.created) != 0 {
				t.Errorf("mutations after rejection: resources %d, schedules %d", f.resources.calls, len(f.schedules.created))
			}
		})
	}
}

func TestUnknownLookupListsKnownNames(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*models.ScheduleRequest)
		want   error
		known  string
	}{
		{name: "template", modify: func(r *models.ScheduleRequest) { r.Template = "Missing" }, want: errs.ErrUnknownTemplate, known: "known: Lecture"},
		{name: "recorder", modify: func(r *models.ScheduleRequest) { r.Recorder = "Basement" }, want: errs.ErrUnknownRecorder, known: "known: Room 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			req := weeklyRequest()
			tt.modify(&req)

			err := f.svc.Validate(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), tt.known) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.known)
			}
		})
	}
}

func TestProcessBatch(t *testing.T) {
	f := newFixture()

	rows := []models.ImportRow{
		{Line: 2, Request: weeklyRequest()},
		{Line: 3, Request: models.ScheduleRequest{Name: "Broken"}, ParseErr: errors.New("bad start date")},
		{Line: 4, Request: weeklyRequest()},
	}

	results := f.svc.ProcessBatch(context.Background(), rows)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	for i, want := range []int{2, 3, 4} {
		if results[i].Line != want {
			t.Errorf("result %d line = %d, want %d", i, results[i].Line, want)
		}
		if results[i].RunID == "" || results[i].RunID != results[0].RunID {
			t.Errorf("result %d run id = %q", i, results[i].RunID)
		}
	}

	if results[1].Error != "bad start date" {
		t.Errorf("parse error = %q", results[1].Error)
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("unexpected errors: %v, %v", results[0].Err, results[2].Err)
	}

	if f.fetches[lookup.Templates] != 1 || f.fetches[lookup.Recorders] != 1 {
		t.Errorf("lookups fetched %v, want once per category", f.fetches)
	}
}

func TestTitleType(t *testing.T) {
	tests := map[string]string{
		"":                   constants.TitleTypeNone,
		"Record Date":        constants.TitleTypeAirDateTime,
		"Incremental Number": constants.TitleTypeNameAndNumber,
		"Something Else":     constants.TitleTypeNone,
	}

	for label, want := range tests {
		if got := TitleType(label); got != want {
			t.Errorf("TitleType(%q) = %q, want %q", label, got, want)
		}
	}
}
