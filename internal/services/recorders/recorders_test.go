package recorderservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

type fakeProvider struct {
	scheduleLookups map[string]int
}

func (f *fakeProvider) Recorders(context.Context) ([]models.Recorder, error) {
	return []models.Recorder{
		{ID: "r1", Name: "Room 1"},
		{ID: "r2", Name: "Room 2"},
		{ID: "r3", Name: "Spare"},
	}, nil
}

func (f *fakeProvider) RecorderStatus(_ context.Context, r models.Recorder) (models.RecorderStatus, error) {
	return models.RecorderStatus{Name: r.Name, RecorderID: r.ID, State: "Idle"}, nil
}

func (f *fakeProvider) ScheduledRecordingTimes(_ context.Context, recorderID string) ([]models.ScheduledRecording, error) {
	if recorderID != "r1" {
		return nil, nil
	}

	return []models.ScheduledRecording{
		{ScheduleID: "s1", StartTime: "2024-03-04T16:00:00", EndTime: "2024-03-04T16:50:00", DurationInMinutes: 50},
		{ScheduleID: "s1", StartTime: "2024-03-06T16:00:00", EndTime: "2024-03-06T16:50:00", DurationInMinutes: 50, IsExcluded: true},
		{ScheduleID: "s2", StartTime: "2024-03-05T18:00:00", EndTime: "2024-03-05T19:00:00", DurationInMinutes: 60},
	}, nil
}

func (f *fakeProvider) Schedule(_ context.Context, id string) (models.Schedule, error) {
	f.scheduleLookups[id]++

	return models.Schedule{ID: id, Name: "Schedule " + id}, nil
}

func newService(ignore ...string) (*RecorderService, *fakeProvider) {
	p := &fakeProvider{scheduleLookups: make(map[string]int)}

	return New(slog.New(slog.NewTextHandler(io.Discard, nil)), p, ignore), p
}

func TestStatusesSkipsIgnored(t *testing.T) {
	s, _ := newService("Spare")

	statuses, err := s.Statuses(context.Background())
	if err != nil {
		t.Fatalf("Statuses() error = %v", err)
	}

	if len(statuses) != 2 {
		t.Fatalf("got %d statuses, want 2", len(statuses))
	}
	for _, st := range statuses {
		if st.Name == "Spare" {
			t.Error("ignored recorder reported")
		}
	}
}

func TestScheduledRecordings(t *testing.T) {
	s, p := newService()

	got, err := s.ScheduledRecordings(context.Background(), "Room 1")
	if err != nil {
		t.Fatalf("ScheduledRecordings() error = %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("got %d recordings, want 3", len(got))
	}
	if got[0].Title != "Schedule s1" || got[0].Location != "Room 1" || got[0].Start != "2024-03-04T16:00:00Z" {
		t.Errorf("first recording = %+v", got[0])
	}
	if !got[1].Cancelled {
		t.Error("excluded recording not marked cancelled")
	}
	if p.scheduleLookups["s1"] != 1 || p.scheduleLookups["s2"] != 1 {
		t.Errorf("schedule lookups = %v, want one per schedule", p.scheduleLookups)
	}
}

func TestScheduledRecordingsUnknownRecorder(t *testing.T) {
	s, _ := newService()

	_, err := s.ScheduledRecordings(context.Background(), "Basement")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
