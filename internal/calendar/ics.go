// Package calendar renders computed occurrences as an iCalendar document so
// a batch can be reviewed before anything is created.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
	"github.com/zanzhit/mediasite_scheduler/internal/services/recurrence"
)

const productID = "-//Mediasite Scheduler//Preview//EN"

// Write emits one VEVENT per occurrence of every request. Instants are the
// same UTC values that would be submitted to the platform.
func Write(w io.Writer, reqs []models.ScheduleRequest, now time.Time, loc *time.Location) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for i, req := range reqs {
		for j, start := range starts(req, now, loc) {
			event := cal.AddEvent(uid(i, j, req.Name, start))
			event.SetDtStampTime(now)
			event.SetStartAt(start)
			event.SetEndAt(start.Add(time.Duration(req.Duration) * time.Minute))
			event.SetSummary(req.Name)
			event.SetLocation(req.Recorder)
			event.SetDescription(description(req))
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("calendar.Write: %w", err)
	}

	return nil
}

func starts(req models.ScheduleRequest, now time.Time, loc *time.Location) []time.Time {
	if req.Recurrence != constants.RecurrenceWeekly {
		start, _ := recurrence.Single(req, now, loc)

		return []time.Time{start}
	}

	occ := recurrence.Occurrences(req, now, loc)
	out := make([]time.Time, len(occ))
	for i, o := range occ {
		out[i] = o.Start
	}

	return out
}

func uid(row, n int, name string, start time.Time) string {
	slug := strings.ToLower(strings.Join(strings.Fields(name), "-"))

	return fmt.Sprintf("%d-%d-%s-%s@mediasite-scheduler", row, n, slug, start.UTC().Format("20060102T150405Z"))
}

func description(req models.ScheduleRequest) string {
	parts := []string{"Template: " + req.Template}
	if len(req.FolderPath) > 0 {
		parts = append(parts, "Folder: "+strings.Join(req.FolderPath, "/"))
	}
	if req.IncludeCatalog {
		parts = append(parts, "Catalog: "+req.CatalogName)
	}
	if req.IncludeModule {
		parts = append(parts, "Module: "+req.ModuleID)
	}

	return strings.Join(parts, "\n")
}
