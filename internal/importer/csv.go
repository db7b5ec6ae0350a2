// Package importer reads schedule rows from a spreadsheet export.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/zanzhit/mediasite_scheduler/internal/domain/constants"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/errs"
	"github.com/zanzhit/mediasite_scheduler/internal/domain/models"
)

const (
	ColTitle          = "Presentation Title"
	ColRecorder       = "Recorder"
	ColTemplate       = "Template"
	ColNamingScheme   = "Naming Scheme"
	ColDeleteInactive = "Delete Schedule After Occurrences"
	ColIncludeCatalog = "Include Catalog"
	ColCatalogLinks   = "Allow Catalog Links"
	ColCatalogDL      = "Enable Catalog Download"
	ColCatalogName    = "Catalog Name"
	ColCatalogDesc    = "Catalog Description"
	ColIncludeModule  = "Include Module"
	ColModuleName     = "Module Name"
	ColModuleID       = "Module ID"
	ColFolder         = "Mediasite Folder"
	ColRecurrence     = "Recurrence"
	ColStartDate      = "Start Date"
	ColEndDate        = "End Date"
	ColStartTime      = "Start Time"
	ColEndTime        = "End Time"
	ColFrequency      = "Recurrence Frequency"
)

var dayColumns = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var required = []string{
	ColTitle, ColRecorder, ColTemplate, ColRecurrence,
	ColStartDate, ColEndDate, ColStartTime, ColEndTime,
}

var (
	dateLayouts = []string{"1/2/06", "1/2/2006"}
	timeLayouts = []string{"3:04 PM", "3:04PM", "15:04"}
)

var ErrMissingColumn = errors.New("missing column")

// Parse reads a header row followed by one schedule per row. A row that
// cannot be parsed is returned with ParseErr set; the remaining rows are
// still read. Line numbers are 1-based and count the header.
func Parse(r io.Reader) ([]models.ImportRow, error) {
	const op = "importer.Parse"

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", op, err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: %w %q", op, ErrMissingColumn, name)
		}
	}

	var rows []models.ImportRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return rows, fmt.Errorf("%s: %w", op, err)
			}

			rows = append(rows, models.ImportRow{Line: perr.StartLine, ParseErr: fmt.Errorf("%w: line %d: %v", errs.ErrValidation, perr.StartLine, perr.Err)})

			continue
		}

		line, _ := reader.FieldPos(0)

		if blank(record) {
			continue
		}

		rec := row{cols: cols, values: record}
		req, err := rec.request()
		if err != nil {
			err = fmt.Errorf("%w: line %d: %v", errs.ErrValidation, line, err)
		}

		rows = append(rows, models.ImportRow{Line: line, Request: req, ParseErr: err})
	}

	return rows, nil
}

type row struct {
	cols   map[string]int
	values []string
}

func (r row) get(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.values) {
		return ""
	}

	return strings.TrimSpace(r.values[i])
}

func (r row) flag(col string) bool {
	return strings.EqualFold(r.get(col), "TRUE")
}

func (r row) request() (models.ScheduleRequest, error) {
	req := models.ScheduleRequest{
		Name:                  r.get(ColTitle),
		FolderPath:            SplitFolderPath(r.get(ColFolder)),
		IncludeCatalog:        r.flag(ColIncludeCatalog),
		CatalogName:           r.get(ColCatalogName),
		CatalogDescription:    r.get(ColCatalogDesc),
		CatalogEnableDownload: r.flag(ColCatalogDL),
		CatalogAllowLinks:     r.flag(ColCatalogLinks),
		IncludeModule:         r.flag(ColIncludeModule),
		ModuleName:            r.get(ColModuleName),
		ModuleID:              r.get(ColModuleID),
		Template:              r.get(ColTemplate),
		Recorder:              r.get(ColRecorder),
		NamingScheme:          r.get(ColNamingScheme),
		DeleteInactive:        r.flag(ColDeleteInactive),
	}

	for d, col := range dayColumns {
		req.Weekdays[d] = r.flag(col)
	}

	var err error

	if req.Recurrence, err = recurrence(r.get(ColRecurrence)); err != nil {
		return req, err
	}

	if f := r.get(ColFrequency); f != "" {
		if req.RecurrenceFrequency, err = strconv.Atoi(f); err != nil {
			return req, fmt.Errorf("column %q: %q is not a number", ColFrequency, f)
		}
	}

	startDate, err := parse(ColStartDate, r.get(ColStartDate), dateLayouts)
	if err != nil {
		return req, err
	}
	endDate, err := parse(ColEndDate, r.get(ColEndDate), dateLayouts)
	if err != nil {
		return req, err
	}
	startTime, err := parse(ColStartTime, strings.ToUpper(r.get(ColStartTime)), timeLayouts)
	if err != nil {
		return req, err
	}
	endTime, err := parse(ColEndTime, strings.ToUpper(r.get(ColEndTime)), timeLayouts)
	if err != nil {
		return req, err
	}

	req.StartAt = combine(startDate, startTime)
	req.EndAt = combine(endDate, endTime)
	req.Duration = durationMinutes(startTime, endTime)

	return req, nil
}

// SplitFolderPath turns "A/B/C" into its segments, dropping empty ones.
func SplitFolderPath(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}

	return out
}

func recurrence(label string) (string, error) {
	switch strings.ToLower(label) {
	case "weekly":
		return constants.RecurrenceWeekly, nil
	case "one time only", "single", "once":
		return constants.RecurrenceSingle, nil
	}

	return "", fmt.Errorf("column %q: unknown recurrence %q", ColRecurrence, label)
}

func parse(col, value string, layouts []string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("column %q is empty", col)
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("column %q: cannot parse %q", col, value)
}

func combine(date, clock time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
}

// durationMinutes is the span between two times of day. An end at or before
// the start yields a non-positive value that validation rejects.
func durationMinutes(start, end time.Time) int {
	return int(end.Sub(start).Minutes())
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}

	return true
}
