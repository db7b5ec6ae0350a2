package models

import (
	"strings"
	"time"
)

// Weekdays is a Sunday-first weekday selection; the index is a time.Weekday.
type Weekdays [7]bool

func (w Weekdays) Has(d time.Weekday) bool {
	return w[d]
}

func (w Weekdays) Any() bool {
	for _, v := range w {
		if v {
			return true
		}
	}

	return false
}

// Pattern joins the selected weekday names with "|" in Sunday-first order.
func (w Weekdays) Pattern() string {
	var names []string
	for d, v := range w {
		if v {
			names = append(names, time.Weekday(d).String())
		}
	}

	return strings.Join(names, "|")
}

// ScheduleRequest describes one recording series to create. StartAt and EndAt
// are floating local wall-clock values carried in time.UTC.
type ScheduleRequest struct {
	Name       string   `json:"name" validate:"required"`
	FolderPath []string `json:"folder_path"`

	IncludeCatalog        bool   `json:"include_catalog"`
	CatalogName           string `json:"catalog_name" validate:"required_if=IncludeCatalog true"`
	CatalogDescription    string `json:"catalog_description"`
	CatalogEnableDownload bool   `json:"catalog_enable_download"`
	CatalogAllowLinks     bool   `json:"catalog_allow_links"`

	IncludeModule bool   `json:"include_module"`
	ModuleName    string `json:"module_name"`
	ModuleID      string `json:"module_id" validate:"required_if=IncludeModule true"`

	Template     string `json:"template" validate:"required"`
	Recorder     string `json:"recorder" validate:"required"`
	NamingScheme string `json:"naming_scheme"`

	Recurrence          string   `json:"recurrence" validate:"oneof=single weekly"`
	RecurrenceFrequency int      `json:"recurrence_frequency"`
	Weekdays            Weekdays `json:"weekdays"`

	StartAt  time.Time `json:"start_at" validate:"required"`
	EndAt    time.Time `json:"end_at" validate:"required,gtefield=StartAt"`
	Duration int       `json:"duration" validate:"gt=0"`

	DeleteInactive bool `json:"delete_inactive"`
}

// Schedule is the parent schedule resource on the platform.
type Schedule struct {
	ID                  string `json:"Id,omitempty"`
	Name                string `json:"Name"`
	FolderID            string `json:"FolderId"`
	TitleType           string `json:"TitleType"`
	ScheduleTemplateID  string `json:"ScheduleTemplateId"`
	IsUploadAutomatic   bool   `json:"IsUploadAutomatic"`
	RecorderID          string `json:"RecorderId"`
	RecorderName        string `json:"RecorderName"`
	CreatePresentation  bool   `json:"CreatePresentation"`
	LoadPresentation    bool   `json:"LoadPresentation"`
	AutoStart           bool   `json:"AutoStart"`
	AutoStop            bool   `json:"AutoStop"`
	AdvanceCreationTime int    `json:"AdvanceCreationTime"`
	NotifyPresenter     bool   `json:"NotifyPresenter"`
	Description         string `json:"Description"`
	DeleteInactive      bool   `json:"DeleteInactive"`
}

// Recurrence is one recurrence entry of a schedule. RecordDuration is in milliseconds.
type Recurrence struct {
	ID                  string `json:"Id,omitempty"`
	MediasiteID         string `json:"MediasiteId"`
	RecordDuration      int64  `json:"RecordDuration"`
	StartRecordDateTime string `json:"StartRecordDateTime"`
	EndRecordDateTime   string `json:"EndRecordDateTime,omitempty"`
	RecurrencePattern   string `json:"RecurrencePattern"`
	RecurrenceFrequency int    `json:"RecurrenceFrequency,omitempty"`
	DaysOfTheWeek       string `json:"DaysOfTheWeek,omitempty"`
}

// Occurrence is one concrete instant to record.
type Occurrence struct {
	Local    time.Time `json:"local"`
	Start    time.Time `json:"start"`
	Duration int       `json:"duration"`
}

// ImportRow is one parsed line of tabular input.
type ImportRow struct {
	Line     int
	Request  ScheduleRequest
	ParseErr error
}
