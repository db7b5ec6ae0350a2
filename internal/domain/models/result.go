package models

import "time"

type OccurrenceResult struct {
	Start        time.Time `json:"start"`
	RecurrenceID string    `json:"recurrence_id,omitempty"`
	Error        string    `json:"error,omitempty"`
	Err          error     `json:"-"`
}

func (r OccurrenceResult) OK() bool {
	return r.Err == nil
}

// RowResult is the authoritative record of what was created for one input row.
type RowResult struct {
	RunID       string             `json:"run_id"`
	Line        int                `json:"line"`
	Name        string             `json:"name"`
	Error       string             `json:"error,omitempty"`
	Err         error              `json:"-"`
	Resources   Resources          `json:"resources"`
	ScheduleID  string             `json:"schedule_id,omitempty"`
	Occurrences []OccurrenceResult `json:"occurrences,omitempty"`
}

func (r RowResult) Failed() int {
	n := 0
	for _, o := range r.Occurrences {
		if !o.OK() {
			n++
		}
	}

	return n
}
