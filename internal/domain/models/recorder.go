package models

type Recorder struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type RecorderStatus struct {
	Name       string `json:"name"`
	RecorderID string `json:"recorder_id"`
	State      string `json:"RecorderState"`
}

// ScheduledRecording is an upcoming recording slot reported by a recorder.
type ScheduledRecording struct {
	ScheduleID        string `json:"ScheduleId"`
	StartTime         string `json:"StartTime"`
	EndTime           string `json:"EndTime"`
	DurationInMinutes int    `json:"DurationInMinutes"`
	IsExcluded        bool   `json:"IsExcluded"`
}

type UpcomingRecording struct {
	Title     string `json:"title"`
	Location  string `json:"location"`
	Cancelled bool   `json:"cancelled"`
	ID        string `json:"id"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Duration  int    `json:"duration"`
}
