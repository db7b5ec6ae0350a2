package constants

const (
	RecurrenceSingle = "single"
	RecurrenceWeekly = "weekly"
)

// PatternNone is the platform recurrence pattern of a one-time recording.
const PatternNone = "None"

const (
	JobSuccessful = "Successful"
	JobFailed     = "Failed"
	JobCancelled  = "Cancelled"
	JobDisabled   = "Disabled"
)

// JobCompletionStateMissing is reported by folder deletion jobs that actually succeeded.
const JobCompletionStateMissing = "The job completion state is missing."

const (
	TitleTypeNone          = "None"
	TitleTypeAirDateTime   = "ScheduleNameAndAirDateTime"
	TitleTypeNameAndNumber = "ScheduleNameAndNumber"
)

// WireTimeLayout is the date-time layout the platform expects, always UTC.
const WireTimeLayout = "2006-01-02T15:04:05"
