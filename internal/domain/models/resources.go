package models

type Folder struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	ParentFolderID string `json:"ParentFolderId"`
	Recycled       bool   `json:"Recycled,omitempty"`
}

type Catalog struct {
	ID             string `json:"Id,omitempty"`
	Name           string `json:"Name"`
	Description    string `json:"Description"`
	LinkedFolderID string `json:"LinkedFolderId"`
}

type Module struct {
	ID       string `json:"Id,omitempty"`
	Name     string `json:"Name"`
	ModuleID string `json:"ModuleId"`
}

type Template struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type Presentation struct {
	ID     string `json:"Id"`
	Title  string `json:"Title"`
	Status string `json:"Status"`
}

// Resources holds the ids created or found for one schedule row.
type Resources struct {
	FolderID  string `json:"folder_id"`
	CatalogID string `json:"catalog_id,omitempty"`
	ModuleID  string `json:"module_id,omitempty"`
}

type ReportSummary struct {
	PresentationsAvailable string `json:"presentations_available"`
	TotalTimeWatched       string `json:"total_time_watched"`
	PresentationsWatched   string `json:"presentations_watched"`
	TotalViews             string `json:"total_views"`
	TotalUsers             string `json:"total_users"`
	PeakConnections        string `json:"peak_connections"`
}

type Report struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

type ReportExecution struct {
	JobID    string `json:"JobId"`
	JobLink  string `json:"JobLink"`
	ResultID string `json:"ResultId"`
}

type ReportExport struct {
	JobLink      string `json:"JobLink"`
	DownloadLink string `json:"DownloadLink"`
}

type Job struct {
	ID            string `json:"Id"`
	Status        string `json:"Status"`
	StatusMessage string `json:"StatusMessage"`
}

func (j Job) String() string {
	if j.StatusMessage == "" {
		return j.Status
	}

	return j.Status + ": " + j.StatusMessage
}
