package models

// SearchRecordRequest is the admin API payload for creating or updating a record.
type SearchRecordRequest struct {
	Phrase string `json:"phrase"`
	Count  *int64 `json:"count,omitempty"`
}

// HistoryAPIResponse wraps a list of records for the admin API.
type HistoryAPIResponse struct {
	Records []SearchRecord `json:"records"`
	Total   int            `json:"total"`
}
