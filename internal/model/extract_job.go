package model

// ExtractJob is the payload published to the extraction queue after an upload.
// JobID correlates worker log lines with the upload that produced them.
type ExtractJob struct {
	JobID      string `json:"job_id"`
	DocumentID uint   `json:"document_id"`
}
