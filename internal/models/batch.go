package models

// DocumentState is the lifecycle of one schedule document in the batch
// pipeline.
type DocumentState string

const (
	DocumentStatePending    DocumentState = "pending"
	DocumentStateProcessing DocumentState = "processing"
	DocumentStateDone       DocumentState = "done"
	DocumentStateFailed     DocumentState = "failed"
)

// ProcessedFile identifies one document the batch moved to the done area.
type ProcessedFile struct {
	TeamID   string `json:"teamId"`
	Filename string `json:"filename"`
}

// BatchError records a per-document failure without aborting the batch.
type BatchError struct {
	TeamID   string `json:"teamId"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// BatchResult is the terminal, structured outcome of one batch run.
type BatchResult struct {
	ProcessedFiles []ProcessedFile `json:"processedFiles"`
	Errors         []BatchError    `json:"errors"`
}
