package client

// BatchRequest is the body of POST /batches.
type BatchRequest struct {
	Passthrough

	InputFileID      string            `json:"input_file_id"`
	Endpoint         string            `json:"endpoint"`
	CompletionWindow string            `json:"completion_window,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// BatchResponse describes a batch job.
type BatchResponse struct {
	RawResponse

	ID            string            `json:"id"`
	Object        string            `json:"object"`
	Endpoint      string            `json:"endpoint"`
	Status        string            `json:"status"`
	InputFileID   string            `json:"input_file_id"`
	OutputFileID  string            `json:"output_file_id,omitempty"`
	ErrorFileID   string            `json:"error_file_id,omitempty"`
	CreatedAt     int64             `json:"created_at"`
	InProgressAt  int64             `json:"in_progress_at,omitempty"`
	CompletedAt   int64             `json:"completed_at,omitempty"`
	FailedAt      int64             `json:"failed_at,omitempty"`
	RequestCounts *BatchCounts      `json:"request_counts,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// BatchCounts tallies the requests of a batch.
type BatchCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
