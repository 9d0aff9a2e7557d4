package types

// EvaluateRequest is the payload for POST /evaluate.
type EvaluateRequest struct {
	// Essay title, used as the theme.
	// example: Desafios da mobilidade urbana no Brasil
	Title string `json:"title" validate:"required,min=3" example:"Desafios da mobilidade urbana no Brasil"`
	// Essay body.
	Content string `json:"content" validate:"required,min=10"`
	// example: ENEM
	ExamType ExamType `json:"exam_type" validate:"required" example:"ENEM"`
	// Optional author id (uuid).
	UserID string `json:"user_id,omitempty" validate:"omitempty,uuid"`
}

// TokenRequest is the payload for PUT /token.
type TokenRequest struct {
	// example: hf_abcdefghijklmnop
	Token string `json:"token" validate:"required" example:"hf_abcdefghijklmnop"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ProgressResponse reports the latest initialization progress.
type ProgressResponse struct {
	// example: 0.4
	Progress float64 `json:"progress" example:"0.4"`
	// example: Downloading model weights...
	Message string      `json:"message" example:"Downloading model weights..."`
	Status  ModelStatus `json:"status"`
}

// ModelSnapshot summarizes the lifecycle manager for GET /status.
type ModelSnapshot struct {
	Initialized bool   `json:"initialized"`
	RepoID      string `json:"repo_id"`
	Revision    string `json:"revision,omitempty"`
	SnapshotDir string `json:"snapshot_dir,omitempty"`
	LastError   string `json:"last_error,omitempty"`
	// example: 1
	LoadsTotal uint64 `json:"loads_total" example:"1"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	Status          ModelStatus   `json:"status"`
	Model           ModelSnapshot `json:"model"`
	Cache           CacheInfo     `json:"cache"`
	TokenConfigured bool          `json:"token_configured"`
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}

// RubricsResponse wraps GET /rubrics.
type RubricsResponse struct {
	Rubrics []Rubric `json:"rubrics"`
}
