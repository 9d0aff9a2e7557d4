package types

import (
	"encoding/json"
	"time"
)

// ModelStatusKind enumerates the user-facing states of the text model.
type ModelStatusKind string

const (
	StatusNotConfigured ModelStatusKind = "not_configured"
	StatusTokenSaved    ModelStatusKind = "token_saved"
	StatusConnecting    ModelStatusKind = "connecting"
	StatusDownloading   ModelStatusKind = "downloading"
	StatusLoading       ModelStatusKind = "loading"
	StatusReady         ModelStatusKind = "ready"
	StatusError         ModelStatusKind = "error"
)

// ModelStatus is a tagged variant: Message is only set for StatusError.
type ModelStatus struct {
	// example: ready
	Kind ModelStatusKind `json:"kind" example:"ready"`
	// example: connection refused
	Message string `json:"message,omitempty" example:"connection refused"`
}

// ErrorStatus builds the Error(message) variant.
func ErrorStatus(msg string) ModelStatus {
	return ModelStatus{Kind: StatusError, Message: msg}
}

// Busy reports whether the status blocks new init/clear actions.
func (s ModelStatus) Busy() bool {
	return s.Kind == StatusConnecting || s.Kind == StatusDownloading || s.Kind == StatusLoading
}

func (s ModelStatus) String() string {
	if s.Kind == StatusError {
		return string(s.Kind) + ": " + s.Message
	}
	return string(s.Kind)
}

// DefaultModelVersion is the registry repository used when none is configured.
const DefaultModelVersion = "neuralmind/bert-base-portuguese-cased"

// AIConfiguration is persisted as a single JSON document and rewritten
// wholesale on every save.
type AIConfiguration struct {
	// Base64 of the access token. Not encryption.
	TokenEncoded        *string             `json:"huggingface_token_encrypted,omitempty"`
	AutoLoadOnStartup   bool                `json:"auto_load_on_startup"`
	ModelCachePath      *string             `json:"model_cache_path,omitempty"`
	LastSuccessfulLoad  *time.Time          `json:"last_successful_load,omitempty"`
	ModelVersion        *string             `json:"model_version,omitempty"`
	DownloadPreferences DownloadPreferences `json:"download_preferences"`
}

// DefaultAIConfiguration mirrors what a missing config file means.
func DefaultAIConfiguration() AIConfiguration {
	v := DefaultModelVersion
	return AIConfiguration{
		ModelVersion:        &v,
		DownloadPreferences: DefaultDownloadPreferences(),
	}
}

// RepoID returns the configured model repository or the default one.
func (c AIConfiguration) RepoID() string {
	if c.ModelVersion != nil && *c.ModelVersion != "" {
		return *c.ModelVersion
	}
	return DefaultModelVersion
}

// DownloadPreferences tune artifact fetching.
type DownloadPreferences struct {
	ResumeOnInterrupt bool `json:"resume_on_interrupt"`
	VerifyIntegrity   bool `json:"verify_integrity"`
}

// DefaultDownloadPreferences enables both resume and integrity checks.
func DefaultDownloadPreferences() DownloadPreferences {
	return DownloadPreferences{ResumeOnInterrupt: true, VerifyIntegrity: true}
}

// UnmarshalJSON defaults absent keys to true.
func (p *DownloadPreferences) UnmarshalJSON(b []byte) error {
	var raw struct {
		ResumeOnInterrupt *bool `json:"resume_on_interrupt"`
		VerifyIntegrity   *bool `json:"verify_integrity"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = DefaultDownloadPreferences()
	if raw.ResumeOnInterrupt != nil {
		p.ResumeOnInterrupt = *raw.ResumeOnInterrupt
	}
	if raw.VerifyIntegrity != nil {
		p.VerifyIntegrity = *raw.VerifyIntegrity
	}
	return nil
}

// CacheInfo is derived from the on-disk cache and never persisted.
type CacheInfo struct {
	// example: /home/user/.cache/huggingface/hub/models--neuralmind--bert-base-portuguese-cased
	Location string `json:"location"`
	// example: true
	Exists bool `json:"exists" example:"true"`
	// example: 440401920
	SizeBytes uint64 `json:"size_bytes" example:"440401920"`
	// example: 420.00 MB
	SizeHuman string `json:"size_human" example:"420.00 MB"`
}

// Snapshot points at the three model artifacts of one cached revision.
type Snapshot struct {
	Revision      string `json:"revision"`
	Dir           string `json:"dir"`
	ConfigPath    string `json:"config_path"`
	TokenizerPath string `json:"tokenizer_path"`
	WeightsPath   string `json:"weights_path"`
}
