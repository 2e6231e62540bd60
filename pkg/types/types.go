package types

import "time"

// EmbedMode is the structural placement strategy for credential values
// within a synthesized document.
type EmbedMode string

const (
	ModeInlineBody  EmbedMode = "inline-body"
	ModeAttachment  EmbedMode = "attachment-blob"
	ModeMetadata    EmbedMode = "metadata-field"
	ModeDistributed EmbedMode = "distributed-sections"
)

// IsValidEmbedMode reports whether s names a known embedding mode.
func IsValidEmbedMode(s string) bool {
	switch EmbedMode(s) {
	case ModeInlineBody, ModeAttachment, ModeMetadata, ModeDistributed:
		return true
	}
	return false
}

// EmbeddingDecision is the output of the strategy engine for one job.
// When Fallback is set, Requested holds the mode the format could not
// satisfy; the substitution is recorded here rather than silently absorbed.
type EmbeddingDecision struct {
	Mode      EmbedMode   `json:"mode"`
	Fallback  bool        `json:"fallback,omitempty"`
	Requested EmbedMode   `json:"requested,omitempty"`
	Sections  int         `json:"sections,omitempty"`
	Slots     map[int]int `json:"slots,omitempty"` // credential index -> section
}

// Credential is one synthesized credential value with its registered type.
type Credential struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Job is one planned unit of work producing exactly one output file.
// Jobs are immutable after planning; exactly one executor owns each job.
type Job struct {
	Index           int      `json:"index"`
	Format          string   `json:"format"`
	Topic           string   `json:"topic"` // may be a comma-joined multi-topic string
	CredentialTypes []string `json:"credential_types"`
	Seed            uint64   `json:"seed"`
	Path            string   `json:"path"`
}

// Document is everything a format writer needs to synthesize one file.
type Document struct {
	Topic       string
	Content     string
	Credentials []Credential
	Embedding   EmbeddingDecision
	Seed        uint64
}

// Stage identifies where in the job pipeline a failure occurred.
type Stage string

const (
	StageContent     Stage = "content"
	StageCredentials Stage = "credentials"
	StageEmbedding   Stage = "embedding"
	StageSynthesis   Stage = "synthesis"
)

// ErrorKind classifies a failure for the batch report.
type ErrorKind string

const (
	KindConfiguration        ErrorKind = "ConfigurationError"
	KindContentGeneration    ErrorKind = "ContentGenerationError"
	KindCredentialGeneration ErrorKind = "CredentialGenerationError"
	KindSynthesis            ErrorKind = "SynthesisError"
	KindResourceExhaustion   ErrorKind = "ResourceExhaustionError"
	KindCancelled            ErrorKind = "CancelledError"
)

// FileRecord describes one successfully generated file.
type FileRecord struct {
	JobIndex            int               `json:"job_index"`
	Path                string            `json:"path"`
	Format              string            `json:"format"`
	Topic               string            `json:"topic"`
	CredentialTypes     []string          `json:"credential_types"`
	CredentialsEmbedded int               `json:"credentials_embedded"`
	Embedding           EmbeddingDecision `json:"embedding"`
}

// Failure describes one failed job.
type Failure struct {
	JobIndex int       `json:"job_index"`
	Stage    Stage     `json:"stage"`
	Kind     ErrorKind `json:"error_kind"`
	Message  string    `json:"message"`
}

// Result is the outcome of one job: exactly one of File or Fail is set.
// Immutable once produced.
type Result struct {
	JobIndex int         `json:"job_index"`
	File     *FileRecord `json:"file,omitempty"`
	Fail     *Failure    `json:"failure,omitempty"`
}

// Succeeded reports whether the result carries a file record.
func (r Result) Succeeded() bool { return r.File != nil }

// Report is the final aggregate of a batch run. It owns copies of result
// data and never references live job state after completion.
type Report struct {
	BatchID           string         `json:"batch_id"`
	StartedAt         time.Time      `json:"started_at"`
	Duration          time.Duration  `json:"duration"`
	Cancelled         bool           `json:"cancelled,omitempty"`
	Workers           int            `json:"workers"`
	Files             []FileRecord   `json:"files"`
	Failures          []Failure      `json:"failures"`
	TotalFiles        int            `json:"total_files"`
	TotalCredentials  int            `json:"total_credentials"`
	FilesByFormat     map[string]int `json:"files_by_format"`
	CredentialsByType map[string]int `json:"credentials_by_type"`
}
