package analysis

import (
	"time"

	"snpdna/api/models/constants"
)

// Analysis error codes surfaced to the transport layer.
const (
	CodeNoFile        = "NO_FILE"
	CodeNoSequence    = "NO_SEQUENCE"
	CodeMissingId     = "MISSING_ID"
	CodeNotFound      = "NOT_FOUND"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeInternalError = "INTERNAL_ERROR"
)

// RequestError is a coded, recoverable error returned to callers
// (never used for internal control flow).
type RequestError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *RequestError) Error() string {
	return e.Message
}

// Input is the tagged "file vs sequence" union; exactly one
// of File or Sequence is set, and it is immutable once accepted.
type Input struct {
	File     *FileInput     `json:"file,omitempty"`
	Sequence *SequenceInput `json:"sequence,omitempty"`
}

type FileInput struct {
	// raw upload bytes; serialized (base64) so a persistent job
	// store can hand the payload back to the executor intact
	Content      []byte                 `json:"content,omitempty"`
	DeclaredType constants.AnalysisType `json:"declaredType"`
	FileName     string                 `json:"fileName"`
	FileSize     int64                  `json:"fileSize"`
	Metadata     map[string]string      `json:"metadata,omitempty"`
}

type SequenceInput struct {
	Sequence     string                 `json:"sequence"`
	SequenceType string                 `json:"sequenceType"`
	Gene         string                 `json:"gene"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// InputType is the type label carried into result metadata :
// the declared file type for file submissions, the sequence
// type (e.g. "DNA") for sequence submissions.
func (in *Input) InputType() string {
	if in.File != nil {
		return string(in.File.DeclaredType)
	}
	if in.Sequence != nil {
		return in.Sequence.SequenceType
	}
	return ""
}

// Job is one analysis request and its lifecycle record.
// All mutation goes through the job repository; no component
// holds a private copy that could desync.
type Job struct {
	Id          string                  `json:"id"`
	State       constants.AnalysisState `json:"state"`
	Input       Input                   `json:"input"`
	Result      *Result                 `json:"result,omitempty"`
	Failure     *Failure                `json:"failure,omitempty"`
	Progress    int                     `json:"progress"`
	Notes       string                  `json:"notes,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	StartedAt   *time.Time              `json:"startedAt,omitempty"`
	CompletedAt *time.Time              `json:"completedAt,omitempty"`
}

// Failure is the error payload a FAILED job carries in place of a full result.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result is produced exactly once per job by the executor and
// is immutable after write.
type Result struct {
	Summary  Summary        `json:"summary"`
	Metadata ResultMetadata `json:"metadata"`
	Progress int            `json:"progress"`
}

type Summary struct {
	TotalVariants            int                 `json:"totalVariants"`
	PathogenicVariants       int                 `json:"pathogenicVariants"`
	LikelyPathogenicVariants int                 `json:"likelyPathogenicVariants"`
	UncertainVariants        int                 `json:"uncertainVariants"`
	BenignVariants           int                 `json:"benignVariants"`
	OverallRisk              constants.RiskLevel `json:"overallRisk"`
	RiskScore                float64             `json:"riskScore"`
	Recommendations          []string            `json:"recommendations"`
}

type ResultMetadata struct {
	InputType             string  `json:"inputType"`
	FileName              string  `json:"fileName,omitempty"`
	FileSize              int64   `json:"fileSize,omitempty"`
	AlgorithmVersion      string  `json:"algorithmVersion"`
	QualityScore          float64 `json:"qualityScore"`
	ProcessingTimeSeconds float64 `json:"processingTime"`
	Coverage              float64 `json:"coverage"`
	ReadDepth             int     `json:"readDepth"`
}

// Patch is the client-driven administrative override applied
// via update; nil fields are left untouched.
type Patch struct {
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}
