package dtos

import (
	"time"

	serviceInfo "snpdna/api/models/constants/service-info"

	"github.com/google/uuid"
)

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ApiError   `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	RequestId string    `json:"requestId"`
}

func NewMeta() Meta {
	return Meta{
		Timestamp: time.Now(),
		Version:   string(serviceInfo.SERVICE_VERSION),
		RequestId: uuid.New().String(),
	}
}

func NewSuccessResponse(data interface{}) ApiResponse {
	return ApiResponse{
		Success: true,
		Data:    data,
		Meta:    NewMeta(),
	}
}

// SequenceSubmissionDTO is the JSON submission body.
type SequenceSubmissionDTO struct {
	Sequence string                 `json:"sequence"`
	Type     string                 `json:"type"`
	Gene     string                 `json:"gene"`
	Metadata map[string]interface{} `json:"metadata"`
}

// AnalysisUpdateDTO is the JSON body of the administrative update.
type AnalysisUpdateDTO struct {
	Id     string  `json:"id"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// DeleteResponseDataModel mirrors the payload shape returned on deletion.
type DeleteResponseDataModel struct {
	Id      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// AnalysisOverviewResponseDTO carries per-state job counts.
type AnalysisOverviewResponseDTO struct {
	Total       int            `json:"total"`
	StateCounts map[string]int `json:"stateCounts"`
}
