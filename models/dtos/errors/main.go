package errors

import (
	"snpdna/api/models/dtos"
)

/*
	Utility functions to facillitate returning error responses to HTTP clients
*/

// -- Simplest: 1 coded error with message
func CreateSimpleBadRequest(code string, message string) dtos.ApiResponse {
	return dtos.ApiResponse{
		Success: false,
		Error: &dtos.ApiError{
			Code:    code,
			Message: message,
		},
		Meta: dtos.NewMeta(),
	}
}

func CreateSimpleNotFound(message string) dtos.ApiResponse {
	return dtos.ApiResponse{
		Success: false,
		Error: &dtos.ApiError{
			Code:    "NOT_FOUND",
			Message: message,
		},
		Meta: dtos.NewMeta(),
	}
}

func CreateSimpleInternalServerError(message string) dtos.ApiResponse {
	return dtos.ApiResponse{
		Success: false,
		Error: &dtos.ApiError{
			Code:    "INTERNAL_ERROR",
			Message: message,
		},
		Meta: dtos.NewMeta(),
	}
}
