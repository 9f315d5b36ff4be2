package middleware

import (
	"net/http"

	analysisType "snpdna/api/models/constants/analysis-type"
	"snpdna/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
Echo middleware to validate an optionally provided `type` HTTP form value
on file submissions; an absent type defaults downstream, an unknown one
is rejected up front
*/
func ValidateOptionalAnalysisTypeAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		declaredType := c.FormValue("type")
		if len(declaredType) > 0 && !analysisType.IsKnownAnalysisType(declaredType) {
			// an unknown file type can never be analyzed
			return c.JSON(http.StatusBadRequest,
				errors.CreateSimpleBadRequest("INVALID_INPUT", "Unknown analysis type "+declaredType))
		}

		return next(c)
	}
}
