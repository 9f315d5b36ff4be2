package middleware

import (
	"net/http"

	"snpdna/api/contexts"
	"snpdna/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure an `id` HTTP query parameter was provided
*/
func MandateAnalysisIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sc := c.(*contexts.SnpContext)

		// check for id query parameter
		analysisId := c.QueryParam("id")
		if len(analysisId) == 0 {
			// if no id was provided, return an error
			return c.JSON(http.StatusBadRequest,
				errors.CreateSimpleBadRequest("MISSING_ID", "Analysis ID is required"))
		}

		sc.AnalysisId = analysisId
		return next(sc)
	}
}
