package contexts

import (
	"snpdna/api/models"
	"snpdna/api/services"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  the analysis service and other variables
	SnpContext struct {
		echo.Context
		Es7Client       *es7.Client
		Config          *models.Config
		AnalysisService *services.AnalysisService

		// set by route middleware
		AnalysisId string
	}
)
