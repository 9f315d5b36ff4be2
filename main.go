package main

import (
	"snpdna/api/contexts"
	sam "snpdna/api/middleware"
	"snpdna/api/models"
	serviceInfo "snpdna/api/models/constants/service-info"
	analysisMvc "snpdna/api/mvc/analysis"
	serviceInfoMvc "snpdna/api/mvc/service-info"
	esRepo "snpdna/api/repositories/elasticsearch"
	"snpdna/api/repositories/memory"
	"snpdna/api/services"
	"snpdna/api/utils"
	"time"

	"fmt"
	"net/http"
	"os"

	"snpdna/api/repositories"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tAnalysis Concurrency Level : %d\n"+
		"\tCompute Step Delay (ms) : %d\n"+
		"\tResult Retention (days) : %d\n"+
		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.AnalysisConcurrencyLevel,
		cfg.Api.ComputeStepDelayMillis,
		cfg.Api.RetentionDays,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Job repository :
	// -- Elasticsearch-backed when a cluster is configured,
	//    in-memory otherwise
	var (
		es   = utils.CreateEsConnection(&cfg)
		repo repositories.JobRepository
	)
	if len(cfg.Elasticsearch.Url) > 0 {
		repo = esRepo.NewJobRepository(&cfg, es)
	} else {
		repo = memory.NewJobRepository()
	}

	// Service Singletons
	xc := services.NewExecutor(repo,
		services.SimulatedVariantCalling(time.Duration(cfg.Api.ComputeStepDelayMillis)*time.Millisecond),
		cfg.Api.AnalysisConcurrencyLevel)
	az := services.NewAnalysisService(repo, xc)
	services.NewRetentionService(repo, cfg.Api.RetentionDays)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom SNP-DNA" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sc := &contexts.SnpContext{
				Context:         c,
				Es7Client:       es,
				Config:          &cfg,
				AnalysisService: az,
			}
			return h(sc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Analysis
	e.POST("/analysis", analysisMvc.AnalysisSubmit,
		// middleware
		sam.ValidateOptionalAnalysisTypeAttribute)
	e.GET("/analysis", analysisMvc.AnalysisGetById,
		// middleware
		sam.MandateAnalysisIdAttribute)
	e.PUT("/analysis", analysisMvc.AnalysisUpdate)
	e.DELETE("/analysis", analysisMvc.AnalysisDelete,
		// middleware
		sam.MandateAnalysisIdAttribute)

	e.GET("/analysis/overview", analysisMvc.GetAnalysisOverview)
	e.GET("/analysis/jobs", analysisMvc.GetAllAnalysisJobs)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
