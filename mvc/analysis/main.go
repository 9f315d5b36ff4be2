package analysis

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"snpdna/api/contexts"
	analysisModels "snpdna/api/models/analysis"
	analysisType "snpdna/api/models/constants/analysis-type"
	"snpdna/api/models/dtos"
	serviceErrors "snpdna/api/models/dtos/errors"
	"snpdna/api/repositories"

	"github.com/labstack/echo"
)

const (
	defaultSequenceType = "DNA"
	defaultGene         = "BRCA1"
)

// AnalysisSubmit accepts either a multipart file upload or a JSON
// sequence payload, maps it to the analysis input union and schedules
// the job. The response returns immediately with the PENDING record;
// the id is usable for polling right away.
func AnalysisSubmit(c echo.Context) error {
	fmt.Printf("[%s] - AnalysisSubmit hit!\n", time.Now())
	sc := c.(*contexts.SnpContext)

	contentType := c.Request().Header.Get(echo.HeaderContentType)

	var input analysisModels.Input
	if strings.HasPrefix(contentType, echo.MIMEMultipartForm) {
		fileHeader, fhErr := c.FormFile("file")
		if fhErr != nil {
			return c.JSON(http.StatusBadRequest,
				serviceErrors.CreateSimpleBadRequest(analysisModels.CodeNoFile, "No file provided"))
		}

		file, openErr := fileHeader.Open()
		if openErr != nil {
			return c.JSON(http.StatusInternalServerError,
				serviceErrors.CreateSimpleInternalServerError("Failed to read uploaded file"))
		}
		defer file.Close()

		content, readErr := ioutil.ReadAll(file)
		if readErr != nil {
			return c.JSON(http.StatusInternalServerError,
				serviceErrors.CreateSimpleInternalServerError("Failed to read uploaded file"))
		}

		// gather optional submission metadata form values
		metadata := map[string]string{}
		for _, key := range []string{"patientId", "sampleId", "notes"} {
			if value := c.FormValue(key); len(value) > 0 {
				metadata[key] = value
			}
		}

		input = analysisModels.Input{
			File: &analysisModels.FileInput{
				Content:      content,
				DeclaredType: analysisType.CastToAnalysisType(c.FormValue("type")),
				FileName:     fileHeader.Filename,
				FileSize:     fileHeader.Size,
				Metadata:     metadata,
			},
		}
	} else {
		var dto dtos.SequenceSubmissionDTO
		if bindErr := c.Bind(&dto); bindErr != nil {
			return c.JSON(http.StatusBadRequest,
				serviceErrors.CreateSimpleBadRequest(analysisModels.CodeInvalidInput, "Malformed submission body"))
		}

		if len(dto.Type) == 0 {
			dto.Type = defaultSequenceType
		}
		if len(dto.Gene) == 0 {
			dto.Gene = defaultGene
		}

		input = analysisModels.Input{
			Sequence: &analysisModels.SequenceInput{
				Sequence:     dto.Sequence,
				SequenceType: dto.Type,
				Gene:         dto.Gene,
				Metadata:     dto.Metadata,
			},
		}
	}

	job, submitErr := sc.AnalysisService.Submit(input)
	if submitErr != nil {
		return writeFailure(c, submitErr)
	}

	return c.JSON(http.StatusOK, dtos.NewSuccessResponse(job))
}

// AnalysisGetById answers idempotent status/result polling.
func AnalysisGetById(c echo.Context) error {
	fmt.Printf("[%s] - AnalysisGetById hit!\n", time.Now())
	sc := c.(*contexts.SnpContext)

	job, getErr := sc.AnalysisService.GetStatus(sc.AnalysisId)
	if getErr != nil {
		return writeFailure(c, getErr)
	}

	return c.JSON(http.StatusOK, dtos.NewSuccessResponse(job))
}

// AnalysisUpdate applies the administrative status/notes override.
func AnalysisUpdate(c echo.Context) error {
	fmt.Printf("[%s] - AnalysisUpdate hit!\n", time.Now())
	sc := c.(*contexts.SnpContext)

	var dto dtos.AnalysisUpdateDTO
	if bindErr := c.Bind(&dto); bindErr != nil {
		return c.JSON(http.StatusBadRequest,
			serviceErrors.CreateSimpleBadRequest(analysisModels.CodeInvalidInput, "Malformed update body"))
	}
	if len(dto.Id) == 0 {
		return c.JSON(http.StatusBadRequest,
			serviceErrors.CreateSimpleBadRequest(analysisModels.CodeMissingId, "Analysis ID is required"))
	}

	job, updateErr := sc.AnalysisService.UpdateJob(dto.Id, analysisModels.Patch{
		Status: dto.Status,
		Notes:  dto.Notes,
	})
	if updateErr != nil {
		return writeFailure(c, updateErr)
	}

	return c.JSON(http.StatusOK, dtos.NewSuccessResponse(job))
}

// AnalysisDelete removes the job record; deletion is terminal and
// idempotent (the second delete of an id answers not-found).
func AnalysisDelete(c echo.Context) error {
	fmt.Printf("[%s] - AnalysisDelete hit!\n", time.Now())
	sc := c.(*contexts.SnpContext)

	deleted, deleteErr := sc.AnalysisService.DeleteJob(sc.AnalysisId)
	if deleteErr != nil {
		return writeFailure(c, deleteErr)
	}
	if !deleted {
		return c.JSON(http.StatusNotFound,
			serviceErrors.CreateSimpleNotFound("No analysis found with id "+sc.AnalysisId))
	}

	return c.JSON(http.StatusOK, dtos.NewSuccessResponse(dtos.DeleteResponseDataModel{
		Id:      sc.AnalysisId,
		Deleted: true,
	}))
}

// GetAnalysisOverview reports per-state job counts.
func GetAnalysisOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetAnalysisOverview hit!\n", time.Now())
	sc := c.(*contexts.SnpContext)

	overview, overviewErr := sc.AnalysisService.Overview()
	if overviewErr != nil {
		return writeFailure(c, overviewErr)
	}

	return c.JSON(http.StatusOK, dtos.NewSuccessResponse(overview))
}

// GetAllAnalysisJobs lists every current job record.
func GetAllAnalysisJobs(c echo.Context) error {
	fmt.Printf("[%s] - GetAllAnalysisJobs hit!\n", time.Now())
	sc := c.(*contexts.SnpContext)

	jobs, listErr := sc.AnalysisService.Repository.List()
	if listErr != nil {
		return writeFailure(c, listErr)
	}

	return c.JSON(http.StatusOK, dtos.NewSuccessResponse(jobs))
}

// writeFailure maps core errors to the envelope and a protocol code :
// 400 for client errors, 404 for not-found, 500 otherwise. The core
// itself only ever returns typed results/errors.
func writeFailure(c echo.Context, err error) error {
	if err == repositories.ErrNotFound {
		return c.JSON(http.StatusNotFound,
			serviceErrors.CreateSimpleNotFound("No analysis found with that id"))
	}

	if requestErr, ok := err.(*analysisModels.RequestError); ok {
		switch requestErr.Code {
		case analysisModels.CodeInternalError:
			return c.JSON(http.StatusInternalServerError,
				serviceErrors.CreateSimpleInternalServerError(requestErr.Message))
		default:
			return c.JSON(http.StatusBadRequest,
				serviceErrors.CreateSimpleBadRequest(requestErr.Code, requestErr.Message))
		}
	}

	return c.JSON(http.StatusInternalServerError,
		serviceErrors.CreateSimpleInternalServerError(err.Error()))
}
