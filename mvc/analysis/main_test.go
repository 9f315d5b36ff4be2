package analysis

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"snpdna/api/contexts"
	sam "snpdna/api/middleware"
	"snpdna/api/repositories/memory"
	"snpdna/api/services"
	"snpdna/api/tests/common"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
)

func TestAnalysisEndpoints(t *testing.T) {
	cfg := common.InitConfig()

	repo := memory.NewJobRepository()
	executor := services.NewExecutor(repo, services.SimulatedVariantCalling(0), cfg.Api.AnalysisConcurrencyLevel)
	analysisService := services.NewAnalysisService(repo, executor)

	setUpEcho := func(method string, path string, body io.Reader, contentType string) (*contexts.SnpContext, *httptest.ResponseRecorder) {
		e := echo.New()
		req := httptest.NewRequest(method, path, body)
		if len(contentType) > 0 {
			req.Header.Set(echo.HeaderContentType, contentType)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		sc := &contexts.SnpContext{
			Context:         c,
			Es7Client:       nil, // in-memory repository under test
			Config:          cfg,
			AnalysisService: analysisService,
		}
		return sc, rec
	}

	getJsonBody := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		// - extract body bytes from response
		body, _ := io.ReadAll(rec.Body)
		// - unmarshal or decode the JSON to a declared empty interface.
		var bodyJson map[string]interface{}
		json.Unmarshal(body, &bodyJson)

		return bodyJson
	}

	submitSequence := func(t *testing.T, payload string) (map[string]interface{}, *httptest.ResponseRecorder) {
		sc, rec := setUpEcho(http.MethodPost, "/analysis", strings.NewReader(payload), echo.MIMEApplicationJSON)
		assert.NoError(t, AnalysisSubmit(sc))
		return getJsonBody(rec), rec
	}

	t.Run("should accept a json sequence submission", func(t *testing.T) {
		body, rec := submitSequence(t, `{"sequence": "ACGTACGT", "type": "DNA", "gene": "BRCA1"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"].(bool))

		data := body["data"].(map[string]interface{})
		assert.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9_]+$`), data["id"].(string))
		assert.Contains(t, []string{"PENDING", "PROCESSING", "COMPLETED", "FAILED"}, data["state"].(string))

		meta := body["meta"].(map[string]interface{})
		assert.NotEmpty(t, meta["requestId"].(string))
		assert.NotEmpty(t, meta["version"].(string))
	})

	t.Run("should default sequence type and gene", func(t *testing.T) {
		body, rec := submitSequence(t, `{"sequence": "ACGTACGT"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		input := body["data"].(map[string]interface{})["input"].(map[string]interface{})
		sequence := input["sequence"].(map[string]interface{})
		assert.Equal(t, "DNA", sequence["sequenceType"].(string))
		assert.Equal(t, "BRCA1", sequence["gene"].(string))
	})

	t.Run("should reject a json submission with no sequence", func(t *testing.T) {
		body, rec := submitSequence(t, `{"gene": "BRCA1"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, body["success"].(bool))
		assert.Equal(t, "NO_SEQUENCE", body["error"].(map[string]interface{})["code"].(string))
	})

	t.Run("should accept a multipart file submission", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		filePart, _ := writer.CreateFormFile("file", "sample.vcf")
		filePart.Write([]byte("##fileformat=VCFv4.2\n#CHROM\tPOS\tID\tREF\tALT\n"))
		writer.WriteField("type", "VCF")
		writer.WriteField("patientId", "patient-001")
		writer.Close()

		sc, rec := setUpEcho(http.MethodPost, "/analysis", &buf, writer.FormDataContentType())
		assert.NoError(t, AnalysisSubmit(sc))

		body := getJsonBody(rec)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, body["success"].(bool))

		input := body["data"].(map[string]interface{})["input"].(map[string]interface{})
		file := input["file"].(map[string]interface{})
		assert.Equal(t, "VCF", file["declaredType"].(string))
		assert.Equal(t, "sample.vcf", file["fileName"].(string))
	})

	t.Run("should reject a multipart submission with no file", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		writer.WriteField("type", "VCF")
		writer.Close()

		sc, rec := setUpEcho(http.MethodPost, "/analysis", &buf, writer.FormDataContentType())
		assert.NoError(t, AnalysisSubmit(sc))

		body := getJsonBody(rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "NO_FILE", body["error"].(map[string]interface{})["code"].(string))
	})

	t.Run("should mandate an id on retrieval", func(t *testing.T) {
		sc, rec := setUpEcho(http.MethodGet, "/analysis", nil, "")
		handler := sam.MandateAnalysisIdAttribute(AnalysisGetById)
		assert.NoError(t, handler(sc))

		body := getJsonBody(rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_ID", body["error"].(map[string]interface{})["code"].(string))
	})

	t.Run("should answer not found for an unknown id", func(t *testing.T) {
		sc, rec := setUpEcho(http.MethodGet, "/analysis?id=nonexistent-id", nil, "")
		handler := sam.MandateAnalysisIdAttribute(AnalysisGetById)
		assert.NoError(t, handler(sc))

		body := getJsonBody(rec)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "NOT_FOUND", body["error"].(map[string]interface{})["code"].(string))
	})

	t.Run("should mandate an id on update", func(t *testing.T) {
		sc, rec := setUpEcho(http.MethodPut, "/analysis", strings.NewReader(`{"status": "CANCELLED"}`), echo.MIMEApplicationJSON)
		assert.NoError(t, AnalysisUpdate(sc))

		body := getJsonBody(rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_ID", body["error"].(map[string]interface{})["code"].(string))
	})

	t.Run("should answer not found updating an unknown id", func(t *testing.T) {
		sc, rec := setUpEcho(http.MethodPut, "/analysis", strings.NewReader(`{"id": "nonexistent-id", "status": "X"}`), echo.MIMEApplicationJSON)
		assert.NoError(t, AnalysisUpdate(sc))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should update and delete a submitted analysis", func(t *testing.T) {
		body, _ := submitSequence(t, `{"sequence": "TTGACCAA"}`)
		analysisId := body["data"].(map[string]interface{})["id"].(string)

		// administrative override
		sc, rec := setUpEcho(http.MethodPut, "/analysis", strings.NewReader(`{"id": "`+analysisId+`", "status": "CANCELLED"}`), echo.MIMEApplicationJSON)
		assert.NoError(t, AnalysisUpdate(sc))
		updated := getJsonBody(rec)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "CANCELLED", updated["data"].(map[string]interface{})["state"].(string))

		// first delete succeeds
		sc, rec = setUpEcho(http.MethodDelete, "/analysis?id="+analysisId, nil, "")
		handler := sam.MandateAnalysisIdAttribute(AnalysisDelete)
		assert.NoError(t, handler(sc))
		deleted := getJsonBody(rec)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, deleted["data"].(map[string]interface{})["deleted"].(bool))

		// retrieval and a second delete both answer not found
		sc, rec = setUpEcho(http.MethodGet, "/analysis?id="+analysisId, nil, "")
		handler = sam.MandateAnalysisIdAttribute(AnalysisGetById)
		assert.NoError(t, handler(sc))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		sc, rec = setUpEcho(http.MethodDelete, "/analysis?id="+analysisId, nil, "")
		handler = sam.MandateAnalysisIdAttribute(AnalysisDelete)
		assert.NoError(t, handler(sc))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("should report an overview of job states", func(t *testing.T) {
		sc, rec := setUpEcho(http.MethodGet, "/analysis/overview", nil, "")
		assert.NoError(t, GetAnalysisOverview(sc))

		body := getJsonBody(rec)
		assert.Equal(t, http.StatusOK, rec.Code)
		data := body["data"].(map[string]interface{})
		assert.GreaterOrEqual(t, data["total"].(float64), 1.0)
	})
}
