package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
	serviceMocks "alfredoptarigan/resume-analyzer/internal/services/mocks"
)

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := newTestApp()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var body errorPayload
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestLivenessProbe(t *testing.T) {
	app := newTestApp()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorHandler_UnknownRoute(t *testing.T) {
	app := newTestApp()

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body errorPayload
	decodeBody(t, resp.Body, &body)
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "req-42", body.RequestID)
}

func TestHandleParseFeedback(t *testing.T) {
	app := newTestApp()
	app.Post("/feedback/parse", NewFeedbackHandler(services.NewFeedbackParser()).HandleParse)

	t.Run("structured", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/feedback/parse", models.ParseFeedbackRequest{
			Text: "Score: 82%\nSkills: Add more keywords\nGeneral advice:\n- Use bullet points",
		})
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var report models.AnalysisReport
		decodeBody(t, resp.Body, &report)
		require.NotNil(t, report.Score)
		assert.Equal(t, 82, *report.Score)
		assert.Equal(t, []models.Section{{Label: "Skills", Detail: "Add more keywords"}}, report.Sections)
		assert.Equal(t, []string{"Use bullet points"}, report.GeneralAdvice)
	})

	t.Run("empty text", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/feedback/parse", models.ParseFeedbackRequest{}))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var raw map[string]any
		decodeBody(t, resp.Body, &raw)
		assert.Nil(t, raw["score"])
		assert.Equal(t, []any{}, raw["sections"])
		assert.Equal(t, []any{}, raw["general_advice"])
	})

	t.Run("invalid payload", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/feedback/parse", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestHandleExtractSkills(t *testing.T) {
	analyzer := new(serviceMocks.MockAnalyzerService)
	app := newTestApp()
	app.Post("/skills", NewSkillsHandler(analyzer).HandleExtractSkills)

	t.Run("success", func(t *testing.T) {
		analyzer.On("ExtractSkills", mock.Anything, "Go, Kubernetes").
			Return([]string{"Go", "Kubernetes"}, nil).Once()

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/skills", models.SkillsRequest{JobDescription: "Go, Kubernetes"}))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body models.SkillsResponse
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, []string{"Go", "Kubernetes"}, body.Skills)
	})

	t.Run("empty job description", func(t *testing.T) {
		analyzer.On("ExtractSkills", mock.Anything, "").Return(nil, services.ErrEmptyJobDescription).Once()

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/skills", models.SkillsRequest{}))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, "JOB_DESCRIPTION_REQUIRED", body.Error.Code)
	})

	t.Run("generation failure", func(t *testing.T) {
		analyzer.On("ExtractSkills", mock.Anything, "Rust").Return(nil, errors.New("quota exceeded")).Once()

		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/skills", models.SkillsRequest{JobDescription: "Rust"}))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		var body errorPayload
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, "GENERATION_FAILED", body.Error.Code)
		assert.NotContains(t, body.Error.Message, "quota")
	})

	analyzer.AssertExpectations(t)
}

func TestVersionHandlers(t *testing.T) {
	h := NewVersionHandler(services.NewVersionStore())
	app := newTestApp()
	app.Post("/versions", h.HandleSave)
	app.Get("/versions", h.HandleList)
	app.Get("/versions/:id", h.HandleGet)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/versions", models.SaveVersionRequest{Content: "first draft"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var first models.ResumeVersion
	decodeBody(t, resp.Body, &first)
	assert.Equal(t, "Version 1", first.Name)
	assert.NotEmpty(t, first.ID)

	resp, err = app.Test(jsonRequest(t, http.MethodPost, "/versions", models.SaveVersionRequest{Name: "Tailored", Content: "second draft"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/versions", nil))
	require.NoError(t, err)
	var list struct {
		Versions []models.ResumeVersion `json:"versions"`
	}
	decodeBody(t, resp.Body, &list)
	require.Len(t, list.Versions, 2)
	assert.Equal(t, "Version 1", list.Versions[0].Name)
	assert.Equal(t, "Tailored", list.Versions[1].Name)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/versions/"+first.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var got models.ResumeVersion
	decodeBody(t, resp.Body, &got)
	assert.Equal(t, "first draft", got.Content)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/versions/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterRoutes(t *testing.T) {
	extractor := new(serviceMocks.MockDocumentExtractor)
	app := newTestApp()
	RegisterRoutes(app.Group("/api/v1"), Handlers{
		Extract:  NewExtractHandler(extractor, 1024),
		Analysis: NewAnalysisHandler(nil, extractor, new(serviceMocks.MockWorker), 1024),
		Feedback: NewFeedbackHandler(services.NewFeedbackParser()),
		Skills:   NewSkillsHandler(new(serviceMocks.MockAnalyzerService)),
		Version:  NewVersionHandler(services.NewVersionStore()),
	})

	registered := map[string]bool{}
	for _, r := range app.GetRoutes(true) {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/extract",
		"POST /api/v1/analyses",
		"GET /api/v1/analyses",
		"GET /api/v1/analyses/:id",
		"POST /api/v1/feedback/parse",
		"POST /api/v1/job-descriptions/skills",
		"POST /api/v1/versions",
		"GET /api/v1/versions",
		"GET /api/v1/versions/:id",
	} {
		assert.True(t, registered[want], want)
	}

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/v1/feedback/parse", models.ParseFeedbackRequest{Text: "Score: 5%"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
