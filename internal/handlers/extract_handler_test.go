package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-analyzer/internal/models"
	"alfredoptarigan/resume-analyzer/internal/services"
	serviceMocks "alfredoptarigan/resume-analyzer/internal/services/mocks"
)

func TestHandleExtract(t *testing.T) {
	extractor := new(serviceMocks.MockDocumentExtractor)
	app := newTestApp()
	app.Post("/extract", NewExtractHandler(extractor, 1024).HandleExtract)

	t.Run("success", func(t *testing.T) {
		data := []byte("Jane Doe\nGo developer")
		extractor.On("Extract", mock.Anything, models.UploadedDocument{
			Data:      data,
			MediaType: models.MediaTypePlainText,
			Filename:  "resume.txt",
		}).Return("Jane Doe\nGo developer", nil).Once()

		req := multipartRequest(t, "/extract", nil, &testFile{
			field: "file", filename: "resume.txt", contentType: models.MediaTypePlainText, data: data,
		})
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body models.ExtractResponse
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, "resume.txt", body.Filename)
		assert.Equal(t, models.MediaTypePlainText, body.MediaType)
		assert.Equal(t, "Jane Doe\nGo developer", body.Text)
		extractor.AssertExpectations(t)
	})

	t.Run("missing file", func(t *testing.T) {
		resp, err := app.Test(multipartRequest(t, "/extract", map[string]string{"note": "x"}, nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, "FILE_REQUIRED", body.Error.Code)
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("file too large", func(t *testing.T) {
		req := multipartRequest(t, "/extract", nil, &testFile{
			field: "file", filename: "big.txt", contentType: models.MediaTypePlainText, data: make([]byte, 2048),
		})
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		decodeBody(t, resp.Body, &body)
		assert.Equal(t, "FILE_TOO_LARGE", body.Error.Code)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "unsupported", err: services.ErrUnsupportedFormat, status: http.StatusUnsupportedMediaType, code: "UNSUPPORTED_FORMAT"},
		{name: "corrupt", err: services.ErrCorruptDocument, status: http.StatusUnprocessableEntity, code: "CORRUPT_DOCUMENT"},
		{name: "encoding", err: services.ErrEncoding, status: http.StatusUnprocessableEntity, code: "ENCODING_ERROR"},
		{name: "unexpected", err: errors.New("disk full"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			extractor.On("Extract", mock.Anything, mock.Anything).Return("", tt.err).Once()

			req := multipartRequest(t, "/extract", nil, &testFile{
				field: "file", filename: "resume.bin", contentType: "image/png", data: []byte("data"),
			})
			resp, err := app.Test(req)
			require.NoError(t, err)

			assert.Equal(t, tt.status, resp.StatusCode)
			var body errorPayload
			decodeBody(t, resp.Body, &body)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "disk full")
		})
	}
}
