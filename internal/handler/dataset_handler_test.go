package handler_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/riodino14/edupulse-backend/internal/dataset"
	"github.com/riodino14/edupulse-backend/internal/dto"
	"github.com/riodino14/edupulse-backend/internal/handler"
	"github.com/riodino14/edupulse-backend/internal/service"
)

type stubDatasetService struct {
	status       dto.DatasetStatusResponse
	err          error
	uploadedName string
	reloads      int
}

func (s *stubDatasetService) Status(context.Context) (dto.DatasetStatusResponse, error) {
	return s.status, s.err
}

func (s *stubDatasetService) Reload(context.Context) (dto.DatasetStatusResponse, error) {
	s.reloads++
	return s.status, s.err
}

func (s *stubDatasetService) ReplaceGrades(_ context.Context, file *multipart.FileHeader) (dto.DatasetStatusResponse, error) {
	s.uploadedName = file.Filename
	return s.status, s.err
}

func (s *stubDatasetService) Publish(*dataset.Snapshot) {}

func newDatasetApp(svc *stubDatasetService) *fiber.App {
	app := fiber.New()
	handler.NewDatasetHandler(svc, nopLogger).Register(app.Group("/api/admin/dataset"))
	return app
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/dataset/grades", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestDatasetHandler_StatusAndReload(t *testing.T) {
	svc := &stubDatasetService{status: dto.DatasetStatusResponse{Version: "abc", Students: 6}}
	app := newDatasetApp(svc)

	status, body := perform(t, app, httptest.NewRequest(http.MethodGet, "/api/admin/dataset", nil))
	require.Equal(t, fiber.StatusOK, status)
	require.Contains(t, string(body.Data), `"version":"abc"`)

	status, _ = perform(t, app, httptest.NewRequest(http.MethodPost, "/api/admin/dataset/reload", nil))
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, 1, svc.reloads)

	svc.err = errors.New("features file missing")
	status, body = perform(t, app, httptest.NewRequest(http.MethodPost, "/api/admin/dataset/reload", nil))
	require.Equal(t, fiber.StatusInternalServerError, status)
	require.Contains(t, body.Message, "previous data is still served")
}

func TestDatasetHandler_UploadGrades(t *testing.T) {
	svc := &stubDatasetService{status: dto.DatasetStatusResponse{Version: "next"}}
	app := newDatasetApp(svc)

	status, _ := perform(t, app, uploadRequest(t, "grades.csv", []byte("userid,courseshortname\n")))
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "grades.csv", svc.uploadedName)

	status, body := perform(t, app, httptest.NewRequest(http.MethodPost, "/api/admin/dataset/grades", nil))
	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "file is required", body.Message)
}

func TestDatasetHandler_UploadErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{err: service.ErrUploadTooLarge, status: fiber.StatusRequestEntityTooLarge},
		{err: service.ErrUploadTypeNotAllowed, status: fiber.StatusBadRequest},
		{err: service.ErrUploadInvalid, status: fiber.StatusBadRequest},
		{err: errors.New("disk full"), status: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		app := newDatasetApp(&stubDatasetService{err: tc.err})
		status, _ := perform(t, app, uploadRequest(t, "grades.csv", []byte("x")))
		require.Equal(t, tc.status, status, tc.err.Error())
	}
}
