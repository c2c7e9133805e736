package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/school-management-api/internal/config"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	cfg := &config.Config{
		Port:          "0",
		GinMode:       gin.TestMode,
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		DBDriver:      "sqlite",
		DBPath:        filepath.Join(dir, "school.db"),
		StorageDriver: "local",
		UploadDir:     filepath.Join(dir, "uploads"),
		PublicPath:    "/uploads",
		MaxUploadSize: 1 << 20,
	}

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, a *App, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return serve(a, req)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t)

	w := serve(a, httptest.NewRequest(http.MethodGet, RouteHealth, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"School Management API is running"}`, w.Body.String())

	w = serve(a, httptest.NewRequest(http.MethodGet, RouteMetrics, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `school_http_requests_total{method="GET",route="/health",status="200"} 1`)
}

func TestUploadedCoverIsServed(t *testing.T) {
	a := newTestApp(t)
	creds := map[string]string{"email": "admin@example.com", "password": "supersecret"}

	require.Equal(t, http.StatusCreated, postJSON(t, a, "/auth/register", creds).Code)
	w := postJSON(t, a, "/auth/login", creds)
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	require.NoError(t, mw.WriteField("name", "Algebra"))
	require.NoError(t, mw.WriteField("level", "1"))
	part, err := mw.CreateFormFile("cover", "cover.png")
	require.NoError(t, err)
	_, err = part.Write(png)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/courses", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w = serve(a, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var course struct {
		Cover *string `json:"cover"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &course))
	require.NotNil(t, course.Cover)

	w = serve(a, httptest.NewRequest(http.MethodGet, *course.Cover, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, png, w.Body.Bytes())
}

func TestNew_RejectsUnknownStorage(t *testing.T) {
	cfg := &config.Config{
		DBDriver:      "sqlite",
		DBPath:        filepath.Join(t.TempDir(), "school.db"),
		StorageDriver: "ftp",
	}

	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestNew_FailsWhenStoreUnreachable(t *testing.T) {
	cfg := &config.Config{
		DBDriver:      "sqlite",
		DBPath:        filepath.Join(t.TempDir(), "missing", "school.db"),
		StorageDriver: "local",
		UploadDir:     t.TempDir(),
	}

	a, err := New(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, a)
}
