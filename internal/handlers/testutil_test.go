package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-dev/taskboard/db"
	"github.com/taskboard-dev/taskboard/internal/auth"
	"github.com/taskboard-dev/taskboard/internal/logger"
	"github.com/taskboard-dev/taskboard/internal/router"
)

// setupServer builds the real route table over a per-test in-memory SQLite
// database.
func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	t.Setenv("JWT_SECRET", "handlers-test-secret")
	require.NoError(t, auth.InitJWTSecret())
	require.NoError(t, logger.Init(true))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	database, err := db.Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, db.MigrateDatabase(database))

	return router.NewRouter(database)
}

func doRequest(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))

	return list
}

func registerAndLogin(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code)

	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	return token
}

func createProject(t *testing.T, r http.Handler, token, title string) uint {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/project", token, gin.H{"title": title})
	require.Equal(t, http.StatusCreated, w.Code)

	id, ok := decodeBody(t, w)["id"].(float64)
	require.True(t, ok)

	return uint(id)
}

func createTask(t *testing.T, r http.Handler, token string, projectID uint, body gin.H) map[string]any {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/project/%d/tasks", projectID), token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	return decodeBody(t, w)
}
