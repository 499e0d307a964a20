package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	r := setupServer(t)

	token := registerAndLogin(t, r, "owner@test.com", "password1")

	w := doRequest(t, r, http.MethodPost, "/project", token, gin.H{
		"title":       "Alpha",
		"description": "First project",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Alpha", body["name"])
	assert.Equal(t, "First project", body["description"])
	assert.Equal(t, "active", body["status"])
	assert.NotZero(t, body["id"])
	assert.NotZero(t, body["userId"])
}

func TestCreateProjectValidation(t *testing.T) {
	r := setupServer(t)

	token := registerAndLogin(t, r, "validation@test.com", "password1")

	w := doRequest(t, r, http.MethodPost, "/project", token, gin.H{"description": "no title"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Invalid input data", body["message"])
}

func TestProjectRoutesRequireAuth(t *testing.T) {
	r := setupServer(t)

	w := doRequest(t, r, http.MethodPost, "/project", "", gin.H{"title": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, "/project", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListProjectsScopedToOwner(t *testing.T) {
	r := setupServer(t)

	tokenA := registerAndLogin(t, r, "alice@test.com", "password1")
	tokenB := registerAndLogin(t, r, "bob@test.com", "password1")

	createProject(t, r, tokenA, "Alice One")
	createProject(t, r, tokenA, "Alice Two")
	createProject(t, r, tokenB, "Bob One")

	w := doRequest(t, r, http.MethodGet, "/project", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)

	projects := decodeList(t, w)
	require.Len(t, projects, 2)

	names := []string{projects[0]["name"].(string), projects[1]["name"].(string)}
	assert.ElementsMatch(t, []string{"Alice One", "Alice Two"}, names)

	w = doRequest(t, r, http.MethodGet, "/project", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)

	projects = decodeList(t, w)
	require.Len(t, projects, 1)
	assert.Equal(t, "Bob One", projects[0]["name"])
}
