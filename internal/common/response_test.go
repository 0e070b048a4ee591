package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 3, p.Pages)

	assert.Equal(t, 0, NewPagination(1, 20, 0).Pages)
	assert.Equal(t, 1, NewPagination(1, 20, 20).Pages)
	assert.Equal(t, 0, NewPagination(1, 0, 45).Pages)
}

func TestParsePagination(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=5", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	page, limit := ParsePagination(c, 20)
	assert.Equal(t, 3, page)
	assert.Equal(t, 5, limit)

	// Junk and non-positive values fall back to defaults.
	req = httptest.NewRequest(http.MethodGet, "/?page=abc&limit=-1", nil)
	c = e.NewContext(req, httptest.NewRecorder())
	page, limit = ParsePagination(c, 20)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)
}

func TestParseSort(t *testing.T) {
	allowed := map[string]string{"name": "name", "created_at": "created_at"}

	col, dir := ParseSort("name", allowed, "created_at")
	assert.Equal(t, "name", col)
	assert.Equal(t, "ASC", dir)

	col, dir = ParseSort("-name", allowed, "created_at")
	assert.Equal(t, "name", col)
	assert.Equal(t, "DESC", dir)

	// Unknown columns cannot reach the SQL.
	col, dir = ParseSort("password_hash; DROP TABLE users", allowed, "created_at")
	assert.Equal(t, "created_at", col)
	assert.Equal(t, "DESC", dir)
}

func TestErrorHandler_WrapsHTTPErrors(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(echo.NewHTTPError(http.StatusNotFound, "Product not found"), c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Product not found", resp.Message)
}

func TestErrorHandler_GenericFor500(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(assert.AnError, c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp Response
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Internal server error", resp.Message)
}
