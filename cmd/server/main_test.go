package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yukikurage/project-tracker/internal/database"
	"github.com/yukikurage/project-tracker/internal/logger"
	"github.com/yukikurage/project-tracker/internal/password"
	"github.com/yukikurage/project-tracker/internal/services"
	"github.com/yukikurage/project-tracker/internal/token"
)

func TestOpsHandler(t *testing.T) {
	db, err := database.Open(":memory:", logger.Nop(), database.Options{})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	require.NoError(t, database.RegisterMetrics(registry, db, "tracker"))

	issuer, err := token.NewIssuer("ops-test-secret", time.Hour, time.Hour)
	require.NoError(t, err)
	handler := opsHandler(registry, services.New(db, password.NewBcryptHasher(bcrypt.MinCost), issuer, logger.Nop()))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_sql_open_connections")

	require.NoError(t, database.Close(db))

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
