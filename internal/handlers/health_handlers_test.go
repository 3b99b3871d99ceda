package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farmmart/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubCache struct{ pingErr error }

func (s stubCache) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return nil, nil
}

func (s stubCache) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	return nil
}

func (s stubCache) DeleteProduct(ctx context.Context, productID uuid.UUID) error { return nil }

func (s stubCache) GetSalesReport(ctx context.Context, farmerID uuid.UUID) (*models.SalesReport, error) {
	return nil, nil
}

func (s stubCache) SetSalesReport(ctx context.Context, report *models.SalesReport, ttl time.Duration) error {
	return nil
}

func (s stubCache) DeleteSalesReport(ctx context.Context, farmerID uuid.UUID) error { return nil }

func (s stubCache) Ping(ctx context.Context) error { return s.pingErr }

type stubJobs struct{}

func (stubJobs) JobStatus() map[string]interface{} {
	return map[string]interface{}{
		"total_jobs": 2,
		"jobs":       []string{"low-stock-alerts", "sales-report-refresh"},
	}
}

func readinessRequest(h *HealthHandlers) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	return rec, h.ReadinessCheck(e.NewContext(req, rec))
}

func TestReadinessCheck_AllHealthy(t *testing.T) {
	h := NewHealthHandlers(stubPinger{}, stubCache{}, stubJobs{})

	rec, err := readinessRequest(h)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
		Jobs   struct {
			TotalJobs int      `json:"total_jobs"`
			Jobs      []string `json:"jobs"`
		} `json:"jobs"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Checks["database"])
	assert.Equal(t, "ok", body.Checks["cache"])
	assert.Equal(t, 2, body.Jobs.TotalJobs)
	assert.ElementsMatch(t, []string{"low-stock-alerts", "sales-report-refresh"}, body.Jobs.Jobs)
}

func TestReadinessCheck_DatabaseDown(t *testing.T) {
	h := NewHealthHandlers(stubPinger{err: errors.New("connection refused")}, stubCache{}, stubJobs{})

	rec, err := readinessRequest(h)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Checks map[string]string `json:"checks"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "connection refused", body.Checks["database"])
	assert.Equal(t, "ok", body.Checks["cache"])
}

func TestReadinessCheck_CacheDown(t *testing.T) {
	h := NewHealthHandlers(stubPinger{}, stubCache{pingErr: errors.New("redis unreachable")}, stubJobs{})

	rec, err := readinessRequest(h)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Checks map[string]string `json:"checks"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "redis unreachable", body.Checks["cache"])
}
