package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"courierdesk/internal/model"
	"courierdesk/internal/mw"
	"courierdesk/internal/service"
	"courierdesk/internal/store"
)

const testSecret = "handler-test-secret"

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	fx, err := store.LoadFixtures("")
	require.NoError(t, err)
	st := store.New()
	require.NoError(t, st.Seed(fx, time.Now()))

	log := zap.NewNop()
	svc := Services{
		Orders:  service.NewOrderService(st, log, "LK-2024-"),
		Drivers: service.NewDriverService(st, log),
		Cash:    service.NewCashService(st, log),
		Stats:   service.NewStatsService(st, time.UTC),
	}
	return NewRouter(svc, RouterConfig{
		ActorSecret:    testSecret,
		DefaultActor:   "Manager",
		AllowedOrigins: []string{"*"},
		Location:       time.UTC,
	}, log)
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreateOrder(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/orders", `{"customerName":"A","amount":500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	o := decode[model.Order](t, rec)
	assert.Regexp(t, `^ORD0\d\d$`, o.ID)
	assert.Regexp(t, `^LK-2024-0\d\d$`, o.OrderNumber)
	assert.Equal(t, model.OrderStatusPending, o.Status)
	assert.Equal(t, "A", o.CustomerName)
	assert.Equal(t, 500.0, o.Amount)

	rec = do(t, h, http.MethodPost, "/api/orders", `{"amount":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ValidationError", decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/api/orders", `{"customerName":"A","amount":500,"status":"assigned","assignedDriver":"D001"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	o = decode[model.Order](t, rec)
	assert.Equal(t, model.OrderStatusAssigned, o.Status)
	assert.Equal(t, "D001", o.AssignedDriver)
	assert.Equal(t, "Ravi", o.DriverName)

	rec = do(t, h, http.MethodPost, "/api/orders", `{"status":"in-transit"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ValidationError", decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/api/orders", `{"customerName":"A","orderNumber":"X-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BadRequest", decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/api/orders", `{"amount":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BadRequest", decode[errorResponse](t, rec).Code)
}

func TestAssignDriver(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/orders/ORD001/assign", `{"driverId":"D001"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	o := decode[model.Order](t, rec)
	assert.Equal(t, model.OrderStatusAssigned, o.Status)
	assert.Equal(t, "Ravi", o.DriverName)

	tests := []struct {
		name     string
		path     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"unknown order", "/api/orders/ORD999/assign", `{"driverId":"D001"}`, http.StatusNotFound, "NotFound"},
		{"unknown driver", "/api/orders/ORD001/assign", `{"driverId":"D999"}`, http.StatusNotFound, "NotFound"},
		{"missing driver", "/api/orders/ORD001/assign", `{}`, http.StatusBadRequest, "ValidationError"},
		{"inactive driver", "/api/orders/ORD001/assign", `{"driverId":"D004"}`, http.StatusBadRequest, "ValidationError"},
		{"terminal order", "/api/orders/ORD004/assign", `{"driverId":"D003"}`, http.StatusConflict, "InvalidTransition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantErr, decode[errorResponse](t, rec).Code)
		})
	}
}

func TestAdvanceStatus(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/orders/ORD003/status", `{"status":"delivered"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	o := decode[model.Order](t, rec)
	assert.Equal(t, model.OrderStatusDelivered, o.Status)
	assert.NotNil(t, o.DeliveredAt)

	rec = do(t, h, http.MethodPost, "/api/orders/ORD001/status", `{"status":"delivered"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "InvalidTransition", decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/api/orders/ORD002/status", `{"status":"teleported"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCashCollectionFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/cash-collections", `{"driverId":"D001","amount":1200,"ordersCount":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[model.CashCollection](t, rec)
	assert.Equal(t, model.CollectionStatusPending, created.Status)
	assert.Equal(t, "Ravi", created.DriverName)

	rec = do(t, h, http.MethodPost, "/api/cash-collections", `{"driverId":"D001","amount":10,"status":"approved","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BadRequest", decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/api/cash-collections/"+created.ID+"/approve", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decode[model.CashCollection](t, rec)
	assert.Equal(t, model.CollectionStatusApproved, approved.Status)
	assert.NotNil(t, approved.VerifiedAt)
	assert.Equal(t, "Manager", approved.VerifiedBy)

	rec = do(t, h, http.MethodPost, "/api/cash-collections/"+created.ID+"/reject", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "InvalidState", decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodGet, "/api/drivers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, d := range decode[[]model.Driver](t, rec) {
		if d.ID == "D001" {
			assert.Equal(t, 4400.0, d.CashCollected)
			assert.True(t, d.CashVerified)
		}
	}
}

func TestApproveUsesTokenActor(t *testing.T) {
	h := newTestRouter(t)
	token, err := mw.IssueActorToken(testSecret, "Asha", time.Hour, time.Now())
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/cash-collections/CC002/approve", "", "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Asha", decode[model.CashCollection](t, rec).VerifiedBy)

	rec = do(t, h, http.MethodGet, "/api/orders", "", "Authorization", "Bearer nonsense")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListCollectionViews(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/cash-collections?view=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decode[[]model.CashCollection](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, "CC002", pending[0].ID)

	rec = do(t, h, http.MethodGet, "/api/cash-collections", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.CashCollection](t, rec), 2)

	rec = do(t, h, http.MethodGet, "/api/cash-collections?view=everything", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchDriver(t *testing.T) {
	h := newTestRouter(t)

	before := do(t, h, http.MethodGet, "/api/drivers", "").Body.String()

	rec := do(t, h, http.MethodPatch, "/api/drivers", `{"id":"D999","name":"Ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NotFound", decode[errorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPatch, "/api/drivers", `{"id":"D001","cashCollected":99999}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.JSONEq(t, before, do(t, h, http.MethodGet, "/api/drivers", "").Body.String())

	rec = do(t, h, http.MethodPatch, "/api/drivers", `{"id":"D004","status":"active"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, model.DriverStatusActive, decode[model.Driver](t, rec).Status)
}

func TestPatchOrder(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPatch, "/api/orders", `{"id":"ORD001","notes":"Fragile"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Fragile", decode[model.Order](t, rec).Notes)

	rec = do(t, h, http.MethodPatch, "/api/orders", `{"id":"ORD001","orderNumber":"X-1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPatch, "/api/orders", `{"id":"ORD999","notes":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDriverEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/drivers/D004/location", `{"lat":18.55,"lng":73.9}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loc := decode[model.Location](t, rec)
	assert.Equal(t, 18.55, loc.Lat)
	assert.NotZero(t, loc.Timestamp)

	rec = do(t, h, http.MethodPost, "/api/drivers/D004/location", `{"lat":123,"lng":73.9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/drivers/D001/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tasks := decode[struct {
		Count int `json:"count"`
		Tasks []struct {
			ID      string `json:"id"`
			Actions []struct {
				Label string `json:"label"`
			} `json:"actions"`
		} `json:"tasks"`
	}](t, rec)
	require.Equal(t, 1, tasks.Count)
	assert.Equal(t, "ORD002", tasks.Tasks[0].ID)
	require.Len(t, tasks.Tasks[0].Actions, 1)
	assert.Equal(t, "Mark as Picked Up", tasks.Tasks[0].Actions[0].Label)

	rec = do(t, h, http.MethodGet, "/api/orders?driverId=D001", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]model.Order](t, rec), 1)

	rec = do(t, h, http.MethodGet, "/api/drivers/D999/tasks", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReadEndpoints(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/orders/ORD003/scan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, service.DefaultBarcode, decode[scanResponse](t, rec).Barcode)

	rec = do(t, h, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[map[string]any](t, rec)
	assert.EqualValues(t, 5, stats["totalOrders"])
	assert.Equal(t, "₹980", stats["totalRevenueText"])
	assert.Equal(t, "₹1,850", stats["pendingCashText"])

	rec = do(t, h, http.MethodGet, "/api/map/markers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 3)

	rec = do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestWriteJSONEncodeFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	writeJSON(rec, req, zap.New(core), http.StatusOK, map[string]any{"bad": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal", decode[errorResponse](t, rec).Code)
	require.Equal(t, 1, logs.FilterMessage("encode response failed").Len())
}
