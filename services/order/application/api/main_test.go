package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/orderserver/pkg/app"
	"github.com/ghuser/orderserver/pkg/clock"
	"github.com/ghuser/orderserver/pkg/logger"
	"github.com/ghuser/orderserver/pkg/memstore"
	itemapi "github.com/ghuser/orderserver/services/item/application/api"
	"github.com/ghuser/orderserver/services/order/application/handlers"
)

var now = time.Date(2025, 5, 1, 9, 30, 0, 0, time.UTC)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	a := &app.Application{Memory: memstore.New(), Logger: logger.Nop(), Clock: clock.NewFixed(now)}
	r := chi.NewRouter()
	itemapi.ItemRoutes(r, a)
	OrderRoutes(r, a)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func getOrder(t *testing.T, h http.Handler, id string) handlers.OrderResponse {
	t.Helper()
	w := do(t, h, http.MethodGet, "/order/"+id, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var o handlers.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &o))
	return o
}

func TestOrderRoutes_Scenario(t *testing.T) {
	h := newRouter(t)

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/item", `{"name":"Widget","price":10}`).Code)
	require.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/item", `{"name":"Widget","price":20}`).Code)

	w := do(t, h, http.MethodPost, "/order",
		`{"customerEmail":"a@b.com","customerName":"A","status":"Registered","lines":[{"itemId":1,"quantity":2}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created handlers.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "Registered", created.Status)
	assert.Equal(t, now, created.CreatedAtUTC)
	require.Len(t, created.Lines, 1)
	assert.Equal(t, 2, created.Lines[0].Quantity)
	require.NotNil(t, created.Lines[0].Item)
	assert.Equal(t, "Widget", created.Lines[0].Item.Name)
	assert.InDelta(t, 20.0, created.Total, 0)

	w = do(t, h, http.MethodPut, "/order/1", `{"lines":[{"itemId":1,"quantity":5}]}`)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	got := getOrder(t, h, "1")
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 5, got.Lines[0].Quantity)

	w = do(t, h, http.MethodPost, "/order",
		`{"customerEmail":"a@b.com","customerName":"A","lines":[{"itemId":999,"quantity":1}]}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid item reference")

	w = do(t, h, http.MethodGet, "/order", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list handlers.OrderListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total, "the rejected order must not be persisted")
}

func TestOrderRoutes_StatusOnlyUpdate(t *testing.T) {
	h := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/item", `{"name":"Widget","price":10}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/order",
		`{"customerEmail":"a@b.com","customerName":"A","lines":[{"itemId":1,"quantity":3}]}`).Code)

	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodPut, "/order/1", `{"status":"delivered"}`).Code)

	got := getOrder(t, h, "1")
	assert.Equal(t, "Delivered", got.Status)
	assert.Equal(t, "A", got.CustomerName)
	assert.Equal(t, "a@b.com", got.CustomerEmail)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, 3, got.Lines[0].Quantity)
}

func TestOrderRoutes_OrphanedLine(t *testing.T) {
	h := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/item", `{"name":"Widget","price":10}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/order",
		`{"customerEmail":"a@b.com","customerName":"A","lines":[{"itemId":1,"quantity":3}]}`).Code)
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/item/1", "").Code)

	w := do(t, h, http.MethodGet, "/order/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"item":null`)
	assert.Contains(t, w.Body.String(), `"orphaned":true`)

	got := getOrder(t, h, "1")
	assert.InDelta(t, 0.0, got.Total, 0)
}

func TestOrderRoutes_Errors(t *testing.T) {
	h := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/item", `{"name":"Widget","price":10}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/order",
		`{"customerEmail":"a@b.com","customerName":"A","lines":[{"itemId":1,"quantity":1}]}`).Code)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{"get missing", http.MethodGet, "/order/42", "", http.StatusNotFound},
		{"update missing", http.MethodPut, "/order/42", `{"status":"Shipped"}`, http.StatusNotFound},
		{"delete missing", http.MethodDelete, "/order/42", "", http.StatusNotFound},
		{"bad id", http.MethodGet, "/order/x", "", http.StatusBadRequest},
		{"no lines", http.MethodPost, "/order", `{"customerEmail":"a@b.com","customerName":"A","lines":[]}`, http.StatusBadRequest},
		{"missing email", http.MethodPost, "/order", `{"customerName":"A","lines":[{"itemId":1,"quantity":1}]}`, http.StatusBadRequest},
		{"zero quantity", http.MethodPost, "/order", `{"customerEmail":"a@b.com","customerName":"A","lines":[{"itemId":1,"quantity":0}]}`, http.StatusBadRequest},
		{"quantity past storage range", http.MethodPost, "/order", `{"customerEmail":"a@b.com","customerName":"A","lines":[{"itemId":1,"quantity":4294967301}]}`, http.StatusBadRequest},
		{"quantity past storage range update", http.MethodPut, "/order/1", `{"lines":[{"itemId":1,"quantity":4294967301}]}`, http.StatusBadRequest},
		{"unknown status", http.MethodPost, "/order", `{"customerEmail":"a@b.com","customerName":"A","status":"Lost","lines":[{"itemId":1,"quantity":1}]}`, http.StatusBadRequest},
		{"duplicate items", http.MethodPost, "/order", `{"customerEmail":"a@b.com","customerName":"A","lines":[{"itemId":1,"quantity":1},{"itemId":1,"quantity":2}]}`, http.StatusBadRequest},
		{"empty update", http.MethodPut, "/order/1", `{}`, http.StatusBadRequest},
		{"empty lines update", http.MethodPut, "/order/1", `{"lines":[]}`, http.StatusBadRequest},
		{"empty name update", http.MethodPut, "/order/1", `{"customerName":""}`, http.StatusBadRequest},
		{"bad status update", http.MethodPut, "/order/1", `{"status":"Lost"}`, http.StatusBadRequest},
		{"dangling line update", http.MethodPut, "/order/1", `{"lines":[{"itemId":7,"quantity":1}]}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}

	got := getOrder(t, h, "1")
	assert.Equal(t, "Registered", got.Status, "rejected updates must leave the order unchanged")
	assert.Equal(t, 1, got.Lines[0].Quantity)
}

func TestOrderRoutes_EmailTakenAsGiven(t *testing.T) {
	h := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/item", `{"name":"Widget","price":10}`).Code)

	w := do(t, h, http.MethodPost, "/order",
		`{"customerEmail":"alice","customerName":"A","lines":[{"itemId":1,"quantity":1}]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodPut, "/order/1", `{"customerEmail":"bob"}`).Code)

	assert.Equal(t, "bob", getOrder(t, h, "1").CustomerEmail)
}

func TestOrderRoutes_Delete(t *testing.T) {
	h := newRouter(t)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/item", `{"name":"Widget","price":10}`).Code)
	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/order",
		`{"customerEmail":"a@b.com","customerName":"A","lines":[{"itemId":1,"quantity":1}]}`).Code)

	require.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/order/1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/order/1", "").Code)
}
