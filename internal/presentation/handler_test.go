package presentation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/vvolodin/orders-service/internal/application"
	"github.com/vvolodin/orders-service/internal/cache"
	"github.com/vvolodin/orders-service/internal/domain"
	"github.com/vvolodin/orders-service/internal/repository"
)

type memRepo struct {
	orders    map[string]domain.Order
	insertErr error
}

func newMemRepo() *memRepo {
	return &memRepo{orders: make(map[string]domain.Order)}
}

func (m *memRepo) Exists(_ context.Context, uid string) (bool, error) {
	_, ok := m.orders[uid]
	return ok, nil
}

func (m *memRepo) AddOrder(_ context.Context, o *domain.Order) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if _, ok := m.orders[o.OrderUID]; ok {
		return repository.ErrOrderAlreadyExists
	}
	m.orders[o.OrderUID] = *o
	return nil
}

func (m *memRepo) GetByUID(_ context.Context, uid string) (*domain.Order, error) {
	o, ok := m.orders[uid]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (m *memRepo) LoadAll(_ context.Context) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func newTestRouter(repo repository.OrderRepo) chi.Router {
	svc := application.NewOrdersService(repo, cache.New())
	r := chi.NewRouter()
	NewOrdersHandler(svc).Register(r)
	return r
}

func postOrder(t *testing.T, r chi.Router, o domain.Order) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(o)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateOrder(t *testing.T) {
	router := newTestRouter(newMemRepo())

	o := domain.DemoOrder()
	w := postOrder(t, router, o)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp["status"])
	require.Equal(t, o.OrderUID, resp["order_uid"])
}

func TestCreateOrderDuplicate(t *testing.T) {
	router := newTestRouter(newMemRepo())

	o := domain.DemoOrder()
	require.Equal(t, http.StatusCreated, postOrder(t, router, o).Code)
	require.Equal(t, http.StatusConflict, postOrder(t, router, o).Code)
}

func TestCreateOrderInvalidJSON(t *testing.T) {
	router := newTestRouter(newMemRepo())

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderMissingRequiredField(t *testing.T) {
	router := newTestRouter(newMemRepo())

	o := domain.DemoOrder()
	o.OrderUID = ""
	require.Equal(t, http.StatusBadRequest, postOrder(t, router, o).Code)
}

func TestCreateOrderStoreFailure(t *testing.T) {
	repo := newMemRepo()
	repo.insertErr = repository.ErrUnavailable
	router := newTestRouter(repo)

	require.Equal(t, http.StatusInternalServerError, postOrder(t, router, domain.DemoOrder()).Code)
}

func TestCreateOrderUnsupportedMediaType(t *testing.T) {
	router := newTestRouter(newMemRepo())

	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("uid"))
	req.Header.Set("Content-Type", "application/xml")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestCreateOrderTextPlain(t *testing.T) {
	router := newTestRouter(newMemRepo())

	body, err := json.Marshal(domain.DemoOrder())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestListOrdersRoundTrip(t *testing.T) {
	router := newTestRouter(newMemRepo())

	first := domain.DemoOrder()
	second := domain.DemoOrder()
	second.Items = []domain.ItemData{}
	require.Equal(t, http.StatusCreated, postOrder(t, router, first).Code)
	require.Equal(t, http.StatusCreated, postOrder(t, router, second).Code)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	require.Equal(t, first, listed[0])
	require.Equal(t, second, listed[1])
	require.NotNil(t, listed[1].Items)
	require.Empty(t, listed[1].Items)
}

func TestGetOrderByUID(t *testing.T) {
	router := newTestRouter(newMemRepo())

	o := domain.DemoOrder()
	require.Equal(t, http.StatusCreated, postOrder(t, router, o).Code)

	req := httptest.NewRequest(http.MethodGet, "/orders/"+o.OrderUID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Equal(t, o, got)

	req = httptest.NewRequest(http.MethodGet, "/orders/unknown-uid", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGenerateOrders(t *testing.T) {
	repo := newMemRepo()
	router := newTestRouter(repo)

	req := httptest.NewRequest(http.MethodPost, "/orders/generate?count=3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status      string   `json:"status"`
		CreatedUIDs []string `json:"created_uids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Len(t, resp.CreatedUIDs, 3)
	require.Len(t, repo.orders, 3)
}
