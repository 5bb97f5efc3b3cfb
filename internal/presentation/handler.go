package presentation

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vvolodin/orders-service/internal/application"
	"github.com/vvolodin/orders-service/internal/domain"
	"github.com/vvolodin/orders-service/internal/logger"
	"github.com/vvolodin/orders-service/internal/presentation/helpers"
)

// OrderService — то, что хендлерам нужно от конвейера приёма.
type OrderService interface {
	Submit(ctx context.Context, order *domain.Order) error
	GetByUID(ctx context.Context, orderUID string) (*domain.Order, error)
	Orders() []domain.Order
}

type OrdersHandler struct {
	svc OrderService
}

func NewOrdersHandler(svc OrderService) *OrdersHandler {
	return &OrdersHandler{svc: svc}
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.CreateOrder)
	r.Get("/orders", h.ListOrders)
	r.Get("/orders/{uid}", h.GetOrderByUID)
	r.Post("/orders/generate", h.GenerateOrders)
}

// тут мы будем рассматривать 3 юзер кейса:
// - application/json:   тело сразу объект domain.Order
// - text/plain:         тело — строка JSON (парсим)
// - multipart/form-data: ожидаем файл в поле "file" (parsing .json)
func (h *OrdersHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	mediatype, params, _ := mime.ParseMediaType(ct)

	var ord domain.Order
	var readErr error

	switch mediatype {
	case "application/json":
		readErr = helpers.DecodeJSON(r.Body, &ord)

	case "text/plain":
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			readErr = err
			break
		}
		readErr = json.Unmarshal(raw, &ord)

	case "multipart/form-data":
		mr := multipart.NewReader(r.Body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				readErr = err
				break
			}
			if part.FormName() != "file" {
				continue
			}
			bufr := bufio.NewReader(io.LimitReader(part, 2<<20))
			readErr = helpers.DecodeJSON(bufr, &ord)
			_ = part.Close()
			break
		}
	default:
		helpers.HttpError(w, http.StatusUnsupportedMediaType, "unsupported content-type")
		return
	}

	if readErr != nil {
		helpers.HttpError(w, http.StatusBadRequest, "invalid JSON: "+readErr.Error())
		return
	}

	if err := h.svc.Submit(r.Context(), &ord); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidOrder):
			helpers.HttpError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, application.ErrOrderAlreadyExists):
			helpers.HttpError(w, http.StatusConflict, "order already exists")
		default:
			helpers.HttpError(w, http.StatusInternalServerError, "failed to add order")
		}
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":    "ok",
		"order_uid": ord.OrderUID,
	})
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, h.svc.Orders())
}

func (h *OrdersHandler) GetOrderByUID(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "uid")
	if strings.TrimSpace(uid) == "" {
		helpers.HttpError(w, http.StatusBadRequest, "uid is empty")
		return
	}

	ord, err := h.svc.GetByUID(r.Context(), uid)
	if err != nil {
		helpers.HttpError(w, http.StatusInternalServerError, "failed to get order")
		return
	}
	if ord == nil {
		helpers.HttpError(w, http.StatusNotFound, "order not found")
		return
	}
	helpers.WriteJSON(w, http.StatusOK, ord)
}

func (h *OrdersHandler) GenerateOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("count")
	n := 1
	if q != "" {
		if v, err := strconv.Atoi(q); err == nil && v > 0 && v <= 1000 {
			n = v
		}
	}

	var created []string
	for i := 0; i < n; i++ {
		o := domain.DemoOrder()
		if err := h.svc.Submit(r.Context(), &o); err != nil {
			// идемпотентность: если дубль — просто пропускаем
			if !errors.Is(err, application.ErrOrderAlreadyExists) {
				logger.Warn("generate: add failed", "err", err)
			}
			continue
		}
		created = append(created, o.OrderUID)
	}

	helpers.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":       "ok",
		"created_uids": created,
	})
}
