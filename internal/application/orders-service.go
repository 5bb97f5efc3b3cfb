package application

import (
	"context"
	"errors"

	"github.com/vvolodin/orders-service/internal/cache"
	"github.com/vvolodin/orders-service/internal/domain"
	"github.com/vvolodin/orders-service/internal/logger"
	"github.com/vvolodin/orders-service/internal/repository"
)

// ErrOrderAlreadyExists — дубликат по order_uid; заказ не перезаписывается.
var ErrOrderAlreadyExists = repository.ErrOrderAlreadyExists

type OrdersService struct {
	repo  repository.OrderRepo
	cache *cache.Cache
}

func NewOrdersService(r repository.OrderRepo, c *cache.Cache) *OrdersService {
	return &OrdersService{repo: r, cache: c}
}

// Submit проводит заказ по конвейеру: валидация, проверка дубликата,
// запись в хранилище, обновление кеша. Кеш трогаем только после
// подтверждённого коммита, поэтому запись в кеше всегда означает
// зафиксированный заказ.
func (s *OrdersService) Submit(ctx context.Context, order *domain.Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, order.OrderUID)
	if err != nil {
		logger.Warn("existence check failed", "uid", order.OrderUID, "err", err)
		return err
	}
	if exists {
		return ErrOrderAlreadyExists
	}

	if err := s.repo.AddOrder(ctx, order); err != nil {
		// Гонка двух одинаковых заказов: арбитром выступает первичный ключ
		// хранилища, проигравший получает тот же ответ, что и при обычном
		// дубликате.
		if errors.Is(err, repository.ErrOrderAlreadyExists) {
			return ErrOrderAlreadyExists
		}
		logger.Error("insert failed", "uid", order.OrderUID, "err", err)
		return err
	}

	s.cache.Put(order)
	return nil
}

func (s *OrdersService) GetByUID(ctx context.Context, orderUID string) (*domain.Order, error) {
	if o, ok := s.cache.Get(orderUID); ok {
		return o, nil
	}

	o, err := s.repo.GetByUID(ctx, orderUID)
	if err != nil {
		logger.Warn("get by uid failed", "uid", orderUID, "err", err)
		return nil, err
	}
	if o == nil {
		return nil, nil
	}

	s.cache.Put(o)
	return o, nil
}

// Orders отдаёт снимок кеша в порядке добавления.
func (s *OrdersService) Orders() []domain.Order {
	return s.cache.Snapshot()
}

// RestoreCache прогревает кеш из хранилища; вызывается один раз при старте.
func (s *OrdersService) RestoreCache(ctx context.Context) error {
	orders, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	s.cache.Populate(orders)
	logger.Info("cache restored", "orders", len(orders))
	return nil
}
