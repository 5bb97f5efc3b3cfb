package cache

import (
	"sync"

	"github.com/vvolodin/orders-service/internal/domain"
)

// Cache хранит полные агрегаты заказов в памяти процесса.
// Snapshot отдаёт заказы в порядке добавления: сначала прогрев при старте,
// затем заказы в порядке приёма.
type Cache struct {
	mu    sync.RWMutex
	byUID map[string]*domain.Order
	uids  []string
}

func New() *Cache {
	return &Cache{byUID: make(map[string]*domain.Order)}
}

// Populate целиком заменяет содержимое кеша; вызывается один раз при старте.
func (c *Cache) Populate(orders []domain.Order) {
	byUID := make(map[string]*domain.Order, len(orders))
	uids := make([]string, 0, len(orders))
	for i := range orders {
		o := orders[i]
		if _, ok := byUID[o.OrderUID]; !ok {
			uids = append(uids, o.OrderUID)
		}
		byUID[o.OrderUID] = &o
	}

	c.mu.Lock()
	c.byUID = byUID
	c.uids = uids
	c.mu.Unlock()
}

// Put добавляет или перезаписывает заказ. Вызывается строго после того, как
// хранилище подтвердило фиксацию этого заказа.
func (c *Cache) Put(o *domain.Order) {
	c.mu.Lock()
	if _, ok := c.byUID[o.OrderUID]; !ok {
		c.uids = append(c.uids, o.OrderUID)
	}
	c.byUID[o.OrderUID] = o
	c.mu.Unlock()
}

func (c *Cache) Get(orderUID string) (*domain.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.byUID[orderUID]
	return o, ok
}

// Snapshot возвращает копии всех заказов в порядке добавления.
func (c *Cache) Snapshot() []domain.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Order, 0, len(c.uids))
	for _, uid := range c.uids {
		out = append(out, *c.byUID[uid])
	}
	return out
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byUID)
}
