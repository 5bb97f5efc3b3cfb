package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvolodin/orders-service/internal/domain"
	"github.com/vvolodin/orders-service/internal/logger"
)

var (
	// ErrOrderAlreadyExists — заказ с таким order_uid уже зафиксирован.
	ErrOrderAlreadyExists = errors.New("order already exists")
	// ErrIntegrity — нарушение ссылочной целостности при многострочной вставке.
	ErrIntegrity = errors.New("integrity violation")
	// ErrUnavailable — транспортная ошибка или недоступность БД.
	ErrUnavailable = errors.New("store unavailable")
)

type OrderRepo interface {
	Exists(ctx context.Context, orderUID string) (bool, error)
	AddOrder(ctx context.Context, order *domain.Order) error
	GetByUID(ctx context.Context, orderUID string) (*domain.Order, error)
	LoadAll(ctx context.Context) ([]domain.Order, error)
}

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(p *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: p}
}

// classifyPgError переводит ошибку драйвера в доменную.
// 23505 — нарушение уникальности, 23502/23503 — целостность,
// всё остальное считаем недоступностью хранилища.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", ErrOrderAlreadyExists, pgErr.ConstraintName)
		case "23502", "23503":
			return fmt.Errorf("%w: %s", ErrIntegrity, pgErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (p *OrderRepository) Exists(ctx context.Context, orderUID string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_uid = $1)`,
		orderUID,
	).Scan(&exists)
	if err != nil {
		return false, classifyPgError(err)
	}
	return exists, nil
}

// AddOrder пишет все четыре таблицы одной транзакцией: либо фиксируются
// строки delivery, payment, orders и все items, либо ни одна из них.
func (p *OrderRepository) AddOrder(ctx context.Context, o *domain.Order) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classifyPgError(err)
	}

	defer func() {
		if tx != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var deliveryID int
	err = tx.QueryRow(ctx,
		`INSERT INTO delivery (name, phone, zip, city, address, region, email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		o.Delivery.Name,
		o.Delivery.Phone,
		o.Delivery.Zip,
		o.Delivery.City,
		o.Delivery.Address,
		o.Delivery.Region,
		o.Delivery.Email,
	).Scan(&deliveryID)
	if err != nil {
		return classifyPgError(err)
	}

	pay := o.Payment
	var paymentID int
	err = tx.QueryRow(ctx,
		`INSERT INTO payment
			(transaction, request_id, currency, provider, amount,
			 payment_dt, bank, delivery_cost, goods_total, custom_fee)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id`,
		pay.Transaction,
		pay.RequestID,
		pay.Currency,
		pay.Provider,
		pay.Amount,
		pay.PaymentDT,
		pay.Bank,
		pay.DeliveryCost,
		pay.GoodsTotal,
		pay.CustomFee,
	).Scan(&paymentID)
	if err != nil {
		return classifyPgError(err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO orders
			(order_uid, track_number, entry, delivery_id, payment_id, locale,
			 internal_signature, customer_id, delivery_service, shardkey,
			 sm_id, date_created, oof_shard)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		o.OrderUID,
		o.TrackNumber,
		o.Entry,
		deliveryID,
		paymentID,
		o.Locale,
		o.InternalSignature,
		o.CustomerID,
		o.DeliveryService,
		o.Shardkey,
		o.SMID,
		o.DateCreated,
		o.OofShard,
	)
	if err != nil {
		return classifyPgError(err)
	}

	// items — много к одному; используем Batch для эффективности
	if len(o.Items) > 0 {
		batch := &pgx.Batch{}
		for _, it := range o.Items {
			batch.Queue(
				`INSERT INTO item
					(chrt_id, track_number, price, rid, name, sale, size,
					 total_price, nm_id, brand, status, order_uid)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				it.ChrtID,
				it.TrackNumber,
				it.Price,
				it.Rid,
				it.Name,
				it.Sale,
				it.Size,
				it.TotalPrice,
				it.NmID,
				it.Brand,
				it.Status,
				o.OrderUID,
			)
		}
		br := tx.SendBatch(ctx, batch)
		if err = br.Close(); err != nil {
			return classifyPgError(err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Warn("commit failed", "uid", o.OrderUID, "err", err)
		return classifyPgError(err)
	}
	tx = nil
	return nil
}

const orderColumns = `
	o.order_uid, o.track_number, o.entry, o.locale, o.internal_signature,
	o.customer_id, o.delivery_service, o.shardkey, o.sm_id, o.date_created, o.oof_shard,
	d.name, d.phone, d.zip, d.city, d.address, d.region, d.email,
	p.transaction, p.request_id, p.currency, p.provider, p.amount, p.payment_dt,
	p.bank, p.delivery_cost, p.goods_total, p.custom_fee`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.OrderUID, &o.TrackNumber, &o.Entry, &o.Locale, &o.InternalSignature,
		&o.CustomerID, &o.DeliveryService, &o.Shardkey, &o.SMID, &o.DateCreated, &o.OofShard,
		&o.Delivery.Name, &o.Delivery.Phone, &o.Delivery.Zip, &o.Delivery.City,
		&o.Delivery.Address, &o.Delivery.Region, &o.Delivery.Email,
		&o.Payment.Transaction, &o.Payment.RequestID, &o.Payment.Currency,
		&o.Payment.Provider, &o.Payment.Amount, &o.Payment.PaymentDT,
		&o.Payment.Bank, &o.Payment.DeliveryCost, &o.Payment.GoodsTotal, &o.Payment.CustomFee,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (p *OrderRepository) GetByUID(ctx context.Context, orderUID string) (*domain.Order, error) {
	o, err := scanOrder(p.pool.QueryRow(ctx,
		`SELECT `+orderColumns+`
		 FROM orders o
		 JOIN delivery d ON d.id = o.delivery_id
		 JOIN payment p ON p.id = o.payment_id
		 WHERE o.order_uid = $1`,
		orderUID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classifyPgError(err)
	}

	items, err := p.loadItems(ctx, o.OrderUID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// LoadAll собирает все заказы целиком; вызывается один раз при старте
// для прогрева кеша. Порядок стабильный — по order_uid.
func (p *OrderRepository) LoadAll(ctx context.Context) ([]domain.Order, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+orderColumns+`
		 FROM orders o
		 JOIN delivery d ON d.id = o.delivery_id
		 JOIN payment p ON p.id = o.payment_id
		 ORDER BY o.order_uid`,
	)
	if err != nil {
		return nil, classifyPgError(err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, classifyPgError(err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyPgError(err)
	}

	for i := range orders {
		items, err := p.loadItems(ctx, orders[i].OrderUID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// Сортировка по id сохраняет порядок позиций из исходного документа.
func (p *OrderRepository) loadItems(ctx context.Context, orderUID string) ([]domain.ItemData, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT chrt_id, track_number, price, rid, name, sale, size,
		        total_price, nm_id, brand, status
		 FROM item
		 WHERE order_uid = $1
		 ORDER BY id`,
		orderUID,
	)
	if err != nil {
		return nil, classifyPgError(err)
	}
	defer rows.Close()

	// пустой, но не nil: сериализация списка должна давать [], а не null
	items := []domain.ItemData{}
	for rows.Next() {
		var it domain.ItemData
		err := rows.Scan(
			&it.ChrtID, &it.TrackNumber, &it.Price, &it.Rid, &it.Name,
			&it.Sale, &it.Size, &it.TotalPrice, &it.NmID, &it.Brand, &it.Status,
		)
		if err != nil {
			return nil, classifyPgError(err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
