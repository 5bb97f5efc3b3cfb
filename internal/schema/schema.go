package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvolodin/orders-service/internal/logger"
)

// Error возвращается при неудачной подготовке схемы. Любая такая ошибка
// фатальна для старта процесса.
type Error struct {
	Table string
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("schema: unknown table %q", e.Table)
	}
	return fmt.Sprintf("schema: table %q: %v", e.Table, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

const (
	createDeliveryTable = `
		CREATE TABLE delivery (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NOT NULL,
			zip VARCHAR(20) NOT NULL,
			city VARCHAR(100) NOT NULL,
			address VARCHAR(255) NOT NULL,
			region VARCHAR(100) NOT NULL,
			email VARCHAR(100) NOT NULL
		)`

	createPaymentTable = `
		CREATE TABLE payment (
			id SERIAL PRIMARY KEY,
			transaction VARCHAR(255) NOT NULL,
			request_id VARCHAR(255) NOT NULL,
			currency VARCHAR(10) NOT NULL,
			provider VARCHAR(100) NOT NULL,
			amount INTEGER NOT NULL,
			payment_dt BIGINT NOT NULL,
			bank VARCHAR(100) NOT NULL,
			delivery_cost INTEGER NOT NULL,
			goods_total INTEGER NOT NULL,
			custom_fee INTEGER NOT NULL
		)`

	createOrdersTable = `
		CREATE TABLE orders (
			order_uid VARCHAR(255) PRIMARY KEY,
			track_number VARCHAR(255) NOT NULL,
			entry VARCHAR(255) NOT NULL,
			delivery_id INTEGER REFERENCES delivery(id) ON DELETE CASCADE,
			payment_id INTEGER REFERENCES payment(id) ON DELETE CASCADE,
			locale VARCHAR(10) NOT NULL,
			internal_signature VARCHAR(255) NOT NULL,
			customer_id VARCHAR(255) NOT NULL,
			delivery_service VARCHAR(100) NOT NULL,
			shardkey VARCHAR(50) NOT NULL,
			sm_id INTEGER NOT NULL,
			date_created VARCHAR(50) NOT NULL,
			oof_shard VARCHAR(50) NOT NULL
		)`

	createItemTable = `
		CREATE TABLE item (
			id SERIAL PRIMARY KEY,
			chrt_id INTEGER NOT NULL,
			track_number VARCHAR(255) NOT NULL,
			price INTEGER NOT NULL,
			rid VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			sale INTEGER NOT NULL,
			size VARCHAR(50) NOT NULL,
			total_price INTEGER NOT NULL,
			nm_id INTEGER NOT NULL,
			brand VARCHAR(100) NOT NULL,
			status INTEGER NOT NULL,
			order_uid VARCHAR(255) REFERENCES orders(order_uid) ON DELETE CASCADE
		)`
)

var tableDDL = map[string]string{
	"delivery": createDeliveryTable,
	"payment":  createPaymentTable,
	"orders":   createOrdersTable,
	"item":     createItemTable,
}

// Tables перечисляет таблицы в порядке зависимостей: на delivery и payment
// ссылается orders, на orders ссылается item.
var Tables = []string{"delivery", "payment", "orders", "item"}

// EnsureTable создаёт таблицу, если её ещё нет. Повторный вызов — no-op.
func EnsureTable(ctx context.Context, pool *pgxpool.Pool, name string) error {
	ddl, ok := tableDDL[name]
	if !ok {
		return &Error{Table: name}
	}

	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`, name).Scan(&exists)
	if err != nil {
		return &Error{Table: name, Err: err}
	}
	if exists {
		return nil
	}

	logger.Info("creating table", "table", name)
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return &Error{Table: name, Err: err}
	}
	return nil
}

// Ensure готовит все четыре таблицы при старте процесса.
func Ensure(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range Tables {
		if err := EnsureTable(ctx, pool, name); err != nil {
			return err
		}
	}
	return nil
}
