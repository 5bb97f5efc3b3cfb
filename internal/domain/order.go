package domain

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidOrder сигнализирует о структурно некорректном документе заказа.
var ErrInvalidOrder = errors.New("invalid order")

var validate = validator.New()

type Order struct {
	OrderUID          string       `json:"order_uid" validate:"required"`
	TrackNumber       string       `json:"track_number" validate:"required"`
	Entry             string       `json:"entry" validate:"required"`
	Delivery          DeliveryData `json:"delivery" validate:"required"`
	Payment           PaymentData  `json:"payment" validate:"required"`
	Items             []ItemData   `json:"items" validate:"dive"`
	Locale            string       `json:"locale"`
	InternalSignature string       `json:"internal_signature"`
	CustomerID        string       `json:"customer_id" validate:"required"`
	DeliveryService   string       `json:"delivery_service"`
	Shardkey          string       `json:"shardkey"`
	SMID              int          `json:"sm_id"`
	DateCreated       string       `json:"date_created" validate:"required"`
	OofShard          string       `json:"oof_shard"`
}

type DeliveryData struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Zip     string `json:"zip" validate:"required"`
	City    string `json:"city" validate:"required"`
	Address string `json:"address" validate:"required"`
	Region  string `json:"region" validate:"required"`
	Email   string `json:"email" validate:"required"`
}

type PaymentData struct {
	Transaction  string `json:"transaction" validate:"required"`
	RequestID    string `json:"request_id"`
	Currency     string `json:"currency" validate:"required"`
	Provider     string `json:"provider" validate:"required"`
	Amount       int    `json:"amount"`
	PaymentDT    int64  `json:"payment_dt"`
	Bank         string `json:"bank"`
	DeliveryCost int    `json:"delivery_cost"`
	GoodsTotal   int    `json:"goods_total"`
	CustomFee    int    `json:"custom_fee"`
}

type ItemData struct {
	ChrtID      int    `json:"chrt_id"`
	TrackNumber string `json:"track_number"`
	Price       int    `json:"price"`
	Rid         string `json:"rid" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Sale        int    `json:"sale"`
	Size        string `json:"size"`
	TotalPrice  int    `json:"total_price"`
	NmID        int    `json:"nm_id"`
	Brand       string `json:"brand"`
	Status      int    `json:"status"`
}

// Validate проверяет наличие всех обязательных полей документа.
// Items может быть пустым: заказ без позиций допустим.
func (o *Order) Validate() error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOrder, err)
	}
	return nil
}
