package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DemoOrder собирает валидный заказ с уникальными идентификаторами.
// Используется генератором в HTTP API и демо-паблишером.
func DemoOrder() Order {
	now := time.Now().UTC()
	uid := "demo-" + uuid.NewString()
	return Order{
		OrderUID:          uid,
		TrackNumber:       "WB" + strconv.FormatInt(now.Unix()%1_000_000, 10),
		Entry:             "WBIL",
		Locale:            "ru",
		InternalSignature: "",
		CustomerID:        "customer-1",
		DeliveryService:   "meest",
		Shardkey:          "0",
		SMID:              0,
		DateCreated:       now.Format(time.RFC3339),
		OofShard:          "0",
		Delivery: DeliveryData{
			Name:    "Ivan Petrov",
			Phone:   "+7 999 111-22-33",
			Zip:     "101000",
			City:    "Moscow",
			Address: "Tverskaya, 1",
			Region:  "Moscow",
			Email:   "ivan@example.com",
		},
		Payment: PaymentData{
			Transaction:  "tr-" + uuid.NewString(),
			RequestID:    "",
			Currency:     "RUB",
			Provider:     "wbpay",
			Amount:       10000,
			PaymentDT:    now.Unix(),
			Bank:         "alpha",
			DeliveryCost: 200,
			GoodsTotal:   9800,
			CustomFee:    0,
		},
		Items: []ItemData{
			{
				ChrtID:      1,
				TrackNumber: "WB123",
				Price:       9800,
				Rid:         "rid-" + uuid.NewString(),
				Name:        "T-shirt",
				Sale:        0,
				Size:        "L",
				TotalPrice:  9800,
				NmID:        123,
				Brand:       "WB",
				Status:      202,
			},
		},
	}
}
