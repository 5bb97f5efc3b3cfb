package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validOrder() Order {
	o := DemoOrder()
	o.OrderUID = "uid-test"
	return o
}

func TestValidateAcceptsCompleteOrder(t *testing.T) {
	o := validOrder()
	require.NoError(t, o.Validate())
}

func TestValidateAcceptsEmptyItems(t *testing.T) {
	o := validOrder()
	o.Items = []ItemData{}
	require.NoError(t, o.Validate())
}

func TestValidateAcceptsBlankOptionalFields(t *testing.T) {
	o := validOrder()
	o.InternalSignature = ""
	o.Payment.RequestID = ""
	o.SMID = 0
	require.NoError(t, o.Validate())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Order)
	}{
		{"no order_uid", func(o *Order) { o.OrderUID = "" }},
		{"no track_number", func(o *Order) { o.TrackNumber = "" }},
		{"no entry", func(o *Order) { o.Entry = "" }},
		{"no customer_id", func(o *Order) { o.CustomerID = "" }},
		{"no date_created", func(o *Order) { o.DateCreated = "" }},
		{"no delivery name", func(o *Order) { o.Delivery.Name = "" }},
		{"no delivery phone", func(o *Order) { o.Delivery.Phone = "" }},
		{"no delivery email", func(o *Order) { o.Delivery.Email = "" }},
		{"no payment transaction", func(o *Order) { o.Payment.Transaction = "" }},
		{"no payment currency", func(o *Order) { o.Payment.Currency = "" }},
		{"item without rid", func(o *Order) { o.Items[0].Rid = "" }},
		{"item without name", func(o *Order) { o.Items[0].Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.mutate(&o)
			err := o.Validate()
			require.ErrorIs(t, err, ErrInvalidOrder)
		})
	}
}

func TestDemoOrderIsUnique(t *testing.T) {
	a := DemoOrder()
	b := DemoOrder()
	require.NotEqual(t, a.OrderUID, b.OrderUID)
	require.NoError(t, a.Validate())
}
