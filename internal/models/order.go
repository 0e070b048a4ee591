package models

import (
	"time"

	"github.com/google/uuid"
)

// Order statuses. There is no transition state machine: any enumerated
// status may follow any other. Public storefront orders are persisted as
// "pending" before a merchant picks them up.
const (
	OrderStatusPending   = "pending"
	OrderStatusCreated   = "created"
	OrderStatusSent      = "sent"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
	OrderStatusCompleted = "completed"
)

// Order channels.
const (
	ChannelWhatsapp = "whatsapp"
	ChannelSMS      = "sms"
	ChannelWeb      = "web"
	ChannelPhone    = "phone"
)

// ValidOrderStatus reports whether status is accepted for status updates.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusCreated, OrderStatusSent, OrderStatusConfirmed,
		OrderStatusCancelled, OrderStatusCompleted:
		return true
	}
	return false
}

// ValidChannel reports whether channel is one of the enumerated values.
func ValidChannel(channel string) bool {
	switch channel {
	case ChannelWhatsapp, ChannelSMS, ChannelWeb, ChannelPhone:
		return true
	}
	return false
}

// OrderCustomer is the customer snapshot embedded in the order.
type OrderCustomer struct {
	Name  string  `json:"name" db:"customer_name"`
	Phone string  `json:"phone" db:"customer_phone"`
	Email *string `json:"email" db:"customer_email"`
}

// OrderItem snapshots the product at order time. LineTotal equals
// Price × Quantity at creation; prices are read from the product record,
// never trusted from the client.
type OrderItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	OrderID     uuid.UUID `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID `json:"product_id" db:"product_id"`
	ProductName string    `json:"product_name" db:"product_name"`
	Price       float64   `json:"price" db:"price"`
	Quantity    int       `json:"quantity" db:"quantity"`
	LineTotal   float64   `json:"total" db:"line_total"`
}

// OrderTotals aggregates the monetary totals of an order.
type OrderTotals struct {
	Subtotal float64 `json:"subtotal" db:"subtotal"`
	Shipping float64 `json:"shipping" db:"shipping"`
	Tax      float64 `json:"tax" db:"tax"`
	Total    float64 `json:"total" db:"total"`
	Currency string  `json:"currency" db:"currency"`
}

type Order struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	StoreID      uuid.UUID     `json:"store_id" db:"store_id"`
	OrderNumber  string        `json:"order_number" db:"order_number"`
	Customer     OrderCustomer `json:"customer"`
	Items        []OrderItem   `json:"items"`
	Totals       OrderTotals   `json:"totals"`
	Status       string        `json:"status" db:"status"`
	Channel      string        `json:"channel" db:"channel"`
	WhatsappLink *string       `json:"whatsapp_link,omitempty" db:"whatsapp_link"`
	SMSLink      *string       `json:"sms_link,omitempty" db:"sms_link"`
	Notes        *string       `json:"notes" db:"notes"`
	CreatedBy    *uuid.UUID    `json:"created_by" db:"created_by"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// OrderSearchFilter holds listing criteria for order queries.
type OrderSearchFilter struct {
	Status    *string    `json:"status,omitempty"`
	Channel   *string    `json:"channel,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Page      int        `json:"page,omitempty"`
	Limit     int        `json:"limit,omitempty"`
	Sort      string     `json:"sort,omitempty"` // Field name, "-" prefix for descending
}
