package model

import (
	"time"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusPickedUp  OrderStatus = "picked-up"
	OrderStatusInTransit OrderStatus = "in-transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusReturned  OrderStatus = "returned"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAssigned,
	OrderStatusPickedUp,
	OrderStatusInTransit,
	OrderStatusDelivered,
	OrderStatusReturned,
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusAssigned},
	OrderStatusAssigned:  {OrderStatusPickedUp},
	OrderStatusPickedUp:  {OrderStatusInTransit},
	OrderStatusInTransit: {OrderStatusDelivered, OrderStatusReturned},
}

func (s OrderStatus) IsValid() bool {
	for _, st := range OrderStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusReturned
}

// RequiresDriver reports whether an order in status s must reference a driver.
func (s OrderStatus) RequiresDriver() bool {
	return s.IsValid() && s != OrderStatusPending
}

// CanTransitionTo reports whether target is a direct successor of s.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Next returns the allowed successors of s.
func (s OrderStatus) Next() []OrderStatus {
	return append([]OrderStatus(nil), orderTransitions[s]...)
}

func (s OrderStatus) String() string {
	return string(s)
}

type Order struct {
	ID              string      `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	CustomerName    string      `json:"customerName"`
	CustomerPhone   string      `json:"customerPhone"`
	PickupAddress   string      `json:"pickupAddress"`
	DeliveryAddress string      `json:"deliveryAddress"`
	Amount          float64     `json:"amount"`
	CashOnDelivery  bool        `json:"cashOnDelivery"`
	Status          OrderStatus `json:"status"`
	AssignedDriver  string      `json:"assignedDriver,omitempty"`
	DriverName      string      `json:"driverName,omitempty"` // snapshot taken at assignment
	Barcode         string      `json:"barcode,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	DeliveredAt     *time.Time  `json:"deliveredAt,omitempty"`
	Notes           string      `json:"notes,omitempty"`
}

// NewOrder returns a pending order stamped with now.
func NewOrder(id, number string, now time.Time) Order {
	return Order{
		ID:          id,
		OrderNumber: number,
		Status:      OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of o.
func (o Order) Clone() Order {
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		o.DeliveredAt = &t
	}
	return o
}
