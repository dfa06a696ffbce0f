// Package report computes read-side projections over entity snapshots. Every
// function is pure and recomputed on demand.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"courierdesk/internal/model"
)

func TotalOrders(orders []model.Order) int {
	return len(orders)
}

func ActiveDrivers(drivers []model.Driver) int {
	n := 0
	for _, d := range drivers {
		if d.Status == model.DriverStatusActive {
			n++
		}
	}
	return n
}

// TotalRevenue sums amount over orders whose status is exactly delivered.
func TotalRevenue(orders []model.Order) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if o.Status == model.OrderStatusDelivered {
			total = total.Add(decimal.NewFromFloat(o.Amount))
		}
	}
	return total
}

// DeliveredTotal counts delivered orders regardless of date.
func DeliveredTotal(orders []model.Order) int {
	n := 0
	for _, o := range orders {
		if o.Status == model.OrderStatusDelivered {
			n++
		}
	}
	return n
}

// DeliveredOn counts delivered orders whose deliveredAt falls on the calendar
// day of day, in loc.
func DeliveredOn(orders []model.Order, day time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := day.In(loc).Date()
	n := 0
	for _, o := range orders {
		if o.Status != model.OrderStatusDelivered || o.DeliveredAt == nil {
			continue
		}
		oy, om, od := o.DeliveredAt.In(loc).Date()
		if oy == y && om == m && od == d {
			n++
		}
	}
	return n
}

// OrdersForDriver returns the driver's task list: orders assigned to driverID
// that are not yet delivered.
func OrdersForDriver(orders []model.Order, driverID string) []model.Order {
	out := []model.Order{}
	for _, o := range orders {
		if o.AssignedDriver == driverID && o.Status != model.OrderStatusDelivered {
			out = append(out, o)
		}
	}
	return out
}

func PendingCollections(collections []model.CashCollection) []model.CashCollection {
	out := []model.CashCollection{}
	for _, c := range collections {
		if c.Status == model.CollectionStatusPending {
			out = append(out, c)
		}
	}
	return out
}

func CompletedCollections(collections []model.CashCollection) []model.CashCollection {
	out := []model.CashCollection{}
	for _, c := range collections {
		if c.Status != model.CollectionStatusPending {
			out = append(out, c)
		}
	}
	return out
}
