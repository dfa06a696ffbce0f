package report

import (
	"github.com/shopspring/decimal"

	"courierdesk/internal/model"
)

// DriverAggregates returns d with its derived fields computed from the current
// orders and collections.
func DriverAggregates(d model.Driver, orders []model.Order, collections []model.CashCollection) model.Driver {
	d.AssignedOrders = len(OrdersForDriver(orders, d.ID))

	collected := decimal.Zero
	verified := true
	for _, c := range collections {
		if c.DriverID != d.ID {
			continue
		}
		switch c.Status {
		case model.CollectionStatusApproved:
			collected = collected.Add(decimal.NewFromFloat(c.Amount))
		case model.CollectionStatusPending:
			verified = false
		}
	}
	d.CashCollected = collected.InexactFloat64()
	d.CashVerified = verified
	return d
}

// WithAggregates applies DriverAggregates to every driver.
func WithAggregates(drivers []model.Driver, orders []model.Order, collections []model.CashCollection) []model.Driver {
	out := make([]model.Driver, 0, len(drivers))
	for _, d := range drivers {
		out = append(out, DriverAggregates(d, orders, collections))
	}
	return out
}

// Marker is what the live map needs to place a driver.
type Marker struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Status model.DriverStatus `json:"status"`
	Lat    float64            `json:"lat"`
	Lng    float64            `json:"lng"`
}

// Markers lists drivers that have reported a location.
func Markers(drivers []model.Driver) []Marker {
	out := []Marker{}
	for _, d := range drivers {
		if d.CurrentLocation == nil {
			continue
		}
		out = append(out, Marker{
			ID:     d.ID,
			Name:   d.Name,
			Status: d.Status,
			Lat:    d.CurrentLocation.Lat,
			Lng:    d.CurrentLocation.Lng,
		})
	}
	return out
}
