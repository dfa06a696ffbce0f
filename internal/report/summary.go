package report

import (
	"time"

	"github.com/shopspring/decimal"

	"courierdesk/internal/model"
)

// Summary is the stats-card bundle shown on the dashboard overview.
type Summary struct {
	TotalOrders        int     `json:"totalOrders"`
	ActiveDrivers      int     `json:"activeDrivers"`
	TotalRevenue       float64 `json:"totalRevenue"`
	DeliveredToday     int     `json:"deliveredToday"`
	DeliveredTotal     int     `json:"deliveredTotal"`
	PendingCollections int     `json:"pendingCollections"`
	PendingCash        float64 `json:"pendingCash"`
}

func Summarize(drivers []model.Driver, orders []model.Order, collections []model.CashCollection, now time.Time, loc *time.Location) Summary {
	pending := PendingCollections(collections)
	pendingCash := decimal.Zero
	for _, c := range pending {
		pendingCash = pendingCash.Add(decimal.NewFromFloat(c.Amount))
	}
	return Summary{
		TotalOrders:        TotalOrders(orders),
		ActiveDrivers:      ActiveDrivers(drivers),
		TotalRevenue:       TotalRevenue(orders).InexactFloat64(),
		DeliveredToday:     DeliveredOn(orders, now, loc),
		DeliveredTotal:     DeliveredTotal(orders),
		PendingCollections: len(pending),
		PendingCash:        pendingCash.InexactFloat64(),
	}
}
