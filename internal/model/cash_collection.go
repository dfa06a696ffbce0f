package model

import "time"

type CollectionStatus string

const (
	CollectionStatusPending  CollectionStatus = "pending"
	CollectionStatusApproved CollectionStatus = "approved"
	CollectionStatusRejected CollectionStatus = "rejected"
)

func (s CollectionStatus) IsValid() bool {
	switch s {
	case CollectionStatusPending, CollectionStatusApproved, CollectionStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the collection has been reviewed.
func (s CollectionStatus) IsTerminal() bool {
	return s == CollectionStatusApproved || s == CollectionStatusRejected
}

// CashCollection is a driver's submission of COD cash for manager review.
type CashCollection struct {
	ID          string           `json:"id"`
	DriverID    string           `json:"driverId"`
	DriverName  string           `json:"driverName"`
	Amount      float64          `json:"amount"`
	OrdersCount int              `json:"ordersCount"`
	SubmittedAt time.Time        `json:"submittedAt"`
	VerifiedAt  *time.Time       `json:"verifiedAt,omitempty"`
	VerifiedBy  string           `json:"verifiedBy,omitempty"`
	Status      CollectionStatus `json:"status"`
	Notes       string           `json:"notes,omitempty"`
}

func NewCashCollection(id string, driver Driver, now time.Time) CashCollection {
	return CashCollection{
		ID:          id,
		DriverID:    driver.ID,
		DriverName:  driver.Name,
		SubmittedAt: now,
		Status:      CollectionStatusPending,
	}
}

func (c CashCollection) Clone() CashCollection {
	if c.VerifiedAt != nil {
		t := *c.VerifiedAt
		c.VerifiedAt = &t
	}
	return c
}
