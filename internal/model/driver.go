package model

type DriverStatus string

const (
	DriverStatusActive     DriverStatus = "active"
	DriverStatusInactive   DriverStatus = "inactive"
	DriverStatusOnDelivery DriverStatus = "on-delivery"
)

func (s DriverStatus) IsValid() bool {
	switch s {
	case DriverStatusActive, DriverStatusInactive, DriverStatusOnDelivery:
		return true
	}
	return false
}

// Location is a driver's last reported position. Timestamp is Unix milliseconds.
type Location struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Timestamp int64   `json:"timestamp"`
}

// Driver carries three derived fields (AssignedOrders, CashCollected,
// CashVerified). They are filled by the report package on read and are never
// stored.
type Driver struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Phone           string       `json:"phone"`
	VehicleNumber   string       `json:"vehicleNumber"`
	Status          DriverStatus `json:"status"`
	CurrentLocation *Location    `json:"currentLocation,omitempty"`
	AssignedOrders  int          `json:"assignedOrders"`
	CashCollected   float64      `json:"cashCollected"`
	CashVerified    bool         `json:"cashVerified"`
}

func NewDriver(id, name string) Driver {
	return Driver{ID: id, Name: name, Status: DriverStatusActive}
}

func (d Driver) Clone() Driver {
	if d.CurrentLocation != nil {
		loc := *d.CurrentLocation
		d.CurrentLocation = &loc
	}
	return d
}
