package store

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"courierdesk/internal/model"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the seed document. Ages are durations before the seed time.
type Fixtures struct {
	Drivers     []DriverFixture     `yaml:"drivers"`
	Orders      []OrderFixture      `yaml:"orders"`
	Collections []CollectionFixture `yaml:"cashCollections"`
}

type DriverFixture struct {
	ID            string             `yaml:"id"`
	Name          string             `yaml:"name"`
	Phone         string             `yaml:"phone"`
	VehicleNumber string             `yaml:"vehicleNumber"`
	Status        model.DriverStatus `yaml:"status"`
	Location      *LocationFixture   `yaml:"location"`
}

type LocationFixture struct {
	Lat float64       `yaml:"lat"`
	Lng float64       `yaml:"lng"`
	Ago time.Duration `yaml:"ago"`
}

type OrderFixture struct {
	ID              string            `yaml:"id"`
	OrderNumber     string            `yaml:"orderNumber"`
	CustomerName    string            `yaml:"customerName"`
	CustomerPhone   string            `yaml:"customerPhone"`
	PickupAddress   string            `yaml:"pickupAddress"`
	DeliveryAddress string            `yaml:"deliveryAddress"`
	Amount          float64           `yaml:"amount"`
	CashOnDelivery  bool              `yaml:"cashOnDelivery"`
	Status          model.OrderStatus `yaml:"status"`
	AssignedDriver  string            `yaml:"assignedDriver"`
	Barcode         string            `yaml:"barcode"`
	CreatedAgo      time.Duration     `yaml:"createdAgo"`
	DeliveredAgo    *time.Duration    `yaml:"deliveredAgo"`
	Notes           string            `yaml:"notes"`
}

type CollectionFixture struct {
	ID           string                 `yaml:"id"`
	DriverID     string                 `yaml:"driverId"`
	Amount       float64                `yaml:"amount"`
	OrdersCount  int                    `yaml:"ordersCount"`
	Status       model.CollectionStatus `yaml:"status"`
	SubmittedAgo time.Duration          `yaml:"submittedAgo"`
	VerifiedAgo  *time.Duration         `yaml:"verifiedAgo"`
	VerifiedBy   string                 `yaml:"verifiedBy"`
	Notes        string                 `yaml:"notes"`
}

// LoadFixtures reads the seed document at path, or the embedded one when path
// is empty.
func LoadFixtures(path string) (*Fixtures, error) {
	data := defaultFixtures
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read fixtures: %w", err)
		}
		data = b
	}
	var fx Fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &fx, nil
}

// Seed loads fx into s. It checks the same invariants the services keep, so a
// bad fixture fails at startup rather than on first use.
func (s *Store) Seed(fx *Fixtures, now time.Time) error {
	return s.Update(func(tx *Tx) error {
		for _, f := range fx.Drivers {
			if f.ID == "" {
				return fmt.Errorf("driver fixture without id")
			}
			if _, dup := tx.Driver(f.ID); dup {
				return fmt.Errorf("duplicate driver %s", f.ID)
			}
			d := model.NewDriver(f.ID, f.Name)
			d.Phone = f.Phone
			d.VehicleNumber = f.VehicleNumber
			if f.Status != "" {
				d.Status = f.Status
			}
			if !d.Status.IsValid() {
				return fmt.Errorf("driver %s: invalid status %q", f.ID, f.Status)
			}
			if f.Location != nil {
				d.CurrentLocation = &model.Location{
					Lat:       f.Location.Lat,
					Lng:       f.Location.Lng,
					Timestamp: now.Add(-f.Location.Ago).UnixMilli(),
				}
			}
			if err := tx.PutDriver(d); err != nil {
				return err
			}
		}

		for _, f := range fx.Orders {
			if f.ID == "" {
				return fmt.Errorf("order fixture without id")
			}
			if _, dup := tx.Order(f.ID); dup {
				return fmt.Errorf("duplicate order %s", f.ID)
			}
			created := now.Add(-f.CreatedAgo)
			o := model.NewOrder(f.ID, f.OrderNumber, created)
			o.CustomerName = f.CustomerName
			o.CustomerPhone = f.CustomerPhone
			o.PickupAddress = f.PickupAddress
			o.DeliveryAddress = f.DeliveryAddress
			o.Amount = f.Amount
			o.CashOnDelivery = f.CashOnDelivery
			o.Barcode = f.Barcode
			o.Notes = f.Notes
			if f.Status != "" {
				o.Status = f.Status
			}
			if !o.Status.IsValid() {
				return fmt.Errorf("order %s: invalid status %q", f.ID, f.Status)
			}
			if f.AssignedDriver != "" {
				d, ok := tx.Driver(f.AssignedDriver)
				if !ok {
					return fmt.Errorf("order %s: unknown driver %s", f.ID, f.AssignedDriver)
				}
				o.AssignedDriver = d.ID
				o.DriverName = d.Name
			}
			if o.Status.RequiresDriver() && o.AssignedDriver == "" {
				return fmt.Errorf("order %s: status %s without a driver", f.ID, o.Status)
			}
			if f.DeliveredAgo != nil {
				t := now.Add(-*f.DeliveredAgo)
				o.DeliveredAt = &t
				o.UpdatedAt = t
			}
			if err := tx.PutOrder(o); err != nil {
				return err
			}
		}

		for _, f := range fx.Collections {
			if f.ID == "" {
				return fmt.Errorf("cash collection fixture without id")
			}
			if _, dup := tx.Collection(f.ID); dup {
				return fmt.Errorf("duplicate cash collection %s", f.ID)
			}
			d, ok := tx.Driver(f.DriverID)
			if !ok {
				return fmt.Errorf("cash collection %s: unknown driver %s", f.ID, f.DriverID)
			}
			c := model.NewCashCollection(f.ID, d, now.Add(-f.SubmittedAgo))
			c.Amount = f.Amount
			c.OrdersCount = f.OrdersCount
			c.Notes = f.Notes
			if f.Status != "" {
				c.Status = f.Status
			}
			if !c.Status.IsValid() {
				return fmt.Errorf("cash collection %s: invalid status %q", f.ID, f.Status)
			}
			if c.Status.IsTerminal() {
				verified := c.SubmittedAt
				if f.VerifiedAgo != nil {
					verified = now.Add(-*f.VerifiedAgo)
				}
				c.VerifiedAt = &verified
				c.VerifiedBy = f.VerifiedBy
			}
			if err := tx.PutCollection(c); err != nil {
				return err
			}
		}
		return nil
	})
}
