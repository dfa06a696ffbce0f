package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"courierdesk/internal/logger"
	"courierdesk/internal/model"
	"courierdesk/internal/report"
	"courierdesk/internal/store"
)

// Coordinates is a position in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// DriverPatch is a partial update. The derived fields (assignedOrders,
// cashCollected, cashVerified) cannot be written.
type DriverPatch struct {
	ID              string              `json:"id" validate:"required"`
	Name            *string             `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Phone           *string             `json:"phone,omitempty" validate:"omitempty,max=32"`
	VehicleNumber   *string             `json:"vehicleNumber,omitempty" validate:"omitempty,max=32"`
	Status          *model.DriverStatus `json:"status,omitempty"`
	CurrentLocation *Coordinates        `json:"currentLocation,omitempty"`
}

type DriverService struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewDriverService(st *store.Store, log *zap.Logger) *DriverService {
	return &DriverService{store: st, log: log, now: time.Now}
}

// List returns every driver with its derived fields filled in.
func (s *DriverService) List(ctx context.Context) ([]model.Driver, error) {
	var drivers []model.Driver
	err := s.store.View(func(tx *store.Tx) error {
		drivers = report.WithAggregates(tx.Drivers(), tx.Orders(), tx.Collections())
		return nil
	})
	return drivers, err
}

func (s *DriverService) Get(ctx context.Context, id string) (model.Driver, error) {
	var d model.Driver
	err := s.store.View(func(tx *store.Tx) error {
		found, ok := tx.Driver(id)
		if !ok {
			return notFound("driver", id)
		}
		d = report.DriverAggregates(found, tx.Orders(), tx.Collections())
		return nil
	})
	return d, err
}

func (s *DriverService) Patch(ctx context.Context, p DriverPatch) (model.Driver, error) {
	if err := check(p); err != nil {
		return model.Driver{}, err
	}
	if p.Status != nil && !p.Status.IsValid() {
		return model.Driver{}, invalid("status", fmt.Sprintf("unknown driver status %q", *p.Status))
	}

	var updated model.Driver
	err := s.store.Update(func(tx *store.Tx) error {
		d, ok := tx.Driver(p.ID)
		if !ok {
			return notFound("driver", p.ID)
		}
		setString(&d.Name, p.Name)
		setString(&d.Phone, p.Phone)
		setString(&d.VehicleNumber, p.VehicleNumber)
		if p.Status != nil {
			d.Status = *p.Status
		}
		if p.CurrentLocation != nil {
			d.CurrentLocation = &model.Location{
				Lat:       p.CurrentLocation.Lat,
				Lng:       p.CurrentLocation.Lng,
				Timestamp: s.now().UnixMilli(),
			}
		}
		if err := tx.PutDriver(d); err != nil {
			return fmt.Errorf("store driver: %w", err)
		}
		updated = report.DriverAggregates(d, tx.Orders(), tx.Collections())
		return nil
	})
	if err != nil {
		return model.Driver{}, err
	}

	logger.FromContext(ctx, s.log).Info("driver patched",
		zap.String("driver_id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

// UpdateLocation overwrites the driver's position. The latest write wins.
func (s *DriverService) UpdateLocation(ctx context.Context, driverID string, at Coordinates) (model.Location, error) {
	if err := check(at); err != nil {
		return model.Location{}, err
	}

	loc := model.Location{Lat: at.Lat, Lng: at.Lng}
	err := s.store.Update(func(tx *store.Tx) error {
		d, ok := tx.Driver(driverID)
		if !ok {
			return notFound("driver", driverID)
		}
		loc.Timestamp = s.now().UnixMilli()
		d.CurrentLocation = &loc
		return tx.PutDriver(d)
	})
	if err != nil {
		return model.Location{}, err
	}

	logger.FromContext(ctx, s.log).Debug("driver location updated",
		zap.String("driver_id", driverID),
		zap.Float64("lat", loc.Lat),
		zap.Float64("lng", loc.Lng),
	)
	return loc, nil
}
