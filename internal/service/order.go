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

// DefaultBarcode is returned by ScanBarcode for orders without a barcode.
const DefaultBarcode = "1234567890123"

// NewOrder holds the client-supplied fields of an order being created. Status
// defaults to pending. An overriding status past pending needs AssignedDriver.
type NewOrder struct {
	CustomerName    string  `json:"customerName" validate:"max=200"`
	CustomerPhone   string  `json:"customerPhone" validate:"max=32"`
	PickupAddress   string  `json:"pickupAddress" validate:"max=500"`
	DeliveryAddress string  `json:"deliveryAddress" validate:"max=500"`
	Amount          float64 `json:"amount" validate:"gte=0"`
	CashOnDelivery  bool    `json:"cashOnDelivery"`
	Barcode         string  `json:"barcode" validate:"max=64"`
	Notes           string  `json:"notes" validate:"max=1000"`

	Status         *model.OrderStatus `json:"status,omitempty"`
	AssignedDriver *string            `json:"assignedDriver,omitempty"`
}

// OrderPatch is a partial update. Nil fields are left unchanged. An empty
// AssignedDriver unassigns the order.
type OrderPatch struct {
	ID              string             `json:"id" validate:"required"`
	CustomerName    *string            `json:"customerName,omitempty" validate:"omitempty,max=200"`
	CustomerPhone   *string            `json:"customerPhone,omitempty" validate:"omitempty,max=32"`
	PickupAddress   *string            `json:"pickupAddress,omitempty" validate:"omitempty,max=500"`
	DeliveryAddress *string            `json:"deliveryAddress,omitempty" validate:"omitempty,max=500"`
	Amount          *float64           `json:"amount,omitempty" validate:"omitempty,gte=0"`
	CashOnDelivery  *bool              `json:"cashOnDelivery,omitempty"`
	Status          *model.OrderStatus `json:"status,omitempty"`
	AssignedDriver  *string            `json:"assignedDriver,omitempty"`
	Barcode         *string            `json:"barcode,omitempty" validate:"omitempty,max=64"`
	Notes           *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

type OrderService struct {
	store        *store.Store
	log          *zap.Logger
	numberPrefix string
	now          func() time.Time
}

func NewOrderService(st *store.Store, log *zap.Logger, numberPrefix string) *OrderService {
	return &OrderService{store: st, log: log, numberPrefix: numberPrefix, now: time.Now}
}

func (s *OrderService) List(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := s.store.View(func(tx *store.Tx) error {
		orders = tx.Orders()
		return nil
	})
	return orders, err
}

// ListForDriver returns the driver's open work: orders assigned to it that
// are not yet delivered.
func (s *OrderService) ListForDriver(ctx context.Context, driverID string) ([]model.Order, error) {
	var orders []model.Order
	err := s.store.View(func(tx *store.Tx) error {
		if _, ok := tx.Driver(driverID); !ok {
			return notFound("driver", driverID)
		}
		orders = report.OrdersForDriver(tx.Orders(), driverID)
		return nil
	})
	return orders, err
}

func (s *OrderService) Create(ctx context.Context, in NewOrder) (model.Order, error) {
	if err := check(in); err != nil {
		return model.Order{}, err
	}
	if err := checkStatus(in.Status); err != nil {
		return model.Order{}, err
	}

	var created model.Order
	err := s.store.Update(func(tx *store.Tx) error {
		now := s.now()
		o := model.NewOrder("", "", now)
		o.CustomerName = in.CustomerName
		o.CustomerPhone = in.CustomerPhone
		o.PickupAddress = in.PickupAddress
		o.DeliveryAddress = in.DeliveryAddress
		o.Amount = in.Amount
		o.CashOnDelivery = in.CashOnDelivery
		o.Barcode = in.Barcode
		o.Notes = in.Notes
		if err := applyAssignment(tx, &o, in.AssignedDriver, in.Status, model.OrderStatusPending, now); err != nil {
			return err
		}

		seq, err := tx.NextOrderSeq()
		if err != nil {
			return fmt.Errorf("reserve order id: %w", err)
		}
		o.ID = fmt.Sprintf("ORD%03d", seq)
		o.OrderNumber = fmt.Sprintf("%s%03d", s.numberPrefix, seq)
		if err := tx.PutOrder(o); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		created = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	logger.FromContext(ctx, s.log).Info("order created",
		zap.String("order_id", created.ID),
		zap.String("order_number", created.OrderNumber),
		zap.Stringer("status", created.Status),
	)
	return created, nil
}

// AssignDriver attaches an active driver to a non-terminal order and moves it
// to assigned. Repeating the call with the same arguments is harmless.
func (s *OrderService) AssignDriver(ctx context.Context, orderID, driverID string) (model.Order, error) {
	var (
		updated model.Order
		prev    model.OrderStatus
	)
	err := s.store.Update(func(tx *store.Tx) error {
		o, ok := tx.Order(orderID)
		if !ok {
			return notFound("order", orderID)
		}
		d, ok := tx.Driver(driverID)
		if !ok {
			return notFound("driver", driverID)
		}
		if d.Status != model.DriverStatusActive {
			return invalid("driverId", fmt.Sprintf("driver %s is %s, not active", d.ID, d.Status))
		}
		if o.Status.IsTerminal() {
			return fmt.Errorf("order %s is %s: %w", o.ID, o.Status, ErrInvalidTransition)
		}

		prev = o.Status
		o.AssignedDriver = d.ID
		o.DriverName = d.Name
		o.Status = model.OrderStatusAssigned
		o.UpdatedAt = s.now()
		if err := tx.PutOrder(o); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		updated = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	logger.FromContext(ctx, s.log).Info("driver assigned",
		zap.String("order_id", updated.ID),
		zap.String("driver_id", updated.AssignedDriver),
		zap.Stringer("from", prev),
	)
	return updated, nil
}

// AdvanceStatus moves an order one step along its lifecycle. Entering
// assigned is left to AssignDriver, which checks and snapshots the driver.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID string, target model.OrderStatus) (model.Order, error) {
	if !target.IsValid() {
		return model.Order{}, invalid("status", fmt.Sprintf("unknown order status %q", target))
	}

	var (
		updated model.Order
		prev    model.OrderStatus
	)
	err := s.store.Update(func(tx *store.Tx) error {
		o, ok := tx.Order(orderID)
		if !ok {
			return notFound("order", orderID)
		}
		if target == model.OrderStatusAssigned {
			return fmt.Errorf("order %s %s -> %s requires driver assignment: %w", o.ID, o.Status, target, ErrInvalidTransition)
		}
		if !o.Status.CanTransitionTo(target) {
			return fmt.Errorf("order %s %s -> %s: %w", o.ID, o.Status, target, ErrInvalidTransition)
		}
		if target.RequiresDriver() && o.AssignedDriver == "" {
			return fmt.Errorf("order %s has no driver: %w", o.ID, ErrInvalidTransition)
		}

		now := s.now()
		prev = o.Status
		o.Status = target
		o.UpdatedAt = now
		if target == model.OrderStatusDelivered {
			o.DeliveredAt = &now
		}
		if err := tx.PutOrder(o); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		updated = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	logger.FromContext(ctx, s.log).Info("order status changed",
		zap.String("order_id", updated.ID),
		zap.Stringer("from", prev),
		zap.Stringer("to", updated.Status),
	)
	return updated, nil
}

// Patch applies an administrative partial update. The transition table is
// not consulted, but the driver invariant is.
func (s *OrderService) Patch(ctx context.Context, p OrderPatch) (model.Order, error) {
	if err := check(p); err != nil {
		return model.Order{}, err
	}
	if err := checkStatus(p.Status); err != nil {
		return model.Order{}, err
	}

	var updated model.Order
	err := s.store.Update(func(tx *store.Tx) error {
		o, ok := tx.Order(p.ID)
		if !ok {
			return notFound("order", p.ID)
		}
		prev := o.Status

		setString(&o.CustomerName, p.CustomerName)
		setString(&o.CustomerPhone, p.CustomerPhone)
		setString(&o.PickupAddress, p.PickupAddress)
		setString(&o.DeliveryAddress, p.DeliveryAddress)
		setString(&o.Barcode, p.Barcode)
		setString(&o.Notes, p.Notes)
		if p.Amount != nil {
			o.Amount = *p.Amount
		}
		if p.CashOnDelivery != nil {
			o.CashOnDelivery = *p.CashOnDelivery
		}

		now := s.now()
		if err := applyAssignment(tx, &o, p.AssignedDriver, p.Status, prev, now); err != nil {
			return err
		}
		o.UpdatedAt = now

		if err := tx.PutOrder(o); err != nil {
			return fmt.Errorf("store order: %w", err)
		}
		updated = o
		return nil
	})
	if err != nil {
		return model.Order{}, err
	}

	logger.FromContext(ctx, s.log).Info("order patched",
		zap.String("order_id", updated.ID),
		zap.Stringer("status", updated.Status),
	)
	return updated, nil
}

// ScanBarcode returns the order's barcode, or DefaultBarcode when none is set.
func (s *OrderService) ScanBarcode(ctx context.Context, orderID string) (string, error) {
	var code string
	err := s.store.View(func(tx *store.Tx) error {
		o, ok := tx.Order(orderID)
		if !ok {
			return notFound("order", orderID)
		}
		code = o.Barcode
		return nil
	})
	if err != nil {
		return "", err
	}
	if code == "" {
		code = DefaultBarcode
	}
	return code, nil
}

func checkStatus(st *model.OrderStatus) error {
	if st != nil && !st.IsValid() {
		return invalid("status", fmt.Sprintf("unknown order status %q", *st))
	}
	return nil
}

// applyAssignment sets the driver and status overrides on o and keeps the
// driver invariant: driverName is re-snapshotted when the driver changes, a
// status past pending needs a driver, and deliveredAt tracks delivered. prev
// is the status o had before the change.
func applyAssignment(tx *store.Tx, o *model.Order, driverID *string, status *model.OrderStatus, prev model.OrderStatus, now time.Time) error {
	if driverID != nil && *driverID != o.AssignedDriver {
		if *driverID == "" {
			o.AssignedDriver, o.DriverName = "", ""
		} else {
			d, ok := tx.Driver(*driverID)
			if !ok {
				return invalid("assignedDriver", fmt.Sprintf("unknown driver %s", *driverID))
			}
			o.AssignedDriver, o.DriverName = d.ID, d.Name
		}
	}
	if status != nil {
		o.Status = *status
	}
	if o.Status.RequiresDriver() && o.AssignedDriver == "" {
		return invalid("assignedDriver", fmt.Sprintf("required for status %s", o.Status))
	}

	switch {
	case o.Status == model.OrderStatusDelivered && (prev != model.OrderStatusDelivered || o.DeliveredAt == nil):
		o.DeliveredAt = &now
	case o.Status != model.OrderStatusDelivered:
		o.DeliveredAt = nil
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
