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

// CollectionView selects a partition of the cash collection list.
type CollectionView string

const (
	CollectionViewAll       CollectionView = ""
	CollectionViewPending   CollectionView = "pending"
	CollectionViewCompleted CollectionView = "completed"
)

type NewCollection struct {
	DriverID    string  `json:"driverId" validate:"required"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	OrdersCount int     `json:"ordersCount" validate:"gte=0"`
	Notes       string  `json:"notes" validate:"max=1000"`
}

// CollectionPatch is a partial update of a pending collection. Setting Status
// to approved or rejected resolves it.
type CollectionPatch struct {
	ID          string                  `json:"id" validate:"required"`
	Amount      *float64                `json:"amount,omitempty" validate:"omitempty,gte=0"`
	OrdersCount *int                    `json:"ordersCount,omitempty" validate:"omitempty,gte=0"`
	Notes       *string                 `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Status      *model.CollectionStatus `json:"status,omitempty"`
	VerifiedBy  *string                 `json:"verifiedBy,omitempty" validate:"omitempty,max=200"`
}

type CashService struct {
	store *store.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewCashService(st *store.Store, log *zap.Logger) *CashService {
	return &CashService{store: st, log: log, now: time.Now}
}

func (s *CashService) List(ctx context.Context, view CollectionView) ([]model.CashCollection, error) {
	var pick func([]model.CashCollection) []model.CashCollection
	switch view {
	case CollectionViewAll:
		pick = func(c []model.CashCollection) []model.CashCollection { return c }
	case CollectionViewPending:
		pick = report.PendingCollections
	case CollectionViewCompleted:
		pick = report.CompletedCollections
	default:
		return nil, invalid("view", fmt.Sprintf("unknown view %q", view))
	}

	var out []model.CashCollection
	err := s.store.View(func(tx *store.Tx) error {
		out = pick(tx.Collections())
		return nil
	})
	return out, err
}

// Submit records a driver's cash hand-in awaiting review.
func (s *CashService) Submit(ctx context.Context, in NewCollection) (model.CashCollection, error) {
	if err := check(in); err != nil {
		return model.CashCollection{}, err
	}

	var created model.CashCollection
	err := s.store.Update(func(tx *store.Tx) error {
		d, ok := tx.Driver(in.DriverID)
		if !ok {
			return notFound("driver", in.DriverID)
		}
		seq, err := tx.NextCollectionSeq()
		if err != nil {
			return fmt.Errorf("reserve collection id: %w", err)
		}
		c := model.NewCashCollection(fmt.Sprintf("CC%03d", seq), d, s.now())
		c.Amount = in.Amount
		c.OrdersCount = in.OrdersCount
		c.Notes = in.Notes
		if err := tx.PutCollection(c); err != nil {
			return fmt.Errorf("store collection: %w", err)
		}
		created = c
		return nil
	})
	if err != nil {
		return model.CashCollection{}, err
	}

	logger.FromContext(ctx, s.log).Info("cash collection submitted",
		zap.String("collection_id", created.ID),
		zap.String("driver_id", created.DriverID),
		zap.Float64("amount", created.Amount),
	)
	return created, nil
}

func (s *CashService) Approve(ctx context.Context, id, actor string) (model.CashCollection, error) {
	return s.resolve(ctx, id, actor, model.CollectionStatusApproved)
}

func (s *CashService) Reject(ctx context.Context, id, actor string) (model.CashCollection, error) {
	return s.resolve(ctx, id, actor, model.CollectionStatusRejected)
}

func (s *CashService) resolve(ctx context.Context, id, actor string, to model.CollectionStatus) (model.CashCollection, error) {
	var updated model.CashCollection
	err := s.store.Update(func(tx *store.Tx) error {
		c, ok := tx.Collection(id)
		if !ok {
			return notFound("collection", id)
		}
		if c.Status != model.CollectionStatusPending {
			return fmt.Errorf("collection %s is %s: %w", c.ID, c.Status, ErrInvalidState)
		}
		stampVerified(&c, to, actor, s.now())
		if err := tx.PutCollection(c); err != nil {
			return fmt.Errorf("store collection: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return model.CashCollection{}, err
	}

	logger.FromContext(ctx, s.log).Info("cash collection resolved",
		zap.String("collection_id", updated.ID),
		zap.String("status", string(updated.Status)),
		zap.String("verified_by", updated.VerifiedBy),
	)
	return updated, nil
}

// Patch edits a pending collection. Resolved collections are immutable.
func (s *CashService) Patch(ctx context.Context, p CollectionPatch, actor string) (model.CashCollection, error) {
	if err := check(p); err != nil {
		return model.CashCollection{}, err
	}
	if p.Status != nil && !p.Status.IsValid() {
		return model.CashCollection{}, invalid("status", fmt.Sprintf("unknown collection status %q", *p.Status))
	}

	var updated model.CashCollection
	err := s.store.Update(func(tx *store.Tx) error {
		c, ok := tx.Collection(p.ID)
		if !ok {
			return notFound("collection", p.ID)
		}
		if c.Status.IsTerminal() {
			return fmt.Errorf("collection %s is %s: %w", c.ID, c.Status, ErrInvalidState)
		}
		if p.Amount != nil {
			c.Amount = *p.Amount
		}
		if p.OrdersCount != nil {
			c.OrdersCount = *p.OrdersCount
		}
		setString(&c.Notes, p.Notes)
		if p.Status != nil && p.Status.IsTerminal() {
			by := actor
			if p.VerifiedBy != nil && *p.VerifiedBy != "" {
				by = *p.VerifiedBy
			}
			stampVerified(&c, *p.Status, by, s.now())
		}
		if err := tx.PutCollection(c); err != nil {
			return fmt.Errorf("store collection: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return model.CashCollection{}, err
	}

	logger.FromContext(ctx, s.log).Info("cash collection patched",
		zap.String("collection_id", updated.ID),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

func stampVerified(c *model.CashCollection, to model.CollectionStatus, by string, now time.Time) {
	c.Status = to
	c.VerifiedAt = &now
	c.VerifiedBy = by
}
