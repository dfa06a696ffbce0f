// Package store holds the process-wide collections of drivers, orders and cash
// collections. All access goes through View or Update, which run a callback
// inside one critical section so cross-entity reads stay consistent.
package store

import (
	"errors"
	"strconv"
	"sync"

	"courierdesk/internal/model"
)

var ErrReadOnly = errors.New("store: write attempted in read-only transaction")

type Store struct {
	mu sync.RWMutex

	drivers   map[string]model.Driver
	driverIDs []string

	orders   map[string]model.Order
	orderIDs []string

	collections   map[string]model.CashCollection
	collectionIDs []string

	orderSeq      int
	collectionSeq int
}

func New() *Store {
	return &Store{
		drivers:     make(map[string]model.Driver),
		orders:      make(map[string]model.Order),
		collections: make(map[string]model.CashCollection),
	}
}

// View runs fn with shared access. Writes through the Tx fail with ErrReadOnly.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{s: s})
}

// Update runs fn with exclusive access. There is no rollback: callers validate
// before they write.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{s: s, writable: true})
}

// Tx is the handle passed to View and Update callbacks. It must not be kept
// after the callback returns. Every getter returns a copy.
type Tx struct {
	s        *Store
	writable bool
}

func (tx *Tx) Driver(id string) (model.Driver, bool) {
	d, ok := tx.s.drivers[id]
	if !ok {
		return model.Driver{}, false
	}
	return d.Clone(), true
}

func (tx *Tx) Drivers() []model.Driver {
	out := make([]model.Driver, 0, len(tx.s.driverIDs))
	for _, id := range tx.s.driverIDs {
		out = append(out, tx.s.drivers[id].Clone())
	}
	return out
}

func (tx *Tx) PutDriver(d model.Driver) error {
	if !tx.writable {
		return ErrReadOnly
	}
	if _, ok := tx.s.drivers[d.ID]; !ok {
		tx.s.driverIDs = append(tx.s.driverIDs, d.ID)
	}
	tx.s.drivers[d.ID] = d.Clone()
	return nil
}

func (tx *Tx) Order(id string) (model.Order, bool) {
	o, ok := tx.s.orders[id]
	if !ok {
		return model.Order{}, false
	}
	return o.Clone(), true
}

func (tx *Tx) Orders() []model.Order {
	out := make([]model.Order, 0, len(tx.s.orderIDs))
	for _, id := range tx.s.orderIDs {
		out = append(out, tx.s.orders[id].Clone())
	}
	return out
}

func (tx *Tx) PutOrder(o model.Order) error {
	if !tx.writable {
		return ErrReadOnly
	}
	if _, ok := tx.s.orders[o.ID]; !ok {
		tx.s.orderIDs = append(tx.s.orderIDs, o.ID)
	}
	tx.s.orders[o.ID] = o.Clone()
	tx.s.orderSeq = max(tx.s.orderSeq, numericSuffix(o.ID))
	return nil
}

func (tx *Tx) Collection(id string) (model.CashCollection, bool) {
	c, ok := tx.s.collections[id]
	if !ok {
		return model.CashCollection{}, false
	}
	return c.Clone(), true
}

func (tx *Tx) Collections() []model.CashCollection {
	out := make([]model.CashCollection, 0, len(tx.s.collectionIDs))
	for _, id := range tx.s.collectionIDs {
		out = append(out, tx.s.collections[id].Clone())
	}
	return out
}

func (tx *Tx) PutCollection(c model.CashCollection) error {
	if !tx.writable {
		return ErrReadOnly
	}
	if _, ok := tx.s.collections[c.ID]; !ok {
		tx.s.collectionIDs = append(tx.s.collectionIDs, c.ID)
	}
	tx.s.collections[c.ID] = c.Clone()
	tx.s.collectionSeq = max(tx.s.collectionSeq, numericSuffix(c.ID))
	return nil
}

// NextOrderSeq reserves the next order sequence number. Numbers are never
// reused, even if the caller does not store an order with it.
func (tx *Tx) NextOrderSeq() (int, error) {
	if !tx.writable {
		return 0, ErrReadOnly
	}
	tx.s.orderSeq++
	return tx.s.orderSeq, nil
}

func (tx *Tx) NextCollectionSeq() (int, error) {
	if !tx.writable {
		return 0, ErrReadOnly
	}
	tx.s.collectionSeq++
	return tx.s.collectionSeq, nil
}

// numericSuffix returns the trailing decimal digits of id, or 0.
func numericSuffix(id string) int {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(id[i:])
	if err != nil {
		return 0
	}
	return n
}
