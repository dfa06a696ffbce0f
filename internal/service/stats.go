package service

import (
	"context"
	"time"

	"courierdesk/internal/report"
	"courierdesk/internal/store"
)

// StatsService serves the dashboard projections. Calendar-day counts use loc.
type StatsService struct {
	store *store.Store
	loc   *time.Location
	now   func() time.Time
}

func NewStatsService(st *store.Store, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{store: st, loc: loc, now: time.Now}
}

func (s *StatsService) Summary(ctx context.Context) (report.Summary, error) {
	var sum report.Summary
	err := s.store.View(func(tx *store.Tx) error {
		sum = report.Summarize(tx.Drivers(), tx.Orders(), tx.Collections(), s.now(), s.loc)
		return nil
	})
	return sum, err
}

func (s *StatsService) Markers(ctx context.Context) ([]report.Marker, error) {
	var markers []report.Marker
	err := s.store.View(func(tx *store.Tx) error {
		markers = report.Markers(tx.Drivers())
		return nil
	})
	return markers, err
}
