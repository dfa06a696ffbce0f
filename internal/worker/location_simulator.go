package worker

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"courierdesk/internal/model"
	"courierdesk/internal/service"
)

// DriverLocations is the part of the driver service the simulator needs.
type DriverLocations interface {
	List(ctx context.Context) ([]model.Driver, error)
	UpdateLocation(ctx context.Context, driverID string, at service.Coordinates) (model.Location, error)
}

// LocationSimulator moves drivers around the live map between real updates.
type LocationSimulator struct {
	drivers  DriverLocations
	log      *zap.Logger
	interval time.Duration
	maxStep  float64
	rnd      *rand.Rand
}

func NewLocationSimulator(drivers DriverLocations, log *zap.Logger, interval time.Duration, maxStep float64) *LocationSimulator {
	return &LocationSimulator{
		drivers:  drivers,
		log:      log,
		interval: interval,
		maxStep:  maxStep,
		rnd:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// Start ticks until ctx is cancelled. A non-positive interval returns at once.
func (s *LocationSimulator) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info("location simulator disabled")
		return
	}
	s.log.Info("starting location simulator", zap.Duration("interval", s.interval))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("location simulator stopped")
			return
		case <-ticker.C:
			if err := s.tick(ctx); err != nil {
				s.log.Error("location tick failed", zap.Error(err))
			}
		}
	}
}

func (s *LocationSimulator) tick(ctx context.Context) error {
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return fmt.Errorf("list drivers: %w", err)
	}

	moved := 0
	for _, d := range drivers {
		if d.CurrentLocation == nil || d.Status == model.DriverStatusInactive {
			continue
		}
		at := service.Coordinates{
			Lat: clamp(d.CurrentLocation.Lat+s.step(), 90),
			Lng: clamp(d.CurrentLocation.Lng+s.step(), 180),
		}
		if _, err := s.drivers.UpdateLocation(ctx, d.ID, at); err != nil {
			s.log.Warn("failed to move driver", zap.String("driver_id", d.ID), zap.Error(err))
			continue
		}
		moved++
	}
	s.log.Debug("simulated driver movement", zap.Int("moved", moved))
	return nil
}

// step returns a random offset in [-maxStep, maxStep).
func (s *LocationSimulator) step() float64 {
	return (s.rnd.Float64()*2 - 1) * s.maxStep
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}
