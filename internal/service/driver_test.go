package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courierdesk/internal/model"
)

func TestDriverService_List(t *testing.T) {
	f := newFixture(t)

	drivers, err := f.drivers.List(context.Background())
	require.NoError(t, err)
	require.Len(t, drivers, 4)

	byID := map[string]model.Driver{}
	for _, d := range drivers {
		byID[d.ID] = d
	}

	assert.Equal(t, 1, byID["D001"].AssignedOrders)
	assert.Equal(t, 3200.0, byID["D001"].CashCollected)
	assert.True(t, byID["D001"].CashVerified)

	assert.Equal(t, 1, byID["D002"].AssignedOrders)
	assert.Zero(t, byID["D002"].CashCollected)
	assert.False(t, byID["D002"].CashVerified)

	assert.Zero(t, byID["D004"].AssignedOrders)
	assert.True(t, byID["D004"].CashVerified)
}

func TestDriverService_UpdateLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites the position", func(t *testing.T) {
		f := newFixture(t)

		loc, err := f.drivers.UpdateLocation(ctx, "D004", Coordinates{Lat: 18.6, Lng: 73.8})
		require.NoError(t, err)
		assert.Equal(t, f.now.UnixMilli(), loc.Timestamp)

		d, err := f.drivers.Get(ctx, "D004")
		require.NoError(t, err)
		require.NotNil(t, d.CurrentLocation)
		assert.Equal(t, loc, *d.CurrentLocation)
	})

	t.Run("accepts the range bounds", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.drivers.UpdateLocation(ctx, "D001", Coordinates{Lat: -90, Lng: 180})
		assert.NoError(t, err)
	})

	t.Run("rejects out of range coordinates", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.drivers.UpdateLocation(ctx, "D001", Coordinates{Lat: 91, Lng: 0})
		requireValidation(t, err, "lat")

		_, err = f.drivers.UpdateLocation(ctx, "D001", Coordinates{Lat: 0, Lng: -180.5})
		requireValidation(t, err, "lng")

		d, err := f.drivers.Get(ctx, "D001")
		require.NoError(t, err)
		assert.Equal(t, 18.5204, d.CurrentLocation.Lat)
	})

	t.Run("unknown driver", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.drivers.UpdateLocation(ctx, "D999", Coordinates{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDriverService_Patch(t *testing.T) {
	ctx := context.Background()

	t.Run("updates fields and returns aggregates", func(t *testing.T) {
		f := newFixture(t)

		d, err := f.drivers.Patch(ctx, DriverPatch{ID: "D004", Status: ptr(model.DriverStatusActive), Phone: ptr("+91 90000 00000")})
		require.NoError(t, err)

		assert.Equal(t, model.DriverStatusActive, d.Status)
		assert.Equal(t, "+91 90000 00000", d.Phone)
		assert.Equal(t, "Priya Deshmukh", d.Name)
		assert.True(t, d.CashVerified)
	})

	t.Run("rejects bad values", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.drivers.Patch(ctx, DriverPatch{ID: "D001", Status: ptr(model.DriverStatus("asleep"))})
		requireValidation(t, err, "status")

		_, err = f.drivers.Patch(ctx, DriverPatch{ID: "D001", CurrentLocation: &Coordinates{Lat: 100}})
		requireValidation(t, err, "lat")

		_, err = f.drivers.Patch(ctx, DriverPatch{ID: "D999"})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
