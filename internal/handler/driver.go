package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"courierdesk/internal/model"
	"courierdesk/internal/service"
	"courierdesk/internal/view"
)

type tasksResponse struct {
	Driver model.Driver `json:"driver"`
	Count  int          `json:"count"`
	Tasks  []view.Task  `json:"tasks"`
}

func ListDriversHandler(driverSvc *service.DriverService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		drivers, err := driverSvc.List(r.Context())
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, drivers)
	}
}

func PatchDriverHandler(driverSvc *service.DriverService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.DriverPatch
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, r, log, err)
			return
		}

		driver, err := driverSvc.Patch(r.Context(), req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, driver)
	}
}

func UpdateLocationHandler(driverSvc *service.DriverService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.Coordinates
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, r, log, err)
			return
		}

		loc, err := driverSvc.UpdateLocation(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, loc)
	}
}

// DriverTasksHandler serves the driver app's task list with display strings.
func DriverTasksHandler(driverSvc *service.DriverService, orderSvc *service.OrderService, loc *time.Location, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		driver, err := driverSvc.Get(r.Context(), id)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		orders, err := orderSvc.ListForDriver(r.Context(), id)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		tasks := view.Tasks(orders, loc)
		writeJSON(w, r, log, http.StatusOK, tasksResponse{Driver: driver, Count: len(tasks), Tasks: tasks})
	}
}
