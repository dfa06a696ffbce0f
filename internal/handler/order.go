package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"courierdesk/internal/model"
	"courierdesk/internal/service"
)

type assignRequest struct {
	DriverID string `json:"driverId"`
}

type statusRequest struct {
	Status model.OrderStatus `json:"status"`
}

type scanResponse struct {
	OrderID string `json:"orderId"`
	Barcode string `json:"barcode"`
}

// ListOrdersHandler returns all orders, or one driver's open orders when
// ?driverId= is given.
func ListOrdersHandler(orderSvc *service.OrderService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			orders []model.Order
			err    error
		)
		if driverID := r.URL.Query().Get("driverId"); driverID != "" {
			orders, err = orderSvc.ListForDriver(r.Context(), driverID)
		} else {
			orders, err = orderSvc.List(r.Context())
		}
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, orders)
	}
}

func CreateOrderHandler(orderSvc *service.OrderService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.NewOrder
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, r, log, err)
			return
		}

		order, err := orderSvc.Create(r.Context(), req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusCreated, order)
	}
}

func PatchOrderHandler(orderSvc *service.OrderService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.OrderPatch
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, r, log, err)
			return
		}

		order, err := orderSvc.Patch(r.Context(), req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, order)
	}
}

func AssignDriverHandler(orderSvc *service.OrderService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req assignRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeError(w, r, log, err)
			return
		}
		if req.DriverID == "" {
			writeError(w, r, log, &service.ValidationError{Field: "driverId", Reason: "is required"})
			return
		}

		order, err := orderSvc.AssignDriver(r.Context(), chi.URLParam(r, "id"), req.DriverID)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, order)
	}
}

func AdvanceStatusHandler(orderSvc *service.OrderService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := decodeJSON(w, r, &req, false); err != nil {
			writeError(w, r, log, err)
			return
		}

		order, err := orderSvc.AdvanceStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, order)
	}
}

func ScanBarcodeHandler(orderSvc *service.OrderService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		code, err := orderSvc.ScanBarcode(r.Context(), id)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, scanResponse{OrderID: id, Barcode: code})
	}
}
