package handler

import (
	"net/http"

	"go.uber.org/zap"

	"courierdesk/internal/report"
	"courierdesk/internal/service"
	"courierdesk/internal/view"
)

type statsResponse struct {
	report.Summary
	TotalRevenueText string `json:"totalRevenueText"`
	PendingCashText  string `json:"pendingCashText"`
}

func StatsHandler(statsSvc *service.StatsService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sum, err := statsSvc.Summary(r.Context())
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, statsResponse{
			Summary:          sum,
			TotalRevenueText: view.Rupees(sum.TotalRevenue),
			PendingCashText:  view.Rupees(sum.PendingCash),
		})
	}
}

func MarkersHandler(statsSvc *service.StatsService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		markers, err := statsSvc.Markers(r.Context())
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, markers)
	}
}

func HealthHandler(log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, log, http.StatusOK, map[string]string{"status": "ok"})
	}
}
