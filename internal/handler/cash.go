package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"courierdesk/internal/mw"
	"courierdesk/internal/service"
)

func ListCollectionsHandler(cashSvc *service.CashService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := service.CollectionView(r.URL.Query().Get("view"))
		collections, err := cashSvc.List(r.Context(), view)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, collections)
	}
}

func SubmitCollectionHandler(cashSvc *service.CashService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.NewCollection
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, r, log, err)
			return
		}

		collection, err := cashSvc.Submit(r.Context(), req)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusCreated, collection)
	}
}

func PatchCollectionHandler(cashSvc *service.CashService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.CollectionPatch
		if err := decodeJSON(w, r, &req, true); err != nil {
			writeError(w, r, log, err)
			return
		}

		actor, _ := mw.Actor(r.Context())
		collection, err := cashSvc.Patch(r.Context(), req, actor)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, collection)
	}
}

func ApproveCollectionHandler(cashSvc *service.CashService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := mw.Actor(r.Context())
		collection, err := cashSvc.Approve(r.Context(), chi.URLParam(r, "id"), actor)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, collection)
	}
}

func RejectCollectionHandler(cashSvc *service.CashService, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, _ := mw.Actor(r.Context())
		collection, err := cashSvc.Reject(r.Context(), chi.URLParam(r, "id"), actor)
		if err != nil {
			writeError(w, r, log, err)
			return
		}
		writeJSON(w, r, log, http.StatusOK, collection)
	}
}
