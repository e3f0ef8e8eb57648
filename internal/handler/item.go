package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/findnest/findnest/internal/model"
	"github.com/findnest/findnest/internal/service"
)

// ItemHandler exposes the item lifecycle over HTTP.
//
// Routes (see server.setupRoutes):
//
//	POST   /api/items/save
//	GET    /api/items
//	GET    /api/items/count
//	GET    /api/items/history
//	GET    /api/items/history/{id}
//	GET    /api/items/{id}
//	PUT    /api/items/{id}
//	PATCH  /api/items/{id}
//	PATCH  /api/items/{id}/turnover
//	DELETE /api/items/{id}
type ItemHandler struct {
	items  *service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(items *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{items: items, logger: logger}
}

// HandleSave creates a new item record.
func (h *ItemHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var draft model.Item
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.Warn("invalid item JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	item, err := h.items.Create(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// HandleList returns all active items.
func (h *ItemHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleGetByID returns a single item.
func (h *ItemHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleReplace overwrites an item, preserving fields the body leaves blank.
func (h *ItemHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	var draft model.Item
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		h.logger.Warn("invalid item JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	item, err := h.items.Replace(r.Context(), r.PathValue("id"), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandlePatch applies a partial update. Unknown keys in the body are
// ignored.
func (h *ItemHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var patch model.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("invalid patch JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	item, err := h.items.Patch(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// turnoverRequest is the body of PATCH /api/items/{id}/turnover.
type turnoverRequest struct {
	TurnoverDate   string `json:"turnoverDate"`
	TurnoverPerson string `json:"turnoverPerson"`
	Department     string `json:"department"`
}

// HandleTurnover records a custody hand-off.
func (h *ItemHandler) HandleTurnover(w http.ResponseWriter, r *http.Request) {
	var req turnoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid turnover JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "bad_request", Message: "invalid JSON body",
		})
		return
	}

	item, err := h.items.UpdateTurnover(r.Context(), r.PathValue("id"),
		req.TurnoverDate, req.TurnoverPerson, req.Department)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleDelete archives the item and removes it from the active collection.
// Deleting an id that does not exist still returns 204.
func (h *ItemHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.items.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleHistoryList returns all archived items.
func (h *ItemHandler) HandleHistoryList(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.HistoryList(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// HandleHistoryGetByID returns a single archived item.
func (h *ItemHandler) HandleHistoryGetByID(w http.ResponseWriter, r *http.Request) {
	item, err := h.items.HistoryGet(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// HandleCount returns the status count summary.
func (h *ItemHandler) HandleCount(w http.ResponseWriter, r *http.Request) {
	counts, err := h.items.CountSummary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
