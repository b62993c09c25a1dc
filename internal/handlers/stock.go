package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cpretorius/huiswinkel/internal/httpx"
	"github.com/cpretorius/huiswinkel/internal/ledger"
	"github.com/cpretorius/huiswinkel/internal/models"
)

type StockHandler struct {
	Ledger *ledger.Ledger
}

func NewStockHandler(l *ledger.Ledger) *StockHandler {
	return &StockHandler{Ledger: l}
}

// List: GET /stock?line=avon
func (h *StockHandler) List(w http.ResponseWriter, r *http.Request) {
	line, err := models.ParseLine(r.URL.Query().Get("line"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_line", err.Error())
		return
	}
	items, err := h.Ledger.Stock(r.Context(), line)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// Create: POST /stock
func (h *StockHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Line string `json:"line"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	line, err := models.ParseLine(req.Line)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_line", err.Error())
		return
	}
	item, err := h.Ledger.AddStockItem(r.Context(), line, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, item)
}
