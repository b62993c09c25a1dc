package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cpretorius/huiswinkel/internal/httpx"
	"github.com/cpretorius/huiswinkel/internal/ledger"
	"github.com/cpretorius/huiswinkel/internal/models"
	"github.com/cpretorius/huiswinkel/internal/pdf"
)

type InvoiceHandler struct {
	Ledger    *ledger.Ledger
	StoreName string
	Issuer    pdf.Contact
}

func NewInvoiceHandler(l *ledger.Ledger, storeName string, issuer pdf.Contact) *InvoiceHandler {
	return &InvoiceHandler{Ledger: l, StoreName: storeName, Issuer: issuer}
}

// List: GET /invoices?line=avon&paid=n — the joined work queue for one
// product line, unpaid by default.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	line, err := models.ParseLine(r.URL.Query().Get("line"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_line", err.Error())
		return
	}
	var rows []ledger.QueueRow
	if strings.EqualFold(r.URL.Query().Get("paid"), models.PaidYes) {
		rows, err = h.Ledger.PaidQueue(r.Context(), line)
	} else {
		rows, err = h.Ledger.UnpaidQueue(r.Context(), line)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": rows, "total": len(rows)})
}

// Create: POST /invoices
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Line       string `json:"line"`
		CustomerID int    `json:"customer_id"`
		OrderDate  string `json:"order_date"` // "2006/01/02 15:04", optional
		Items      []struct {
			StockNo   int     `json:"stock_no"`
			Quantity  int     `json:"quantity"`
			UnitPrice float64 `json:"unit_price"`
		} `json:"items"`
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
	var orderDate time.Time
	if strings.TrimSpace(req.OrderDate) != "" {
		orderDate, err = time.Parse(models.DateTimeLayout, req.OrderDate)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_order_date", nil)
			return
		}
	}
	items := make([]ledger.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ledger.ItemInput{
			StockNo:   it.StockNo,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	lines, err := h.Ledger.AddInvoice(r.Context(), line, req.CustomerID, orderDate, items)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{
		"invoice_no": lines[0].InvoiceNo,
		"lines":      lines,
	})
}

// Pay: POST /invoices/pay
func (h *InvoiceHandler) Pay(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	changed, err := h.Ledger.MarkPaid(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"updated": changed})
}

// Delete: POST /invoices/delete
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	deleted, err := h.Ledger.DeleteLines(r.Context(), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

// PDF: GET /invoices/pdf?ids=1,2,3&due=2026/09/30
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	var ids []int
	for _, part := range strings.Split(r.URL.Query().Get("ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil || id <= 0 {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_ids", nil)
			return
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_ids", nil)
		return
	}
	due := time.Now().AddDate(0, 1, 0)
	if v := r.URL.Query().Get("due"); v != "" {
		var err error
		due, err = time.Parse("2006/01/02", v)
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_due_date", nil)
			return
		}
	}
	data, filename, err := h.Ledger.InvoiceDocument(r.Context(), ids, h.StoreName, h.Issuer, due)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func decodeIDs(w http.ResponseWriter, r *http.Request) ([]int, bool) {
	var req struct {
		IDs []int `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return nil, false
	}
	if len(req.IDs) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "missing_ids", nil)
		return nil, false
	}
	return req.IDs, true
}
