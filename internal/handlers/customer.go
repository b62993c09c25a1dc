package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/cpretorius/huiswinkel/internal/httpx"
	"github.com/cpretorius/huiswinkel/internal/ledger"
	"github.com/cpretorius/huiswinkel/internal/models"
)

type CustomerHandler struct {
	Ledger *ledger.Ledger
}

func NewCustomerHandler(l *ledger.Ledger) *CustomerHandler {
	return &CustomerHandler{Ledger: l}
}

// List: GET /customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Ledger.Customers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers)})
}

// Create: POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name"`
		Surname    string `json:"surname"`
		Cell       string `json:"cell"`
		Email      string `json:"email"`
		Address1   string `json:"address1"`
		Address2   string `json:"address2"`
		Address3   string `json:"address3"`
		Address4   string `json:"address4"`
		PostalCode string `json:"postal_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"name": "required"})
		return
	}
	customer, err := h.Ledger.AddCustomer(r.Context(), models.Customer{
		CustomerName:    strings.TrimSpace(req.Name),
		CustomerSurname: strings.TrimSpace(req.Surname),
		CustomerCell:    strings.TrimSpace(req.Cell),
		CustomerEmail:   strings.TrimSpace(req.Email),
		Address1:        req.Address1,
		Address2:        req.Address2,
		Address3:        req.Address3,
		Address4:        req.Address4,
		PostalCode:      req.PostalCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}
