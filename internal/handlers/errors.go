package handlers

import (
	"errors"
	"net/http"

	"github.com/cpretorius/huiswinkel/internal/httpx"
	"github.com/cpretorius/huiswinkel/internal/ledger"
	"github.com/cpretorius/huiswinkel/internal/store"
)

// writeError maps ledger errors onto the response envelope: validation
// rejections are 400 with the reason, an unreachable store is 503, anything
// else is an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsValidation(err):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, store.ErrUnavailable):
		httpx.JSONError(w, http.StatusServiceUnavailable, "store_unavailable", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
