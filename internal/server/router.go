package server

import (
	"net/http"

	"github.com/cpretorius/huiswinkel/internal/auth"
	"github.com/cpretorius/huiswinkel/internal/config"
	"github.com/cpretorius/huiswinkel/internal/handlers"
	"github.com/cpretorius/huiswinkel/internal/httpx"
	"github.com/cpretorius/huiswinkel/internal/ledger"
	"github.com/cpretorius/huiswinkel/internal/pdf"
)

// New constructs the root http.Handler with all routes and middlewares
// applied. Everything except the health probes and login requires a session.
func New(l *ledger.Ledger, cfg config.Config) http.Handler {
	mux := http.NewServeMux()

	//revive:disable:unused-parameter simple handlers intentionally ignore *http.Request
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := l.Ping(r.Context()); err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	ah := handlers.NewAuthHandler(auth.Credentials{
		User:         cfg.OperatorUser,
		PasswordHash: cfg.OperatorPasswordHash,
	})
	mux.HandleFunc("POST /login", ah.Login)
	mux.HandleFunc("POST /logout", ah.Logout)

	// User-triggered cache drop, the Refresh Table button's API twin.
	mux.Handle("POST /refresh", auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.ForceRefresh()
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})))

	ch := handlers.NewCustomerHandler(l)
	mux.Handle("GET /customers", auth.RequireAuth(http.HandlerFunc(ch.List)))
	mux.Handle("POST /customers", auth.RequireAuth(http.HandlerFunc(ch.Create)))

	sh := handlers.NewStockHandler(l)
	mux.Handle("GET /stock", auth.RequireAuth(http.HandlerFunc(sh.List)))
	mux.Handle("POST /stock", auth.RequireAuth(http.HandlerFunc(sh.Create)))

	ih := handlers.NewInvoiceHandler(l, cfg.StoreName, pdf.Contact{
		Name:  cfg.IssuerName,
		Cell:  cfg.IssuerCell,
		Email: cfg.IssuerEmail,
	})
	mux.Handle("GET /invoices", auth.RequireAuth(http.HandlerFunc(ih.List)))
	mux.Handle("POST /invoices", auth.RequireAuth(http.HandlerFunc(ih.Create)))
	mux.Handle("POST /invoices/pay", auth.RequireAuth(http.HandlerFunc(ih.Pay)))
	mux.Handle("POST /invoices/delete", auth.RequireAuth(http.HandlerFunc(ih.Delete)))
	mux.Handle("GET /invoices/pdf", auth.RequireAuth(http.HandlerFunc(ih.PDF)))

	return mux
}
