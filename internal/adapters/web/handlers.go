package web

import (
	"encoding/json"
	"net/http"
	"time"

	"dentallab/internal/app"
	"dentallab/internal/core"

	"github.com/go-chi/chi/v5"
)

const maxRequestBody = 1 << 20 // 1 MiB

// Handler serves the JSON API over HTTP.
type Handler struct {
	svc            app.ApplicationService
	allowedOrigins string
	jwtSecret      string
}

func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) *Handler {
	return &Handler{svc: svc, allowedOrigins: allowedOrigins, jwtSecret: jwtSecret}
}

// Routes builds the full API router: public health and auth endpoints, then
// token-gated collection routes with per-role write restrictions.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(h.allowedOrigins))
	r.Use(RequestBodyLimit(maxRequestBody))

	r.Get("/api/health", h.health)
	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		r.Get("/api/auth/me", h.me)

		r.Get("/api/clients", h.listClients)
		r.Get("/api/products", h.listProducts)
		r.Get("/api/suppliers", h.listSuppliers)
		r.Get("/api/orders", h.listOrders)
		r.Get("/api/reports/financials", h.financials)

		// Reference-data writes are admin only.
		r.Group(func(r chi.Router) {
			r.Use(RequireRole(core.RoleAdmin))
			r.Post("/api/clients", h.createClient)
			r.Put("/api/clients/{id}", h.updateClient)
			r.Delete("/api/clients/{id}", h.deleteClient)

			r.Post("/api/products", h.createProduct)
			r.Put("/api/products/{id}", h.updateProduct)
			r.Delete("/api/products/{id}", h.deleteProduct)

			r.Post("/api/suppliers", h.createSupplier)
			r.Put("/api/suppliers/{id}", h.updateSupplier)
			r.Delete("/api/suppliers/{id}", h.deleteSupplier)

			r.Post("/api/orders", h.createOrder)
			r.Delete("/api/orders/{id}", h.deleteOrder)
		})

		// Technicians may update order status but not create or delete.
		r.With(RequireRole(core.RoleAdmin, core.RoleUser)).
			Put("/api/orders/{id}", h.updateOrder)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
// Returns false when the caller should stop.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeError(w, r, "invalid JSON body", "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}

// --- clients ---

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, clients)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var input core.Client
	if !decodeJSON(w, r, &input) {
		return
	}
	created, err := h.svc.CreateClient(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, created, http.StatusCreated)
}

func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	var input core.Client
	if !decodeJSON(w, r, &input) {
		return
	}
	updated, err := h.svc.UpdateClient(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "client deleted"})
}

// --- products ---

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.ListProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var input core.Product
	if !decodeJSON(w, r, &input) {
		return
	}
	created, err := h.svc.CreateProduct(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, created, http.StatusCreated)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var input core.Product
	if !decodeJSON(w, r, &input) {
		return
	}
	updated, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "product deleted"})
}

// --- suppliers ---

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	suppliers, err := h.svc.ListSuppliers(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, suppliers)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var input core.Supplier
	if !decodeJSON(w, r, &input) {
		return
	}
	created, err := h.svc.CreateSupplier(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, created, http.StatusCreated)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var input core.Supplier
	if !decodeJSON(w, r, &input) {
		return
	}
	updated, err := h.svc.UpdateSupplier(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSupplier(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "supplier deleted"})
}

// --- work orders ---

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListOrders(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, orders)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var input core.WorkOrder
	if !decodeJSON(w, r, &input) {
		return
	}
	created, err := h.svc.CreateOrder(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSONStatus(w, created, http.StatusCreated)
}

func (h *Handler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var input core.WorkOrder
	if !decodeJSON(w, r, &input) {
		return
	}
	updated, err := h.svc.UpdateOrder(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteOrder(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"message": "order deleted"})
}

// --- reports ---

// financials handles GET /api/reports/financials with optional from/to
// (YYYY-MM-DD), clientId and productId query parameters.
func (h *Handler) financials(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := core.FinancialFilter{
		ClientID:  q.Get("clientId"),
		ProductID: q.Get("productId"),
	}

	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, "invalid 'from' date, expected YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filter.From = t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, r, "invalid 'to' date, expected YYYY-MM-DD", "BAD_REQUEST", http.StatusBadRequest)
			return
		}
		filter.To = t
	}

	result, err := h.svc.FinancialSummary(r.Context(), filter)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, result)
}
