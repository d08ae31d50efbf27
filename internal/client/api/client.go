// Package api is the HTTP client for the laboratory's REST backend. Every
// mutating call returns the record as the server stored it, so callers can
// commit the authoritative version instead of what they sent.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"dentallab/internal/core"

	"golang.org/x/sync/errgroup"
)

// Client talks to the backend API. It is safe for concurrent use; the bearer
// token may be swapped at any time via SetToken.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken installs the bearer token used on subsequent requests. An empty
// string clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do performs one request and decodes the response into out (when non-nil).
// Non-2xx responses come back as *Error.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: fmt.Sprintf("reading response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Message: fmt.Sprintf("decoding response: %v", err)}
		}
	}
	return nil
}

// --- auth ---

// LoginResult is the payload returned by Login.
type LoginResult struct {
	Token string    `json:"token"`
	User  core.User `json:"user"`
}

// Login exchanges credentials for a bearer token. The token is NOT installed
// on the client; callers decide whether to adopt it.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login",
		map[string]string{"email": email, "password": password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register",
		map[string]string{"email": email, "password": password}, nil)
}

// --- collections ---

// FetchAll loads the four collections concurrently. It is all-or-nothing: if
// any request fails the whole call fails and no partial snapshot is returned.
func (c *Client) FetchAll(ctx context.Context) (*core.DataSnapshot, error) {
	var snap core.DataSnapshot
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.do(ctx, http.MethodGet, "/api/clients", nil, &snap.Clients)
	})
	g.Go(func() error {
		return c.do(ctx, http.MethodGet, "/api/products", nil, &snap.Products)
	})
	g.Go(func() error {
		return c.do(ctx, http.MethodGet, "/api/suppliers", nil, &snap.Suppliers)
	})
	g.Go(func() error {
		return c.do(ctx, http.MethodGet, "/api/orders", nil, &snap.Orders)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (c *Client) CreateClient(ctx context.Context, input core.Client) (*core.Client, error) {
	var created core.Client
	if err := c.do(ctx, http.MethodPost, "/api/clients", input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateClient(ctx context.Context, id string, input core.Client) (*core.Client, error) {
	var updated core.Client
	if err := c.do(ctx, http.MethodPut, "/api/clients/"+id, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/clients/"+id, nil, nil)
}

func (c *Client) CreateProduct(ctx context.Context, input core.Product) (*core.Product, error) {
	var created core.Product
	if err := c.do(ctx, http.MethodPost, "/api/products", input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, input core.Product) (*core.Product, error) {
	var updated core.Product
	if err := c.do(ctx, http.MethodPut, "/api/products/"+id, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+id, nil, nil)
}

func (c *Client) CreateSupplier(ctx context.Context, input core.Supplier) (*core.Supplier, error) {
	var created core.Supplier
	if err := c.do(ctx, http.MethodPost, "/api/suppliers", input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateSupplier(ctx context.Context, id string, input core.Supplier) (*core.Supplier, error) {
	var updated core.Supplier
	if err := c.do(ctx, http.MethodPut, "/api/suppliers/"+id, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteSupplier(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/suppliers/"+id, nil, nil)
}

func (c *Client) CreateOrder(ctx context.Context, input core.WorkOrder) (*core.WorkOrder, error) {
	var created core.WorkOrder
	if err := c.do(ctx, http.MethodPost, "/api/orders", input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateOrder(ctx context.Context, id string, input core.WorkOrder) (*core.WorkOrder, error) {
	var updated core.WorkOrder
	if err := c.do(ctx, http.MethodPut, "/api/orders/"+id, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/orders/"+id, nil, nil)
}

// --- reports ---

// FinancialSummary is the aggregated report payload.
type FinancialSummary struct {
	KPIs    core.FinancialKPIs   `json:"kpis"`
	Monthly []core.RevenueBucket `json:"monthlyRevenue"`
}

// FetchFinancials requests the financial report. Filter values are passed as
// query parameters; zero values are omitted.
func (c *Client) FetchFinancials(ctx context.Context, filter core.FinancialFilter) (*FinancialSummary, error) {
	path := "/api/reports/financials"
	q := make([]string, 0, 4)
	if !filter.From.IsZero() {
		q = append(q, "from="+filter.From.Format("2006-01-02"))
	}
	if !filter.To.IsZero() {
		q = append(q, "to="+filter.To.Format("2006-01-02"))
	}
	if filter.ClientID != "" {
		q = append(q, "clientId="+filter.ClientID)
	}
	if filter.ProductID != "" {
		q = append(q, "productId="+filter.ProductID)
	}
	for i, part := range q {
		if i == 0 {
			path += "?" + part
		} else {
			path += "&" + part
		}
	}

	var summary FinancialSummary
	if err := c.do(ctx, http.MethodGet, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
