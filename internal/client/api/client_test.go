package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"dentallab/internal/core"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
		msg    string
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"authentication required"}`, IsAuthentication, "authentication required"},
		{"forbidden", http.StatusForbidden, `{"message":"forbidden: insufficient role"}`, IsAuthorization, "forbidden: insufficient role"},
		{"validation", http.StatusBadRequest, `{"message":"client name is required"}`, IsValidation, "client name is required"},
		{"not found", http.StatusNotFound, `{"message":"client not found"}`, IsNotFound, "client not found"},
		{"server error", http.StatusInternalServerError, `{"message":"internal error"}`, IsServer, "internal error"},
		{"legacy msg field", http.StatusBadRequest, `{"msg":"invalid credentials"}`, IsValidation, "invalid credentials"},
		{"non-JSON body", http.StatusBadGateway, `upstream unavailable`, IsServer, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL)
			_, err := c.Login(context.Background(), "x@example.com", "pw")
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("predicate did not match error %v", err)
			}
			apiErr, ok := asError(err)
			if !ok {
				t.Fatalf("error is not *Error: %T", err)
			}
			if apiErr.Message != tt.msg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.msg)
			}
			if string(apiErr.Body) != tt.body {
				t.Errorf("body = %q, want the raw server response %q", apiErr.Body, tt.body)
			}
		})
	}
}

func TestTransportErrorHasZeroStatus(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here
	_, err := c.Login(context.Background(), "x@example.com", "pw")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := asError(err)
	if !ok {
		t.Fatalf("error is not *Error: %T", err)
	}
	if apiErr.Status != 0 {
		t.Errorf("status = %d, want 0 for transport failure", apiErr.Status)
	}
	if IsAuthentication(err) || IsServer(err) {
		t.Error("transport failure should not classify as auth or server error")
	}
}

func TestFetchAll(t *testing.T) {
	t.Run("loads all four collections", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			switch r.URL.Path {
			case "/api/clients":
				json.NewEncoder(w).Encode([]core.Client{{ID: "c-1", Name: "Smile Dental"}})
			case "/api/products":
				json.NewEncoder(w).Encode([]core.Product{{ID: "p-1", Name: "Crown"}})
			case "/api/suppliers":
				json.NewEncoder(w).Encode([]core.Supplier{})
			case "/api/orders":
				json.NewEncoder(w).Encode([]core.WorkOrder{{ID: "o-1"}})
			default:
				http.NotFound(w, r)
			}
		}))
		defer srv.Close()

		c := New(srv.URL)
		snap, err := c.FetchAll(context.Background())
		if err != nil {
			t.Fatalf("FetchAll: %v", err)
		}
		if atomic.LoadInt32(&calls) != 4 {
			t.Errorf("calls = %d, want 4", calls)
		}
		if len(snap.Clients) != 1 || snap.Clients[0].Name != "Smile Dental" {
			t.Errorf("clients = %+v", snap.Clients)
		}
		if len(snap.Orders) != 1 {
			t.Errorf("orders = %+v", snap.Orders)
		}
		if snap.Suppliers == nil {
			t.Error("suppliers should decode to an empty slice, not nil")
		}
	})

	t.Run("one failure fails the whole fetch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/orders" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"authentication required"}`))
				return
			}
			json.NewEncoder(w).Encode([]any{})
		}))
		defer srv.Close()

		c := New(srv.URL)
		snap, err := c.FetchAll(context.Background())
		if err == nil {
			t.Fatal("expected error")
		}
		if snap != nil {
			t.Error("expected nil snapshot on partial failure")
		}
		if !IsAuthentication(err) {
			t.Errorf("expected authentication error, got %v", err)
		}
	})
}

func TestBearerTokenSent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(core.Client{ID: "c-1"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	if _, err := c.CreateClient(context.Background(), core.Client{Name: "x"}); err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestMutationReturnsServerRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in core.Client
		json.NewDecoder(r.Body).Decode(&in)
		in.ID = "c-served" // server assigns the ID
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	c := New(srv.URL)
	created, err := c.CreateClient(context.Background(), core.Client{Name: "Bright Smiles"})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if created.ID != "c-served" {
		t.Errorf("ID = %q, want the server-assigned value", created.ID)
	}
	if created.Name != "Bright Smiles" {
		t.Errorf("Name = %q", created.Name)
	}
}
