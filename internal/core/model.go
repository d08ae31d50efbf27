package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the production stage of a work order. The set is fixed and
// ordered: Received → In Process → Quality Control → Ready for Delivery → Delivered.
type OrderStatus string

const (
	StatusReceived       OrderStatus = "Received"
	StatusInProcess      OrderStatus = "In Process"
	StatusQualityControl OrderStatus = "Quality Control"
	StatusReady          OrderStatus = "Ready for Delivery"
	StatusDelivered      OrderStatus = "Delivered"
)

// OrderStatuses lists all valid statuses in production order.
var OrderStatuses = []OrderStatus{
	StatusReceived,
	StatusInProcess,
	StatusQualityControl,
	StatusReady,
	StatusDelivered,
}

// Valid reports whether s is one of the five recognized statuses.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Client is a dental clinic or practitioner the laboratory works for.
type Client struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Clinic string `json:"clinic"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

// Product is a catalog item the laboratory manufactures (crown, bridge, ...).
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Material string          `json:"material"`
	Price    decimal.Decimal `json:"price"`
}

// Supplier is a materials or equipment vendor. Independent of the other entities.
type Supplier struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Website       string `json:"website"`
}

// OrderItem is one line of a work order: a product reference and a quantity.
// The reference may point at a product that no longer exists; totals treat
// such lines as zero and displays show a placeholder name.
type OrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// WorkOrder is a production job for a single patient case.
type WorkOrder struct {
	ID          string      `json:"id"`
	PatientName string      `json:"patientName"`
	ClientID    string      `json:"clientId"`
	Items       []OrderItem `json:"items"`
	DueDate     time.Time   `json:"dueDate"`
	Status      OrderStatus `json:"status"`
	Notes       string      `json:"notes,omitempty"`
}

// User is an authenticated account. The password hash never leaves the backend.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	PasswordHash string `json:"-"`
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ChatRole distinguishes the two sides of an assistant conversation.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of the assistant conversation. Session-scoped,
// append-only, never persisted server-side.
type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// DataSnapshot is the full set of entity collections handed to the assistant
// as conversation context.
type DataSnapshot struct {
	Clients   []Client    `json:"clients"`
	Products  []Product   `json:"products"`
	Suppliers []Supplier  `json:"suppliers"`
	Orders    []WorkOrder `json:"orders"`
}
