package term

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"dentallab/internal/client/state"
	"dentallab/internal/core"

	"github.com/shopspring/decimal"
)

func prompt(reader *bufio.Reader, label string) string {
	fmt.Printf("  %s: ", label)
	raw, _ := reader.ReadString('\n')
	return strings.TrimSpace(raw)
}

func handleNewClient(ctx context.Context, reader *bufio.Reader, store *state.Store) {
	fmt.Println("New client. Leave a field blank to skip, name is required.")
	input := core.Client{
		Name:   prompt(reader, "Name"),
		Clinic: prompt(reader, "Clinic"),
		Phone:  prompt(reader, "Phone"),
		Email:  prompt(reader, "Email"),
	}
	created, err := store.AddClient(ctx, input)
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		return
	}
	fmt.Printf("Client created (ID: %s)\n", created.ID)
}

func handleNewProduct(ctx context.Context, reader *bufio.Reader, store *state.Store) {
	fmt.Println("New product. Name and price are required.")
	input := core.Product{
		Name:     prompt(reader, "Name"),
		Material: prompt(reader, "Material"),
	}
	raw := prompt(reader, "Price")
	price, err := decimal.NewFromString(raw)
	if err != nil || price.IsNegative() {
		fmt.Printf("Invalid price: %s\n", raw)
		return
	}
	input.Price = price

	created, err := store.AddProduct(ctx, input)
	if err != nil {
		fmt.Printf("Error creating product: %v\n", err)
		return
	}
	fmt.Printf("Product created (ID: %s)\n", created.ID)
}

func handleNewSupplier(ctx context.Context, reader *bufio.Reader, store *state.Store) {
	fmt.Println("New supplier. Name is required.")
	input := core.Supplier{
		Name:          prompt(reader, "Name"),
		ContactPerson: prompt(reader, "Contact person"),
		Phone:         prompt(reader, "Phone"),
		Website:       prompt(reader, "Website"),
	}
	created, err := store.AddSupplier(ctx, input)
	if err != nil {
		fmt.Printf("Error creating supplier: %v\n", err)
		return
	}
	fmt.Printf("Supplier created (ID: %s)\n", created.ID)
}

// handleNewOrder runs an interactive work-order creation session.
func handleNewOrder(ctx context.Context, reader *bufio.Reader, store *state.Store) {
	s := store.State()
	if len(s.Clients) == 0 || len(s.Products) == 0 {
		fmt.Println("You need at least one client and one product before creating an order.")
		return
	}

	patient := prompt(reader, "Patient name")

	fmt.Println("  Clients:")
	for _, c := range s.Clients {
		fmt.Printf("    %-38s %s\n", c.ID, c.Name)
	}
	clientID := prompt(reader, "Client ID")

	fmt.Println("Enter order lines. Type 'done' when finished, 'cancel' to abort.")
	fmt.Println("Format per line: <product-id> <quantity>")
	var items []core.OrderItem
	lineNum := 1
	for {
		fmt.Printf("  Line %d: ", lineNum)
		raw, _ := reader.ReadString('\n')
		raw = strings.TrimSpace(raw)
		if strings.ToLower(raw) == "cancel" {
			fmt.Println("Order creation cancelled.")
			return
		}
		if strings.ToLower(raw) == "done" {
			break
		}
		if raw == "" {
			continue
		}

		parts := strings.Fields(raw)
		if len(parts) < 2 {
			fmt.Println("  Invalid format. Use: <product-id> <quantity>")
			continue
		}
		qty, err := strconv.Atoi(parts[1])
		if err != nil || qty <= 0 {
			fmt.Println("  Invalid quantity.")
			continue
		}
		items = append(items, core.OrderItem{ProductID: parts[0], Quantity: qty})
		lineNum++
	}

	if len(items) == 0 {
		fmt.Println("No lines entered. Order not created.")
		return
	}

	rawDate := prompt(reader, "Due date (YYYY-MM-DD)")
	dueDate, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		fmt.Printf("Invalid date: %s\n", rawDate)
		return
	}

	notes := prompt(reader, "Notes (optional)")

	created, err := store.AddOrder(ctx, core.WorkOrder{
		PatientName: patient,
		ClientID:    clientID,
		Items:       items,
		DueDate:     dueDate,
		Status:      core.StatusReceived,
		Notes:       notes,
	})
	if err != nil {
		fmt.Printf("Error creating order: %v\n", err)
		return
	}

	idx := core.NewProductIndex(s.Products)
	fmt.Printf("\nOrder created (ID: %s, Status: %s, Total: %s)\n",
		created.ID, created.Status, core.OrderTotal(*created, idx).StringFixed(2))
}
