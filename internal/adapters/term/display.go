package term

import (
	"fmt"
	"strings"

	"dentallab/internal/client/state"
	"dentallab/internal/core"
)

func printClients(clients []core.Client) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println("  CLIENTS")
	fmt.Println(strings.Repeat("=", 78))
	if len(clients) == 0 {
		fmt.Println("  No clients found.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-38s %-20s %-16s\n", "ID", "NAME", "CLINIC")
	fmt.Println(strings.Repeat("-", 78))
	for _, c := range clients {
		fmt.Printf("  %-38s %-20s %-16s\n", c.ID, c.Name, c.Clinic)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printProducts(products []core.Product) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println("  PRODUCTS")
	fmt.Println(strings.Repeat("=", 78))
	if len(products) == 0 {
		fmt.Println("  No products found.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-38s %-18s %-10s %9s\n", "ID", "NAME", "MATERIAL", "PRICE")
	fmt.Println(strings.Repeat("-", 78))
	for _, p := range products {
		fmt.Printf("  %-38s %-18s %-10s %9s\n", p.ID, p.Name, p.Material, p.Price.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printSuppliers(suppliers []core.Supplier) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Println("  SUPPLIERS")
	fmt.Println(strings.Repeat("=", 78))
	if len(suppliers) == 0 {
		fmt.Println("  No suppliers found.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-38s %-20s %-16s\n", "ID", "NAME", "CONTACT")
	fmt.Println(strings.Repeat("-", 78))
	for _, s := range suppliers {
		fmt.Printf("  %-38s %-20s %-16s\n", s.ID, s.Name, s.ContactPerson)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printOrders(orders []core.WorkOrder, s state.AppState) {
	idx := core.NewProductIndex(s.Products)
	clientNames := make(map[string]string, len(s.Clients))
	for _, c := range s.Clients {
		clientNames[c.ID] = c.Name
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 92))
	fmt.Println("  WORK ORDERS")
	fmt.Println(strings.Repeat("=", 92))
	if len(orders) == 0 {
		fmt.Println("  No orders found.")
		fmt.Println(strings.Repeat("=", 92))
		return
	}
	fmt.Printf("  %-38s %-14s %-16s %-18s %-10s %9s\n", "ID", "PATIENT", "CLIENT", "STATUS", "DUE", "TOTAL")
	fmt.Println(strings.Repeat("-", 92))
	for _, o := range orders {
		client := clientNames[o.ClientID]
		if client == "" {
			client = "(unknown)"
		}
		fmt.Printf("  %-38s %-14s %-16s %-18s %-10s %9s\n",
			o.ID, o.PatientName, client, o.Status,
			o.DueDate.Format("2006-01-02"),
			core.OrderTotal(o, idx).StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 92))
}

func printDashboard(s state.AppState) {
	idx := core.NewProductIndex(s.Products)
	kpis := core.Summarize(s.Orders, idx)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  DASHBOARD")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  Clients: %d   Products: %d   Suppliers: %d   Orders: %d\n",
		len(s.Clients), len(s.Products), len(s.Suppliers), len(s.Orders))
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("  Realized revenue  : %12s\n", kpis.RealizedRevenue.StringFixed(2))
	fmt.Printf("  Projected revenue : %12s\n", kpis.ProjectedRevenue.StringFixed(2))
	fmt.Printf("  Completed orders  : %12d\n", kpis.CompletedOrders)
	fmt.Printf("  Pending orders    : %12d\n", kpis.PendingOrders)
	fmt.Println(strings.Repeat("-", 70))
	fmt.Println("  RECENT ORDERS")
	recent := core.RecentOrders(s.Orders, 5)
	if len(recent) == 0 {
		fmt.Println("  (none)")
	}
	for _, o := range recent {
		fmt.Printf("  %-14s %-18s due %s  %9s\n",
			o.PatientName, o.Status, o.DueDate.Format("2006-01-02"),
			core.OrderTotal(o, idx).StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printFinancials(s state.AppState, filter core.FinancialFilter) {
	idx := core.NewProductIndex(s.Products)
	filtered := core.FilterOrders(s.Orders, filter)
	kpis := core.Summarize(filtered, idx)
	monthly := core.MonthlyRevenue(filtered, idx)

	fmt.Println()
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println("  FINANCIAL SUMMARY")
	if !filter.From.IsZero() || !filter.To.IsZero() {
		from, to := "...", "..."
		if !filter.From.IsZero() {
			from = filter.From.Format("2006-01-02")
		}
		if !filter.To.IsZero() {
			to = filter.To.Format("2006-01-02")
		}
		fmt.Printf("  Period: %s to %s\n", from, to)
	}
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("  Realized revenue  : %12s\n", kpis.RealizedRevenue.StringFixed(2))
	fmt.Printf("  Projected revenue : %12s\n", kpis.ProjectedRevenue.StringFixed(2))
	fmt.Printf("  Completed orders  : %12d\n", kpis.CompletedOrders)
	fmt.Printf("  Pending orders    : %12d\n", kpis.PendingOrders)
	fmt.Println(strings.Repeat("-", 70))
	fmt.Println("  MONTHLY REVENUE (delivered orders)")
	if len(monthly) == 0 {
		fmt.Println("  (no delivered orders in range)")
	}
	for _, b := range monthly {
		fmt.Printf("  %-10s %12s\n", b.Month, b.Revenue.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 70))
}

func printChatHistory(history []core.ChatMessage) {
	for _, m := range history {
		who := "you"
		if m.Role == core.ChatRoleModel {
			who = "assistant"
		}
		fmt.Printf("  [%s]: %s\n", who, m.Content)
	}
}

func printHelp() {
	fmt.Println()
	fmt.Println("DENTALLAB MANAGER — COMMANDS")
	fmt.Println(strings.Repeat("=", 62))
	fmt.Println()
	fmt.Println("  SESSION")
	fmt.Println("  /login <email> <password>   Log in")
	fmt.Println("  /logout                     Log out and clear the saved session")
	fmt.Println("  /refresh                    Reload all data from the server")
	fmt.Println()
	fmt.Println("  DATA")
	fmt.Println("  /clients                    List clients")
	fmt.Println("  /products                   List products")
	fmt.Println("  /suppliers                  List suppliers")
	fmt.Println("  /orders                     List work orders by due date")
	fmt.Println()
	fmt.Println("  CREATE / UPDATE")
	fmt.Println("  /new-client                 Create a client (interactive)")
	fmt.Println("  /new-product                Create a product (interactive)")
	fmt.Println("  /new-supplier               Create a supplier (interactive)")
	fmt.Println("  /new-order                  Create a work order (interactive)")
	fmt.Println("  /status <order-id> <status> Change an order's status")
	fmt.Println("  /del-client <id>            Delete a client  (same for product/supplier/order)")
	fmt.Println()
	fmt.Println("  REPORTS")
	fmt.Println("  /dashboard                  KPIs and recent orders")
	fmt.Println("  /financials [from] [to]     Financial summary (dates YYYY-MM-DD)")
	fmt.Println()
	fmt.Println("  ASSISTANT")
	fmt.Println("  /chat                       Open or close the chat panel")
	fmt.Println("  With the chat open, type any question without a / prefix.")
	fmt.Println()
	fmt.Println("  /help                       Show this help")
	fmt.Println("  /exit                       Exit")
	fmt.Println(strings.Repeat("=", 62))
}
