// Package term is the interactive terminal front end. It renders from the
// client state store and never talks to the API directly; every mutation goes
// through the store so the local collections stay in sync with the server.
package term

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"dentallab/internal/client/state"
	"dentallab/internal/core"
)

// Run starts the interactive loop. It restores any saved session first, then
// reads commands from reader. Slash commands are dispatched deterministically;
// plain input is routed to the assistant when the chat panel is open.
func Run(ctx context.Context, store *state.Store, reader *bufio.Reader) {
	fmt.Println("DentalLab Manager")
	fmt.Println("Restoring session...")
	store.Bootstrap(ctx)

	if s := store.State(); s.Authenticated() {
		fmt.Printf("Logged in as %s (%s)\n", s.User.Email, s.User.Role)
	} else {
		fmt.Println("Not logged in. Use /login <email> <password>.")
	}
	fmt.Println("Type /help for commands.")
	fmt.Println(strings.Repeat("-", 70))

	errExit := fmt.Errorf("exit")

	dispatchSlash := func(input string) error {
		tokens := strings.Fields(strings.TrimPrefix(input, "/"))
		if len(tokens) == 0 {
			return nil
		}
		cmd := strings.ToLower(tokens[0])
		args := tokens[1:]

		switch cmd {
		case "login":
			if len(args) < 2 {
				fmt.Println("Usage: /login <email> <password>")
				return nil
			}
			if err := store.Login(ctx, args[0], args[1]); err != nil {
				return err
			}
			s := store.State()
			fmt.Printf("Logged in as %s (%s)\n", s.User.Email, s.User.Role)

		case "logout":
			if err := store.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out.")

		case "refresh":
			if err := store.Refresh(ctx); err != nil {
				return err
			}
			fmt.Println("Data refreshed.")

		case "clients":
			printClients(store.State().Clients)

		case "products":
			printProducts(store.State().Products)

		case "suppliers":
			printSuppliers(store.State().Suppliers)

		case "orders":
			s := store.State()
			printOrders(core.SortByDueDate(s.Orders), s)

		case "dashboard":
			printDashboard(store.State())

		case "financials":
			filter, err := parseFinancialArgs(args)
			if err != nil {
				fmt.Println(err)
				return nil
			}
			printFinancials(store.State(), filter)

		case "new-client":
			handleNewClient(ctx, reader, store)

		case "new-product":
			handleNewProduct(ctx, reader, store)

		case "new-supplier":
			handleNewSupplier(ctx, reader, store)

		case "new-order":
			handleNewOrder(ctx, reader, store)

		case "status":
			if len(args) < 2 {
				fmt.Println("Usage: /status <order-id> <new-status>")
				fmt.Printf("Statuses: %s\n", statusList())
				return nil
			}
			return handleStatusChange(ctx, store, args[0], strings.Join(args[1:], " "))

		case "del-client":
			if len(args) < 1 {
				fmt.Println("Usage: /del-client <id>")
				return nil
			}
			if err := store.DeleteClient(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Client deleted.")

		case "del-product":
			if len(args) < 1 {
				fmt.Println("Usage: /del-product <id>")
				return nil
			}
			if err := store.DeleteProduct(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Product deleted.")

		case "del-supplier":
			if len(args) < 1 {
				fmt.Println("Usage: /del-supplier <id>")
				return nil
			}
			if err := store.DeleteSupplier(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Supplier deleted.")

		case "del-order":
			if len(args) < 1 {
				fmt.Println("Usage: /del-order <id>")
				return nil
			}
			if err := store.DeleteOrder(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("Order deleted.")

		case "chat":
			store.ToggleChat()
			if store.State().ChatOpen {
				fmt.Println("Chat open. Type a question (no / prefix). /chat again to close.")
				printChatHistory(store.State().ChatHistory)
			} else {
				fmt.Println("Chat closed.")
			}

		case "help", "h":
			printHelp()

		case "exit", "quit", "e", "q":
			return errExit

		default:
			fmt.Printf("Unknown command: /%s  (type /help for all commands)\n", cmd)
		}
		return nil
	}

	for {
		fmt.Print("\n> ")
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if err := dispatchSlash(input); err != nil {
				if err == errExit {
					fmt.Println("Goodbye!")
					break
				}
				fmt.Printf("Error: %v\n", err)
			}
			continue
		}

		// Plain input belongs to the assistant.
		if !store.State().ChatOpen {
			fmt.Println("Chat is closed. Open it with /chat, or type /help for commands.")
			continue
		}
		if !store.State().Authenticated() {
			fmt.Println("Log in first with /login to use the assistant.")
			continue
		}
		fmt.Println("[assistant] Thinking...")
		store.SendChatMessage(ctx, input)
		history := store.State().ChatHistory
		if len(history) > 0 {
			last := history[len(history)-1]
			fmt.Printf("\n[assistant]: %s\n", last.Content)
		}
	}
}

func parseFinancialArgs(args []string) (core.FinancialFilter, error) {
	var filter core.FinancialFilter
	if len(args) >= 1 {
		t, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return filter, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", args[0])
		}
		filter.From = t
	}
	if len(args) >= 2 {
		t, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return filter, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", args[1])
		}
		filter.To = t
	}
	return filter, nil
}

func handleStatusChange(ctx context.Context, store *state.Store, orderID, rawStatus string) error {
	status := core.OrderStatus(rawStatus)
	if !status.Valid() {
		fmt.Printf("Invalid status %q. Statuses: %s\n", rawStatus, statusList())
		return nil
	}

	var target *core.WorkOrder
	for _, o := range store.State().Orders {
		if o.ID == orderID {
			o := o
			target = &o
			break
		}
	}
	if target == nil {
		fmt.Printf("No order with ID %s.\n", orderID)
		return nil
	}

	target.Status = status
	updated, err := store.UpdateOrder(ctx, orderID, *target)
	if err != nil {
		return err
	}
	fmt.Printf("Order %s is now %s.\n", updated.ID, updated.Status)
	return nil
}

func statusList() string {
	parts := make([]string, len(core.OrderStatuses))
	for i, s := range core.OrderStatuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, " | ")
}
