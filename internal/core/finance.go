package core

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// ProductIndex is a price lookup built once per render or report pass so that
// order totals stay O(items) instead of O(items × products).
type ProductIndex map[string]Product

// NewProductIndex builds a ProductIndex keyed by product ID.
func NewProductIndex(products []Product) ProductIndex {
	idx := make(ProductIndex, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}

// OrderTotal sums price × quantity over the order's line items. A line whose
// product is missing from the index contributes zero — deleting a product must
// never make an existing order error out.
func OrderTotal(order WorkOrder, idx ProductIndex) decimal.Decimal {
	total := decimal.Zero
	for _, item := range order.Items {
		p, ok := idx[item.ProductID]
		if !ok {
			continue
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// FinancialFilter narrows the order set before any aggregation. From and To
// are inclusive calendar-day bounds on the order's due date; zero values mean
// unbounded. Empty ClientID / ProductID mean "all".
type FinancialFilter struct {
	From      time.Time
	To        time.Time
	ClientID  string
	ProductID string
}

func (f FinancialFilter) matches(o WorkOrder) bool {
	if !f.From.IsZero() && o.DueDate.Before(startOfDay(f.From)) {
		return false
	}
	if !f.To.IsZero() && o.DueDate.After(endOfDay(f.To)) {
		return false
	}
	if f.ClientID != "" && o.ClientID != f.ClientID {
		return false
	}
	if f.ProductID != "" && !orderContainsProduct(o, f.ProductID) {
		return false
	}
	return true
}

func orderContainsProduct(o WorkOrder, productID string) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// FilterOrders returns the orders matching f, preserving input order.
func FilterOrders(orders []WorkOrder, f FinancialFilter) []WorkOrder {
	out := make([]WorkOrder, 0, len(orders))
	for _, o := range orders {
		if f.matches(o) {
			out = append(out, o)
		}
	}
	return out
}

// FinancialKPIs are the headline aggregates of the financial view.
// Realized revenue comes from Delivered orders; everything else is projected.
type FinancialKPIs struct {
	RealizedRevenue  decimal.Decimal `json:"realizedRevenue"`
	ProjectedRevenue decimal.Decimal `json:"projectedRevenue"`
	CompletedOrders  int             `json:"completedOrders"`
	PendingOrders    int             `json:"pendingOrders"`
}

// Summarize computes the KPIs over an already-filtered order set.
func Summarize(orders []WorkOrder, idx ProductIndex) FinancialKPIs {
	kpis := FinancialKPIs{
		RealizedRevenue:  decimal.Zero,
		ProjectedRevenue: decimal.Zero,
	}
	for _, o := range orders {
		total := OrderTotal(o, idx)
		if o.Status == StatusDelivered {
			kpis.RealizedRevenue = kpis.RealizedRevenue.Add(total)
			kpis.CompletedOrders++
		} else {
			kpis.ProjectedRevenue = kpis.ProjectedRevenue.Add(total)
			kpis.PendingOrders++
		}
	}
	return kpis
}

// RevenueBucket is one month of realized revenue, keyed YYYY-MM by due date.
type RevenueBucket struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthlyRevenue buckets Delivered orders by due-date year-month and returns
// the buckets sorted ascending by key. The sum of all buckets equals the
// realized revenue of the same order set.
func MonthlyRevenue(orders []WorkOrder, idx ProductIndex) []RevenueBucket {
	byMonth := make(map[string]decimal.Decimal)
	for _, o := range orders {
		if o.Status != StatusDelivered {
			continue
		}
		key := o.DueDate.Format("2006-01")
		byMonth[key] = byMonth[key].Add(OrderTotal(o, idx))
	}

	buckets := make([]RevenueBucket, 0, len(byMonth))
	for month, revenue := range byMonth {
		buckets = append(buckets, RevenueBucket{Month: month, Revenue: revenue})
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Month < buckets[j].Month })
	return buckets
}

// SortByDueDate returns a copy of orders sorted by ascending due date — the
// ordering the order list view imposes.
func SortByDueDate(orders []WorkOrder) []WorkOrder {
	out := make([]WorkOrder, len(orders))
	copy(out, orders)
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out
}

// RecentOrders returns up to n orders by descending due date — the dashboard's
// "recent orders" ordering.
func RecentOrders(orders []WorkOrder, n int) []WorkOrder {
	out := make([]WorkOrder, len(orders))
	copy(out, orders)
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.After(out[j].DueDate) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
