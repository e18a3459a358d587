// Package stats computes dashboard statistics from remotely fetched
// records. Everything works on generic documents through dotted paths, so
// it tolerates the schema drift between deployments.
package stats

import (
	"fmt"
	"time"

	"shopsync/internal/shoper"
)

// OrderStats buckets orders by remote status id and recency.
type OrderStats struct {
	Total          int `json:"total"`
	PendingPayment int `json:"pending_payment"`
	Paid           int `json:"paid"`
	InDelivery     int `json:"in_delivery"`
	Completed      int `json:"completed"`
	Cancelled      int `json:"cancelled"`
	Today          int `json:"today"`
	ThisWeek       int `json:"this_week"`
	ThisMonth      int `json:"this_month"`
}

// ProductStats counts product activity and stock state.
type ProductStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Inactive   int `json:"inactive"`
	OutOfStock int `json:"out_of_stock"`
}

// orderSampleLimit bounds how many orders one stats run pulls.
const orderSampleLimit = 1000

// Orders fetches recent orders and buckets them. Status ids follow the
// platform's convention: 1 new/unpaid, 2 paid, 3-4 in delivery,
// 5 completed, 6-7 cancelled/returned.
func Orders(c *shoper.Client, now time.Time) OrderStats {
	orders := c.FetchRows("orders", orderSampleLimit)

	stats := OrderStats{Total: len(orders)}
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := todayStart.AddDate(0, 0, -weekdayOffset(now))
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, order := range orders {
		if statusID, ok := intAt(order, "status_id"); ok {
			switch {
			case statusID == 1:
				stats.PendingPayment++
			case statusID == 2:
				stats.Paid++
			case statusID == 3 || statusID == 4:
				stats.InDelivery++
			case statusID == 5:
				stats.Completed++
			case statusID == 6 || statusID == 7:
				stats.Cancelled++
			}
		}

		placed, ok := orderDate(order)
		if !ok {
			continue
		}
		if !placed.Before(todayStart) {
			stats.Today++
		}
		if !placed.Before(weekStart) {
			stats.ThisWeek++
		}
		if !placed.Before(monthStart) {
			stats.ThisMonth++
		}
	}
	return stats
}

// Products fetches every product and counts active/inactive/out-of-stock.
// Activity lives under the localized translation block on this platform.
func Products(c *shoper.Client) ProductStats {
	products := c.FetchRows("products", 0)

	stats := ProductStats{Total: len(products)}
	for _, product := range products {
		if active, ok := shoper.DotGet(product, "translations.pl_PL.active"); ok && isTruthy(active) {
			stats.Active++
		} else {
			stats.Inactive++
		}
		if level, ok := floatAt(product, "stock.stock"); !ok || level <= 0 {
			stats.OutOfStock++
		}
	}
	return stats
}

// orderDate parses the order's creation date from either of the key names
// and timestamp layouts seen in the wild.
func orderDate(order map[string]interface{}) (time.Time, bool) {
	var raw string
	for _, key := range []string{"date_add", "add_date"} {
		if v, ok := shoper.DotGet(order, key); ok {
			if s, isStr := v.(string); isStr && s != "" {
				raw = s
				break
			}
		}
	}
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// weekdayOffset returns days since Monday.
func weekdayOffset(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

func intAt(doc map[string]interface{}, path string) (int, bool) {
	f, ok := floatAt(doc, path)
	return int(f), ok
}

func floatAt(doc map[string]interface{}, path string) (float64, bool) {
	raw, ok := shoper.DotGet(doc, path)
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		var f float64
		if _, err := fmt.Sscanf(v, "%g", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func isTruthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val == "1" || val == "true"
	}
	return false
}
