package persistence

import "strings"

// Sort parameters arrive from query strings and end up interpolated
// into ORDER BY clauses, so both the direction and the column are
// checked against fixed sets before a repository uses them.

// ValidateSortOrder normalizes a requested sort direction. Anything
// other than a case-insensitive "ASC" collapses to "DESC".
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "ASC") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns the requested column when it appears in the
// whitelist, otherwise defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// OrderSortFields lists the sortable columns of the orders table.
var OrderSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"order_number":        true,
	"seller_name":         true,
	"settlement_status":   true,
	"paid_amount":         true,
	"platform_commission": true,
	"seller_net_amount":   true,
	"pending_amount":      true,
	"payment_date":        true,
	"delivery_date":       true,
}

// PayoutSortFields lists the sortable columns of the payout records table.
var PayoutSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"payout_number": true,
	"seller_name":   true,
	"gross_amount":  true,
	"commission":    true,
	"net_amount":    true,
	"status":        true,
	"processed_at":  true,
}

// LedgerEntrySortFields lists the sortable columns of the ledger entries table.
var LedgerEntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"entry_date": true,
	"entry_type": true,
	"category":   true,
	"amount":     true,
}

// SellerSortFields lists the sortable columns of the sellers table.
var SellerSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"email":         true,
	"business_name": true,
	"status":        true,
	"role":          true,
	"last_login_at": true,
}
