package application

import (
	"strings"

	ordertypes "github.com/Apurer/go-gin-inventory-api/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-inventory-api/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-inventory-api/internal/shared/authz"
)

var sortableFields = map[string]ports.SortField{
	"created_at": ports.SortByCreatedAt,
	"status":     ports.SortByStatus,
}

// scopedFilter builds the repository filter for a principal. The ownership
// predicate is derived from the principal alone; the query can only narrow it.
func scopedFilter(principal authz.Principal, query ordertypes.ListOrdersQuery) ports.Filter {
	var filter ports.Filter
	if !principal.IsStaff() {
		owner := principal.AccountID
		filter.CustomerID = &owner
	}
	// A blank status means no filter.
	if query.Status != nil && strings.TrimSpace(*query.Status) != "" {
		status := *query.Status
		filter.Status = &status
	}
	filter.SearchTerms = ParseSearchTerms(query.Search)
	filter.Sort = ParseOrdering(query.Ordering)
	return filter
}

// ParseOrdering turns ordering tokens such as "-created_at" into sort terms.
// Each value may itself hold a comma separated list. Unknown fields are dropped.
func ParseOrdering(values []string) []ports.Sort {
	var sorts []ports.Sort
	seen := make(map[ports.SortField]bool)
	for _, value := range values {
		for _, token := range strings.Split(value, ",") {
			token = strings.TrimSpace(token)
			descending := strings.HasPrefix(token, "-")
			field, ok := sortableFields[strings.TrimPrefix(token, "-")]
			if !ok || seen[field] {
				continue
			}
			seen[field] = true
			sorts = append(sorts, ports.Sort{Field: field, Descending: descending})
		}
	}
	return sorts
}

// ParseSearchTerms splits a search string on whitespace and commas.
func ParseSearchTerms(search string) []string {
	return strings.FieldsFunc(search, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
}
