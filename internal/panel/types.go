// Package panel orchestrates the back-office views: it fans out backend
// fetches, normalizes and aggregates the results, and applies operator
// mutations optimistically with rollback on write failure.
package panel

import (
	"github.com/dest-sports/backoffice/internal/viewmodel"
)

// Collection names used for generation tracking and advisories.
const (
	CollectionPartners        = "partners"
	CollectionCustomers       = "customers"
	CollectionOrders          = "orders"
	CollectionPartnerSupport  = "partner-support"
	CollectionCustomerSupport = "customer-support"
)

// Overview is the landing view: every collection loaded in parallel. A
// collection whose fetch failed is present but empty, and named in
// Advisories; a partial failure never fails the whole view.
type Overview struct {
	Partners        []viewmodel.Partner        `json:"partners"`
	Customers       []viewmodel.Customer       `json:"customers"`
	Orders          *OrdersView                `json:"orders"`
	PartnerSupport  []viewmodel.SupportRequest `json:"partnerSupport"`
	CustomerSupport []viewmodel.SupportRequest `json:"customerSupport"`
	Advisories      []string                   `json:"advisories,omitempty"`
}

// OrdersView is the unified orders page: both order kinds joined with their
// payments, a combined recency-sorted list, and the money totals.
type OrdersView struct {
	CourseOrders   []viewmodel.Order `json:"courseOrders"`
	TurfOrders     []viewmodel.Order `json:"turfOrders"`
	Combined       []viewmodel.Order `json:"combined"`
	CourseTotals   viewmodel.Totals  `json:"courseTotals"`
	TurfTotals     viewmodel.Totals  `json:"turfTotals"`
	CombinedTotals viewmodel.Totals  `json:"combinedTotals"`
}

// CustomerHistory is one customer's activity timeline.
type CustomerHistory struct {
	UserID  string            `json:"userId"`
	Entries []viewmodel.Order `json:"entries"`
}
