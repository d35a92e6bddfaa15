// Package backend talks to the marketplace's REST data store. Rows come back
// as loosely-typed maps; normalization happens downstream in viewmodel.
package backend

// Row is one record as returned by the store.
type Row = map[string]any

// PartnerDetailRows carries the flat collections fetched for one partner's
// detail view: the base row plus both containment hierarchies.
type PartnerDetailRows struct {
	Partner     Row
	Coaches     []Row
	Courses     []Row
	Batches     []Row
	Plans       []Row
	Enrollments []Row
	Turfs       []Row
	Courts      []Row
	Bookings    []Row
}

// Audiences for the two support queues.
const (
	AudiencePartner  = "partner"
	AudienceCustomer = "customer"
)

// Enrollment is the payload for a manually created enrollment.
type Enrollment struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	PlanID    string `json:"plan_id"`
	PaymentID string `json:"payment_id,omitempty"`
	Note      string `json:"note,omitempty"`
}
