package backend

import "context"

// Client is the interface the panel depends on. The production implementation
// is a REST client; tests inject the mock.
type Client interface {
	ListPartners(ctx context.Context, limit, offset int) ([]Row, error)
	ListCustomers(ctx context.Context, limit, offset int) ([]Row, error)
	// GetPartnerDetail resolves key across the three identifier spaces
	// (id, then public_id, then slug) and fetches the full hierarchy.
	// A key matching none of them returns (nil, nil), not an error.
	GetPartnerDetail(ctx context.Context, key string) (*PartnerDetailRows, error)
	ListCourseOrders(ctx context.Context) ([]Row, error)
	ListTurfOrders(ctx context.Context) ([]Row, error)
	// GetPaymentsByIds fetches payments in one batched query. The id set is
	// deduplicated before the request; an empty set performs no request.
	GetPaymentsByIds(ctx context.Context, ids []string) ([]Row, error)
	ListSupportRequests(ctx context.Context, audience string) ([]Row, error)
	GetUserHistory(ctx context.Context, userID string) ([]Row, error)

	SetPartnerVerified(ctx context.Context, partnerID string, verified bool) error
	SetPartnerDisabled(ctx context.Context, partnerID string, disabled bool) error
	SoftDeleteAccount(ctx context.Context, userID string) error
	CreateManualEnrollment(ctx context.Context, enrollment Enrollment) error
	ResolveSupportRequest(ctx context.Context, audience, requestID string) error
	SaveSupportSolution(ctx context.Context, audience, requestID, solution string) error
}
