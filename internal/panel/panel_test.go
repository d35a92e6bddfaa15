package panel_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dest-sports/backoffice/internal/audit"
	"github.com/dest-sports/backoffice/internal/backend"
	"github.com/dest-sports/backoffice/internal/metrics"
	"github.com/dest-sports/backoffice/internal/notifier"
	"github.com/dest-sports/backoffice/internal/panel"
	"github.com/dest-sports/backoffice/internal/pubsub"
	"github.com/dest-sports/backoffice/internal/viewmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panelDeps struct {
	metrics *metrics.Mock
	alerts  *notifier.Mock
	events  *pubsub.MockPubSubClient
	trail   *audit.MockTrail
}

func newService(mock *backend.MockClient) (*panel.Service, panelDeps) {
	deps := panelDeps{
		metrics: metrics.NewMock(),
		alerts:  notifier.NewMock(),
		events:  pubsub.NewMock("test"),
		trail:   audit.NewMockTrail(),
	}
	return panel.New(mock, deps.metrics, deps.alerts, deps.events, deps.trail), deps
}

func TestLoadOverviewDegradesFailedCollections(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ListPartnersFunc = func(context.Context, int, int) ([]backend.Row, error) {
		return []backend.Row{{"id": "p-1", "name": "Ace Academy"}}, nil
	}
	mock.ListCustomersFunc = func(context.Context, int, int) ([]backend.Row, error) {
		return nil, errors.New("customers table is on fire")
	}
	svc, deps := newService(mock)

	overview, err := svc.LoadOverview(context.Background(), false)
	require.NoError(t, err, "a partial failure never fails the view")

	assert.Len(t, overview.Partners, 1)
	assert.Empty(t, overview.Customers, "failed collection degrades to empty")
	require.Len(t, overview.Advisories, 1)
	assert.Contains(t, overview.Advisories[0], "customers")
	assert.Equal(t, 1, deps.metrics.FetchFailures())

	require.Len(t, deps.alerts.DegradedLoadAlertCalls, 1)
	assert.Equal(t, "overview", deps.alerts.DegradedLoadAlertCalls[0].View)
	assert.Equal(t, []string{"customers"}, deps.alerts.DegradedLoadAlertCalls[0].Failures)
}

func TestLoadOverviewAllHealthy(t *testing.T) {
	mock := backend.NewMockClient()
	svc, deps := newService(mock)

	overview, err := svc.LoadOverview(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, overview.Advisories)
	assert.Empty(t, deps.alerts.DegradedLoadAlertCalls)
}

func TestLoadOrdersJoinsPayments(t *testing.T) {
	created := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	mock := backend.NewMockClient()
	mock.ListCourseOrdersFunc = func(context.Context) ([]backend.Row, error) {
		return []backend.Row{
			{"id": "enr-1", "payment_id": "pay-1", "created_at": "2024-03-01T10:00:00Z"},
			{"id": "enr-2", "payment_id": "pay-1", "created_at": "2024-03-02T10:00:00Z"},
		}, nil
	}
	mock.ListTurfOrdersFunc = func(context.Context) ([]backend.Row, error) {
		return []backend.Row{
			{"id": "bk-1", "payment_id": "pay-2", "created_at": created.Format(time.RFC3339)},
		}, nil
	}
	mock.GetPaymentsByIdsFunc = func(_ context.Context, ids []string) ([]backend.Row, error) {
		return []backend.Row{
			{"id": "pay-1", "status": "captured", "amount": float64(4500)},
			{"id": "pay-2", "status": "captured", "amount": float64(1200)},
		}, nil
	}
	svc, _ := newService(mock)

	view, err := svc.LoadOrders(context.Background())
	require.NoError(t, err)

	require.Len(t, mock.GetPaymentsByIdsCalls, 1, "one batched payments query")
	assert.ElementsMatch(t, []string{"pay-1", "pay-1", "pay-2"}, mock.GetPaymentsByIdsCalls[0])

	require.Len(t, view.CourseOrders, 2)
	require.NotNil(t, view.CourseOrders[0].Payment)
	assert.Equal(t, 4500.0, view.CourseOrders[0].Amount)

	assert.Equal(t, 2, view.CourseTotals.Count)
	assert.Equal(t, 9000.0, view.CourseTotals.Amount)
	assert.Equal(t, 1200.0, view.TurfTotals.Amount)
	assert.Equal(t, 3, view.CombinedTotals.Count)
	assert.Equal(t, 10200.0, view.CombinedTotals.Amount)

	require.Len(t, view.Combined, 3)
	assert.Equal(t, "bk-1", view.Combined[0].ID, "combined list sorted by createdAt desc")
	assert.Equal(t, "enr-2", view.Combined[1].ID)
	assert.Equal(t, "enr-1", view.Combined[2].ID)
}

func TestLoadOrdersPaymentsFailureDegrades(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ListCourseOrdersFunc = func(context.Context) ([]backend.Row, error) {
		return []backend.Row{{"id": "enr-1", "payment_id": "pay-1"}}, nil
	}
	mock.GetPaymentsByIdsFunc = func(context.Context, []string) ([]backend.Row, error) {
		return nil, errors.New("payments unavailable")
	}
	svc, _ := newService(mock)

	view, err := svc.LoadOrders(context.Background())
	require.NoError(t, err, "missing payments degrade, they do not fail the view")
	assert.Nil(t, view.CourseOrders[0].Payment)
	assert.Equal(t, "Pending", view.CourseOrders[0].Status)
}

func TestLoadOrdersSourceFailureFails(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ListTurfOrdersFunc = func(context.Context) ([]backend.Row, error) {
		return nil, errors.New("turf orders down")
	}
	svc, _ := newService(mock)

	_, err := svc.LoadOrders(context.Background())
	require.Error(t, err)
}

func TestApprovePartnerOptimisticRevert(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ListPartnersFunc = func(context.Context, int, int) ([]backend.Row, error) {
		return []backend.Row{{"id": "p-1", "name": "Ace Academy"}}, nil
	}
	mock.SetPartnerVerifiedFunc = func(context.Context, string, bool) error {
		return errors.New("write refused")
	}
	svc, deps := newService(mock)
	_, err := svc.RefreshPartners(context.Background())
	require.NoError(t, err)
	require.Equal(t, viewmodel.StatusPending, svc.Partners()[0].Status)

	err = svc.ApprovePartner(context.Background(), "p-1", "ops@dest.example", false)
	require.Error(t, err)

	assert.Equal(t, viewmodel.StatusPending, svc.Partners()[0].Status, "failed write reverts the optimistic patch")
	assert.False(t, svc.Partners()[0].Verified)
	assert.Equal(t, 1, deps.metrics.MutationFailures())
	require.Len(t, deps.alerts.MutationFailureAlertCalls, 1)
	assert.Equal(t, "p-1", deps.alerts.MutationFailureAlertCalls[0].TargetID)
	assert.Empty(t, deps.events.SendMessageCalls, "no event published for a failed mutation")
	require.Len(t, deps.trail.RecordCalls, 1, "failures are audited too")
	assert.Contains(t, deps.trail.RecordCalls[0].Detail, "failed")
}

func TestApprovePartnerSuccess(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ListPartnersFunc = func(context.Context, int, int) ([]backend.Row, error) {
		return []backend.Row{{"id": "p-1", "name": "Ace Academy"}}, nil
	}
	svc, deps := newService(mock)
	_, err := svc.RefreshPartners(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.ApprovePartner(context.Background(), "p-1", "ops@dest.example", false))

	assert.Equal(t, viewmodel.StatusActive, svc.Partners()[0].Status)
	assert.Equal(t, 1, deps.metrics.MutationsApplied())
	require.Len(t, deps.events.SendMessageCalls, 1)
	assert.Equal(t, string(pubsub.EventPartnerApproved), deps.events.SendMessageCalls[0].Topic)
	event, ok := deps.events.SendMessageCalls[0].Data.(pubsub.MutationEvent)
	require.True(t, ok)
	assert.Equal(t, "ops@dest.example", event.Actor)
	require.Len(t, deps.alerts.PartnerStatusAlertCalls, 1)
	assert.Equal(t, "Ace Academy", deps.alerts.PartnerStatusAlertCalls[0].PartnerName)
	require.Len(t, deps.trail.RecordCalls, 1)
	assert.Equal(t, "ops@dest.example", deps.trail.RecordCalls[0].Operator)
	assert.Equal(t, "approve-partner", deps.trail.RecordCalls[0].Action)
}

func TestDisablePartnerDominatesVerified(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ListPartnersFunc = func(context.Context, int, int) ([]backend.Row, error) {
		return []backend.Row{{"id": "p-1", "name": "Ace Academy", "verified": true}}, nil
	}
	svc, _ := newService(mock)
	_, err := svc.RefreshPartners(context.Background())
	require.NoError(t, err)
	require.Equal(t, viewmodel.StatusActive, svc.Partners()[0].Status)

	require.NoError(t, svc.SetPartnerDisabled(context.Background(), "p-1", true, "ops@dest.example", false))
	assert.Equal(t, viewmodel.StatusSuspended, svc.Partners()[0].Status)

	require.NoError(t, svc.SetPartnerDisabled(context.Background(), "p-1", false, "ops@dest.example", false))
	assert.Equal(t, viewmodel.StatusActive, svc.Partners()[0].Status)
}

func TestResolveSupportRequestRevertsOnFailure(t *testing.T) {
	mock := backend.NewMockClient()
	mock.ListSupportRequestsFunc = func(_ context.Context, audience string) ([]backend.Row, error) {
		if audience == backend.AudiencePartner {
			return []backend.Row{{"id": "s-1", "partner_name": "Ace Academy"}}, nil
		}
		return nil, nil
	}
	mock.ResolveSupportRequestFunc = func(context.Context, string, string) error {
		return errors.New("write refused")
	}
	svc, _ := newService(mock)
	_, err := svc.LoadOverview(context.Background(), false)
	require.NoError(t, err)

	err = svc.ResolveSupportRequest(context.Background(), viewmodel.AudiencePartner, "s-1", "ops@dest.example", false)
	require.Error(t, err)
	assert.False(t, svc.SupportRequests(viewmodel.AudiencePartner)[0].Resolved)
}

func TestCreateManualEnrollmentGeneratesID(t *testing.T) {
	mock := backend.NewMockClient()
	svc, _ := newService(mock)

	err := svc.CreateManualEnrollment(context.Background(), backend.Enrollment{
		UserID: "u-1",
		PlanID: "plan-1",
	}, "ops@dest.example", false)
	require.NoError(t, err)

	require.Len(t, mock.CreateManualEnrollmentCalls, 1)
	assert.NotEmpty(t, mock.CreateManualEnrollmentCalls[0].ID)
}

func TestCreateManualEnrollmentRequiresUserAndPlan(t *testing.T) {
	mock := backend.NewMockClient()
	svc, _ := newService(mock)

	err := svc.CreateManualEnrollment(context.Background(), backend.Enrollment{}, "ops@dest.example", false)
	require.Error(t, err)
	assert.Empty(t, mock.CreateManualEnrollmentCalls)
}

func TestPartnerDetailNotFound(t *testing.T) {
	mock := backend.NewMockClient()
	svc, _ := newService(mock)

	detail, err := svc.PartnerDetail(context.Background(), "missing")
	require.NoError(t, err, "an unknown key is not an error")
	assert.Nil(t, detail)
}

func TestPartnerDetailAssemblesHierarchy(t *testing.T) {
	mock := backend.NewMockClient()
	mock.GetPartnerDetailFunc = func(context.Context, string) (*backend.PartnerDetailRows, error) {
		return &backend.PartnerDetailRows{
			Partner:     backend.Row{"id": "p-1", "name": "Ace Academy"},
			Courses:     []backend.Row{{"id": "c-1"}},
			Batches:     []backend.Row{{"id": "b-1", "course_id": "c-1"}},
			Plans:       []backend.Row{{"id": "pl-1", "batch_id": "b-1"}},
			Enrollments: []backend.Row{{"id": "e-1", "plan_id": "pl-1"}},
		}, nil
	}
	svc, _ := newService(mock)

	detail, err := svc.PartnerDetail(context.Background(), "p-1")
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, 1, detail.Metrics.Courses)
	assert.Equal(t, 1, detail.Metrics.CourseBookings)
}

// stubBackend overrides ListPartners without the mock's internal lock so a
// fetch can be held open while a newer one completes.
type stubBackend struct {
	*backend.MockClient
	listPartners func(ctx context.Context, limit, offset int) ([]backend.Row, error)
}

func (s *stubBackend) ListPartners(ctx context.Context, limit, offset int) ([]backend.Row, error) {
	return s.listPartners(ctx, limit, offset)
}

func TestStaleFetchResponsesAreDiscarded(t *testing.T) {
	firstEntered := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	stub := &stubBackend{
		MockClient: backend.NewMockClient(),
		listPartners: func(context.Context, int, int) ([]backend.Row, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				close(firstEntered)
				<-release
				return []backend.Row{{"id": "p-1", "name": "Stale"}}, nil
			}
			return []backend.Row{{"id": "p-1", "name": "Fresh"}}, nil
		},
	}
	svc := panel.New(stub, metrics.NewMock(), notifier.NewMock(), pubsub.NewMock("test"), audit.NewMockTrail())

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.RefreshPartners(context.Background())
		firstDone <- err
	}()
	<-firstEntered

	// The newer request completes while the older one is still in flight.
	fresh, err := svc.RefreshPartners(context.Background())
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	close(release)
	firstErr := <-firstDone
	require.ErrorIs(t, firstErr, panel.ErrSuperseded, "older response is discarded")
	assert.Equal(t, "Fresh", svc.Partners()[0].Name, "last requested wins regardless of arrival order")
}
