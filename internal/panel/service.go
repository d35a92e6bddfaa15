package panel

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dest-sports/backoffice/internal/aggregate"
	"github.com/dest-sports/backoffice/internal/audit"
	"github.com/dest-sports/backoffice/internal/backend"
	"github.com/dest-sports/backoffice/internal/metrics"
	"github.com/dest-sports/backoffice/internal/notifier"
	"github.com/dest-sports/backoffice/internal/pubsub"
	"github.com/dest-sports/backoffice/internal/viewmodel"
)

// ErrSuperseded marks a fetch whose response arrived after a newer request
// for the same collection was issued. The response is discarded; the newest
// request wins regardless of arrival order.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// Service is the back-office orchestrator.
type Service struct {
	backend  backend.Client
	metrics  metrics.Metrics
	notifier notifier.Notifier
	events   pubsub.PubSubClient
	audit    audit.Trail

	mu              sync.Mutex
	generations     map[string]uint64
	partners        []viewmodel.Partner
	partnerSupport  []viewmodel.SupportRequest
	customerSupport []viewmodel.SupportRequest
}

// New creates the panel service.
func New(backendClient backend.Client, m metrics.Metrics, n notifier.Notifier, events pubsub.PubSubClient, trail audit.Trail) *Service {
	return &Service{
		backend:     backendClient,
		metrics:     m,
		notifier:    n,
		events:      events,
		audit:       trail,
		generations: make(map[string]uint64),
	}
}

// nextGeneration issues a new request token for a collection. Any in-flight
// fetch holding an older token becomes stale.
func (s *Service) nextGeneration(collection string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[collection]++
	return s.generations[collection]
}

// commit runs fn under the lock only if gen is still the latest token for
// the collection; a stale token reports ErrSuperseded.
func (s *Service) commit(collection string, gen uint64, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generations[collection] {
		log.Debug("Discarding superseded fetch", "collection", collection, "generation", gen)
		return ErrSuperseded
	}
	fn()
	return nil
}

// RefreshPartners fetches and caches the partner collection.
func (s *Service) RefreshPartners(ctx context.Context) ([]viewmodel.Partner, error) {
	gen := s.nextGeneration(CollectionPartners)
	rows, err := s.backend.ListPartners(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh partners: %w", err)
	}
	partners := viewmodel.NormalizePartners(rows)
	if err := s.commit(CollectionPartners, gen, func() { s.partners = partners }); err != nil {
		return nil, err
	}
	s.metrics.AddRecordsNormalized(len(partners))
	return partners, nil
}

// Partners returns the cached partner collection.
func (s *Service) Partners() []viewmodel.Partner {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]viewmodel.Partner, len(s.partners))
	copy(out, s.partners)
	return out
}

// Customers fetches and normalizes the customer collection.
func (s *Service) Customers(ctx context.Context) ([]viewmodel.Customer, error) {
	rows, err := s.backend.ListCustomers(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	customers := viewmodel.NormalizeCustomers(rows)
	s.metrics.AddRecordsNormalized(len(customers))
	return customers, nil
}

// SupportQueue refreshes one audience's queue. A fetch superseded by a newer
// one falls back to the cache.
func (s *Service) SupportQueue(ctx context.Context, audience string) ([]viewmodel.SupportRequest, error) {
	requests, err := s.refreshSupport(ctx, audience)
	if errors.Is(err, ErrSuperseded) {
		return s.SupportRequests(audience), nil
	}
	return requests, err
}

// SupportRequests returns the cached queue for one audience.
func (s *Service) SupportRequests(audience string) []viewmodel.SupportRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	source := s.partnerSupport
	if audience == viewmodel.AudienceCustomer {
		source = s.customerSupport
	}
	out := make([]viewmodel.SupportRequest, len(source))
	copy(out, source)
	return out
}

// LoadOverview fetches every collection in parallel. Each fetch is guarded:
// a failure degrades that collection to empty and adds an advisory instead
// of failing the view. Degraded loads raise an ops alert.
func (s *Service) LoadOverview(ctx context.Context, dryRun bool) (*Overview, error) {
	start := time.Now()
	s.metrics.IncFetchRuns()

	overview := &Overview{
		Partners:        []viewmodel.Partner{},
		Customers:       []viewmodel.Customer{},
		Orders:          &OrdersView{},
		PartnerSupport:  []viewmodel.SupportRequest{},
		CustomerSupport: []viewmodel.SupportRequest{},
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []string
	)
	fail := func(collection string, err error) {
		log.Error("Collection fetch failed, degrading to empty", "collection", collection, "error", err)
		s.metrics.IncFetchFailures()
		mu.Lock()
		failures = append(failures, collection)
		mu.Unlock()
	}

	wg.Add(5)
	go func() {
		defer wg.Done()
		partners, err := s.RefreshPartners(ctx)
		if errors.Is(err, ErrSuperseded) {
			partners = s.Partners()
		} else if err != nil {
			fail(CollectionPartners, err)
			return
		}
		mu.Lock()
		overview.Partners = partners
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		rows, err := s.backend.ListCustomers(ctx, 0, 0)
		if err != nil {
			fail(CollectionCustomers, err)
			return
		}
		customers := viewmodel.NormalizeCustomers(rows)
		s.metrics.AddRecordsNormalized(len(customers))
		mu.Lock()
		overview.Customers = customers
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		orders, err := s.LoadOrders(ctx)
		if err != nil {
			fail(CollectionOrders, err)
			return
		}
		mu.Lock()
		overview.Orders = orders
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		requests, err := s.refreshSupport(ctx, viewmodel.AudiencePartner)
		if err != nil {
			if !errors.Is(err, ErrSuperseded) {
				fail(CollectionPartnerSupport, err)
				return
			}
			requests = s.SupportRequests(viewmodel.AudiencePartner)
		}
		mu.Lock()
		overview.PartnerSupport = requests
		mu.Unlock()
	}()
	go func() {
		defer wg.Done()
		requests, err := s.refreshSupport(ctx, viewmodel.AudienceCustomer)
		if err != nil {
			if !errors.Is(err, ErrSuperseded) {
				fail(CollectionCustomerSupport, err)
				return
			}
			requests = s.SupportRequests(viewmodel.AudienceCustomer)
		}
		mu.Lock()
		overview.CustomerSupport = requests
		mu.Unlock()
	}()
	wg.Wait()

	if len(failures) > 0 {
		sort.Strings(failures)
		for _, collection := range failures {
			overview.Advisories = append(overview.Advisories,
				fmt.Sprintf("%s could not be loaded and is shown empty", collection))
		}
		if err := s.notifier.SendDegradedLoadAlert("overview", failures, dryRun); err != nil {
			log.Error("Failed to send degraded load alert", "error", err)
		}
	}

	s.metrics.ObserveLoadDuration(time.Since(start).Seconds())
	log.Info("Loaded overview",
		"partners", len(overview.Partners),
		"customers", len(overview.Customers),
		"orders", len(overview.Orders.Combined),
		"degraded", len(failures))
	return overview, nil
}

func (s *Service) refreshSupport(ctx context.Context, audience string) ([]viewmodel.SupportRequest, error) {
	collection := CollectionPartnerSupport
	if audience == viewmodel.AudienceCustomer {
		collection = CollectionCustomerSupport
	}
	gen := s.nextGeneration(collection)
	rows, err := s.backend.ListSupportRequests(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh %s support queue: %w", audience, err)
	}
	requests := viewmodel.NormalizeSupportRequests(rows, audience)
	err = s.commit(collection, gen, func() {
		if audience == viewmodel.AudienceCustomer {
			s.customerSupport = requests
		} else {
			s.partnerSupport = requests
		}
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AddRecordsNormalized(len(requests))
	return requests, nil
}

// LoadOrders fetches both order sources in parallel, joins the payments in
// one batched query, and builds the unified view. A payments failure
// degrades to unjoined orders; an order-source failure fails the view.
func (s *Service) LoadOrders(ctx context.Context) (*OrdersView, error) {
	var (
		wg                   sync.WaitGroup
		courseRows, turfRows []backend.Row
		courseErr, turfErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		courseRows, courseErr = s.backend.ListCourseOrders(ctx)
	}()
	go func() {
		defer wg.Done()
		turfRows, turfErr = s.backend.ListTurfOrders(ctx)
	}()
	wg.Wait()
	if courseErr != nil {
		return nil, fmt.Errorf("failed to fetch course orders: %w", courseErr)
	}
	if turfErr != nil {
		return nil, fmt.Errorf("failed to fetch turf orders: %w", turfErr)
	}

	paymentIDs := make([]string, 0, len(courseRows)+len(turfRows))
	for _, row := range append(append([]backend.Row{}, courseRows...), turfRows...) {
		if id, ok := row["payment_id"].(string); ok && id != "" {
			paymentIDs = append(paymentIDs, id)
		}
	}
	paymentRows, err := s.backend.GetPaymentsByIds(ctx, paymentIDs)
	if err != nil {
		log.Error("Payments batch failed, orders shown without payment detail", "error", err)
		paymentRows = nil
	}
	payments := viewmodel.NormalizePayments(paymentRows)
	joined := func(row backend.Row) *viewmodel.Payment {
		id, _ := row["payment_id"].(string)
		if p, ok := payments[id]; ok {
			return &p
		}
		return nil
	}

	view := &OrdersView{}
	for _, row := range courseRows {
		view.CourseOrders = append(view.CourseOrders, viewmodel.NormalizeCourseOrder(row, joined(row)))
	}
	for _, row := range turfRows {
		view.TurfOrders = append(view.TurfOrders, viewmodel.NormalizeTurfOrder(row, joined(row)))
	}
	s.metrics.AddRecordsNormalized(len(view.CourseOrders) + len(view.TurfOrders))

	view.Combined = make([]viewmodel.Order, 0, len(view.CourseOrders)+len(view.TurfOrders))
	view.Combined = append(view.Combined, view.CourseOrders...)
	view.Combined = append(view.Combined, view.TurfOrders...)
	sort.SliceStable(view.Combined, func(i, j int) bool {
		a, b := view.Combined[i].CreatedAt, view.Combined[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})

	view.CourseTotals = totals(view.CourseOrders)
	view.TurfTotals = totals(view.TurfOrders)
	view.CombinedTotals = viewmodel.Totals{
		Count:  view.CourseTotals.Count + view.TurfTotals.Count,
		Amount: view.CourseTotals.Amount + view.TurfTotals.Amount,
	}
	return view, nil
}

func totals(orders []viewmodel.Order) viewmodel.Totals {
	t := viewmodel.Totals{Count: len(orders)}
	for _, o := range orders {
		t.Amount += o.Amount
	}
	return t
}

// PartnerDetail resolves a partner across the three identifier spaces and
// assembles the full hierarchy. An unknown key returns (nil, nil).
func (s *Service) PartnerDetail(ctx context.Context, key string) (*viewmodel.PartnerDetail, error) {
	rows, err := s.backend.GetPartnerDetail(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch partner detail: %w", err)
	}
	if rows == nil {
		return nil, nil
	}
	detail := aggregate.PartnerDetail(aggregate.DetailInput{
		Partner:     rows.Partner,
		Coaches:     rows.Coaches,
		Courses:     rows.Courses,
		Batches:     rows.Batches,
		Plans:       rows.Plans,
		Enrollments: rows.Enrollments,
		Turfs:       rows.Turfs,
		Courts:      rows.Courts,
		Bookings:    rows.Bookings,
	})
	return detail, nil
}

// CustomerHistory returns one customer's enrollments and bookings as a
// recency-sorted timeline.
func (s *Service) CustomerHistory(ctx context.Context, userID string) (*CustomerHistory, error) {
	rows, err := s.backend.GetUserHistory(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customer history: %w", err)
	}
	history := &CustomerHistory{UserID: userID, Entries: []viewmodel.Order{}}
	for _, row := range rows {
		if kind, _ := row["history_type"].(string); kind == "turf_booking" {
			history.Entries = append(history.Entries, viewmodel.NormalizeTurfOrder(row, nil))
		} else {
			history.Entries = append(history.Entries, viewmodel.NormalizeCourseOrder(row, nil))
		}
	}
	sort.SliceStable(history.Entries, func(i, j int) bool {
		a, b := history.Entries[i].CreatedAt, history.Entries[j].CreatedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
	return history, nil
}
