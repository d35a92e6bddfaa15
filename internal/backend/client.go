package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// RESTClient is the production Client implementation: a PostgREST-style data
// store speaking JSON over HTTP.
type RESTClient struct {
	httpClient *http.Client
	BaseURL    string
	apiKey     string
}

// NewClient creates a REST client for the given store.
func NewClient(baseURL, apiKey string) Client {
	return &RESTClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// Ensure RESTClient implements the Client interface.
var _ Client = (*RESTClient)(nil)

func (c *RESTClient) do(ctx context.Context, method, table string, query url.Values, body any) ([]Row, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.BaseURL, table)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	log.Debug("Backend request", "method", method, "table", table, "query", query.Encode())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status from backend", "status", resp.StatusCode, "table", table, "body", string(respBody))
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	if method != http.MethodGet {
		return nil, nil
	}
	var rows []Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return rows, nil
}

func (c *RESTClient) get(ctx context.Context, table string, query url.Values) ([]Row, error) {
	return c.do(ctx, http.MethodGet, table, query, nil)
}

func (c *RESTClient) patch(ctx context.Context, table string, query url.Values, body any) error {
	_, err := c.do(ctx, http.MethodPatch, table, query, body)
	return err
}

func eq(key, value string) url.Values {
	return url.Values{key: []string{"eq." + value}}
}

func in(key string, values []string) url.Values {
	return url.Values{key: []string{"in.(" + strings.Join(values, ",") + ")"}}
}

// collectIDs pulls the id column off a fetched level so the next level of the
// hierarchy can be fetched in one batched query.
func collectIDs(rows []Row, key string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		switch v := row[key].(type) {
		case string:
			if v != "" {
				out = append(out, v)
			}
		case float64:
			out = append(out, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return out
}

func (c *RESTClient) ListPartners(ctx context.Context, limit, offset int) ([]Row, error) {
	query := url.Values{"order": []string{"created_at.desc"}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))
	}
	rows, err := c.get(ctx, "partners", query)
	if err != nil {
		return nil, fmt.Errorf("error fetching partners: %w", err)
	}
	return rows, nil
}

func (c *RESTClient) ListCustomers(ctx context.Context, limit, offset int) ([]Row, error) {
	query := url.Values{"order": []string{"created_at.desc"}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
		query.Set("offset", strconv.Itoa(offset))
	}
	rows, err := c.get(ctx, "customers", query)
	if err != nil {
		return nil, fmt.Errorf("error fetching customers: %w", err)
	}
	return rows, nil
}

// GetPartnerDetail resolves the key against id, public_id and slug in turn,
// then walks both hierarchies level by level: each level's ids feed the next
// level's batched query.
func (c *RESTClient) GetPartnerDetail(ctx context.Context, key string) (*PartnerDetailRows, error) {
	var partner Row
	for _, column := range []string{"id", "public_id", "slug"} {
		rows, err := c.get(ctx, "partners", eq(column, key))
		if err != nil {
			return nil, fmt.Errorf("error resolving partner by %s: %w", column, err)
		}
		if len(rows) > 0 {
			partner = rows[0]
			break
		}
	}
	if partner == nil {
		log.Info("Partner not found in any identifier space", "key", key)
		return nil, nil
	}

	partnerID, _ := partner["id"].(string)
	detail := &PartnerDetailRows{Partner: partner}
	var err error

	if detail.Coaches, err = c.get(ctx, "coaches", eq("partner_id", partnerID)); err != nil {
		return nil, fmt.Errorf("error fetching coaches: %w", err)
	}
	if detail.Courses, err = c.get(ctx, "courses", eq("partner_id", partnerID)); err != nil {
		return nil, fmt.Errorf("error fetching courses: %w", err)
	}
	if courseIDs := collectIDs(detail.Courses, "id"); len(courseIDs) > 0 {
		if detail.Batches, err = c.get(ctx, "batches", in("course_id", courseIDs)); err != nil {
			return nil, fmt.Errorf("error fetching batches: %w", err)
		}
	}
	if batchIDs := collectIDs(detail.Batches, "id"); len(batchIDs) > 0 {
		if detail.Plans, err = c.get(ctx, "batch_plans", in("batch_id", batchIDs)); err != nil {
			return nil, fmt.Errorf("error fetching batch plans: %w", err)
		}
	}
	if planIDs := collectIDs(detail.Plans, "id"); len(planIDs) > 0 {
		if detail.Enrollments, err = c.get(ctx, "enrollments", in("plan_id", planIDs)); err != nil {
			return nil, fmt.Errorf("error fetching enrollments: %w", err)
		}
	}

	if detail.Turfs, err = c.get(ctx, "turfs", eq("partner_id", partnerID)); err != nil {
		return nil, fmt.Errorf("error fetching turfs: %w", err)
	}
	if turfIDs := collectIDs(detail.Turfs, "id"); len(turfIDs) > 0 {
		if detail.Courts, err = c.get(ctx, "turf_courts", in("turf_id", turfIDs)); err != nil {
			return nil, fmt.Errorf("error fetching turf courts: %w", err)
		}
	}
	if courtIDs := collectIDs(detail.Courts, "id"); len(courtIDs) > 0 {
		if detail.Bookings, err = c.get(ctx, "turf_bookings", in("court_id", courtIDs)); err != nil {
			return nil, fmt.Errorf("error fetching turf bookings: %w", err)
		}
	}

	log.Info("Fetched partner detail", "partnerID", partnerID,
		"courses", len(detail.Courses), "batches", len(detail.Batches),
		"plans", len(detail.Plans), "enrollments", len(detail.Enrollments),
		"turfs", len(detail.Turfs), "courts", len(detail.Courts),
		"bookings", len(detail.Bookings))
	return detail, nil
}

func (c *RESTClient) ListCourseOrders(ctx context.Context) ([]Row, error) {
	query := url.Values{
		"select": []string{"*,user:users(*),plan:batch_plans(*,batch:batches(*,course:courses(*)))"},
		"order":  []string{"created_at.desc"},
	}
	rows, err := c.get(ctx, "enrollments", query)
	if err != nil {
		return nil, fmt.Errorf("error fetching course orders: %w", err)
	}
	return rows, nil
}

func (c *RESTClient) ListTurfOrders(ctx context.Context) ([]Row, error) {
	query := url.Values{
		"select": []string{"*,user:users(*),court:turf_courts(*,turf:turfs(*))"},
		"order":  []string{"created_at.desc"},
	}
	rows, err := c.get(ctx, "turf_bookings", query)
	if err != nil {
		return nil, fmt.Errorf("error fetching turf orders: %w", err)
	}
	return rows, nil
}

func (c *RESTClient) GetPaymentsByIds(ctx context.Context, ids []string) ([]Row, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, nil
	}

	rows, err := c.get(ctx, "payments", in("id", unique))
	if err != nil {
		return nil, fmt.Errorf("error fetching payments: %w", err)
	}
	log.Debug("Fetched payments batch", "requested", len(unique), "received", len(rows))
	return rows, nil
}

func supportTable(audience string) string {
	if audience == AudienceCustomer {
		return "customer_support"
	}
	return "partner_support"
}

func (c *RESTClient) ListSupportRequests(ctx context.Context, audience string) ([]Row, error) {
	rows, err := c.get(ctx, supportTable(audience), url.Values{"order": []string{"created_at.desc"}})
	if err != nil {
		return nil, fmt.Errorf("error fetching %s support requests: %w", audience, err)
	}
	return rows, nil
}

// GetUserHistory returns a customer's enrollments and turf bookings as one
// collection, each row tagged with its source.
func (c *RESTClient) GetUserHistory(ctx context.Context, userID string) ([]Row, error) {
	enrollments, err := c.get(ctx, "enrollments", eq("user_id", userID))
	if err != nil {
		return nil, fmt.Errorf("error fetching user enrollments: %w", err)
	}
	bookings, err := c.get(ctx, "turf_bookings", eq("user_id", userID))
	if err != nil {
		return nil, fmt.Errorf("error fetching user bookings: %w", err)
	}

	history := make([]Row, 0, len(enrollments)+len(bookings))
	for _, row := range enrollments {
		row["history_type"] = "enrollment"
		history = append(history, row)
	}
	for _, row := range bookings {
		row["history_type"] = "turf_booking"
		history = append(history, row)
	}
	return history, nil
}

func (c *RESTClient) SetPartnerVerified(ctx context.Context, partnerID string, verified bool) error {
	if err := c.patch(ctx, "partners", eq("id", partnerID), Row{"verified": verified}); err != nil {
		return fmt.Errorf("error updating partner verification: %w", err)
	}
	return nil
}

func (c *RESTClient) SetPartnerDisabled(ctx context.Context, partnerID string, disabled bool) error {
	if err := c.patch(ctx, "partners", eq("id", partnerID), Row{"disabled": disabled}); err != nil {
		return fmt.Errorf("error updating partner disabled flag: %w", err)
	}
	return nil
}

// SoftDeleteAccount stamps deleted_at instead of removing the row, so order
// history keeps resolving.
func (c *RESTClient) SoftDeleteAccount(ctx context.Context, userID string) error {
	body := Row{"deleted_at": time.Now().UTC().Format(time.RFC3339)}
	if err := c.patch(ctx, "customers", eq("id", userID), body); err != nil {
		return fmt.Errorf("error soft-deleting account: %w", err)
	}
	return nil
}

func (c *RESTClient) CreateManualEnrollment(ctx context.Context, enrollment Enrollment) error {
	if _, err := c.do(ctx, http.MethodPost, "enrollments", nil, enrollment); err != nil {
		return fmt.Errorf("error creating manual enrollment: %w", err)
	}
	return nil
}

func (c *RESTClient) ResolveSupportRequest(ctx context.Context, audience, requestID string) error {
	if err := c.patch(ctx, supportTable(audience), eq("id", requestID), Row{"resolved": true}); err != nil {
		return fmt.Errorf("error resolving support request: %w", err)
	}
	return nil
}

func (c *RESTClient) SaveSupportSolution(ctx context.Context, audience, requestID, solution string) error {
	if err := c.patch(ctx, supportTable(audience), eq("id", requestID), Row{"solution": solution}); err != nil {
		return fmt.Errorf("error saving support solution: %w", err)
	}
	return nil
}
