package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/dest-sports/backoffice/internal/audit"
	"github.com/dest-sports/backoffice/internal/backend"
	"github.com/dest-sports/backoffice/internal/panel"
	"github.com/dest-sports/backoffice/internal/table"
	"github.com/dest-sports/backoffice/internal/viewmodel"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// respondJSON is a helper to write a JSON response.
func respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to write response", "error", err)
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		code, err := s.Auth.BeginLogin(r.Context(), req.Email)
		if err != nil {
			log.Error("Failed to begin login", "error", err)
			http.Error(w, "Failed to begin login", http.StatusInternalServerError)
			return
		}
		// The code is delivered out of band; it only shows up in verbose logs.
		log.Debug("One-time code issued", "email", req.Email, "code", code)
		w.WriteHeader(http.StatusAccepted)
		respondJSON(w, map[string]string{"status": "code sent"})
	}
}

func (s *Server) VerifyLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Email string `json:"email"`
			Code  string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		token, err := s.Auth.CompleteLogin(r.Context(), req.Email, req.Code)
		if err != nil {
			log.Warn("Login attempt rejected", "email", req.Email, "error", err)
			http.Error(w, "Invalid code", http.StatusUnauthorized)
			return
		}
		respondJSON(w, map[string]string{"token": token})
	}
}

func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if err := s.Auth.Revoke(r.Context(), token); err != nil {
			log.Error("Failed to revoke session", "error", err)
			http.Error(w, "Failed to log out", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Logged out")
	}
}

func (s *Server) OverviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.MetricsStore != nil {
			s.MetricsStore.Increment("overview_loads")
		}
		overview, err := s.Panel.LoadOverview(r.Context(), isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to load overview", "error", err)
			http.Error(w, "Failed to load overview", http.StatusInternalServerError)
			return
		}
		respondJSON(w, overview)
	}
}

func (s *Server) ListPartnersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partners, err := s.Panel.RefreshPartners(r.Context())
		if errors.Is(err, panel.ErrSuperseded) {
			partners = s.Panel.Partners()
		} else if err != nil {
			log.Error("Failed to list partners", "error", err)
			http.Error(w, "Failed to list partners", http.StatusInternalServerError)
			return
		}
		respondJSON(w, partners)
	}
}

// partnerColumns is the column set for the server-rendered partners table.
var partnerColumns = []table.Column[viewmodel.Partner]{
	{ID: "name", Header: "Name", Value: func(p viewmodel.Partner) any { return p.Name }, Sortable: true},
	{ID: "role", Header: "Role", Value: func(p viewmodel.Partner) any { return p.Role }, Sortable: true},
	{ID: "status", Header: "Status", Value: func(p viewmodel.Partner) any { return p.Status }, Sortable: true},
	{ID: "city", Header: "City", Value: func(p viewmodel.Partner) any { return p.City }, Sortable: true},
	{ID: "email", Header: "Email", Value: func(p viewmodel.Partner) any { return p.Email }},
	{ID: "joined", Header: "Joined", Value: func(p viewmodel.Partner) any { return p.CreatedAt }, Sortable: true},
}

// PartnersTableHandler renders one page of the partners list through the
// table engine. Query params: q (filter), sort (column id), dir (asc|desc),
// page, size, role (narrows rows and picks the empty-message vocabulary).
func (s *Server) PartnersTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partners, err := s.Panel.RefreshPartners(r.Context())
		if errors.Is(err, panel.ErrSuperseded) {
			partners = s.Panel.Partners()
		} else if err != nil {
			log.Error("Failed to list partners", "error", err)
			http.Error(w, "Failed to list partners", http.StatusInternalServerError)
			return
		}

		q := r.URL.Query()
		empty := "No partners yet."
		noMatch := "No partners match your search."
		if role := q.Get("role"); role != "" {
			role = viewmodel.NormalizeRole(role)
			kept := partners[:0:0]
			for _, p := range partners {
				if p.Role == role {
					kept = append(kept, p)
				}
			}
			partners = kept
			term := viewmodel.RoleTerminology(role)
			empty = "No " + term.Plural + " yet."
			noMatch = "No " + term.Plural + " match your search."
		}

		tbl := table.New(table.Config[viewmodel.Partner]{
			Columns:        partnerColumns,
			RowID:          func(p viewmodel.Partner) string { return p.ID },
			SearchIndex:    func(p viewmodel.Partner) string { return p.SearchIndex },
			EmptyMessage:   empty,
			NoMatchMessage: noMatch,
		}, partners)

		tbl.SetFilter(q.Get("q"))
		if col := q.Get("sort"); col != "" {
			tbl.ToggleSort(col)
			if q.Get("dir") == table.SortDesc {
				tbl.ToggleSort(col)
			}
		}
		if size := q.Get("size"); size != "" {
			n, err := strconv.Atoi(size)
			if err != nil {
				http.Error(w, "Invalid size", http.StatusBadRequest)
				return
			}
			tbl.SetPageSize(n)
		}
		if page := q.Get("page"); page != "" {
			n, err := strconv.Atoi(page)
			if err != nil {
				http.Error(w, "Invalid page", http.StatusBadRequest)
				return
			}
			tbl.SetPage(n)
		}

		respondJSON(w, tbl.View())
	}
}

func (s *Server) PartnerDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("key")
		if key == "" {
			http.Error(w, "Partner key is required", http.StatusBadRequest)
			return
		}
		detail, err := s.Panel.PartnerDetail(r.Context(), key)
		if err != nil {
			log.Error("Failed to load partner detail", "key", key, "error", err)
			http.Error(w, "Failed to load partner detail", http.StatusInternalServerError)
			return
		}
		if detail == nil {
			http.Error(w, "Partner not found", http.StatusNotFound)
			return
		}
		respondJSON(w, detail)
	}
}

func (s *Server) ApprovePartnerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		partnerID := r.URL.Query().Get("id")
		if partnerID == "" {
			http.Error(w, "Partner id is required", http.StatusBadRequest)
			return
		}
		err := s.Panel.ApprovePartner(r.Context(), partnerID, operatorFromContext(r), isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to approve partner", "id", partnerID, "error", err)
			http.Error(w, "Failed to approve partner", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Partner %s approved", partnerID)
	}
}

func (s *Server) DisablePartnerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		partnerID := r.URL.Query().Get("id")
		if partnerID == "" {
			http.Error(w, "Partner id is required", http.StatusBadRequest)
			return
		}
		disabled := r.URL.Query().Get("disabled") != "false"
		err := s.Panel.SetPartnerDisabled(r.Context(), partnerID, disabled, operatorFromContext(r), isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to update partner disabled state", "id", partnerID, "error", err)
			http.Error(w, "Failed to update partner", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Partner %s updated", partnerID)
	}
}

func (s *Server) ListCustomersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customers, err := s.Panel.Customers(r.Context())
		if err != nil {
			log.Error("Failed to list customers", "error", err)
			http.Error(w, "Failed to list customers", http.StatusInternalServerError)
			return
		}
		respondJSON(w, customers)
	}
}

func (s *Server) CustomerHistoryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			http.Error(w, "User id is required", http.StatusBadRequest)
			return
		}
		history, err := s.Panel.CustomerHistory(r.Context(), userID)
		if err != nil {
			log.Error("Failed to load customer history", "userId", userID, "error", err)
			http.Error(w, "Failed to load customer history", http.StatusInternalServerError)
			return
		}
		respondJSON(w, history)
	}
}

func (s *Server) DeleteAccountHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		userID := r.URL.Query().Get("userId")
		if userID == "" {
			http.Error(w, "User id is required", http.StatusBadRequest)
			return
		}
		err := s.Panel.SoftDeleteAccount(r.Context(), userID, operatorFromContext(r), isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to delete account", "userId", userID, "error", err)
			http.Error(w, "Failed to delete account", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Account %s deleted", userID)
	}
}

func (s *Server) ListOrdersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := s.Panel.LoadOrders(r.Context())
		if err != nil {
			log.Error("Failed to load orders", "error", err)
			http.Error(w, "Failed to load orders", http.StatusInternalServerError)
			return
		}
		respondJSON(w, orders)
	}
}

func (s *Server) CreateEnrollmentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var enrollment backend.Enrollment
		if err := json.NewDecoder(r.Body).Decode(&enrollment); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		err := s.Panel.CreateManualEnrollment(r.Context(), enrollment, operatorFromContext(r), isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to create enrollment", "error", err)
			http.Error(w, "Failed to create enrollment", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, "Enrollment created")
	}
}

func (s *Server) SupportQueueHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		audience := r.URL.Query().Get("audience")
		if audience != viewmodel.AudiencePartner && audience != viewmodel.AudienceCustomer {
			http.Error(w, "Audience must be partner or customer", http.StatusBadRequest)
			return
		}
		requests, err := s.Panel.SupportQueue(r.Context(), audience)
		if err != nil {
			log.Error("Failed to load support queue", "audience", audience, "error", err)
			http.Error(w, "Failed to load support queue", http.StatusInternalServerError)
			return
		}
		respondJSON(w, requests)
	}
}

func (s *Server) ResolveSupportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		audience := r.URL.Query().Get("audience")
		requestID := r.URL.Query().Get("id")
		if requestID == "" || (audience != viewmodel.AudiencePartner && audience != viewmodel.AudienceCustomer) {
			http.Error(w, "Audience and request id are required", http.StatusBadRequest)
			return
		}
		err := s.Panel.ResolveSupportRequest(r.Context(), audience, requestID, operatorFromContext(r), isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to resolve support request", "id", requestID, "error", err)
			http.Error(w, "Failed to resolve support request", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Support request %s resolved", requestID)
	}
}

func (s *Server) SaveSolutionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		audience := r.URL.Query().Get("audience")
		requestID := r.URL.Query().Get("id")
		if requestID == "" || (audience != viewmodel.AudiencePartner && audience != viewmodel.AudienceCustomer) {
			http.Error(w, "Audience and request id are required", http.StatusBadRequest)
			return
		}
		var req struct {
			Solution string `json:"solution"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		err := s.Panel.SaveSupportSolution(r.Context(), audience, requestID, req.Solution, operatorFromContext(r), isDryRunFromContext(r))
		if err != nil {
			log.Error("Failed to save support solution", "id", requestID, "error", err)
			http.Error(w, "Failed to save support solution", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Solution saved")
	}
}

func (s *Server) AuditLogHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		entries, err := s.Panel.AuditLog(r.Context(), limit)
		if err != nil {
			log.Error("Failed to load audit log", "error", err)
			http.Error(w, "Failed to load audit log", http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []audit.Entry{}
		}
		respondJSON(w, entries)
	}
}

// LifetimeMetricsHandler serves the counters that survive restarts, unlike
// the process-local Prometheus registry behind /metrics.
func (s *Server) LifetimeMetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.MetricsStore == nil {
			http.Error(w, "Lifetime metrics are not configured", http.StatusNotFound)
			return
		}
		all, err := s.MetricsStore.GetAll()
		if err != nil {
			log.Error("Failed to load lifetime metrics", "error", err)
			http.Error(w, "Failed to load lifetime metrics", http.StatusInternalServerError)
			return
		}
		respondJSON(w, all)
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):]
	}
	return ""
}
