// Package api exposes HTTP handlers for the follow-up service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/followup/internal/auth"
	"example.com/followup/internal/domain"
	"example.com/followup/internal/notify"
	"example.com/followup/internal/report"
	"example.com/followup/internal/scanner"
)

// Handler coordinates HTTP requests with the scan, reporting, and
// notification-center services.
type Handler struct {
	scanner       *scanner.Scanner
	aggregator    *report.Aggregator
	notifications *notify.Service
}

// NewHandler builds a Handler.
func NewHandler(s *scanner.Scanner, a *report.Aggregator, n *notify.Service) *Handler {
	return &Handler{scanner: s, aggregator: a, notifications: n}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/scan", h.scan)
	mux.HandleFunc("/v1/followups/summary", h.followUpSummary)
	mux.HandleFunc("/v1/notifications", h.listNotifications)
	mux.HandleFunc("/v1/notifications/", h.notificationAction)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeFollowUpsScan) {
		writeError(w, http.StatusForbidden, "forbidden", "scope followups:scan required")
		return
	}

	rep, err := h.scanner.Run(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "scan_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toScanReportView(rep))
}

func (h *Handler) followUpSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeFollowUpsRead) {
		writeError(w, http.StatusForbidden, "forbidden", "scope followups:read required")
		return
	}

	filters := report.Filters{OwnerID: r.URL.Query().Get("owner_id")}

	var parseErr error
	filters.MinHours, parseErr = intParam(r, "min_hours")
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid min_hours")
		return
	}
	filters.MaxHours, parseErr = intParam(r, "max_hours")
	if parseErr != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid max_hours")
		return
	}
	if raw := r.URL.Query().Get("task_status"); raw != "" {
		status := domain.TaskStatus(strings.ToUpper(raw))
		filters.TaskStatus = &status
	}

	summary, err := h.aggregator.FollowUpSummary(r.Context(), filters)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toSummaryView(summary))
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeNotificationsRead) {
		writeError(w, http.StatusForbidden, "forbidden", "scope notifications:read required")
		return
	}

	filters := domain.ListFilters{
		UnreadOnly:         r.URL.Query().Get("unread_only") == "true",
		UnacknowledgedOnly: r.URL.Query().Get("unacknowledged_only") == "true",
	}

	notifications, err := h.notifications.ListForUser(r.Context(), claims.Subject, filters)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]NotificationView, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, toNotificationView(n))
	}
	writeJSON(w, http.StatusOK, ListNotificationsResponse{Items: items})
}

func (h *Handler) notificationAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeNotificationsRead) {
		writeError(w, http.StatusForbidden, "forbidden", "scope notifications:read required")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/notifications/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing notification id or action")
		return
	}
	id, action := parts[0], parts[1]

	var err error
	switch action {
	case "ack":
		err = h.notifications.Acknowledge(r.Context(), id, claims.Subject)
	case "read":
		err = h.notifications.MarkRead(r.Context(), id, claims.Subject)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown action")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func intParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// ScanErrorView reports a single per-lead scan failure.
type ScanErrorView struct {
	LeadID string `json:"lead_id"`
	Error  string `json:"error"`
}

// ScanReportView is the response body for POST /v1/scan.
type ScanReportView struct {
	Processed            int             `json:"processed"`
	TasksCreated         int             `json:"tasks_created"`
	NotificationsCreated int             `json:"notifications_created"`
	Errors               []ScanErrorView `json:"errors"`
}

// InactiveLeadView is one row of the summary listing.
type InactiveLeadView struct {
	LeadID         string    `json:"lead_id"`
	OwnerID        string    `json:"owner_id"`
	Status         string    `json:"status"`
	HoursInactive  int       `json:"hours_inactive"`
	LastActivityAt time.Time `json:"last_activity_at"`
	TaskStatus     *string   `json:"task_status,omitempty"`
}

// OwnerStatView is the per-owner rollup.
type OwnerStatView struct {
	OwnerID              string `json:"owner_id"`
	InactiveLeads        int    `json:"inactive_leads"`
	AverageHoursInactive int    `json:"average_hours_inactive"`
	PendingTasks         int    `json:"pending_tasks"`
}

// SummaryResponse is the response body for GET /v1/followups/summary.
type SummaryResponse struct {
	InactiveLeads []InactiveLeadView `json:"inactive_leads"`
	OwnerStats    []OwnerStatView    `json:"owner_stats"`
}

// NotificationView exposes a notification to the notification center.
type NotificationView struct {
	NotificationID string     `json:"notification_id"`
	LeadID         *string    `json:"lead_id,omitempty"`
	Type           string     `json:"type"`
	TaskID         *string    `json:"task_id,omitempty"`
	Read           bool       `json:"read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ListNotificationsResponse packages list results.
type ListNotificationsResponse struct {
	Items []NotificationView `json:"items"`
}

func toScanReportView(rep scanner.Report) ScanReportView {
	view := ScanReportView{
		Processed:            rep.Processed,
		TasksCreated:         rep.TasksCreated,
		NotificationsCreated: rep.NotificationsCreated,
		Errors:               make([]ScanErrorView, 0, len(rep.Errors)),
	}
	for _, e := range rep.Errors {
		view.Errors = append(view.Errors, ScanErrorView{LeadID: e.LeadID, Error: e.Err.Error()})
	}
	return view
}

func toSummaryView(summary report.Summary) SummaryResponse {
	resp := SummaryResponse{
		InactiveLeads: make([]InactiveLeadView, 0, len(summary.InactiveLeads)),
		OwnerStats:    make([]OwnerStatView, 0, len(summary.OwnerStats)),
	}
	for _, row := range summary.InactiveLeads {
		view := InactiveLeadView{
			LeadID:         row.LeadID,
			OwnerID:        row.OwnerID,
			Status:         string(row.Status),
			HoursInactive:  row.HoursInactive,
			LastActivityAt: row.LastActivityAt,
		}
		if row.TaskStatus != nil {
			status := string(*row.TaskStatus)
			view.TaskStatus = &status
		}
		resp.InactiveLeads = append(resp.InactiveLeads, view)
	}
	for _, stat := range summary.OwnerStats {
		resp.OwnerStats = append(resp.OwnerStats, OwnerStatView(stat))
	}
	return resp
}

func toNotificationView(n domain.Notification) NotificationView {
	return NotificationView{
		NotificationID: n.ID,
		LeadID:         n.LeadID,
		Type:           n.Type,
		TaskID:         n.TaskID,
		Read:           n.Read,
		ReadAt:         n.ReadAt,
		CreatedAt:      n.CreatedAt,
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
