package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/alexanderramin/threadlog/internal/domain"
	"github.com/alexanderramin/threadlog/internal/service"
)

const maxBodyBytes = 16 << 10

type WorkLogHandler struct {
	worklogs  service.WorkLogService
	dashboard service.DashboardService
	log       zerolog.Logger
	today     func() string
}

func NewWorkLogHandler(worklogs service.WorkLogService, dashboard service.DashboardService, log zerolog.Logger) *WorkLogHandler {
	return &WorkLogHandler{
		worklogs:  worklogs,
		dashboard: dashboard,
		log:       log,
		today:     func() string { return time.Now().UTC().Format(domain.DateLayout) },
	}
}

// Upsert handles POST /api/worklogs.
func (h *WorkLogHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "missing identity")
		return
	}
	var req upsertWorkLogRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, ErrCodeInvalidInput, "invalid JSON body")
		return
	}
	if req.Hour == nil {
		writeServiceErr(w, h.log, &domain.ValidationError{Field: "hour", Message: "is required"})
		return
	}
	if req.Date == "" {
		req.Date = h.today()
	}

	stored, err := h.worklogs.Upsert(r.Context(), actor, service.UpsertRequest{
		EmployeeID: req.EmployeeID,
		Date:       req.Date,
		Hour:       *req.Hour,
		Status:     req.Status,
		Note:       req.Note,
	})
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(stored))
}

// Day handles GET /api/worklogs?date=&employee_id=.
func (h *WorkLogHandler) Day(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "missing identity")
		return
	}
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		date = h.today()
	}
	view, err := h.worklogs.Day(r.Context(), actor, service.DayRequest{
		EmployeeID: q.Get("employee_id"),
		Date:       date,
	})
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toDayResponse(view))
}

// Dashboard handles GET /api/worklogs/dashboard?date=&department=.
func (h *WorkLogHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := ActorFromContext(r.Context())
	if !ok {
		writeErr(w, http.StatusUnauthorized, ErrCodeUnauthorized, "missing identity")
		return
	}
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		date = h.today()
	}
	dash, err := h.dashboard.Build(r.Context(), actor, service.DashboardRequest{
		OrganizationID: q.Get("organization_id"),
		Date:           date,
		Department:     q.Get("department"),
	})
	if err != nil {
		writeServiceErr(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(dash))
}
