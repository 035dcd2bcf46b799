package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"kotsuhi/internal/core"
	"kotsuhi/internal/log"
	"kotsuhi/internal/match"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /api/records?person=X&month=YYYY-MM — one person's records for one
// month plus their sums. Gated by the person's shared secret.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	person := r.URL.Query().Get("person")
	month := r.URL.Query().Get("month")
	if person == "" || month == "" {
		writeError(w, http.StatusBadRequest, "person and month are required")
		return
	}
	if !s.dir.Authorize(person, personSecret(r)) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	records, summary := s.svc.RecordsFor(r.Context(), person, month)
	writeJSON(w, http.StatusOK, listResponse{
		Records:    toRecordViews(records),
		DistanceKm: summary.DistanceKm.String(),
		TollFee:    summary.TollFee.String(),
		Total:      summary.Total,
	})
}

// POST /api/records — append one line item. Distance and toll arrive as the
// user typed them; parsing is fail-open and validation rejects an all-zero
// record.
func (s *Server) handleAppendRecord(w http.ResponseWriter, r *http.Request) {
	var req appendRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.dir.Authorize(req.Person, req.Secret) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	rec, err := s.svc.AddRecord(r.Context(), req.Person, date, sanitizeInput(req.Route), req.Distance, req.Toll)
	if err != nil {
		if errors.Is(err, core.ErrEmptyAmounts) {
			writeError(w, http.StatusBadRequest, "record needs a distance or a toll fee")
			return
		}
		s.logger.ErrorContext(r.Context(), "Append failed", log.FieldError, err)
		writeError(w, http.StatusBadGateway, "could not store record")
		return
	}
	writeJSON(w, http.StatusCreated, toRecordView(rec))
}

// POST /api/records/delete — delete by displayed natural key. A key that
// matches nothing is reported without side effects; duplicate keys remove
// the first row in storage order only.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.dir.Authorize(req.Person, req.Secret) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	key := match.Key{Person: req.Person, Date: req.Date, Total: req.Total}
	if err := s.svc.DeleteRecord(r.Context(), key); err != nil {
		if errors.Is(err, match.ErrNoMatch) {
			writeError(w, http.StatusNotFound, "could not identify record")
			return
		}
		s.logger.ErrorContext(r.Context(), "Delete failed", log.FieldError, err)
		writeError(w, http.StatusBadGateway, "could not delete record")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /api/rate — the current per-kilometer rate. Readable by anyone who
// can reach the service; every total computation depends on it.
func (s *Server) handleGetRate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"fuel_rate": s.svc.FuelRate(r.Context()).String()})
}

// PUT /api/rate — administrator-only overwrite of the singleton rate.
func (s *Server) handleSetRate(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeAdmin(r) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}
	var req rateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rate := core.ParseAmount(req.FuelRate)
	if err := s.svc.SetFuelRate(r.Context(), rate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"fuel_rate": rate.String()})
}

// GET /api/summary?month=YYYY-MM — the month's grand total and per-person
// breakdown. Administrator view.
func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	if !s.authorizeAdmin(r) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}
	month := r.URL.Query().Get("month")
	if month == "" {
		writeError(w, http.StatusBadRequest, "month is required")
		return
	}
	total, byPerson := s.svc.MonthSummary(r.Context(), month)
	writeJSON(w, http.StatusOK, summaryResponse{Month: month, Total: total, ByPerson: byPerson})
}

// GET /api/months — distinct months present in the ledger, newest first.
func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"months": s.svc.Months(r.Context())})
}

func (s *Server) authorizeAdmin(r *http.Request) bool {
	return s.adminSecret != "" && r.Header.Get("X-Admin-Secret") == s.adminSecret
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
