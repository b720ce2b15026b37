package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/trogers1052/trade-journal/internal/filterstore"
	"github.com/trogers1052/trade-journal/internal/logger"
	"github.com/trogers1052/trade-journal/internal/models"
	"github.com/trogers1052/trade-journal/internal/report"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ListAdjustments handles GET /trades/{id}/adjustments
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	adjustments, err := h.journal.ListAdjustments(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, adjustments)
}

// AddAdjustment handles POST /trades/{id}/adjustments
func (h *Handler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var a models.Adjustment
	if !decode(w, r, &a) {
		return
	}

	created, err := h.journal.AddAdjustment(r.Context(), id, &a)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// DeleteAdjustment handles DELETE /adjustments/{id}
func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.journal.DeleteAdjustment(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSnapshots handles GET /trades/{id}/snapshots
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	snaps, err := h.journal.ListSnapshots(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, snaps)
}

// RecordSnapshot handles POST /trades/{id}/snapshots. A repeat of an existing
// timestamp answers 200 instead of 201.
func (h *Handler) RecordSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var s models.Snapshot
	if !decode(w, r, &s) {
		return
	}
	s.TradeID = id

	created, err := h.journal.RecordSnapshot(r.Context(), &s)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, s)
}

// ListJournal handles GET /journal?tradeId=
func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	var tradeID *uuid.UUID
	if raw := r.URL.Query().Get("tradeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid tradeId")
			return
		}
		tradeID = &id
	}

	entries, err := h.journal.ListJournal(r.Context(), tradeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// AddJournalEntry handles POST /journal
func (h *Handler) AddJournalEntry(w http.ResponseWriter, r *http.Request) {
	var e models.JournalEntry
	if !decode(w, r, &e) {
		return
	}

	created, err := h.journal.AddJournalEntry(r.Context(), &e)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// GetDashboard handles GET /dashboard. The saved filter for ?profile= is
// applied.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filters.Load(r.Context(), profile(r))
	if err != nil {
		respondError(w, err)
		return
	}

	dash, err := h.journal.Dashboard(r.Context(), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

// GetFilters handles GET /dashboard/filters
func (h *Handler) GetFilters(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filters.Load(r.Context(), profile(r))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, filter)
}

// SaveFilters handles PUT /dashboard/filters
func (h *Handler) SaveFilters(w http.ResponseWriter, r *http.Request) {
	var filter models.DashboardFilterState
	if !decode(w, r, &filter) {
		return
	}

	saved, err := h.filters.Save(r.Context(), profile(r), filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// ListPerformance handles GET /performance?offsetWeeks=
func (h *Handler) ListPerformance(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := r.URL.Query().Get("offsetWeeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondMessage(w, http.StatusBadRequest, "invalid offsetWeeks")
			return
		}
		offset = n
	}

	perf, err := h.journal.ListPerformance(r.Context(), offset)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, perf)
}

// CreatePerformance handles POST /performance
func (h *Handler) CreatePerformance(w http.ResponseWriter, r *http.Request) {
	var p models.PerformanceSnapshot
	if !decode(w, r, &p) {
		return
	}

	created, err := h.journal.CreatePerformance(r.Context(), &p)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// UpdatePerformance handles PUT /performance/{id}
func (h *Handler) UpdatePerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var p models.PerformanceSnapshot
	if !decode(w, r, &p) {
		return
	}

	updated, err := h.journal.UpdatePerformance(r.Context(), id, &p)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DeletePerformance handles DELETE /performance/{id}
func (h *Handler) DeletePerformance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.journal.DeletePerformance(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ComputePerformance handles POST /performance/compute. The body names the
// interval and any instant inside the period; a missing instant means now.
func (h *Handler) ComputePerformance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Interval string     `json:"interval"`
		At       *time.Time `json:"at"`
	}
	if !decode(w, r, &req) {
		return
	}
	at := time.Now().UTC()
	if req.At != nil {
		at = req.At.UTC()
	}

	perf, err := h.journal.ComputePerformance(r.Context(), req.Interval, at)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, perf)
}

// ExportReport handles GET /performance/export
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	entries, warnings, err := h.journal.Entries(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if len(warnings) > 0 {
		logger.Warn("exporting with incomplete data", zap.Strings("warnings", warnings))
	}
	perf, err := h.journal.ListPerformance(r.Context(), 0)
	if err != nil {
		respondError(w, err)
		return
	}

	data, err := report.Generate(entries, perf)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="trade-journal.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Warn("failed to write export", zap.Error(err))
	}
}

func profile(r *http.Request) string {
	if p := r.URL.Query().Get("profile"); p != "" {
		return p
	}
	return filterstore.DefaultProfile
}
