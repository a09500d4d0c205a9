/*
handlers.go - HTTP API handlers for the production board

PURPOSE:
  Exposes the hourly production tracking engine via REST API. Handles
  HTTP request/response, JSON serialization, and delegates to the board
  engine for all business rules.

ENDPOINTS:
  Board:
    GET    /api/boards/{date}/{shift}              Full board view
    POST   /api/boards/{date}/{shift}/edits        Apply a field edit
    POST   /api/boards/{date}/{shift}/overtime     Append an overtime hour
    POST   /api/boards/{date}/{shift}/headcount    Bulk head-count fill
    POST   /api/boards/{date}/{shift}/stops/preset Apply default stop schedule
    POST   /api/boards/{date}/{shift}/copy         Copy field from previous hour
    POST   /api/boards/{date}/{shift}/close        Shift-close validation
    GET    /api/boards/{date}/{shift}/report       Excel export

  Adjustments:
    POST   /api/boards/{date}/{shift}/adjustments  Apply target correction
    GET    /api/boards/{date}/{shift}/adjustments  Correction audit log
    POST   /api/boards/{date}/{shift}/support      Record support staffing
    GET    /api/boards/{date}/{shift}/support      Support staffing records

  Catalogue:
    GET    /api/catalog/shifts                     Configured shifts
    GET    /api/catalog/causes                     Cause taxonomy
    GET    /api/catalog/stops                      Programmed stop catalogue

REQUEST FLOW:
  1. Parse HTTP request
  2. Load the shift's stored entries
  3. Rebuild the ledger and run the transition in memory
  4. Persist the resulting snapshot
  5. Serialize response

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown shift or hour
  - 409: Edit-order conflicts, duplicates, immutable entries
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. AppliedBy fields are
  taken from the request body until an identity layer exists.

SEE ALSO:
  - dto.go: Request/response data structures
  - report.go: Excel export
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/linetrack/production-board/board"
	"github.com/linetrack/production-board/catalog"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   board.Store
	Catalog *catalog.Catalog
	Log     *slog.Logger

	// Now is swappable for deterministic tests.
	Now func() time.Time
}

// NewHandler creates a new handler over the given store and catalogue.
func NewHandler(store board.Store, cat *catalog.Catalog, log *slog.Logger) *Handler {
	return &Handler{
		Store:   store,
		Catalog: cat,
		Log:     log,
		Now:     time.Now,
	}
}

// shiftParams resolves and validates the {date}/{shift} URL segment pair.
func (h *Handler) shiftParams(r *http.Request) (string, board.Shift, board.ShiftKey, error) {
	date := chi.URLParam(r, "date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", board.Shift{}, "", fmt.Errorf("invalid date %q (use YYYY-MM-DD)", date)
	}
	shiftID := chi.URLParam(r, "shift")
	shift, ok := h.Catalog.ShiftByID(shiftID)
	if !ok {
		return "", board.Shift{}, "", fmt.Errorf("unknown shift %q", shiftID)
	}
	return date, shift, board.NewShiftKey(date, shiftID), nil
}

// ledgerFor rebuilds the in-memory ledger from stored entries, synthesizing
// the shift's hour slots on first access.
func (h *Handler) ledgerFor(shift board.Shift, entries []board.ProductionEntry) *board.Ledger {
	l := board.NewLedger(
		shift,
		board.NewTargetCalculator(h.Catalog.Rates),
		board.NewCauseAllocator(h.Catalog.Taxonomy),
		h.Catalog.Stops,
		entries,
	)
	return l.EnsureSynthesized(h.Now())
}

// shiftState is everything stored for one shift, loaded concurrently.
type shiftState struct {
	entries     []board.ProductionEntry
	adjustments []board.TargetAdjustment
	support     []board.SupportAdjustment
}

func (h *Handler) loadShiftState(r *http.Request, key board.ShiftKey) (shiftState, error) {
	var state shiftState
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		state.entries, err = h.Store.LoadEntries(ctx, key)
		return err
	})
	g.Go(func() (err error) {
		state.adjustments, err = h.Store.ListAdjustments(ctx, key)
		return err
	})
	g.Go(func() (err error) {
		state.support, err = h.Store.ListSupportAdjustments(ctx, key)
		return err
	})
	return state, g.Wait()
}

// =============================================================================
// BOARD VIEW
// =============================================================================

// GetBoard returns the full board for one shift: every hour slot with its
// derived values and edit state, plus the adjustment and support logs.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	date, shift, key, err := h.shiftParams(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Unknown board", err)
		return
	}

	state, err := h.loadShiftState(r, key)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to load board", err)
		return
	}

	l := h.ledgerFor(shift, state.entries)
	writeJSON(w, r, http.StatusOK, h.toBoardDTO(date, l, state))
}

func (h *Handler) toBoardDTO(date string, l *board.Ledger, state shiftState) BoardDTO {
	states := l.Guard().States(l)
	entries := make([]EntryDTO, len(l.Entries))
	for i := range l.Entries {
		e := &l.Entries[i]
		entries[i] = toEntryDTO(e, states[e.Hour])
	}

	adjustments := make([]AdjustmentDTO, len(state.adjustments))
	for i, adj := range state.adjustments {
		adjustments[i] = toAdjustmentDTO(adj)
	}
	support := make([]SupportAdjustmentDTO, len(state.support))
	for i, sa := range state.support {
		support[i] = toSupportDTO(sa)
	}

	completion := board.ValidateCompletion(l)
	return BoardDTO{
		Date:        date,
		ShiftID:     l.Shift.ID,
		ShiftName:   l.Shift.Name,
		Entries:     entries,
		Complete:    completion.Complete,
		Missing:     toMissingDTOs(completion.Missing),
		Adjustments: adjustments,
		Support:     support,
	}
}

// =============================================================================
// BOARD TRANSITIONS
// =============================================================================

// transition loads the shift, rebuilds the ledger, applies fn, and persists
// the resulting snapshot. Every mutating board endpoint goes through here.
func (h *Handler) transition(w http.ResponseWriter, r *http.Request, fn func(l *board.Ledger) (*board.Ledger, error)) {
	date, shift, key, err := h.shiftParams(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Unknown board", err)
		return
	}

	entries, err := h.Store.LoadEntries(r.Context(), key)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to load board", err)
		return
	}

	next, err := fn(h.ledgerFor(shift, entries))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	if err := h.Store.SaveEntries(r.Context(), key, next.Entries); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to save board", err)
		return
	}

	state, err := h.loadShiftState(r, key)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to reload board", err)
		return
	}
	writeJSON(w, r, http.StatusOK, h.toBoardDTO(date, h.ledgerFor(shift, state.entries), state))
}

// ApplyEdit applies one field edit to an hour slot.
func (h *Handler) ApplyEdit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.transition(w, r, func(l *board.Ledger) (*board.Ledger, error) {
		return l.Apply(board.EditIntent{
			Kind:        board.EditKind(req.Kind),
			Hour:        req.Hour,
			IntValue:    req.IntValue,
			StringValue: req.StringValue,
			Causes:      fromCauseDTOs(req.Causes),
		})
	})
}

// AddOvertime appends one overtime hour after the last slot.
func (h *Handler) AddOvertime(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(l *board.Ledger) (*board.Ledger, error) {
		return l.AddOvertimeHour(h.Now())
	})
}

// SetBulkHeadCount sets the head count on every hour of the shift.
func (h *Handler) SetBulkHeadCount(w http.ResponseWriter, r *http.Request) {
	var req BulkHeadCountRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.HeadCount < 0 {
		writeError(w, r, http.StatusBadRequest, "head_count must be non-negative", nil)
		return
	}

	h.transition(w, r, func(l *board.Ledger) (*board.Ledger, error) {
		return l.ApplyBulkHeadCount(req.HeadCount), nil
	})
}

// ApplyStopPreset applies the catalogue's default stop schedule to the shift.
func (h *Handler) ApplyStopPreset(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(l *board.Ledger) (*board.Ledger, error) {
		return l.ApplyStopSchedule(catalog.DefaultStopSchedule(l.Shift)), nil
	})
}

// CopyPrevious copies the work order or part number from the previous hour.
func (h *Handler) CopyPrevious(w http.ResponseWriter, r *http.Request) {
	var req CopyPreviousRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	field := board.CopyField(req.Field)
	if field != board.CopyWorkOrder && field != board.CopyPartNumber {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown copy field %q", req.Field), nil)
		return
	}

	h.transition(w, r, func(l *board.Ledger) (*board.Ledger, error) {
		return l.CopyFromPrevious(req.Hour, field)
	})
}

// =============================================================================
// TARGET ADJUSTMENTS
// =============================================================================

// CreateAdjustment applies a supervisor target correction and records it
// in the append-only audit log.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	date, shift, key, err := h.shiftParams(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Unknown board", err)
		return
	}

	var req AdjustmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.Now()
	adj := board.TargetAdjustment{
		ID:          fmt.Sprintf("adj-%d", now.UnixNano()),
		FactorType:  req.FactorType,
		Description: req.Description,
		Percentage:  req.Percentage,
		Scope:       board.AdjustmentScope(req.Scope),
		Hour:        req.Hour,
		AppliedBy:   req.AppliedBy,
		AppliedAt:   now,
	}

	entries, err := h.Store.LoadEntries(r.Context(), key)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to load board", err)
		return
	}

	next, err := h.ledgerFor(shift, entries).ApplyTargetAdjustment(adj)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	// Audit first: a correction must never take effect without a log record.
	if err := h.Store.AppendAdjustment(r.Context(), key, adj); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to record adjustment", err)
		return
	}
	if err := h.Store.SaveEntries(r.Context(), key, next.Entries); err != nil {
		h.Log.ErrorContext(r.Context(), "adjustment recorded but snapshot save failed",
			slog.String("adjustment_id", adj.ID),
			slog.Any("error", err),
		)
		writeError(w, r, http.StatusInternalServerError, "Failed to save board", err)
		return
	}

	h.Log.InfoContext(r.Context(), "target adjustment applied",
		slog.String("date", date),
		slog.String("shift", shift.ID),
		slog.String("scope", string(adj.Scope)),
		slog.String("percentage", adj.Percentage.String()),
	)

	writeJSON(w, r, http.StatusCreated, toAdjustmentDTO(adj))
}

// ListAdjustments returns the shift's correction audit log in order.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	_, _, key, err := h.shiftParams(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Unknown board", err)
		return
	}

	log, err := h.Store.ListAdjustments(r.Context(), key)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list adjustments", err)
		return
	}

	dtos := make([]AdjustmentDTO, len(log))
	for i, adj := range log {
		dtos[i] = toAdjustmentDTO(adj)
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// =============================================================================
// SUPPORT ADJUSTMENTS
// =============================================================================

// CreateSupportAdjustment records support staffing for the shift. Support
// positions never feed the hourly target.
func (h *Handler) CreateSupportAdjustment(w http.ResponseWriter, r *http.Request) {
	_, shift, key, err := h.shiftParams(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Unknown board", err)
		return
	}

	var req SupportAdjustmentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	now := h.Now()
	positions := make([]board.SupportPosition, len(req.Positions))
	for i, p := range req.Positions {
		positions[i] = board.SupportPosition{PositionID: p.PositionID, Value: p.Value}
	}
	sa := board.SupportAdjustment{
		ID:        fmt.Sprintf("sup-%d", now.UnixNano()),
		Shift:     shift.ID,
		Positions: positions,
		AppliedBy: req.AppliedBy,
		AppliedAt: now,
	}

	if err := board.ValidateSupportAdjustment(sa); err != nil {
		writeDomainError(w, r, err)
		return
	}
	if err := h.Store.SaveSupportAdjustment(r.Context(), key, sa); err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to save support adjustment", err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toSupportDTO(sa))
}

// ListSupportAdjustments returns the shift's support staffing records.
func (h *Handler) ListSupportAdjustments(w http.ResponseWriter, r *http.Request) {
	_, _, key, err := h.shiftParams(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Unknown board", err)
		return
	}

	records, err := h.Store.ListSupportAdjustments(r.Context(), key)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to list support adjustments", err)
		return
	}

	dtos := make([]SupportAdjustmentDTO, len(records))
	for i, sa := range records {
		dtos[i] = toSupportDTO(sa)
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// =============================================================================
// SHIFT CLOSE
// =============================================================================

// CloseShift validates that every hour of the shift is fully reported.
// The validation never short-circuits: the response lists every missing
// field of every incomplete hour.
func (h *Handler) CloseShift(w http.ResponseWriter, r *http.Request) {
	_, shift, key, err := h.shiftParams(r)
	if err != nil {
		writeError(w, r, http.StatusNotFound, "Unknown board", err)
		return
	}

	entries, err := h.Store.LoadEntries(r.Context(), key)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "Failed to load board", err)
		return
	}

	result := board.ValidateCompletion(h.ledgerFor(shift, entries))
	resp := CloseResponse{Complete: result.Complete, Missing: toMissingDTOs(result.Missing)}
	if !result.Complete {
		writeJSON(w, r, http.StatusConflict, resp)
		return
	}
	writeJSON(w, r, http.StatusOK, resp)
}

// =============================================================================
// CATALOGUE
// =============================================================================

// ListShifts returns the configured shift definitions.
func (h *Handler) ListShifts(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ShiftDTO, len(h.Catalog.Shifts))
	for i, s := range h.Catalog.Shifts {
		dtos[i] = ShiftDTO{
			ID:        s.ID,
			Name:      s.Name,
			StartHour: s.StartHour,
			Slots:     s.Slots,
			Saturday:  s.Saturday,
			Hours:     s.HourRanges(),
		}
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// ListCauseTypes returns the deviation-cause taxonomy.
func (h *Handler) ListCauseTypes(w http.ResponseWriter, r *http.Request) {
	dtos := make([]CauseTypeDTO, len(h.Catalog.Taxonomy.Types))
	for i, ct := range h.Catalog.Taxonomy.Types {
		dtos[i] = CauseTypeDTO{Name: ct.Name, Subcauses: ct.Subcauses}
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// ListStops returns the programmed stop catalogue.
func (h *Handler) ListStops(w http.ResponseWriter, r *http.Request) {
	dtos := make([]StopDTO, 0, len(h.Catalog.Stops))
	for _, s := range h.Catalog.Stops {
		dtos = append(dtos, StopDTO{
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			AppliesWeekday:  s.AppliesWeekday,
			AppliesSaturday: s.AppliesSaturday,
		})
	}
	writeJSON(w, r, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, r, status, resp)
}

// writeDomainError maps board engine errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, board.ErrUnknownHour):
		writeError(w, r, http.StatusNotFound, "Unknown hour", err)
	case errors.Is(err, board.ErrEditLocked),
		errors.Is(err, board.ErrDuplicateOvertimeHour),
		errors.Is(err, board.ErrEntryImmutable),
		errors.Is(err, board.ErrShiftIncomplete):
		writeError(w, r, http.StatusConflict, "Edit conflict", err)
	case board.IsClientError(err):
		writeError(w, r, http.StatusBadRequest, "Invalid request", err)
	default:
		writeError(w, r, http.StatusInternalServerError, "Internal error", err)
	}
}
