/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Board:
    BoardDTO, EntryDTO, CauseDTO

  Edits:
    EditRequest, BulkHeadCountRequest, CopyPreviousRequest

  Adjustments:
    AdjustmentRequest, AdjustmentDTO, SupportAdjustmentRequest,
    SupportAdjustmentDTO

  Close:
    CloseResponse, MissingReportDTO

  Catalogue:
    ShiftDTO, CauseTypeDTO, StopDTO

VALIDATION:
  Validation is done in the board engine, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - board/types.go: Domain model these map from
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/linetrack/production-board/board"
)

// =============================================================================
// BOARD VIEW
// =============================================================================

// CauseDTO is one deviation-cause line of an hour.
type CauseDTO struct {
	TypeCause     string `json:"type_cause"`
	GeneralCause  string `json:"general_cause"`
	SpecificCause string `json:"specific_cause,omitempty"`
	Units         *int   `json:"units"`
	Minutes       int    `json:"minutes,omitempty"`
}

// EntryDTO represents one hour slot in API responses.
type EntryDTO struct {
	ID              string     `json:"id"`
	Hour            string     `json:"hour"`
	RealHeadCount   *int       `json:"real_head_count"`
	AdditionalHC    *int       `json:"additional_hc"`
	ProgrammedStop  string     `json:"programmed_stop"`
	AvailableTime   int        `json:"available_time"`
	WorkOrder       string     `json:"work_order"`
	PartNumber      string     `json:"part_number"`
	HourlyTarget    int        `json:"hourly_target"`
	DailyProduction *int       `json:"daily_production"`
	Delta           *int       `json:"delta"`
	Downtime        int        `json:"downtime"`
	Causes          []CauseDTO `json:"causes,omitempty"`
	RegisteredAt    string     `json:"registered_at"`
	State           string     `json:"state"`
	Shortfall       int        `json:"shortfall"`
	IsOvertime      bool       `json:"is_overtime"`
}

// BoardDTO is the full view of one shift's production board.
type BoardDTO struct {
	Date        string                 `json:"date"`
	ShiftID     string                 `json:"shift_id"`
	ShiftName   string                 `json:"shift_name"`
	Entries     []EntryDTO             `json:"entries"`
	Complete    bool                   `json:"complete"`
	Missing     []MissingReportDTO     `json:"missing,omitempty"`
	Adjustments []AdjustmentDTO        `json:"adjustments"`
	Support     []SupportAdjustmentDTO `json:"support"`
}

// =============================================================================
// EDIT REQUESTS
// =============================================================================

// EditRequest is one field edit on an hour slot. Kind matches the engine's
// edit kinds: setHeadCount, setAdditionalHC, setWorkOrder, setPartNumber,
// setProduction, setProgrammedStop, setCauses, removeEntry.
type EditRequest struct {
	Kind        string     `json:"kind"`
	Hour        string     `json:"hour"`
	IntValue    *int       `json:"int_value,omitempty"`
	StringValue string     `json:"string_value,omitempty"`
	Causes      []CauseDTO `json:"causes,omitempty"`
}

// BulkHeadCountRequest sets one head count on every hour of the shift,
// overwriting any previously recorded values.
type BulkHeadCountRequest struct {
	HeadCount int `json:"head_count"`
}

// CopyPreviousRequest copies a field from the previous hour.
// Field is "workOrder" or "partNumber".
type CopyPreviousRequest struct {
	Hour  string `json:"hour"`
	Field string `json:"field"`
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

// AdjustmentRequest applies a supervisor target correction.
type AdjustmentRequest struct {
	FactorType  string          `json:"factor_type"`
	Description string          `json:"description"`
	Percentage  decimal.Decimal `json:"percentage"`
	Scope       string          `json:"scope"` // "shift" or "single"
	Hour        string          `json:"hour,omitempty"`
	AppliedBy   string          `json:"applied_by"`
}

// AdjustmentDTO is one audit-log record of a target correction.
type AdjustmentDTO struct {
	ID          string `json:"id"`
	FactorType  string `json:"factor_type"`
	Description string `json:"description"`
	Percentage  string `json:"percentage"`
	Scope       string `json:"scope"`
	Hour        string `json:"hour,omitempty"`
	AppliedBy   string `json:"applied_by"`
	AppliedAt   string `json:"applied_at"`
}

// SupportPositionDTO is one non-production staffing line.
type SupportPositionDTO struct {
	PositionID string `json:"position_id"`
	Value      int    `json:"value"`
}

// SupportAdjustmentRequest records support staffing for the shift.
type SupportAdjustmentRequest struct {
	Positions []SupportPositionDTO `json:"positions"`
	AppliedBy string               `json:"applied_by"`
}

// SupportAdjustmentDTO is one stored support staffing record.
type SupportAdjustmentDTO struct {
	ID        string               `json:"id"`
	Shift     string               `json:"shift"`
	Positions []SupportPositionDTO `json:"positions"`
	AppliedBy string               `json:"applied_by"`
	AppliedAt string               `json:"applied_at"`
}

// =============================================================================
// SHIFT CLOSE
// =============================================================================

// MissingReportDTO lists the incomplete fields of one hour.
type MissingReportDTO struct {
	Hour   string   `json:"hour"`
	Fields []string `json:"fields"`
}

// CloseResponse is the result of a shift-close validation.
type CloseResponse struct {
	Complete bool               `json:"complete"`
	Missing  []MissingReportDTO `json:"missing,omitempty"`
}

// =============================================================================
// CATALOGUE
// =============================================================================

// ShiftDTO describes one configured shift.
type ShiftDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	StartHour int      `json:"start_hour"`
	Slots     int      `json:"slots"`
	Saturday  bool     `json:"saturday"`
	Hours     []string `json:"hours"`
}

// CauseTypeDTO is one branch of the cause taxonomy.
type CauseTypeDTO struct {
	Name      string   `json:"name"`
	Subcauses []string `json:"subcauses"`
}

// StopDTO describes one programmed stop from the catalogue.
type StopDTO struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
	AppliesWeekday  bool   `json:"applies_weekday"`
	AppliesSaturday bool   `json:"applies_saturday"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toCauseDTOs(causes []board.CauseEntry, hourlyTarget int) []CauseDTO {
	if len(causes) == 0 {
		return nil
	}
	dtos := make([]CauseDTO, len(causes))
	for i, c := range causes {
		dto := CauseDTO{
			TypeCause:     c.TypeCause,
			GeneralCause:  c.GeneralCause,
			SpecificCause: c.SpecificCause,
			Units:         c.Units,
		}
		if c.Units != nil {
			dto.Minutes = board.MinutesPerCause(*c.Units, hourlyTarget)
		}
		dtos[i] = dto
	}
	return dtos
}

func fromCauseDTOs(dtos []CauseDTO) []board.CauseEntry {
	if len(dtos) == 0 {
		return nil
	}
	causes := make([]board.CauseEntry, len(dtos))
	for i, d := range dtos {
		causes[i] = board.CauseEntry{
			TypeCause:     d.TypeCause,
			GeneralCause:  d.GeneralCause,
			SpecificCause: d.SpecificCause,
			Units:         d.Units,
		}
	}
	return causes
}

func toEntryDTO(e *board.ProductionEntry, state board.HourState) EntryDTO {
	return EntryDTO{
		ID:              string(e.ID),
		Hour:            e.Hour,
		RealHeadCount:   e.RealHeadCount,
		AdditionalHC:    e.AdditionalHC,
		ProgrammedStop:  e.ProgrammedStop,
		AvailableTime:   e.AvailableTime,
		WorkOrder:       e.WorkOrder,
		PartNumber:      e.PartNumber,
		HourlyTarget:    e.HourlyTarget,
		DailyProduction: e.DailyProduction,
		Delta:           e.Delta,
		Downtime:        e.Downtime,
		Causes:          toCauseDTOs(e.Causes, e.HourlyTarget),
		RegisteredAt:    e.RegisteredAt.Format(time.RFC3339),
		State:           string(state),
		Shortfall:       e.ShortfallUnits(),
		IsOvertime:      e.IsOvertime,
	}
}

func toAdjustmentDTO(adj board.TargetAdjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:          adj.ID,
		FactorType:  adj.FactorType,
		Description: adj.Description,
		Percentage:  adj.Percentage.String(),
		Scope:       string(adj.Scope),
		Hour:        adj.Hour,
		AppliedBy:   adj.AppliedBy,
		AppliedAt:   adj.AppliedAt.Format(time.RFC3339),
	}
}

func toSupportDTO(sa board.SupportAdjustment) SupportAdjustmentDTO {
	positions := make([]SupportPositionDTO, len(sa.Positions))
	for i, p := range sa.Positions {
		positions[i] = SupportPositionDTO{PositionID: p.PositionID, Value: p.Value}
	}
	return SupportAdjustmentDTO{
		ID:        sa.ID,
		Shift:     sa.Shift,
		Positions: positions,
		AppliedBy: sa.AppliedBy,
		AppliedAt: sa.AppliedAt.Format(time.RFC3339),
	}
}

func toMissingDTOs(missing []board.MissingReport) []MissingReportDTO {
	if len(missing) == 0 {
		return nil
	}
	dtos := make([]MissingReportDTO, len(missing))
	for i, m := range missing {
		dtos[i] = MissingReportDTO{Hour: m.Hour, Fields: m.Fields}
	}
	return dtos
}
