/*
completion.go - Shift-close validation

PURPOSE:
  The terminal gate before a shift closes. Scans every hour of the ledger
  for missing required data and unresolved cause shortfalls, and reports
  ALL deficiencies at once - a close attempt must surface the complete
  list, never just the first failure.

REQUIRED PER HOUR:
  head count, work order, part number, production; causes whenever the
  hour's delta is negative. An hour with no record at all is reported
  with the single field "Registro completo".

  Closing with an incomplete ledger is terminal for that attempt: the
  caller re-enters a visible error state, nothing is auto-fixed or
  skipped.
*/
package board

// Missing-field labels reported to the caller.
const (
	FieldMissingRecord = "Registro completo" // no entry exists for the hour
	FieldHeadCount     = "Head count"
	FieldWorkOrder     = "Work order"
	FieldPartNumber    = "Part number"
	FieldProduction    = "Production"
	FieldCauses        = "Causes"
)

// MissingReport lists the deficient fields of one hour.
type MissingReport struct {
	Hour   string
	Fields []string
}

// CompletionResult is the aggregate outcome of a close attempt.
type CompletionResult struct {
	Complete bool
	Missing  []MissingReport
}

// Err converts an incomplete result into a ShiftIncompleteError, nil when
// complete.
func (r CompletionResult) Err() error {
	if r.Complete {
		return nil
	}
	return &ShiftIncompleteError{Missing: r.Missing}
}

// ValidateCompletion scans every generated hour plus any overtime hours
// and aggregates their deficiencies without short-circuiting.
func ValidateCompletion(l *Ledger) CompletionResult {
	result := CompletionResult{Complete: true}

	report := func(hour string, fields []string) {
		if len(fields) == 0 {
			return
		}
		result.Complete = false
		result.Missing = append(result.Missing, MissingReport{Hour: hour, Fields: fields})
	}

	for _, hour := range l.HourRanges {
		e := l.Entry(hour)
		if e == nil {
			report(hour, []string{FieldMissingRecord})
			continue
		}
		report(hour, missingFields(l, e))
	}

	// Overtime hours are part of the shift once they exist.
	for _, e := range l.ordered() {
		if !e.IsOvertime {
			continue
		}
		report(e.Hour, missingFields(l, e))
	}

	return result
}

func missingFields(l *Ledger, e *ProductionEntry) []string {
	var fields []string
	if e.RealHeadCount == nil {
		fields = append(fields, FieldHeadCount)
	}
	if e.WorkOrder == "" {
		fields = append(fields, FieldWorkOrder)
	}
	if e.PartNumber == "" {
		fields = append(fields, FieldPartNumber)
	}
	if !e.Measured() {
		fields = append(fields, FieldProduction)
	} else if e.ShortfallUnits() > 0 && !l.Allocator.Satisfied(e) {
		fields = append(fields, FieldCauses)
	}
	return fields
}
