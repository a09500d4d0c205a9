/*
causes.go - Deviation-cause allocation and reconciliation

PURPOSE:
  When an hour misses its target, the shortfall must be attributed to
  causes from a configured taxonomy, and the attributed units must
  reconcile EXACTLY with the shortfall. Not <=, not >=: equality. Partial
  and excess allocation are both rejected, each reporting the unit gap.

TOP-DOWN VALIDATION:
  The taxonomy is hierarchical and validated in order:
    typeCause     must be a configured type
    generalCause  must be one of that type's subcauses
    specificCause requires a valid general cause, free text, non-empty
    units         requires a valid general cause, non-negative integer
  Any combination whose prefix is not in the hierarchy is rejected; the
  engine never relies on the UI disabling fields.

SEE ALSO:
  - types.go: CauseTaxonomy
  - guard.go: uses Validate to decide whether an hour is resolved
*/
package board

// CauseAllocator validates cause lists against the configured taxonomy
// and the measured shortfall of the entry under edit.
type CauseAllocator struct {
	Taxonomy CauseTaxonomy
}

func NewCauseAllocator(taxonomy CauseTaxonomy) CauseAllocator {
	return CauseAllocator{Taxonomy: taxonomy}
}

// Validate checks every cause entry top-down against the taxonomy, then
// requires sum(units) == requiredUnits exactly. requiredUnits is
// abs(delta) of the entry under edit.
func (a CauseAllocator) Validate(causes []CauseEntry, requiredUnits int) error {
	allocated := 0
	for i, c := range causes {
		if err := a.validateFields(i, c); err != nil {
			return err
		}
		allocated += *c.Units
	}
	if allocated != requiredUnits {
		return &CauseAllocationError{Required: requiredUnits, Allocated: allocated}
	}
	return nil
}

// validateFields enforces the cascading field requirements of one entry.
func (a CauseAllocator) validateFields(i int, c CauseEntry) error {
	if c.TypeCause == "" {
		return &CauseFieldError{Index: i, Field: "typeCause", Reason: "is required"}
	}
	if !a.Taxonomy.HasType(c.TypeCause) {
		return &CauseFieldError{Index: i, Field: "typeCause", Reason: "is not in the taxonomy"}
	}
	if c.GeneralCause == "" {
		return &CauseFieldError{Index: i, Field: "generalCause", Reason: "is required"}
	}
	if !a.Taxonomy.HasSubcause(c.TypeCause, c.GeneralCause) {
		return &CauseFieldError{Index: i, Field: "generalCause", Reason: "is not a subcause of " + c.TypeCause}
	}
	if c.SpecificCause == "" {
		return &CauseFieldError{Index: i, Field: "specificCause", Reason: "is required"}
	}
	if c.Units == nil {
		return &CauseFieldError{Index: i, Field: "units", Reason: "is required"}
	}
	if *c.Units < 0 {
		return &CauseFieldError{Index: i, Field: "units", Reason: "must not be negative"}
	}
	return nil
}

// Satisfied reports whether an entry's recorded causes reconcile its
// shortfall. Hours that met their target are trivially satisfied.
func (a CauseAllocator) Satisfied(e *ProductionEntry) bool {
	required := e.ShortfallUnits()
	if required == 0 {
		return true
	}
	return a.Validate(e.Causes, required) == nil
}

// MinutesPerCause is the informational downtime share of one cause:
// round(units * 60 / hourlyTarget), with a zero target short-circuiting
// to 0. Uses the owning entry's target, not a shift average.
func MinutesPerCause(units, hourlyTarget int) int {
	if hourlyTarget == 0 || units <= 0 {
		return 0
	}
	return DowntimeMinutes(-units, hourlyTarget)
}
