package burden

import "fmt"

// WarningKind classifies a data-quality diagnostic.
type WarningKind string

const (
	// WarnImplausibleCFR flags a computed case-fatality ratio above the
	// biologically plausible ceiling. Processing continues.
	WarnImplausibleCFR WarningKind = "implausible-cfr"

	// WarnReconciliation flags a rollup whose combined confidence-interval
	// half-width disagrees with the upstream aggregate beyond tolerance.
	WarnReconciliation WarningKind = "reconciliation-discrepancy"

	// WarnSplitterFallback flags a country whose splitter failed and which
	// was therefore routed to the regional imputer.
	WarnSplitterFallback WarningKind = "splitter-fallback"
)

// Warning is a structured, non-fatal data-quality diagnostic. Warnings
// are returned as values alongside results (never only logged) so the
// calling collaborator can persist them with the run.
type Warning struct {
	Kind    WarningKind
	Country string
	Year    int
	Age     AgeGroup // zero value when the warning is not stratum-specific
	Sex     Sex      // likewise
	Value   float64  // the offending quantity (CFR, relative discrepancy, ...)
	Limit   float64  // the threshold it exceeded, when applicable
	Detail  string
}

// String renders the warning for logs and error reports.
func (w Warning) String() string {
	head := fmt.Sprintf("%s: %s/%d", w.Kind, w.Country, w.Year)
	if w.Age != "" {
		head += fmt.Sprintf(" [%s,%s]", w.Age, w.Sex)
	}
	if w.Limit != 0 {
		return fmt.Sprintf("%s value %.4g exceeds %.4g: %s", head, w.Value, w.Limit, w.Detail)
	}
	return fmt.Sprintf("%s: %s", head, w.Detail)
}
