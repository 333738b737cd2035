package unusedvars

import (
	"fmt"

	"tsunused/internal/diag"
)

// report forwards one finding to the host reporter.
func (r *Rule) report(reporter diag.Reporter, f Finding) {
	b := diag.NewReportBuilder(reporter, r.opts.Severity, f.Variant.Code(), f.Span, f.Message())
	if f.CheckerCode != 0 {
		b.WithNote(f.Span, fmt.Sprintf("derived from TypeScript diagnostic TS%d", f.CheckerCode))
	}
	b.Emit()
}
