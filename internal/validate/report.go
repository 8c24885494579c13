// Package validate checks a loaded corpus for schema, integrity, and hygiene
// problems ahead of publication.
package validate

// Severity ranks an issue. Errors block publication; warnings block only
// under strict checking.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule identifiers attached to issues so output stays grep-able.
const (
	RuleParse         = "parse"
	RuleSchema        = "schema"
	RuleDuplicateID   = "duplicate-id"
	RuleKindMismatch  = "kind-mismatch"
	RuleYearOrder     = "year-order"
	RuleMissingTarget = "missing-target"
	RuleSelfRelation  = "self-relation"
	RuleUnknownLabel  = "unknown-label"
	RulePackMember    = "pack-member"
	RuleOrphan        = "orphan"
)

// Issue is one problem found in the corpus.
type Issue struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Path     string   `json:"path"`
	EntryID  string   `json:"entryId,omitempty"`
	Message  string   `json:"message"`
}

// Report is the outcome of one validation run.
type Report struct {
	EntryCount int     `json:"entries"`
	EdgeCount  int     `json:"edges"`
	PackCount  int     `json:"packs"`
	Issues     []Issue `json:"issues"`
}

func (report *Report) addError(rule string, path string, entryID string, message string) {
	report.Issues = append(report.Issues, Issue{Severity: SeverityError, Rule: rule, Path: path, EntryID: entryID, Message: message})
}

func (report *Report) addWarning(rule string, path string, entryID string, message string) {
	report.Issues = append(report.Issues, Issue{Severity: SeverityWarning, Rule: rule, Path: path, EntryID: entryID, Message: message})
}

// ErrorCount returns the number of error-severity issues.
func (report *Report) ErrorCount() int {
	return report.countSeverity(SeverityError)
}

// WarningCount returns the number of warning-severity issues.
func (report *Report) WarningCount() int {
	return report.countSeverity(SeverityWarning)
}

func (report *Report) countSeverity(severity Severity) int {
	count := 0
	for _, issue := range report.Issues {
		if issue.Severity == severity {
			count++
		}
	}
	return count
}

// Failed reports whether the run should fail the command. Errors always
// fail; strict checking promotes warnings.
func (report *Report) Failed(strict bool) bool {
	if report.ErrorCount() > 0 {
		return true
	}
	return strict && report.WarningCount() > 0
}
