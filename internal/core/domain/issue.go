package domain

import (
	"fmt"
	"sort"
)

// Severity classifies a validation issue.
type Severity string

// Issue severities. Errors block export; warnings are advisory.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Validation rule identifiers. Every Issue names the rule it violated
// so a contributor can see exactly what to fix.
const (
	RuleParse          = "parse"
	RuleMissingField   = "missing-field"
	RuleSchema         = "front-matter-schema"
	RuleTaxonomy       = "taxonomy"
	RuleIDSyntax       = "id-syntax"
	RuleDuplicateID    = "duplicate-id"
	RuleRetiredID      = "retired-id"
	RuleLastReviewed   = "last-reviewed"
	RuleRawHTML        = "raw-html"
	RuleSupersededBy   = "superseded-by"
	RuleBrokenLink     = "broken-link"
	RuleMissingH1      = "missing-h1"
	RuleTitleCollision = "title-collision"
)

// Issue is one violated rule on one document.
type Issue struct {
	// Path is the repo-relative source file path.
	Path string

	// DocID is the document id, when known.
	DocID string

	// Rule identifies the violated rule.
	Rule string

	// Detail is a human-readable explanation.
	Detail string

	// Severity distinguishes blocking errors from advisories.
	Severity Severity
}

// String renders the issue in the report line format.
func (i Issue) String() string {
	if i.DocID != "" {
		return fmt.Sprintf("%s: [%s] %s (id: %s)", i.Path, i.Rule, i.Detail, i.DocID)
	}
	return fmt.Sprintf("%s: [%s] %s", i.Path, i.Rule, i.Detail)
}

// Report accumulates validation issues across the whole document set.
// Validation is exhaustive per document: every violated rule is
// recorded, not just the first.
type Report struct {
	Issues []Issue
}

// Add appends issues to the report.
func (r *Report) Add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// Errorf adds an error-severity issue.
func (r *Report) Errorf(path, docID, rule, format string, args ...any) {
	r.Add(Issue{
		Path:     path,
		DocID:    docID,
		Rule:     rule,
		Detail:   fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

// Warnf adds a warning-severity issue.
func (r *Report) Warnf(path, docID, rule, format string, args ...any) {
	r.Add(Issue{
		Path:     path,
		DocID:    docID,
		Rule:     rule,
		Detail:   fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	})
}

// Merge appends all issues from another report.
func (r *Report) Merge(other *Report) {
	if other != nil {
		r.Issues = append(r.Issues, other.Issues...)
	}
}

// Errors returns only blocking issues.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns only advisory issues.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// HasErrors reports whether any blocking issue was accumulated.
func (r *Report) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sort orders issues by path, then rule, then detail, so report output
// is independent of validation order (including parallel workers).
func (r *Report) Sort() {
	sort.SliceStable(r.Issues, func(a, b int) bool {
		ia, ib := r.Issues[a], r.Issues[b]
		if ia.Path != ib.Path {
			return ia.Path < ib.Path
		}
		if ia.Rule != ib.Rule {
			return ia.Rule < ib.Rule
		}
		return ia.Detail < ib.Detail
	})
}

func (r *Report) filter(sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			out = append(out, i)
		}
	}
	return out
}
