// Package guard implements the second screening gate: six independent
// brand/content policy checks combined into one report. Checks are substring
// and regex heuristics on purpose; the panel annotates responses, it never
// withholds them.
package guard

import (
	"time"

	"github.com/socialfactory/rangers/pkg/logger"
)

// Status is the combined outcome of a guard run.
type Status int

const (
	StatusPassed Status = iota
	StatusWarning
	StatusBlocked
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "passed"
	case StatusWarning:
		return "warning"
	case StatusBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Severity of one failed check. Closed set so the aggregator can switch
// exhaustively.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// BrandContext is the slice of the brand profile the guard panel needs.
type BrandContext struct {
	BrandID        string
	BrandNameTh    string
	CoreUSP        string
	ToneOfVoice    string
	MoodKeywords   []string
	ForbiddenWords []string
}

// Options carries optional comparison material for individual checks.
type Options struct {
	// OriginalContent enables the anti-copycat similarity comparison.
	OriginalContent string
	// References satisfies the reference-validation check for cited claims.
	References []string
}

// CheckResult is one check's structured finding. Never an error value.
type CheckResult struct {
	Passed     bool
	Severity   Severity
	Message    string
	Suggestion string
}

// CheckFunc is one named guard predicate.
type CheckFunc func(ctx *BrandContext, content string, opts *Options) CheckResult

// Check names, in declaration order. Recommendations preserve this order.
const (
	CheckNameIsolation   = "isolation"
	CheckNameAntiCopycat = "antiCopycat"
	CheckNameFactCheck   = "factCheck"
	CheckNameUSP         = "uspGrounding"
	CheckNameReference   = "referenceValidation"
	CheckNameConsistency = "consistency"
)

type namedCheck struct {
	name string
	fn   CheckFunc
}

// Report is the full guard outcome for one piece of content.
type Report struct {
	Checks          map[string]CheckResult
	OverallStatus   Status
	Recommendations []string
	Timestamp       time.Time
}

// Guardian runs the panel. Stateless; safe for concurrent use.
type Guardian struct {
	checks []namedCheck
}

func NewGuardian() *Guardian {
	return &Guardian{
		checks: []namedCheck{
			{CheckNameIsolation, CheckIsolation},
			{CheckNameAntiCopycat, CheckAntiCopycat},
			{CheckNameFactCheck, CheckFactCheck},
			{CheckNameUSP, CheckUSPGrounding},
			{CheckNameReference, CheckReferenceValidation},
			{CheckNameConsistency, CheckConsistency},
		},
	}
}

// ValidateContent runs all six checks and aggregates their findings.
//
// A panicking check is recovered at this boundary and reported as a clean
// pass: guard robustness takes priority over guard completeness. The
// isolation check failing forces an overall blocked status regardless of
// every other check.
func (g *Guardian) ValidateContent(ctx *BrandContext, content string, opts *Options) Report {
	report := Report{
		Checks:    make(map[string]CheckResult, len(g.checks)),
		Timestamp: time.Now(),
	}

	for _, c := range g.checks {
		report.Checks[c.name] = runChecked(c.name, c.fn, ctx, content, opts)
	}

	report.OverallStatus = aggregate(report.Checks)
	report.Recommendations = collectRecommendations(g.checks, report.Checks)
	return report
}

func runChecked(name string, fn CheckFunc, ctx *BrandContext, content string, opts *Options) (result CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.WarnCF("guard", "check panicked, treating as pass", map[string]interface{}{
				"check": name,
				"panic": r,
			})
			result = CheckResult{Passed: true, Message: "ข้ามการตรวจสอบ (check error)"}
		}
	}()
	return fn(ctx, content, opts)
}

func aggregate(checks map[string]CheckResult) Status {
	if iso, ok := checks[CheckNameIsolation]; ok && !iso.Passed {
		return StatusBlocked
	}

	status := StatusPassed
	for name, result := range checks {
		if result.Passed || name == CheckNameIsolation {
			continue
		}
		switch result.Severity {
		case SeverityError:
			return StatusBlocked
		case SeverityWarning:
			status = StatusWarning
		}
	}
	return status
}

func collectRecommendations(order []namedCheck, checks map[string]CheckResult) []string {
	var recs []string
	seen := make(map[string]bool)
	for _, c := range order {
		result, ok := checks[c.name]
		if !ok || result.Passed {
			continue
		}
		rec := result.Suggestion
		if rec == "" {
			rec = result.Message
		}
		if rec == "" || seen[rec] {
			continue
		}
		seen[rec] = true
		recs = append(recs, rec)
	}
	if recs == nil {
		recs = []string{}
	}
	return recs
}
