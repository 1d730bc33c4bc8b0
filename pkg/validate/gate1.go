// Package validate implements the first screening gate on raw model output:
// fast synchronous format/quality checks. Findings are data, never errors;
// only the empty-output finding triggers text replacement upstream.
package validate

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Severity of a single finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Rule names. Stable identifiers used in logs and reports.
const (
	RuleNotEmpty    = "NOT_EMPTY"
	RuleLanguageTH  = "LANGUAGE_TH"
	RuleNotFallback = "NOT_FALLBACK"
	RuleMinLength   = "MIN_LENGTH"
)

// OfflineMarker is the fixed substring every fallback template carries. Its
// presence means the text came from the offline generator, not the model.
const OfflineMarker = "ระบบออฟไลน์"

const (
	minContentRunes = 20
	minLengthRunes  = 50
)

type Issue struct {
	Severity Severity
	Message  string
}

type ChecklistEntry struct {
	Rule     string
	Passed   bool
	Severity Severity
	Message  string
}

type Result struct {
	Passed          bool
	Score           int
	Issues          []Issue
	Checklist       []ChecklistEntry
	Recommendations []string
	Timestamp       time.Time
}

// Validate runs every check over the raw output. All checks always run; no
// short-circuiting, so the checklist is complete even on critical failures.
func Validate(personaID, output string) Result {
	var issues []Issue
	var checklist []ChecklistEntry

	// CHECK 1: not empty
	notEmpty := utf8.RuneCountInString(strings.TrimSpace(output)) > minContentRunes
	checklist = append(checklist, ChecklistEntry{
		Rule:     RuleNotEmpty,
		Passed:   notEmpty,
		Severity: SeverityCritical,
		Message:  pick(notEmpty, "Output มีเนื้อหา", "Output ว่างเปล่าหรือสั้นเกินไป"),
	})
	if !notEmpty {
		issues = append(issues, Issue{Severity: SeverityCritical, Message: "Output ว่างเปล่า"})
	}

	// CHECK 2: Thai text present (Unicode Thai block)
	hasThai := containsThai(output)
	checklist = append(checklist, ChecklistEntry{
		Rule:     RuleLanguageTH,
		Passed:   hasThai,
		Severity: SeverityWarning,
		Message:  pick(hasThai, "มีภาษาไทย", "ไม่พบภาษาไทย — อาจตอบผิดภาษา"),
	})
	if !hasThai {
		issues = append(issues, Issue{Severity: SeverityWarning, Message: "ตอบเป็นภาษาอังกฤษทั้งหมด"})
	}

	// CHECK 3: not a stale offline fallback
	isFallback := strings.Contains(output, OfflineMarker)
	checklist = append(checklist, ChecklistEntry{
		Rule:     RuleNotFallback,
		Passed:   !isFallback,
		Severity: SeverityWarning,
		Message:  pick(!isFallback, "เป็น API response จริง", "เป็น offline fallback"),
	})
	if isFallback {
		issues = append(issues, Issue{Severity: SeverityWarning, Message: "ใช้ offline fallback — ตรวจสอบ API Key"})
	}

	// CHECK 4: minimum length
	length := utf8.RuneCountInString(output)
	longEnough := length >= minLengthRunes
	checklist = append(checklist, ChecklistEntry{
		Rule:     RuleMinLength,
		Passed:   longEnough,
		Severity: SeverityInfo,
		Message:  pick(longEnough, fmt.Sprintf("ความยาวเหมาะสม (%d chars)", length), fmt.Sprintf("สั้นเกินไป (%d chars)", length)),
	})

	criticals := 0
	warnings := 0
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical:
			criticals++
		case SeverityWarning:
			warnings++
		}
	}

	score := 100 - criticals*40 - warnings*15
	if score < 0 {
		score = 0
	}

	recommendations := make([]string, 0, len(issues))
	for _, issue := range issues {
		recommendations = append(recommendations, "แก้ไข: "+issue.Message)
	}

	return Result{
		Passed:          criticals == 0,
		Score:           score,
		Issues:          issues,
		Checklist:       checklist,
		Recommendations: recommendations,
		Timestamp:       time.Now(),
	}
}

// NeedsFallback reports whether the result requires substituting the
// deterministic fallback text: only the empty-output critical finding does.
func (r Result) NeedsFallback() bool {
	for _, entry := range r.Checklist {
		if entry.Rule == RuleNotEmpty && !entry.Passed {
			return true
		}
	}
	return false
}

func containsThai(s string) bool {
	for _, r := range s {
		if r >= 0x0E00 && r <= 0x0E7F {
			return true
		}
	}
	return false
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
