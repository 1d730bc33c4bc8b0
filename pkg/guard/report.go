package guard

import (
	"fmt"
	"strings"
	"time"
)

var statusLabels = map[Status]string{
	StatusPassed:  "✅ PASSED",
	StatusWarning: "⚠️ WARNING",
	StatusBlocked: "⛔ BLOCKED",
}

// RenderReport formats a report for humans: one line per check plus an
// overall summary.
func RenderReport(r Report) string {
	var sb strings.Builder

	sb.WriteString("🛡️ Data Guard Report — ")
	sb.WriteString(r.Timestamp.Format(time.RFC3339))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Status: %s\n\n", statusLabels[r.OverallStatus]))

	order := []string{
		CheckNameIsolation,
		CheckNameAntiCopycat,
		CheckNameFactCheck,
		CheckNameUSP,
		CheckNameReference,
		CheckNameConsistency,
	}
	for _, name := range order {
		result, ok := r.Checks[name]
		if !ok {
			continue
		}
		mark := "✓"
		if !result.Passed {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("  %s %s: %s\n", mark, name, result.Message))
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("\nRecommendations:\n")
		for _, rec := range r.Recommendations {
			sb.WriteString("  - " + rec + "\n")
		}
	}

	return sb.String()
}

// AnnotationNote builds the short warning block appended to a blocked
// response. At most maxRecs recommendations are included; the response
// itself is always returned to the user.
func AnnotationNote(r Report, maxRecs int) string {
	if r.OverallStatus != StatusBlocked {
		return ""
	}
	recs := r.Recommendations
	if maxRecs > 0 && len(recs) > maxRecs {
		recs = recs[:maxRecs]
	}
	reasons := strings.Join(recs, " · ")
	if reasons == "" {
		reasons = "ตรวจพบเนื้อหาที่ไม่สอดคล้องกับแบรนด์"
	}
	return fmt.Sprintf("\n\n---\n⚠️ **Data Guard แจ้งเตือน:** %s\n_กรุณาตรวจสอบหรือลองถามใหม่อีกครั้งค่ะ_", reasons)
}
