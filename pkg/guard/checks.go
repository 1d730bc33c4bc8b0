package guard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ── isolation ────────────────────────────────────────────────────────────────

// Phrases suggesting content that reaches into another brand's data. The
// guard works per brand; nothing generated for one brand may pull from
// another.
var crossBrandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)clone\s+(the\s+)?competitor`),
	regexp.MustCompile(`(?i)copy\s+(another|other|their)\s+brand`),
	regexp.MustCompile(`(?i)(another|other)\s+brand'?s\s+(data|content|assets)`),
	regexp.MustCompile(`ข้อมูลของแบรนด์อื่น`),
	regexp.MustCompile(`ก๊อป(ปี้)?แบรนด์อื่น`),
	regexp.MustCompile(`เลียนแบบแบรนด์อื่น`),
}

// CheckIsolation fails with error severity when the brand context is missing
// an identifying id, or when the content matches a cross-brand access
// pattern. This is the only check that can single-handedly block a report.
func CheckIsolation(ctx *BrandContext, content string, _ *Options) CheckResult {
	if ctx == nil || strings.TrimSpace(ctx.BrandID) == "" {
		return CheckResult{
			Passed:     false,
			Severity:   SeverityError,
			Message:    "ไม่มี brand context — ไม่สามารถยืนยันความเป็นเจ้าของเนื้อหาได้",
			Suggestion: "เลือกแบรนด์ก่อนใช้งาน",
		}
	}
	for _, p := range crossBrandPatterns {
		if p.MatchString(content) {
			return CheckResult{
				Passed:     false,
				Severity:   SeverityError,
				Message:    "ตรวจพบการอ้างถึงข้อมูลของแบรนด์อื่น",
				Suggestion: "สร้างเนื้อหาจากข้อมูลแบรนด์ของตัวเองเท่านั้น",
			}
		}
	}
	return CheckResult{Passed: true, Message: "ผ่าน — เนื้อหาอยู่ในขอบเขตแบรนด์"}
}

// ── anti-copycat ─────────────────────────────────────────────────────────────

const (
	nearDuplicateThreshold  = 0.9
	highSimilarityThreshold = 0.7
)

// Painters with signature styles the product refuses to imitate by name.
var protectedArtists = []string{
	"picasso", "van gogh", "warhol", "banksy", "basquiat", "dali",
}

// Registered slogans that must never appear in generated content.
var trademarkSlogans = []*regexp.Regexp{
	regexp.MustCompile(`(?i)just do it`),
	regexp.MustCompile(`(?i)think different`),
	regexp.MustCompile(`(?i)i'm lovin' it`),
	regexp.MustCompile(`(?i)because you're worth it`),
	regexp.MustCompile(`(?i)open happiness`),
}

// CheckAntiCopycat scans for trademark slogans and protected artist styles,
// and compares the content against prior/original content when one is
// supplied. No original means only the pattern scans run.
func CheckAntiCopycat(ctx *BrandContext, content string, opts *Options) CheckResult {
	if opts != nil && strings.TrimSpace(opts.OriginalContent) != "" {
		sim := Similarity(content, opts.OriginalContent)
		switch {
		case sim > nearDuplicateThreshold:
			return CheckResult{
				Passed:     false,
				Severity:   SeverityError,
				Message:    fmt.Sprintf("ข้อความคล้ายต้นฉบับ %.0f%% — near-duplicate", sim*100),
				Suggestion: "Rephrase ให้แตกต่างจากต้นฉบับมากขึ้น",
			}
		case sim > highSimilarityThreshold:
			return CheckResult{
				Passed:     false,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("ความคล้ายกับต้นฉบับสูง (%.0f%%)", sim*100),
				Suggestion: "พิจารณาปรับบางส่วนให้ต่างออกไป",
			}
		}
	}

	for _, p := range trademarkSlogans {
		if match := p.FindString(content); match != "" {
			return CheckResult{
				Passed:     false,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("พบ trademark: %q", match),
				Suggestion: "เขียน slogan ใหม่ที่เป็นของแบรนด์เอง",
			}
		}
	}

	lower := strings.ToLower(content)
	for _, artist := range protectedArtists {
		if strings.Contains(lower, artist) {
			mood := "modern"
			if ctx != nil && len(ctx.MoodKeywords) > 0 {
				mood = strings.Join(ctx.MoodKeywords, ", ")
			}
			return CheckResult{
				Passed:     false,
				Severity:   SeverityWarning,
				Message:    fmt.Sprintf("อ้างถึงสไตล์ศิลปิน %q โดยตรง", artist),
				Suggestion: fmt.Sprintf("ใช้ mood keywords แทน: %q", mood),
			}
		}
	}

	return CheckResult{Passed: true, Message: "ผ่าน — เนื้อหาแตกต่างจากต้นฉบับเพียงพอ"}
}

// ── fact check ───────────────────────────────────────────────────────────────

// Unsourced-statistic shapes: bare growth percentages, revenue claims, and
// "research shows" phrasing.
var statClaimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d+(\.\d+)?\s*%\s*(increase|decrease|growth)`),
	regexp.MustCompile(`(?i)\$\s*\d+(\.\d+)?\s*[mkb]?\s*(revenue|sales|profit)`),
	regexp.MustCompile(`(?i)(study|studies|research)\s+(shows?|found|proves?|suggests?)`),
	regexp.MustCompile(`(เพิ่มขึ้น|ลดลง|เติบโต)\s*\d+(\.\d+)?\s*%`),
	regexp.MustCompile(`(ผลวิจัย|งานวิจัย|ผลการศึกษา)(ระบุ|พบ|ชี้)`),
}

// Hedge qualifiers that mark a number as an estimate rather than a claim.
var hedgeTerms = []string{
	"ประมาณการ", "ประมาณ", "คาดว่า", "ราวๆ", "โดยประมาณ",
	"estimate", "estimated", "approximately", "around", "roughly",
}

// CheckFactCheck warns on numeric claims that carry neither a source nor a
// hedge qualifier.
func CheckFactCheck(_ *BrandContext, content string, _ *Options) CheckResult {
	matched := false
	for _, p := range statClaimPatterns {
		if p.MatchString(content) {
			matched = true
			break
		}
	}
	if !matched {
		return CheckResult{Passed: true, Message: "ไม่พบตัวเลขที่ต้องตรวจสอบ"}
	}

	lower := strings.ToLower(content)
	for _, hedge := range hedgeTerms {
		if strings.Contains(lower, hedge) {
			return CheckResult{Passed: true, Message: "มีตัวเลขแต่ระบุว่าเป็นประมาณการแล้ว"}
		}
	}

	return CheckResult{
		Passed:     false,
		Severity:   SeverityWarning,
		Message:    "พบตัวเลข/สถิติที่ไม่มีแหล่งอ้างอิง",
		Suggestion: "เพิ่มแหล่งอ้างอิง หรือระบุให้ชัดว่าเป็นประมาณการ",
	}
}

// ── USP grounding ────────────────────────────────────────────────────────────

var (
	premiumSignals = []string{"premium", "luxury", "high-end", "พรีเมียม", "หรูหรา", "ไฮเอนด์"}
	cheapSignals   = []string{"cheapest", "cheap", "budget option", "ราคาถูกที่สุด", "ถูกที่สุด", "ลดกระหน่ำ"}
	ecoSignals     = []string{"sustainable", "eco-friendly", "eco", "green", "ยั่งยืน", "รักษ์โลก"}
	plasticSignals = []string{"disposable plastic", "single-use plastic", "พลาสติกใช้แล้วทิ้ง"}

	longContentRunes = 100
)

// CheckUSPGrounding verifies the content does not contradict the brand's
// declared positioning, and that long content stays anchored to at least one
// USP keyword. No declared USP skips the check entirely.
func CheckUSPGrounding(ctx *BrandContext, content string, _ *Options) CheckResult {
	if ctx == nil || strings.TrimSpace(ctx.CoreUSP) == "" {
		return CheckResult{Passed: true, Message: "ไม่มีข้อมูล USP — ข้ามการตรวจสอบ"}
	}

	usp := strings.ToLower(ctx.CoreUSP)
	lower := strings.ToLower(content)

	if containsAny(usp, premiumSignals) && containsAny(lower, cheapSignals) {
		return CheckResult{
			Passed:     false,
			Severity:   SeverityWarning,
			Message:    "Premium positioning conflict — แบรนด์วาง positioning หรู แต่เนื้อหาสื่อถึงของถูก",
			Suggestion: "ปรับข้อความให้สื่อคุณค่า ไม่ใช่ราคาถูก",
		}
	}

	if containsAny(usp, ecoSignals) && containsAny(lower, plasticSignals) {
		return CheckResult{
			Passed:     false,
			Severity:   SeverityWarning,
			Message:    "Environmental positioning conflict — แบรนด์ชูความยั่งยืน แต่เนื้อหาขัดแย้ง",
			Suggestion: "เลี่ยงการกล่าวถึงวัสดุใช้แล้วทิ้ง หรืออธิบายบริบทให้ชัด",
		}
	}

	keywords := uspKeywords(usp)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matches++
		}
	}
	if matches == 0 && utf8.RuneCountInString(content) > longContentRunes {
		return CheckResult{
			Passed:     false,
			Severity:   SeverityWarning,
			Message:    "ไม่พบ USP ของแบรนด์ในเนื้อหาเลย",
			Suggestion: "สอดแทรกจุดขายของแบรนด์อย่างน้อยหนึ่งจุด",
		}
	}

	return CheckResult{Passed: true, Message: "ผ่าน — เนื้อหาสอดคล้องกับ USP"}
}

func uspKeywords(usp string) []string {
	fields := strings.FieldsFunc(usp, func(r rune) bool {
		return r == ' ' || r == ',' || r == '/' || r == '|'
	})
	keywords := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			keywords = append(keywords, f)
		}
	}
	return keywords
}

// ── reference validation ─────────────────────────────────────────────────────

// Claims that call for a citation.
var citingClaimPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(data|statistics|figures|numbers)\s+(shows?|indicates?|reveals?)`),
	regexp.MustCompile(`(?i)according\s+to`),
	regexp.MustCompile(`(?i)market\s+data`),
	regexp.MustCompile(`ข้อมูลจาก`),
	regexp.MustCompile(`ผลสำรวจ(ระบุ|พบ|ชี้)?`),
	regexp.MustCompile(`สถิติ(ระบุ|พบ|ชี้)`),
}

var citationMarker = regexp.MustCompile(`\[(source|ที่มา):[^\]]+\]`)

// CheckReferenceValidation passes trivially for content making no claims
// that need a citation; otherwise it requires either an inline citation
// marker or a supplied references list.
func CheckReferenceValidation(_ *BrandContext, content string, opts *Options) CheckResult {
	cites := false
	for _, p := range citingClaimPatterns {
		if p.MatchString(content) {
			cites = true
			break
		}
	}
	if !cites {
		return CheckResult{Passed: true, Message: "ไม่มีการอ้างอิงข้อมูลที่ต้องตรวจสอบ"}
	}

	if citationMarker.MatchString(content) {
		return CheckResult{Passed: true, Message: "มี citation marker ครบ"}
	}
	if opts != nil && len(opts.References) > 0 {
		return CheckResult{Passed: true, Message: "มี references แนบมาด้วย"}
	}

	return CheckResult{
		Passed:     false,
		Severity:   SeverityWarning,
		Message:    "อ้างอิงข้อมูลแต่ไม่ระบุแหล่งที่มา",
		Suggestion: "เพิ่ม [source: ...] หรือแนบรายการอ้างอิง",
	}
}

// ── consistency ──────────────────────────────────────────────────────────────

var (
	formalToneSignals = []string{"professional", "formal", "ทางการ", "สุภาพ", "น่าเชื่อถือ"}
	slangMarkers      = []string{"555", "โคตร", "เว้ยยย", "เว้ย", "แม่งง", "lol", "lmao", "wtf"}
)

// CheckConsistency is a coarse tone heuristic: a formal tone-of-voice with
// slang in the content earns a warning. It can never hard-fail a report.
func CheckConsistency(ctx *BrandContext, content string, _ *Options) CheckResult {
	if ctx == nil || strings.TrimSpace(ctx.ToneOfVoice) == "" {
		return CheckResult{Passed: true, Message: "ไม่มีข้อมูลโทนเสียง — ข้ามการตรวจสอบ"}
	}

	tone := strings.ToLower(ctx.ToneOfVoice)
	if containsAny(tone, formalToneSignals) {
		lower := strings.ToLower(content)
		for _, slang := range slangMarkers {
			if strings.Contains(lower, slang) {
				return CheckResult{
					Passed:     false,
					Severity:   SeverityWarning,
					Message:    fmt.Sprintf("โทนแบรนด์เป็นทางการ แต่พบคำ %q ในเนื้อหา", slang),
					Suggestion: "ปรับภาษาให้เข้ากับโทนเสียงของแบรนด์",
				}
			}
		}
	}

	return CheckResult{Passed: true, Message: "ผ่าน — โทนเนื้อหาสอดคล้องกับแบรนด์"}
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
