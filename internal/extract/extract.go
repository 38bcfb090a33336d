// Package extract derives a structured ContractRecord from the recognized
// text of a contract document using layout-agnostic heuristics.
//
// Extract is a total function: OCR noise, missing sections or an empty input
// never produce an error, only absent fields. All patterns are
// case-insensitive and tolerate Vietnamese diacritics written either
// precomposed ("HỢP ĐỒNG"), stripped ("HOP DONG") or with whitespace pushed
// between letters by the recognizer ("H Ợ P Đ Ồ N G").
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/docuviet/hopdong/internal/domain"
)

// Fixed scan windows and caps. These are observable behavior, not tuning
// knobs, so they live here rather than in runtime configuration.
const (
	// TitleScanLines is how many leading non-blank lines are examined for a heading.
	TitleScanLines = 20
	// TypeScanLines is how many leading non-blank lines feed type classification.
	TypeScanLines = 60
	// PartyWindow is the rune window captured after a party label match.
	PartyWindow = 1000
	// SignatureWindow is the rune distance within which a signature keyword
	// counts as belonging to a party label.
	SignatureWindow = 120
	// ClauseCap bounds the extracted clause list.
	ClauseCap = 50
)

var (
	titleRe = regexp.MustCompile(`(?i)\bH\s*Ợ\s*P\s*Đ\s*Ồ\s*N\s*G\b|HOP DONG|HỢP ĐỒNG`)

	dateLongRe  = regexp.MustCompile(`(?i)ngày\s+(\d{1,2})\s+tháng\s+(\d{1,2})\s+năm\s+(\d{4})`)
	dateShortRe = regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{4})\b`)

	amountLabelRe = regexp.MustCompile(`(?i)Giá\s*trị\s*hợp\s*đồng|Tổng\s*giá\s*trị`)
	// amountLabeledRe matches a grouped-digit number with optional currency
	// suffix on a labeled line. Group separators are "." or ",".
	amountLabeledRe   = regexp.MustCompile(`([0-9]{1,3}(?:[\.,][0-9]{3})*(?:[\.,][0-9]+)?)(\s*(VNĐ|VND|đ|đồng))?`)
	amountCandidateRe = regexp.MustCompile(`[0-9]{1,3}(?:[\.,][0-9]{3})+(?:[\.,][0-9]+)?\s*(?:VNĐ|VND|đ|đồng)?`)

	clauseRe = regexp.MustCompile(`(?im)^[ \t]*(Điều\s+\d+[^\n]*)`)

	digitRe = regexp.MustCompile(`[0-9]`)
)

// partyRules are searched independently; each role may or may not be present.
var partyRules = []struct {
	role    string
	pattern *regexp.Regexp
}{
	{domain.RolePartyA, regexp.MustCompile(`(?i)B\s*Ê\s*N\s*A\b|Bên\s*A\b|Ben\s*A\b`)},
	{domain.RolePartyB, regexp.MustCompile(`(?i)B\s*Ê\s*N\s*B\b|Bên\s*B\b|Ben\s*B\b`)},
	{domain.RoleBuyer, regexp.MustCompile(`(?i)Bên\s*Mua\b|Ben\s*Mua\b`)},
	{domain.RoleSeller, regexp.MustCompile(`(?i)Bên\s*Bán\b|Ben\s*Ban\b`)},
}

const signWords = `Đại\s*diện|Dai\s*dien|Ký\s*tên|Ky\s*ten|Chữ\s*ký|Chu\s*ky|Đóng\s*dấu|Dong\s*dau`

var (
	signWordRe = regexp.MustCompile(`(?i)` + signWords)

	// Proximity patterns: a signature keyword within SignatureWindow runes of a
	// party label, in either direction, across line breaks.
	signNearARe = proximityPattern(`BÊN\s*A|Bên\s*A|Ben\s*A`)
	signNearBRe = proximityPattern(`BÊN\s*B|Bên\s*B|Ben\s*B`)
)

func proximityPattern(party string) *regexp.Regexp {
	window := strconv.Itoa(SignatureWindow)
	return regexp.MustCompile(
		`(?is)(?:` + signWords + `).{0,` + window + `}(?:` + party + `)` +
			`|(?:` + party + `).{0,` + window + `}(?:` + signWords + `)`,
	)
}

// Extract runs every extraction rule over text and assembles the record.
// It never fails; a rule that matches nothing leaves its field absent.
// Calling it twice on the same text yields identical records.
func Extract(text string) domain.ContractRecord {
	tag, label := classifyType(text)
	return domain.ContractRecord{
		Title:         extractTitle(text),
		Type:          tag,
		TypeLabel:     label,
		Parties:       extractParties(text),
		EffectiveDate: extractEffectiveDate(text),
		Amount:        extractAmount(text),
		Clauses:       extractClauses(text),
		Signatures:    extractSignatures(text),
	}
}

// nonBlankLines returns trimmed non-empty lines, at most limit of them.
func nonBlankLines(text string, limit int) []string {
	lines := make([]string, 0, limit)
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lines = append(lines, trimmed)
		if len(lines) == limit {
			break
		}
	}
	return lines
}

func extractTitle(text string) *string {
	for _, line := range nonBlankLines(text, TitleScanLines) {
		if titleRe.MatchString(line) {
			return &line
		}
	}
	return nil
}

func classifyType(text string) (tag, label string) {
	head := strings.ToUpper(strings.Join(nonBlankLines(text, TypeScanLines), "\n"))
	for _, rule := range typeRules {
		if rule.pattern.MatchString(head) {
			return rule.tag, rule.label
		}
	}
	return TypeOther, TypeOtherLabel
}

func extractParties(text string) map[string]string {
	parties := make(map[string]string)
	for _, rule := range partyRules {
		loc := rule.pattern.FindStringIndex(text)
		if loc == nil {
			continue
		}
		window := runeWindow(text[loc[0]:], PartyWindow)
		block, _, _ := strings.Cut(window, "\n\n")
		parties[rule.role] = strings.TrimSpace(block)
	}
	if len(parties) == 0 {
		return nil
	}
	return parties
}

func extractEffectiveDate(text string) *string {
	if m := dateLongRe.FindString(text); m != "" {
		return &m
	}
	if m := dateShortRe.FindStringSubmatch(text); m != nil {
		return &m[1]
	}
	return nil
}

// extractAmount prefers a number on a line carrying a contract-value label.
// Without a labeled line it falls back to the grouped-digit candidate with
// the most digit characters anywhere in the text, first one winning ties.
// Counting digits is a proxy for magnitude that mis-orders values with
// differing separators or decimal parts; that behavior is kept as is.
func extractAmount(text string) *string {
	for _, line := range strings.Split(text, "\n") {
		if !amountLabelRe.MatchString(line) {
			continue
		}
		if m := amountLabeledRe.FindString(line); m != "" {
			return &m
		}
	}

	candidates := amountCandidateRe.FindAllString(text, -1)
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	bestDigits := len(digitRe.FindAllString(best, -1))
	for _, c := range candidates[1:] {
		if d := len(digitRe.FindAllString(c, -1)); d > bestDigits {
			best, bestDigits = c, d
		}
	}
	return &best
}

func extractClauses(text string) []string {
	matches := clauseRe.FindAllStringSubmatch(text, ClauseCap)
	if len(matches) == 0 {
		return nil
	}
	clauses := make([]string, 0, len(matches))
	for _, m := range matches {
		clauses = append(clauses, m[1])
	}
	return clauses
}

func extractSignatures(text string) domain.Signatures {
	return domain.Signatures{
		PartyAPresent: signNearARe.MatchString(text),
		PartyBPresent: signNearBRe.MatchString(text),
		AnyMention:    signWordRe.MatchString(text),
	}
}

// runeWindow returns the first n runes of s (all of s when shorter).
func runeWindow(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
