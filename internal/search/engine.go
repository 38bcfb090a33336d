// Package search implements free-text search over a corpus of digitized
// contracts: corpus filtering with context-bounded snippets, full-document
// preview highlighting, and sentence-level matching.
//
// Queries are always literal substrings. Every entry point escapes the query
// before matching, so regex metacharacters in user input have no special
// meaning, and the query is never treated as markup.
package search

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/docuviet/hopdong/internal/domain"
)

// Fixed windows and caps, observable behavior per the snippet format.
const (
	// SnippetWindow is the rune context kept on each side of a corpus match.
	SnippetWindow = 80
	// SentenceMatchCap bounds sentence-level results per document.
	SentenceMatchCap = 20
	// unitsPerPage converts a sentence-unit index into a coarse page estimate.
	unitsPerPage = 10

	ellipsis = "..."
)

// sentenceSplitRe cuts text into sentence-like units at terminal punctuation
// followed by whitespace, or at blank-line boundaries.
var sentenceSplitRe = regexp.MustCompile(`[.!?]\s+|\n\s*\n`)

// Doc identifies one corpus entry. The raw text is not carried here: it is
// fetched lazily through a TextReader only when the query requires it.
type Doc struct {
	ID        int64
	Filename  string
	Type      string
	TypeLabel string
}

// TextReader loads a contract's stored raw text. A read error makes that
// document contribute no match; it never aborts the corpus scan.
type TextReader interface {
	ContractText(ctx context.Context, id int64) (string, error)
}

// queryPattern compiles a case-insensitive literal matcher for q.
// QuoteMeta guarantees the pattern is valid, so compilation cannot fail.
func queryPattern(q string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + regexp.QuoteMeta(q))
}

// FilterCorpus scans every document in corpus order. Documents whose type
// differs from a non-empty typeFilter are skipped. With an empty query every
// remaining document matches with an empty snippet; otherwise only documents
// whose text contains the literal query are returned, each with an escaped,
// ellipsis-bounded snippet around the first occurrence. Result order is
// corpus order.
func FilterCorpus(
	ctx context.Context, corpus []Doc, texts TextReader, query, typeFilter string,
) []domain.SummaryMatch {
	results := make([]domain.SummaryMatch, 0, len(corpus))

	var pattern *regexp.Regexp
	if query != "" {
		pattern = queryPattern(query)
	}

	for _, doc := range corpus {
		if typeFilter != "" && doc.Type != typeFilter {
			continue
		}

		snippet := ""
		if pattern != nil {
			text, err := texts.ContractText(ctx, doc.ID)
			if err != nil {
				continue
			}
			var found bool
			snippet, found = firstSnippet(text, pattern)
			if !found {
				continue
			}
		}

		results = append(results, domain.SummaryMatch{
			ContractID: doc.ID,
			Filename:   doc.Filename,
			Snippet:    snippet,
			Type:       doc.Type,
			TypeLabel:  doc.TypeLabel,
		})
	}
	return results
}

// firstSnippet finds the first pattern occurrence in text and returns the
// surrounding context: SnippetWindow runes on each side, clipped to the text
// bounds, HTML-escaped, with an ellipsis marker only on sides that were
// actually clipped.
func firstSnippet(text string, pattern *regexp.Regexp) (string, bool) {
	loc := pattern.FindStringIndex(text)
	if loc == nil {
		return "", false
	}

	runes := []rune(text)
	matchStart := len([]rune(text[:loc[0]]))
	matchEnd := matchStart + len([]rune(text[loc[0]:loc[1]]))

	start := matchStart - SnippetWindow
	if start < 0 {
		start = 0
	}
	end := matchEnd + SnippetWindow
	if end > len(runes) {
		end = len(runes)
	}

	snippet := html.EscapeString(string(runes[start:end]))
	if start > 0 {
		snippet = ellipsis + snippet
	}
	if end < len(runes) {
		snippet += ellipsis
	}
	return snippet, true
}

// Preview escapes the full raw text for markup embedding and, when query is
// non-empty, wraps every case-insensitive literal occurrence in <mark>
// markers. Highlighting runs over the already-escaped text and leaves the
// matched span untouched, so nothing is escaped twice.
func Preview(text, query string) string {
	escaped := html.EscapeString(text)
	if query == "" {
		return escaped
	}
	return queryPattern(query).ReplaceAllStringFunc(escaped, func(m string) string {
		return "<mark>" + m + "</mark>"
	})
}

// SentenceSearch splits text into sentence-like units and returns a match
// for each unit containing the literal query, capped at SentenceMatchCap.
// The match context joins the previous unit, the unit itself and the next
// unit; confidence is 1.0 when the trimmed unit equals the query
// case-insensitively, 0.8 otherwise; the page estimate is a coarse linear
// proxy over unit position. An empty query yields no matches.
func SentenceSearch(text, query string) []domain.SentenceMatch {
	if text == "" || query == "" {
		return nil
	}

	units := sentenceSplitRe.Split(text, -1)
	queryLower := strings.ToLower(query)

	var matches []domain.SentenceMatch
	for i, unit := range units {
		if !strings.Contains(strings.ToLower(unit), queryLower) {
			continue
		}

		confidence := 0.8
		if strings.ToLower(strings.TrimSpace(unit)) == queryLower {
			confidence = 1.0
		}

		lo := i - 1
		if lo < 0 {
			lo = 0
		}
		hi := i + 2
		if hi > len(units) {
			hi = len(units)
		}

		matches = append(matches, domain.SentenceMatch{
			Context:    strings.TrimSpace(strings.Join(units[lo:hi], " ")),
			Page:       i/unitsPerPage + 1,
			Confidence: confidence,
		})
		if len(matches) == SentenceMatchCap {
			break
		}
	}
	return matches
}
