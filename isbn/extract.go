package isbn

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var urlRE, candidateRE *regexp.Regexp

func init() {
	urlRE = regexp.MustCompile(`https?://[^\s<>"{}|\\^` + "`" + `\[\]]+`)
	candidateRE = regexp.MustCompile(`\d[\d\-\s]{8,16}[\dXx]\b`)
}

// A Candidate is a span of text that looks like an ISBN, before any
// checksum validation.
type Candidate struct {
	// Raw is the matched span with separators intact.
	Raw string
	// Normalized is the canonical form of Raw.
	Normalized string
	// Context is the text surrounding the match.
	Context string
}

// FindCandidates scans article text for ISBN-shaped tokens.
//
// URLs are blanked out first so digit runs inside them never match.
// A run of digits with optional hyphen/space separators qualifies
// only when it normalizes to exactly 10 or 13 characters and the
// literal "isbn" appears within proximity characters before it.
// Matches are non-overlapping, left to right; the marker is only ever
// searched for backward from the match.
func FindCandidates(text string, contextChars, proximity int) []Candidate {
	stripped := urlRE.ReplaceAllString(text, " ")

	var rv []Candidate
	pos := 0
	for pos < len(stripped) {
		loc := candidateRE.FindStringIndex(stripped[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]

		// No starting in the middle of a longer number.
		if start > 0 && isDigit(stripped[start-1]) {
			pos = start + 1
			continue
		}
		pos = end

		raw := stripped[start:end]
		norm := Normalize(raw)
		ok := false
		switch len(norm) {
		case 10:
			ok = allDigits(norm[:9]) && (isDigit(norm[9]) || norm[9] == 'X')
		case 13:
			ok = allDigits(norm)
		}
		if !ok || !markerNearby(stripped, start, proximity) {
			continue
		}

		rv = append(rv, Candidate{
			Raw:        raw,
			Normalized: norm,
			Context:    contextAround(stripped, start, end, contextChars),
		})
	}

	return rv
}

// markerNearby reports whether "isbn" ends within maxDistance
// characters before the match start. The search window reaches an
// extra four characters back to cover the marker itself.
func markerNearby(text string, start, maxDistance int) bool {
	from := start - maxDistance - 4
	if from < 0 {
		from = 0
	}
	window := strings.ToLower(text[from:start])
	i := strings.LastIndex(window, "isbn")
	if i < 0 {
		return false
	}
	return len(window)-i-4 <= maxDistance
}

func contextAround(text string, start, end, n int) string {
	s := start - n
	if s < 0 {
		s = 0
	}
	e := end + n
	if e > len(text) {
		e = len(text)
	}
	for s < start && !utf8.RuneStart(text[s]) {
		s++
	}
	for e > end && e < len(text) && !utf8.RuneStart(text[e]) {
		e--
	}
	return strings.TrimSpace(text[s:e])
}
