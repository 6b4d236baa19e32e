package parser

import "strings"

// Line terminator for paragraph and line-start detection.
const newline = '\n'

type matchKind int

const (
	noMatch matchKind = iota
	bulletMatch
	codeMatch
)

// match is one marker occurrence in a segment. start and end bound the
// marker itself, not the element it introduces.
type match struct {
	kind   matchKind
	start  int
	end    int
	marker string
}

// atLineStart reports whether i is at the start of s or just after a line
// terminator. Positions are relative to s, so the start of any segment counts.
func atLineStart(s string, i int) bool {
	return i == 0 || s[i-1] == newline
}

// paragraphEnd returns the position just after the first line terminator at or
// after from, or len(s) when there is none.
func paragraphEnd(s string, from int) int {
	if i := strings.IndexByte(s[from:], newline); i >= 0 {
		return from + i + 1
	}
	return len(s)
}

// nextLineMarker finds the leftmost position at or after from that starts a
// line and begins with one of markers. Earlier markers win at the same position.
func nextLineMarker(s string, from int, markers []string) (int, string) {
	i := from
	for i <= len(s) {
		if atLineStart(s, i) {
			for _, m := range markers {
				if strings.HasPrefix(s[i:], m) {
					return i, m
				}
			}
		}
		nl := strings.IndexByte(s[i:], newline)
		if nl < 0 {
			break
		}
		i += nl + 1
	}
	return -1, ""
}

// Cached positions in an inlineScanner.
const (
	absent    = -1
	unscanned = -2
)

// inlineScanner yields the bullet and code markers of one segment in order.
// It remembers the next bullet and the next code delimiter it has seen and
// only searches again once the cursor has moved past them, so a full pass
// over a segment reads each byte a bounded number of times.
type inlineScanner struct {
	p            *MarkdownParser
	s            string
	bullet       int
	bulletMarker string
	code         int
}

func (p *MarkdownParser) newInlineScanner(s string) *inlineScanner {
	return &inlineScanner{p: p, s: s, bullet: unscanned, code: unscanned}
}

// next returns the leftmost bullet or code marker at or after from. from must
// not decrease between calls. A bullet and a code marker at the same position
// resolve to the bullet.
func (sc *inlineScanner) next(from int) match {
	if sc.bullet != absent && sc.bullet < from {
		sc.bullet, sc.bulletMarker = nextLineMarker(sc.s, from, sc.p.cfg.BulletMarkers)
	}
	if sc.code != absent && sc.code < from {
		sc.code = absent
		if i := strings.IndexByte(sc.s[from:], sc.p.cfg.CodeDelimiter); i >= 0 {
			sc.code = from + i
		}
	}

	switch {
	case sc.bullet >= 0 && (sc.code < 0 || sc.bullet <= sc.code):
		return match{kind: bulletMatch, start: sc.bullet, end: sc.bullet + len(sc.bulletMarker), marker: sc.bulletMarker}
	case sc.code >= 0:
		return match{kind: codeMatch, start: sc.code, end: sc.code + 1, marker: sc.p.code}
	}
	return match{kind: noMatch, start: absent}
}
