package multipart

import "bytes"

// matchKind classifies what matcher.scan found starting from a given
// offset.
type matchKind int

const (
	// matchNone means no delimiter candidate remains in the scanned
	// range (any CR found was refuted as a delimiter start): the whole
	// range is safe to treat as body/preamble bytes.
	matchNone matchKind = iota
	// matchNeedMore means a delimiter-looking prefix was found but the
	// buffer ended before it could be confirmed or refuted. The caller
	// must retain bytes from DelimStart onward and wait for more input.
	matchNeedMore
	// matchClose means a full "CRLF--boundary--" close-delimiter matched.
	matchClose
	// matchNext means a full "CRLF--boundary CRLF" delimiter matched,
	// starting the next part's header block.
	matchNext
	// matchOther means a full "CRLF--boundary" token matched but the
	// bytes following it are neither "--" nor CRLF. Interpretation is
	// context-dependent: tolerated (ignored, resume scanning) in
	// PREAMBLE, fatal (InvalidLineBreakAfterDelimiter) in BODY.
	matchOther
)

// matchResult is the outcome of one matcher.scan call.
type matchResult struct {
	Kind matchKind
	// DelimStart is the offset of the CR that begins the candidate
	// delimiter. For matchNone it equals the end of the scanned range.
	DelimStart int
	// End is the offset just past the consumed delimiter, valid for
	// matchClose and matchNext only.
	End int
}

// matcher recognizes the wire-level delimiter CRLF "--" boundary (with
// its optional close-delimiter or next-part suffix) across arbitrary
// buffer splits. It holds no mutable state of its own; callers resume a
// suspended scan by scanning again from the reported DelimStart once more
// bytes have arrived.
type matcher struct {
	boundary []byte
}

func newMatcher(boundary []byte) *matcher {
	return &matcher{boundary: boundary}
}

// scan implements the two-phase algorithm of the boundary matcher: search
// for a CR, then verify the following bytes spell out LF "--" boundary
// and inspect the two bytes after that to discriminate close-delimiter,
// next-part delimiter, or a false match. When verification of the CR LF
// "--" boundary prefix fails it backs up to one byte past the failed CR
// and resumes searching, exactly as a single scan would if restarted from
// there. A full token followed by anything else is returned as matchOther
// without resuming; the caller decides what to do with it.
func (m *matcher) scan(buf []byte, start int) matchResult {
	n := len(buf)
	i := start
	for i < n {
		if buf[i] != '\r' {
			i++
			continue
		}
		crAt := i
		j := i + 1

		if j >= n {
			return matchResult{Kind: matchNeedMore, DelimStart: crAt}
		}
		if buf[j] != '\n' {
			i = crAt + 1
			continue
		}
		j++

		if j >= n {
			return matchResult{Kind: matchNeedMore, DelimStart: crAt}
		}
		if buf[j] != '-' {
			i = crAt + 1
			continue
		}
		j++

		if j >= n {
			return matchResult{Kind: matchNeedMore, DelimStart: crAt}
		}
		if buf[j] != '-' {
			i = crAt + 1
			continue
		}
		j++

		// Boundary-token comparison is exact, not case-folded: a
		// case-mismatched token is refuted here like any other mismatch
		// and scanning resumes, so in PREAMBLE it is simply discarded
		// with the rest of the preamble. Only a byte-exact token is ever
		// a real delimiter candidate.
		blen := len(m.boundary)
		if j+blen > n {
			avail := n - j
			if avail > 0 && !bytes.Equal(buf[j:n], m.boundary[:avail]) {
				i = crAt + 1
				continue
			}
			return matchResult{Kind: matchNeedMore, DelimStart: crAt}
		}
		if !bytes.Equal(buf[j:j+blen], m.boundary) {
			i = crAt + 1
			continue
		}
		j += blen

		kind, end := resolveAfter(buf, j)
		if kind == matchNeedMore {
			return matchResult{Kind: matchNeedMore, DelimStart: crAt}
		}
		if kind == matchOther {
			// false alarm or fatal; caller decides which based on
			// context. Either way scanning (if resumed) continues past
			// this CR.
			return matchResult{Kind: matchOther, DelimStart: crAt, End: j}
		}
		return matchResult{Kind: kind, DelimStart: crAt, End: end}
	}
	return matchResult{Kind: matchNone, DelimStart: n, End: n}
}

// resolveAfter inspects the bytes immediately following a fully matched
// "CRLF--boundary" token at offset j and decides whether they form a
// close-delimiter ("--"), a next-part delimiter (CRLF), are ambiguous
// because the buffer ran out (a lone trailing '-' or '\r' might still
// complete once more bytes arrive), or are neither.
func resolveAfter(buf []byte, j int) (matchKind, int) {
	n := len(buf)
	avail := n - j
	if avail == 0 {
		return matchNeedMore, j
	}
	switch buf[j] {
	case '-':
		if avail == 1 {
			return matchNeedMore, j
		}
		if buf[j+1] == '-' {
			return matchClose, j + 2
		}
		return matchOther, j
	case '\r':
		if avail == 1 {
			return matchNeedMore, j
		}
		if buf[j+1] == '\n' {
			return matchNext, j + 2
		}
		return matchOther, j
	default:
		return matchOther, j
	}
}
