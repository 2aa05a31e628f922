package multipart

import "bytes"

// Option configures a Parser at construction time, following the
// functional-options convention used elsewhere in the pack for
// incremental parsers.
type Option func(*Parser)

// WithMaxHeaderBytes bounds how many bytes of an unterminated header
// block a single part may accumulate before Parse fails with a
// HeaderTooLong error. A limit of 0 (the default) means unbounded. This
// guards against a producer that never sends the header-terminating
// CRLF; it is an ambient safety concern, not part size/count quota
// enforcement, which remains the caller's responsibility.
func WithMaxHeaderBytes(n int) Option {
	return func(p *Parser) { p.maxHeaderBytes = n }
}

// Parser is an incremental multipart/form-data parser. Feed it bytes
// with Parse as they arrive and drain the resulting events with
// NextEvent, or wrap it in an Aggregator to collect whole parts. A
// Parser is not safe for concurrent use by multiple goroutines.
type Parser struct {
	boundary []byte
	matcher  *matcher

	state State
	buf   []byte
	pos   int

	bareChecked bool

	haveContentDisposition bool
	headerBytes            int
	maxHeaderBytes         int

	// bodyBuf accumulates the current part's body across every Parse call
	// that contributes to it. It is flushed as a single EventBody right
	// before EventPartEnd, so the event stream never depends on where the
	// caller happened to split the input (see flushBody).
	bodyBuf []byte

	events []Event
	evHead int

	err error
}

// NewParser constructs a Parser for the given boundary token. It fails
// with ErrInvalidBoundary when the boundary is shorter than 1 byte or
// longer than 70 bytes, per RFC 2046 §5.1.1.
func NewParser(boundary []byte, opts ...Option) (*Parser, error) {
	if len(boundary) < 1 || len(boundary) > 70 {
		return nil, ErrInvalidBoundary
	}
	b := make([]byte, len(boundary))
	copy(b, boundary)

	p := &Parser{
		boundary: b,
		matcher:  newMatcher(b),
		state:    StatePreamble,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// State returns the parser's current position in the framing grammar.
func (p *Parser) State() State {
	return p.state
}

// Parse feeds chunk to the parser, advancing its state and enqueuing any
// resulting events. It is idempotent once State() == StateEnd: further
// calls are no-ops. If a prior Parse call returned an error, the parser
// is considered poisoned and this call returns that same error without
// processing chunk.
func (p *Parser) Parse(chunk []byte) error {
	if p.err != nil {
		return p.err
	}
	if p.state == StateEnd {
		return nil
	}
	if len(chunk) > 0 {
		p.buf = append(p.buf, chunk...)
	}

	for p.err == nil && p.state != StateEnd {
		var blocked bool
		switch p.state {
		case StatePreamble:
			blocked = p.stepPreamble()
		case StateHeader:
			blocked = p.stepHeader()
		case StateBody:
			blocked = p.stepBody()
		default:
			blocked = true
		}
		if blocked {
			break
		}
	}

	p.compact()
	return p.err
}

// NextEvent pops the oldest unconsumed event, or reports false if none
// is available yet.
func (p *Parser) NextEvent() (Event, bool) {
	if p.evHead >= len(p.events) {
		return Event{}, false
	}
	e := p.events[p.evHead]
	p.evHead++
	if p.evHead == len(p.events) {
		p.events = p.events[:0]
		p.evHead = 0
	}
	return e, true
}

// PeekEvent reports the oldest unconsumed event without removing it.
func (p *Parser) PeekEvent() (Event, bool) {
	if p.evHead >= len(p.events) {
		return Event{}, false
	}
	return p.events[p.evHead], true
}

func (p *Parser) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Parser) enqueue(e Event) {
	p.events = append(p.events, e)
}

// flushBody enqueues the current part's accumulated body as a single
// EventBody, if it's non-empty, and resets the accumulator. Called
// immediately before EventPartEnd so a part's body always reaches the
// event stream in exactly one piece, however many Parse calls or matcher
// suspensions it took to collect it.
func (p *Parser) flushBody() {
	if len(p.bodyBuf) == 0 {
		return
	}
	p.enqueue(Event{Kind: EventBody, Data: p.bodyBuf})
	p.bodyBuf = nil
}

// beginPart resets the per-part header- and body-tracking state. Called
// both when the first delimiter is matched (entering the first part) and
// at every subsequent BODY->HEADER transition.
func (p *Parser) beginPart() {
	p.haveContentDisposition = false
	p.headerBytes = 0
	p.bodyBuf = nil
}

// compact drops already-consumed bytes from the front of buf so it
// doesn't grow without bound across many Parse calls.
func (p *Parser) compact() {
	if p.pos == 0 {
		return
	}
	n := copy(p.buf, p.buf[p.pos:])
	p.buf = p.buf[:n]
	p.pos = 0
}

// stepPreamble advances through PREAMBLE, discarding bytes up to the
// first recognized delimiter. It returns true when no further progress
// is possible without more input.
func (p *Parser) stepPreamble() bool {
	if !p.bareChecked {
		resolved, blocked := p.tryBareStart()
		if blocked {
			return true
		}
		p.bareChecked = true
		if resolved {
			return false
		}
	}

	res := p.matcher.scan(p.buf, p.pos)
	switch res.Kind {
	case matchNone, matchNeedMore:
		p.pos = res.DelimStart
		return true
	case matchOther:
		// Tolerated: boundary-looking garbage in the preamble is not an
		// error (RFC 2046 §5.1.1 lenience). Resume scanning past the CR
		// that triggered this candidate.
		p.pos = res.DelimStart + 1
		return false
	case matchClose:
		p.pos = res.End
		p.state = StateEnd
		return false
	case matchNext:
		p.pos = res.End
		p.beginPart()
		p.state = StateHeader
		return false
	}
	return true
}

// tryBareStart checks for an unprefixed "--boundary" delimiter at the
// very start of input, which RFC 2046 permits when the preamble is
// empty (the ordinary delimiter otherwise always carries a leading
// CRLF, which is what matcher.scan searches for). It only ever applies
// at the logical start of the whole input, before any byte has been
// consumed.
func (p *Parser) tryBareStart() (resolved, blocked bool) {
	if p.pos != 0 {
		return false, false
	}
	n := len(p.buf)
	if n == 0 {
		return false, true
	}
	if p.buf[0] != '-' {
		return false, false
	}
	need := 2 + len(p.boundary)
	if n < need {
		if n >= 2 && p.buf[1] != '-' {
			return false, false
		}
		if n > 2 && !bytes.Equal(p.buf[2:n], p.boundary[:n-2]) {
			return false, false
		}
		return false, true
	}
	if p.buf[1] != '-' || !bytes.Equal(p.buf[2:need], p.boundary) {
		return false, false
	}

	kind, end := resolveAfter(p.buf, need)
	switch kind {
	case matchNeedMore:
		return false, true
	case matchClose:
		p.pos = end
		p.state = StateEnd
		return true, false
	case matchNext:
		p.pos = end
		p.beginPart()
		p.state = StateHeader
		return true, false
	default: // matchOther: tolerated, same as elsewhere in PREAMBLE
		return false, false
	}
}

// stepHeader scans as many complete header lines as are available,
// emitting an EventHeader for each, until it hits the header block's
// terminating blank line (transitioning to BODY) or runs out of input.
func (p *Parser) stepHeader() bool {
	for {
		name, value, next, blank, status := scanHeaderLine(p.buf, p.pos)
		switch status {
		case headerNeedMore:
			pending := len(p.buf) - p.pos
			if p.maxHeaderBytes > 0 && p.headerBytes+pending > p.maxHeaderBytes {
				p.fail(errHeaderTooLong(p.maxHeaderBytes))
			}
			return true
		case headerMalformed:
			p.fail(ErrMalformedHeader)
			return true
		}

		consumed := next - p.pos
		p.pos = next
		p.headerBytes += consumed
		if p.maxHeaderBytes > 0 && p.headerBytes > p.maxHeaderBytes {
			p.fail(errHeaderTooLong(p.maxHeaderBytes))
			return true
		}

		if blank {
			if !p.haveContentDisposition {
				p.fail(ErrMissingContentDisposition)
				return true
			}
			p.state = StateBody
			return false
		}

		if name == "content-disposition" {
			p.haveContentDisposition = true
		}
		p.enqueue(Event{Kind: EventHeader, Name: name, Value: value})
	}
}

// stepBody advances through BODY, accumulating confirmed-safe body bytes
// into bodyBuf and watching for the next delimiter or close-delimiter.
// Bytes are never enqueued as events here directly: flushBody emits the
// whole accumulated body in one EventBody once the part's end is known,
// which is what keeps the event stream chunk-independent (see
// flushBody's comment).
func (p *Parser) stepBody() bool {
	res := p.matcher.scan(p.buf, p.pos)
	switch res.Kind {
	case matchNone, matchNeedMore:
		if res.DelimStart > p.pos {
			p.bodyBuf = append(p.bodyBuf, p.buf[p.pos:res.DelimStart]...)
		}
		p.pos = res.DelimStart
		return true
	case matchOther:
		p.fail(ErrInvalidLineBreakAfterDelimiter)
		return true
	case matchClose:
		if res.DelimStart > p.pos {
			p.bodyBuf = append(p.bodyBuf, p.buf[p.pos:res.DelimStart]...)
		}
		p.pos = res.End
		p.flushBody()
		p.enqueue(Event{Kind: EventPartEnd})
		p.state = StateEnd
		return false
	case matchNext:
		if res.DelimStart > p.pos {
			p.bodyBuf = append(p.bodyBuf, p.buf[p.pos:res.DelimStart]...)
		}
		p.pos = res.End
		p.flushBody()
		p.enqueue(Event{Kind: EventPartEnd})
		p.beginPart()
		p.state = StateHeader
		return false
	}
	return true
}

