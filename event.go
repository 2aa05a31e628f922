package multipart

// EventKind discriminates the variants of Event.
type EventKind int

const (
	// EventHeader carries one lowercased header name/value pair
	// belonging to the current part.
	EventHeader EventKind = iota
	// EventBody carries a part's entire body in one piece. Exactly one
	// EventBody is emitted per non-empty part, immediately before
	// EventPartEnd, regardless of how many Parse calls or matcher
	// suspensions it took to accumulate — this keeps the event sequence
	// independent of how the caller chunked the input. A part with a
	// zero-length body produces no EventBody at all.
	EventBody
	// EventPartEnd marks the end of a part's body, emitted at every
	// BODY->HEADER and BODY->END transition. It carries no payload; its
	// sole purpose is to let an Aggregator delimit parts unambiguously,
	// including parts with a zero-length body.
	EventPartEnd
)

// Event is a tagged union of the three structural events the state
// machine can emit. Only the fields relevant to Kind are populated.
type Event struct {
	Kind EventKind

	// Name and Value are set when Kind == EventHeader. Name is
	// lowercased; Value has had leading/trailing OWS trimmed.
	Name  string
	Value string

	// Data is set when Kind == EventBody: the part's complete body. The
	// slice is owned by the caller once handed off; the parser never
	// writes to it again.
	Data []byte
}
