// Package multipart implements an incremental multipart/form-data parser
// conforming to the framing rules of RFC 2046 §5.1 and RFC 7578.
//
// The parser consumes arbitrarily chunked byte input through successive
// calls to Parse and emits a deterministic sequence of Header, Body and
// part-boundary events without requiring the whole multipart message to be
// held in memory at once. Each part's body is buffered in full until its
// closing delimiter is seen and is then emitted as a single Body event, so
// memory use grows with the largest part's body; body bytes are not emitted
// while a part is still being read. Parse never blocks on an io.Reader: the caller pushes
// bytes as they arrive and drains events with NextEvent, or uses an
// Aggregator to collect whole Field/File parts with NextPart.
package multipart
