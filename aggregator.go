package multipart

// Aggregator wraps a Parser and groups its event stream into whole Part
// values, classifying each as a Field or File based on its
// content-disposition header. It is a thin, pure consumer of the event
// stream: nothing here affects the Parser's own state.
type Aggregator struct {
	p *Parser

	building    bool
	disposition string
	contentType string
	data        []byte
}

// NewAggregator returns an Aggregator reading from p.
func NewAggregator(p *Parser) *Aggregator {
	return &Aggregator{p: p}
}

// NextPart drains events from the underlying Parser and returns the next
// complete Field or File. It returns (nil, nil) when the event queue is
// exhausted before a part could be completed — the caller should feed
// more input to the Parser and call NextPart again.
func (a *Aggregator) NextPart() (*Part, error) {
	for {
		ev, ok := a.p.NextEvent()
		if !ok {
			return nil, nil
		}

		switch ev.Kind {
		case EventHeader:
			a.building = true
			if ev.Name == "content-disposition" {
				a.disposition = ev.Value
			}
			if ev.Name == "content-type" {
				a.contentType = ev.Value
			}
		case EventBody:
			a.data = append(a.data, ev.Data...)
		case EventPartEnd:
			return a.finish(), nil
		}
	}
}

// finish builds a Part from the accumulated headers/body and resets the
// aggregator's in-progress state.
func (a *Aggregator) finish() *Part {
	if !a.building {
		return nil
	}
	params := parseParams(a.disposition)
	part := &Part{ContentType: a.contentType, Data: a.data}
	if name, ok := params.get("name"); ok {
		part.Name = name
	}
	if filename, ok := params.get("filename"); ok {
		part.Kind = PartFile
		part.Filename = filename
	} else {
		part.Kind = PartField
	}

	a.building = false
	a.disposition = ""
	a.contentType = ""
	a.data = nil

	return part
}
