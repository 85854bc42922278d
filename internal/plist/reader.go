package plist

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader produces structural events from an XML document.
type Reader struct {
	src *byteTracker
	dec *xml.Decoder

	depth      int
	swallowEnd bool
	afterOpen  bool
	peeked     *token
	err        error
}

type token struct {
	tok         xml.Token
	selfClosing bool
}

// NewReader wraps r. The reader buffers its input.
func NewReader(r io.Reader) *Reader {
	src := &byteTracker{r: bufio.NewReaderSize(r, 64*1024)}
	dec := xml.NewDecoder(src)
	return &Reader{src: src, dec: dec}
}

// Next returns the next event, or io.EOF once the document is exhausted.
func (r *Reader) Next() (Event, error) {
	if r.err != nil {
		return Event{}, r.err
	}
	for {
		t, err := r.fetch()
		if err != nil {
			r.err = err
			return Event{}, err
		}

		switch tok := t.tok.(type) {
		case xml.StartElement:
			ev := Event{Depth: r.depth, Kind: KindOpen, Name: tok.Name.Local, IsEmpty: t.selfClosing}
			if t.selfClosing {
				r.swallowEnd = true
				r.afterOpen = false
			} else {
				r.depth++
				r.afterOpen = true
			}
			return ev, nil

		case xml.EndElement:
			if r.swallowEnd {
				r.swallowEnd = false
				continue
			}
			r.depth--
			r.afterOpen = false
			return Event{Depth: r.depth, Kind: KindClose, Name: tok.Name.Local}, nil

		case xml.CharData:
			ev, ok, err := r.text(tok)
			if err != nil {
				r.err = err
				return Event{}, err
			}
			if ok {
				return ev, nil
			}
		}
	}
}

// text merges adjacent character data into a single event. Whitespace-only
// runs are kept only when they are the entire content of an element.
func (r *Reader) text(first xml.CharData) (Event, bool, error) {
	var b strings.Builder
	b.Write(first)
	for {
		t, err := r.fetch()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Event{}, false, err
		}
		if data, ok := t.tok.(xml.CharData); ok {
			b.Write(data)
			continue
		}
		r.peeked = &t
		break
	}

	value := b.String()
	if strings.TrimSpace(value) == "" {
		closesNext := false
		if r.peeked != nil {
			_, closesNext = r.peeked.tok.(xml.EndElement)
		}
		if !r.afterOpen || !closesNext {
			return Event{}, false, nil
		}
	}
	r.afterOpen = false
	return Event{Depth: r.depth, Kind: KindText, Name: TextName, HasValue: true, Value: value}, true, nil
}

// fetch returns the next element or character-data token, skipping comments,
// processing instructions and directives.
func (r *Reader) fetch() (token, error) {
	if r.peeked != nil {
		t := *r.peeked
		r.peeked = nil
		return t, nil
	}
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if r.depth > 0 {
					return token{}, fmt.Errorf("plist: unexpected end of document at depth %d", r.depth)
				}
				return token{}, io.EOF
			}
			return token{}, fmt.Errorf("plist: decode at offset %d: %w", r.dec.InputOffset(), err)
		}
		switch tok.(type) {
		case xml.StartElement:
			return token{tok: tok, selfClosing: r.src.selfClosing()}, nil
		case xml.EndElement:
			return token{tok: tok}, nil
		case xml.CharData:
			return token{tok: xml.CopyToken(tok)}, nil
		}
	}
}

// byteTracker remembers the last two bytes handed to the XML decoder so a
// start tag can be identified as self-closing.
type byteTracker struct {
	r    *bufio.Reader
	last [2]byte
}

func (b *byteTracker) ReadByte() (byte, error) {
	c, err := b.r.ReadByte()
	if err == nil {
		b.last[0], b.last[1] = b.last[1], c
	}
	return c, err
}

func (b *byteTracker) Read(p []byte) (int, error) {
	n, err := b.r.Read(p)
	switch {
	case n >= 2:
		b.last[0], b.last[1] = p[n-2], p[n-1]
	case n == 1:
		b.last[0], b.last[1] = b.last[1], p[0]
	}
	return n, err
}

func (b *byteTracker) selfClosing() bool {
	return b.last[0] == '/' && b.last[1] == '>'
}
