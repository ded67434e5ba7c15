package lex

import "errors"

// ErrLengthUnknown is returned by Len before the buffer has been completed.
var ErrLengthUnknown = errors.New("length unknown because buffer has not been completed")

// TokenBuffer is a random-access cache over a TokenStream. Its length is
// unknown until Complete (or Freeze) fixes it; indexing beyond the cached
// prefix forces additional pulls from the stream.
type TokenBuffer struct {
	stream *TokenStream
	buf    []*Token
	length int // -1 while unknown
}

// NewTokenBuffer returns a buffer over the given stream.
func NewTokenBuffer(stream *TokenStream) *TokenBuffer {
	return &TokenBuffer{stream: stream, length: -1}
}

// NewTokenBufferString is shorthand for buffering a fresh stream over text.
func NewTokenBufferString(text string, refill RefillFunc) *TokenBuffer {
	return NewTokenBuffer(NewTokenStream(text, refill))
}

// Get returns the i'th token, pulling from the stream as needed. Indexes
// out of range return nil.
func (b *TokenBuffer) Get(i int) (*Token, error) {
	if i < 0 || (b.length >= 0 && i >= b.length) {
		return nil, nil
	}
	for i >= len(b.buf) {
		tok, err := b.stream.Next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			b.length = len(b.buf)
			return nil, nil
		}
		b.buf = append(b.buf, tok)
	}
	return b.buf[i], nil
}

// Complete drains the stream and freezes the buffer's length.
func (b *TokenBuffer) Complete() error {
	if b.length >= 0 {
		return nil
	}
	for {
		tok, err := b.stream.Next()
		if err != nil {
			return err
		}
		if tok == nil {
			b.length = len(b.buf)
			return nil
		}
		b.buf = append(b.buf, tok)
	}
}

// Freeze fixes the length at the number of tokens pulled so far without
// draining the stream.
func (b *TokenBuffer) Freeze() {
	b.length = len(b.buf)
}

// Len returns the buffer's length, or ErrLengthUnknown if the buffer has
// not been completed.
func (b *TokenBuffer) Len() (int, error) {
	if b.length < 0 {
		return 0, ErrLengthUnknown
	}
	return b.length, nil
}

// Log exposes the underlying stream's source log.
func (b *TokenBuffer) Log() string {
	return b.stream.Log()
}
