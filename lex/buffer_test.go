package lex

import (
	"errors"
	"testing"
)

func TestBufferGet(t *testing.T) {
	var b = NewTokenBufferString("1 2 3", nil)

	tok, err := b.Get(1)
	if err != nil || tok == nil || !tok.Equal(nat(2)) {
		t.Fatalf("Get(1) = %v, %v; want natural 2", tok, err)
	}
	// Indexing backwards hits the cache.
	tok, err = b.Get(0)
	if err != nil || tok == nil || !tok.Equal(nat(1)) {
		t.Fatalf("Get(0) = %v, %v; want natural 1", tok, err)
	}
	if tok, _ := b.Get(-1); tok != nil {
		t.Errorf("Get(-1) = %v, want nil", tok)
	}
	if tok, _ := b.Get(3); tok != nil {
		t.Errorf("Get(3) = %v, want nil", tok)
	}
	// Reading past the end fixed the length.
	if n, err := b.Len(); err != nil || n != 3 {
		t.Errorf("Len() = %d, %v; want 3", n, err)
	}
}

func TestBufferLenUnknown(t *testing.T) {
	var b = NewTokenBufferString("1 2 3", nil)
	if _, err := b.Len(); !errors.Is(err, ErrLengthUnknown) {
		t.Fatalf("Len() error = %v, want ErrLengthUnknown", err)
	}
}

func TestBufferComplete(t *testing.T) {
	var b = NewTokenBufferString("1 2 3", nil)
	if err := b.Complete(); err != nil {
		t.Fatal(err)
	}
	if n, err := b.Len(); err != nil || n != 3 {
		t.Fatalf("Len() = %d, %v; want 3", n, err)
	}
	if tok, _ := b.Get(2); tok == nil || !tok.Equal(nat(3)) {
		t.Errorf("Get(2) = %v, want natural 3", tok)
	}
	// Completing again is a no-op.
	if err := b.Complete(); err != nil {
		t.Fatal(err)
	}
}

func TestBufferFreeze(t *testing.T) {
	var b = NewTokenBufferString("1 2 3", nil)
	if _, err := b.Get(0); err != nil {
		t.Fatal(err)
	}
	b.Freeze()
	if n, err := b.Len(); err != nil || n != 1 {
		t.Fatalf("Len() = %d, %v; want 1", n, err)
	}
	if tok, _ := b.Get(1); tok != nil {
		t.Errorf("Get(1) after Freeze = %v, want nil", tok)
	}
}

func TestBufferPropagatesLexError(t *testing.T) {
	var b = NewTokenBufferString(`"unfinished`, nil)
	if _, err := b.Get(0); err == nil {
		t.Fatal("Get should propagate the lex error")
	}
	var b2 = NewTokenBufferString(`1 "unfinished`, nil)
	if err := b2.Complete(); err == nil {
		t.Fatal("Complete should propagate the lex error")
	}
}
