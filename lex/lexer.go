package lex

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/korawend/queuen/errortypes"
)

// Lexer configuration. Keywords may be any run of word characters; the
// delimiter, special and separator entries must be single runes. Operators
// may be up to three runes long and are matched longest-first.

var keywords = map[string]bool{}

var (
	delimiters = runeSet("()[]{}")
	specials   = runeSet("")
	separators = runeSet(",;")
)

const (
	stringLeft  = `"`
	stringRight = `"`
	escapeChar  = '\\'

	commentPrefix = "#"
)

var operators = []string{
	"!", "@", "$", "%", "^", "&", "*", "-", "+", "|", "_",
	"!!", "@@", "$$", "%%", "^^", "&&", "**", "--", "++", "||", "__",
	"!=", "@=", "$=", "%=", "^=", "&=", "*=", "-=", "+=", "|=",

	"<", ">", ".", "=", ":", "?", "/", `\`, "~",
	"<<", ">>", "..", "==", "::", "??", "//", `\\`,
	".=", ":=", "?=", "/=", `\=`, "~=",
	"<<<", ">>>", "...", "===",

	`/\`, `\/`, "<>", "</>", "<:", ":>", "<-<", ">->",
	"=/=", "<~", "~>",
	"<=>", "<|", "|>",

	"<-", "->", "=<", ">=", "=<<", ">>=", "↑",
	"←", "→", "<=", "=>", "<<=", "=>>", "↓",
	"≤", "≥",

	"×", "×=", "÷", "÷=", "⋅", "⋅=", "∘",
}

// Runes that are part of an operator but may also appear inside a name.
var (
	midWordSymbols = runeSet("")
	endWordSymbols = runeSet("")
)

var (
	operatorStart   map[rune]bool
	stringStartRune rune
	commentRune     rune
)

func init() {
	// Longest-first so that prefix matching finds the longest operator.
	sort.SliceStable(operators, func(i, j int) bool {
		return utf8.RuneCountInString(operators[i]) > utf8.RuneCountInString(operators[j])
	})
	operatorStart = make(map[rune]bool)
	for _, op := range operators {
		r, _ := utf8.DecodeRuneInString(op)
		operatorStart[r] = true
	}
	stringStartRune, _ = utf8.DecodeRuneInString(stringLeft)
	commentRune, _ = utf8.DecodeRuneInString(commentPrefix)
}

func runeSet(s string) map[rune]bool {
	var m = make(map[rune]bool)
	for _, r := range s {
		m[r] = true
	}
	return m
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\f', '\v':
		return true
	}
	return false
}

// isNonWord reports whether r terminates a word.
func isNonWord(r rune) bool {
	if midWordSymbols[r] {
		return false
	}
	if endWordSymbols[r] || isWhitespace(r) {
		return true
	}
	return delimiters[r] || specials[r] || separators[r] || operatorStart[r] ||
		r == stringStartRune || r == commentRune
}

// RefillFunc supplies more source text when the stream's buffer runs dry.
// It must return at least one character, or an error (conventionally io.EOF)
// to signal that no more input will arrive.
type RefillFunc func() (string, error)

// TokenStream lazily tokenizes a text buffer, pulling more text through the
// refill callback whenever the buffer empties mid-scan.
type TokenStream struct {
	text   string
	refill RefillFunc
	line   int
	column int

	// Runs of whitespace containing at least one newline coalesce into a
	// single newline token; this bit suppresses the extras.
	lastEmittedNewline bool

	log strings.Builder
}

// NewTokenStream returns a stream over text. refill may be nil, in which
// case an empty buffer is simply the end of the stream.
func NewTokenStream(text string, refill RefillFunc) *TokenStream {
	var s = &TokenStream{text: text, refill: refill, line: 1, column: 1}
	s.log.WriteString(text)
	return s
}

// Log returns every byte of source text the stream has been fed, for use by
// diagnostic renderers.
func (s *TokenStream) Log() string {
	return s.log.String()
}

func (s *TokenStream) advance(str string) {
	if i := strings.LastIndexByte(str, '\n'); i >= 0 {
		s.line += strings.Count(str, "\n")
		s.column = utf8.RuneCountInString(str[i+1:]) + 1
	} else {
		s.column += utf8.RuneCountInString(str)
	}
}

func (s *TokenStream) more() error {
	txt, err := s.refill()
	if err != nil {
		return err
	}
	s.text += txt
	s.log.WriteString(txt)
	return nil
}

// Next returns the next token, or (nil, nil) at end of stream. Errors from
// the refill callback propagate unchanged; an unterminated string literal
// with no refill configured is fatal to the stream.
func (s *TokenStream) Next() (*Token, error) {
	for {
		// Strip leading whitespace, possibly emitting a newline token.
		if ws := leadingWhitespace(s.text); ws != "" {
			var line, col = s.line, s.column
			s.text = s.text[len(ws):]
			s.advance(ws)
			if strings.ContainsRune(ws, '\n') && !s.lastEmittedNewline {
				s.lastEmittedNewline = true
				return &Token{Text: ws, Line: line, Col: col, Class: Newline}, nil
			}
		}

		if s.text == "" {
			if s.refill == nil {
				return nil, nil
			}
			if err := s.more(); err != nil {
				return nil, err
			}
			continue
		}

		// Comments run to end of line, refilling as needed.
		if strings.HasPrefix(s.text, commentPrefix) {
			for {
				if i := strings.IndexByte(s.text, '\n'); i >= 0 {
					s.advance(s.text[:i])
					s.text = s.text[i:]
					break
				}
				s.advance(s.text)
				s.text = ""
				if s.refill == nil {
					return nil, nil
				}
				if err := s.more(); err != nil {
					return nil, err
				}
			}
			continue
		}

		// Whatever follows is not a newline token.
		s.lastEmittedNewline = false

		var line, col = s.line, s.column

		// Natural number.
		if digits := leadingDigits(s.text); digits != "" {
			n, err := strconv.Atoi(digits)
			if err != nil {
				return nil, errortypes.NewErrFilePosf("", line, col, "number out of range: %s", digits)
			}
			s.advance(digits)
			s.text = s.text[len(digits):]
			return &Token{Text: digits, Line: line, Col: col, Nat: n, Class: Natural}, nil
		}

		// String literal.
		if strings.HasPrefix(s.text, stringLeft) {
			body := s.text[len(stringLeft):]
			var idx int
			var closeAt = -1
			for closeAt < 0 {
				j := strings.Index(body[idx:], stringRight)
				if j < 0 {
					if s.refill == nil {
						return nil, errortypes.NewErrFilePosf("", line, col, "unterminated string")
					}
					if err := s.more(); err != nil {
						return nil, err
					}
					body = s.text[len(stringLeft):]
					continue
				}
				j += idx
				if escaped(body, j) {
					idx = j + 1
					continue
				}
				closeAt = j
			}
			content := body[:closeAt]
			literal := stringLeft + content + stringRight
			s.advance(literal)
			s.text = body[closeAt+len(stringRight):]
			value := strings.ReplaceAll(content, string(escapeChar)+stringRight, stringRight)
			return &Token{Text: literal, Line: line, Col: col, Val: value, Class: String}, nil
		}

		// Delimiter, special character, separator, or operator.
		r, size := utf8.DecodeRuneInString(s.text)
		switch {
		case delimiters[r]:
			return s.emitPunct(line, col, s.text[:size], Delimiter), nil
		case specials[r]:
			return s.emitPunct(line, col, s.text[:size], Special), nil
		case separators[r]:
			return s.emitPunct(line, col, s.text[:size], Separator), nil
		case operatorStart[r]:
			var match = s.text[:size]
			for _, op := range operators {
				if strings.HasPrefix(s.text, op) {
					match = op
					break
				}
			}
			return s.emitPunct(line, col, match, Operator), nil
		}

		// A name or keyword.
		var end int
		for end < len(s.text) {
			r, size := utf8.DecodeRuneInString(s.text[end:])
			if isNonWord(r) {
				break
			}
			end += size
		}
		word := s.text[:end]
		// Trim trailing mid-word symbols, then re-extend by one end-word
		// symbol when one immediately follows.
		for len(word) > 0 {
			r, size := utf8.DecodeLastRuneInString(word)
			if !midWordSymbols[r] {
				break
			}
			word = word[:len(word)-size]
		}
		if r, size := utf8.DecodeRuneInString(s.text[len(word):]); size > 0 && endWordSymbols[r] {
			word = s.text[:len(word)+size]
		}
		s.advance(word)
		s.text = s.text[len(word):]
		var class = Word
		if keywords[word] {
			class = Keyword
		}
		return &Token{Text: word, Line: line, Col: col, Val: word, Class: class}, nil
	}
}

func (s *TokenStream) emitPunct(line, col int, text string, class Class) *Token {
	s.advance(text)
	s.text = s.text[len(text):]
	return &Token{Text: text, Line: line, Col: col, Val: text, Class: class}
}

// escaped reports whether the string-close candidate at body[at] is preceded
// by exactly one escape character.
func escaped(body string, at int) bool {
	if at == 0 || body[at-1] != byte(escapeChar) {
		return false
	}
	return at < 2 || body[at-2] != byte(escapeChar)
}

func leadingWhitespace(s string) string {
	var end int
	for end < len(s) {
		r, size := utf8.DecodeRuneInString(s[end:])
		if !isWhitespace(r) {
			break
		}
		end += size
	}
	return s[:end]
}

func leadingDigits(s string) string {
	var end int
	for end < len(s) && '0' <= s[end] && s[end] <= '9' {
		end++
	}
	return s[:end]
}
