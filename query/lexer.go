package query

import (
	"strings"
)

// Tokenize turns a query string into tokens. It never fails: anything the
// more specific rules do not claim becomes a word token, and structural
// problems (dangling prefixes, stray range operators) are left for the
// parser to reject. The returned slice always ends with a TokenEOF.
func Tokenize(query string) []Token {
	l := &lexer{input: query}
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case isSpace(c):
			l.pos++
		case c == '(':
			l.emit(TokenLParen, "(", "(", l.pos)
			l.pos++
		case c == ')':
			l.emit(TokenRParen, ")", ")", l.pos)
			l.pos++
		case c == '"':
			l.scanQuoted(TokenPhrase)
		case c == '[':
			l.scanProperty()
		default:
			l.scanBare()
		}
	}
	l.emit(TokenEOF, "", "", len(l.input))
	return l.tokens
}

type lexer struct {
	input  string
	pos    int
	tokens []Token
}

func (l *lexer) emit(t TokenType, value, original string, pos int) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Original: original, Position: pos})
}

// scanQuoted consumes a double-quoted run. The closing quote terminates the
// token; an unterminated quote runs to the end of the input.
func (l *lexer) scanQuoted(t TokenType) {
	start := l.pos
	l.pos++
	idx := strings.IndexByte(l.input[l.pos:], '"')
	if idx < 0 {
		l.emit(t, l.input[l.pos:], l.input[start:], start)
		l.pos = len(l.input)
		return
	}
	l.emit(t, l.input[l.pos:l.pos+idx], l.input[start:l.pos+idx+1], start)
	l.pos += idx + 1
}

// scanProperty consumes a bracketed [key] or [key:value] run. Value keeps
// the raw bracket contents; the parser splits on the colon.
func (l *lexer) scanProperty() {
	start := l.pos
	l.pos++
	idx := strings.IndexByte(l.input[l.pos:], ']')
	if idx < 0 {
		l.emit(TokenProperty, l.input[l.pos:], l.input[start:], start)
		l.pos = len(l.input)
		return
	}
	l.emit(TokenProperty, l.input[l.pos:l.pos+idx], l.input[start:l.pos+idx+1], start)
	l.pos += idx + 1
}

// scanBare consumes a run that starts with a non-structural character:
// either a field prefix (letters immediately followed by ':') with its
// value, or a plain word. A ".." inside a run splits it around a range
// token; AND, OR and NOT are matched case-insensitively at token boundaries.
func (l *lexer) scanBare() {
	start := l.pos

	p := l.pos
	for p < len(l.input) && isAlpha(l.input[p]) {
		p++
	}
	if p > start && p < len(l.input) && l.input[p] == ':' {
		l.emit(TokenPrefix, l.input[start:p], l.input[start:p+1], start)
		l.pos = p + 1
		l.scanPrefixValue()
		return
	}

	for l.pos < len(l.input) && !isBoundary(l.input[l.pos]) {
		if strings.HasPrefix(l.input[l.pos:], "..") {
			if l.pos > start {
				l.emitWord(start, l.pos)
			}
			l.emit(TokenRange, "..", "..", l.pos)
			l.pos += 2
			start = l.pos
			continue
		}
		l.pos++
	}
	if l.pos > start {
		l.emitWord(start, l.pos)
	}
}

// scanPrefixValue consumes the value following a prefix token, plus a
// trailing ..value range if present. An absent value emits nothing; the
// parser reports the dangling prefix.
func (l *lexer) scanPrefixValue() {
	for {
		if l.pos < len(l.input) && l.input[l.pos] == '"' {
			l.scanQuoted(TokenPrefixValueQuoted)
		} else {
			start := l.pos
			for l.pos < len(l.input) && !isBoundary(l.input[l.pos]) && !strings.HasPrefix(l.input[l.pos:], "..") {
				l.pos++
			}
			if l.pos > start {
				l.emit(TokenPrefixValue, l.input[start:l.pos], l.input[start:l.pos], start)
			}
		}
		if strings.HasPrefix(l.input[l.pos:], "..") {
			l.emit(TokenRange, "..", "..", l.pos)
			l.pos += 2
			continue
		}
		return
	}
}

func (l *lexer) emitWord(start, end int) {
	word := l.input[start:end]
	switch {
	case strings.EqualFold(word, "AND"):
		l.emit(TokenAnd, "AND", word, start)
	case strings.EqualFold(word, "OR"):
		l.emit(TokenOr, "OR", word, start)
	case strings.EqualFold(word, "NOT"):
		l.emit(TokenNot, "NOT", word, start)
	default:
		l.emit(TokenWord, word, word, start)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isAlpha(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isBoundary(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == '"' || c == '['
}
