// lexer.go — scanner for izanami source text.
//
// The lexer converts raw source into a flat token sequence terminated by a
// single EOF token. It never stops at the first problem: every lexical error
// (unterminated string, unexpected character) is recorded and scanning
// resumes with the next character, so one pass surfaces all of them.
package izanami

import (
	"fmt"
	"strconv"
	"unicode/utf8"
)

// LexError is a single lexical diagnostic with a 1-based line number.
type LexError struct {
	Line int
	Msg  string
}

func (e *LexError) Error() string {
	return Report(e.Line, "", e.Msg)
}

// Lexer scans an izanami source string into tokens.
type Lexer struct {
	src    string
	start  int // start index of the current token
	cur    int // current index
	line   int // 1-based
	tokens []Token
	errs   []*LexError
}

// NewLexer creates a lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

// Scan tokenizes the entire source. The token slice always ends with an EOF
// token; the error slice holds every lexical error found along the way.
func (l *Lexer) Scan() ([]Token, []*LexError) {
	for !l.isAtEnd() {
		l.start = l.cur
		l.scanToken()
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Lexeme: "", Line: l.line})
	return l.tokens, l.errs
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

func (l *Lexer) advance() byte {
	ch := l.src[l.cur]
	l.cur++
	return ch
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.cur]
}

func (l *Lexer) peekNext() byte {
	if l.cur+1 >= len(l.src) {
		return 0
	}
	return l.src[l.cur+1]
}

// match consumes the next character only if it equals expected.
func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.src[l.cur] != expected {
		return false
	}
	l.cur++
	return true
}

func (l *Lexer) addToken(tt TokenType) {
	l.addTokenLiteral(tt, nil)
}

func (l *Lexer) addTokenLiteral(tt TokenType, lit any) {
	l.tokens = append(l.tokens, Token{
		Type:    tt,
		Lexeme:  l.src[l.start:l.cur],
		Literal: lit,
		Line:    l.line,
	})
}

func (l *Lexer) err(line int, msg string) {
	l.errs = append(l.errs, &LexError{Line: line, Msg: msg})
}

func (l *Lexer) scanToken() {
	ch := l.advance()
	switch ch {
	case '(':
		l.addToken(LeftParen)
	case ')':
		l.addToken(RightParen)
	case '{':
		l.addToken(LeftBrace)
	case '}':
		l.addToken(RightBrace)
	case ',':
		l.addToken(Comma)
	case '.':
		l.addToken(Dot)
	case '-':
		l.addToken(Minus)
	case '+':
		l.addToken(Plus)
	case ';':
		l.addToken(Semicolon)
	case '*':
		l.addToken(Star)
	case '?':
		l.addToken(Question)
	case ':':
		l.addToken(Colon)
	case '!':
		if l.match('=') {
			l.addToken(BangEqual)
		} else {
			l.addToken(Bang)
		}
	case '=':
		if l.match('=') {
			l.addToken(EqualEqual)
		} else {
			l.addToken(Equal)
		}
	case '<':
		if l.match('=') {
			l.addToken(LessEqual)
		} else {
			l.addToken(Less)
		}
	case '>':
		if l.match('=') {
			l.addToken(GreaterEqual)
		} else {
			l.addToken(Greater)
		}
	case '/':
		switch {
		case l.match('/'):
			l.lineComment()
		case l.match('*'):
			l.blockComment()
		default:
			l.addToken(Slash)
		}
	case '"':
		l.scanString()
	case ' ', '\r', '\t':
		// skip
	case '\n':
		l.line++
	default:
		switch {
		case isDigit(ch):
			l.scanNumber()
		case isAlpha(ch):
			l.scanIdentifier()
		case ch >= utf8.RuneSelf:
			// Consume the whole rune so one bad character yields one
			// diagnostic, not one per byte.
			_, size := utf8.DecodeRuneInString(l.src[l.start:])
			l.cur = l.start + size
			l.err(l.line, "Unexpected character")
		default:
			l.err(l.line, "Unexpected character")
		}
	}
}

// lineComment consumes to (but not through) the newline.
func (l *Lexer) lineComment() {
	for !l.isAtEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// blockComment consumes until the closing */ or end of input, counting
// embedded newlines so later tokens keep accurate lines.
func (l *Lexer) blockComment() {
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			l.advance()
			l.advance()
			return
		}
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}
}

// scanString reads a double-quoted string. Embedded newlines are legal; an
// unterminated string is reported at the line where the string began.
func (l *Lexer) scanString() {
	startLine := l.line
	for !l.isAtEnd() && l.peek() != '"' {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}
	if l.isAtEnd() {
		l.err(startLine, "Unterminated string")
		return
	}
	l.advance() // closing quote
	value := l.src[l.start+1 : l.cur-1]
	l.addTokenLiteral(String, value)
}

// scanNumber reads digits with an optional fractional part. The '.' is only
// consumed when a digit follows it, so "123." lexes as Number then Dot.
func (l *Lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	lex := l.src[l.start:l.cur]
	value, convErr := strconv.ParseFloat(lex, 64)
	if convErr != nil {
		l.err(l.line, fmt.Sprintf("Invalid number literal %q", lex))
		return
	}
	l.addTokenLiteral(Number, value)
}

func (l *Lexer) scanIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	lex := l.src[l.start:l.cur]
	if tt, ok := keywords[lex]; ok {
		l.addToken(tt)
		return
	}
	l.addToken(Identifier)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
func isAlphaNumeric(b byte) bool { return isAlpha(b) || isDigit(b) }
