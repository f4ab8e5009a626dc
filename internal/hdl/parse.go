// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hdl implements the tokenizer for port specifications like
// "a, b[32]" and connection lists like "a=x, b=y".
//
package hdl

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// Type is a token type.
//
type Type int

// Tokens
const (
	EOF Type = iota
	Ident
	Int
	BracketOpen
	BracketClose
	Comma
	Equal
)

var typeNames = [...]string{
	EOF:          "end of input",
	Ident:        "identifier",
	Int:          "integer",
	BracketOpen:  "'['",
	BracketClose: "']'",
	Comma:        "','",
	Equal:        "'='",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Item is a token.
//
type Item struct {
	Type  Type
	Pos   int // byte offset in input
	Value string
}

// Lexer tokenizes its input one Item at a time.
//
type Lexer struct {
	in  string
	pos int
}

// NewLexer returns a new lexer for input.
//
func NewLexer(input string) *Lexer {
	return &Lexer{in: input}
}

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }
func isIdent(r rune) bool      { return isIdentStart(r) || unicode.IsDigit(r) || r == '$' }

// Lex returns the next token.
//
func (l *Lexer) Lex() (Item, error) {
	for l.pos < len(l.in) {
		r, sz := utf8.DecodeRuneInString(l.in[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += sz
	}
	if l.pos >= len(l.in) {
		return Item{Type: EOF, Pos: l.pos}, nil
	}
	start := l.pos
	r, sz := utf8.DecodeRuneInString(l.in[l.pos:])
	switch {
	case r == '[':
		l.pos += sz
		return Item{BracketOpen, start, "["}, nil
	case r == ']':
		l.pos += sz
		return Item{BracketClose, start, "]"}, nil
	case r == ',':
		l.pos += sz
		return Item{Comma, start, ","}, nil
	case r == '=':
		l.pos += sz
		return Item{Equal, start, "="}, nil
	case isIdentStart(r):
		for l.pos < len(l.in) {
			r, sz = utf8.DecodeRuneInString(l.in[l.pos:])
			if !isIdent(r) {
				break
			}
			l.pos += sz
		}
		return Item{Ident, start, l.in[start:l.pos]}, nil
	case unicode.IsDigit(r):
		for l.pos < len(l.in) && l.in[l.pos] >= '0' && l.in[l.pos] <= '9' {
			l.pos++
		}
		return Item{Int, start, l.in[start:l.pos]}, nil
	}
	return Item{}, l.Errorf(start, "unexpected character %q", r)
}

// Errorf returns an error at the given position.
//
func (l *Lexer) Errorf(pos int, format string, args ...interface{}) error {
	return errors.Errorf("in %q at pos %d: %s", l.in, pos+1, errors.Errorf(format, args...))
}
