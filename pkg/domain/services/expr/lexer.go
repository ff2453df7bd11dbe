package expr

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokString
	tokTrue
	tokFalse
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
	tokEq  // = and ==
	tokNeq // != and <>
	tokLt
	tokLte
	tokGt
	tokGte
	tokAnd
	tokOr
	tokNot
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits the source into tokens. Identifiers may contain dots to
// address flattened snapshot keys ("pegboard.isCustom").
func lex(src string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c >= '0' && c <= '9' || c == '.' && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9':
			start := i
			seenDot := false
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.' && !seenDot) {
				if src[i] == '.' {
					seenDot = true
				}
				i++
			}
			tokens = append(tokens, token{tokNumber, src[start:i], start})
		case isIdentStart(rune(c)):
			start := i
			for i < len(src) && isIdentPart(rune(src[i])) {
				i++
			}
			word := src[start:i]
			switch strings.ToLower(word) {
			case "and":
				tokens = append(tokens, token{tokAnd, word, start})
			case "or":
				tokens = append(tokens, token{tokOr, word, start})
			case "not":
				tokens = append(tokens, token{tokNot, word, start})
			case "true":
				tokens = append(tokens, token{tokTrue, word, start})
			case "false":
				tokens = append(tokens, token{tokFalse, word, start})
			default:
				tokens = append(tokens, token{tokIdent, word, start})
			}
		case c == '\'' || c == '"':
			quote := c
			start := i
			i++
			for i < len(src) && src[i] != quote {
				i++
			}
			if i >= len(src) {
				return nil, &ParseError{Pos: start, Msg: "unterminated string literal"}
			}
			tokens = append(tokens, token{tokString, src[start+1 : i], start})
			i++
		case c == '+':
			tokens = append(tokens, token{tokPlus, "+", i})
			i++
		case c == '-':
			tokens = append(tokens, token{tokMinus, "-", i})
			i++
		case c == '*':
			tokens = append(tokens, token{tokStar, "*", i})
			i++
		case c == '/':
			tokens = append(tokens, token{tokSlash, "/", i})
			i++
		case c == '(':
			tokens = append(tokens, token{tokLParen, "(", i})
			i++
		case c == ')':
			tokens = append(tokens, token{tokRParen, ")", i})
			i++
		case c == '=':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{tokEq, "==", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokEq, "=", i})
				i++
			}
		case c == '!':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{tokNeq, "!=", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokNot, "!", i})
				i++
			}
		case c == '<':
			switch {
			case i+1 < len(src) && src[i+1] == '=':
				tokens = append(tokens, token{tokLte, "<=", i})
				i += 2
			case i+1 < len(src) && src[i+1] == '>':
				tokens = append(tokens, token{tokNeq, "<>", i})
				i += 2
			default:
				tokens = append(tokens, token{tokLt, "<", i})
				i++
			}
		case c == '>':
			if i+1 < len(src) && src[i+1] == '=' {
				tokens = append(tokens, token{tokGte, ">=", i})
				i += 2
			} else {
				tokens = append(tokens, token{tokGt, ">", i})
				i++
			}
		case c == '&':
			if i+1 < len(src) && src[i+1] == '&' {
				tokens = append(tokens, token{tokAnd, "&&", i})
				i += 2
			} else {
				return nil, &ParseError{Pos: i, Msg: "unexpected character '&'"}
			}
		case c == '|':
			if i+1 < len(src) && src[i+1] == '|' {
				tokens = append(tokens, token{tokOr, "||", i})
				i += 2
			} else {
				return nil, &ParseError{Pos: i, Msg: "unexpected character '|'"}
			}
		default:
			return nil, &ParseError{Pos: i, Msg: "unexpected character " + string(c)}
		}
	}
	tokens = append(tokens, token{tokEOF, "", len(src)})
	return tokens, nil
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.'
}
