package prerequisites

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenModule
	tokenAnd
	tokenOr
	tokenNot
	tokenCorequisite
	tokenTrue
	tokenFalse
	tokenLeftParen
	tokenRightParen
)

func (kind tokenKind) String() string {
	switch kind {
	case tokenEOF:
		return "end of input"
	case tokenModule:
		return "module code"
	case tokenAnd:
		return "'and'"
	case tokenOr:
		return "'or'"
	case tokenNot:
		return "'not'"
	case tokenCorequisite:
		return "'co-requisite'"
	case tokenTrue, tokenFalse:
		return "literal"
	case tokenLeftParen:
		return "'('"
	case tokenRightParen:
		return "')'"
	}
	return "unknown"
}

type token struct {
	kind     tokenKind
	text     string
	position int
}

var (
	modulePattern = regexp.MustCompile(`^[A-Z]{2}\d{4}$`)

	keywords = map[string]tokenKind{
		"and":          tokenAnd,
		"or":           tokenOr,
		"not":          tokenNot,
		"co-requisite": tokenCorequisite,
		"corequisite":  tokenCorequisite,
		"true":         tokenTrue,
		"false":        tokenFalse,
	}
)

// ParseError reports prerequisite text that is not a boolean expression over module codes.
type ParseError struct {
	Text     string
	Position int
	Reason   string
}

func (err *ParseError) Error() string {
	return fmt.Sprintf("cannot parse prerequisite %q at position %d: %v", err.Text, err.Position, err.Reason)
}

// tokenize splits prerequisite text into tokens. Words are whitespace or parenthesis delimited.
func tokenize(text string) ([]token, error) {
	tokens := make([]token, 0)
	runes := []rune(text)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLeftParen, text: "(", position: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRightParen, text: ")", position: i})
			i++
		default:
			start := i
			for i < len(runes) && !unicode.IsSpace(runes[i]) && runes[i] != '(' && runes[i] != ')' {
				i++
			}
			word := string(runes[start:i])

			if modulePattern.MatchString(word) {
				tokens = append(tokens, token{kind: tokenModule, text: word, position: start})
			} else if kind, ok := keywords[strings.ToLower(word)]; ok {
				tokens = append(tokens, token{kind: kind, text: word, position: start})
			} else {
				return nil, &ParseError{Text: text, Position: start, Reason: fmt.Sprintf("unexpected word %q", word)}
			}
		}
	}

	tokens = append(tokens, token{kind: tokenEOF, position: len(runes)})
	return tokens, nil
}
