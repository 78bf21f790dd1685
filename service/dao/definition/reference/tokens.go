package reference

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes, starting at 1 to avoid clash with parsly.EOF
const (
	whitespaceCode = iota + 1
	nameCode
	openSquareBracketCode
	closeSquareBracketCode
	openParenCode
	closeParenCode
	versionCode
	modifierCode
)

// Token definitions
var (
	whitespaceToken         = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	nameToken               = parsly.NewToken(nameCode, "Name", &nameMatcher{})
	openSquareBracketToken  = parsly.NewToken(openSquareBracketCode, "[", matcher.NewByte('['))
	closeSquareBracketToken = parsly.NewToken(closeSquareBracketCode, "]", matcher.NewByte(']'))
	openParenToken          = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken         = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
	versionToken            = parsly.NewToken(versionCode, "Version", &untilMatcher{terminator: ']'})
	modifierToken           = parsly.NewToken(modifierCode, "Modifier", &untilMatcher{terminator: ')'})
)

// nameMatcher matches definition, property and item names: letters, digits
// and _ - . : starting with a letter, digit or underscore
type nameMatcher struct{}

func (m *nameMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && !isDigit(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		c := input[i]
		if isLetter(c) || isDigit(c) || c == '_' || c == '-' || c == '.' || c == ':' {
			matched++
			continue
		}
		break
	}
	return matched
}

// untilMatcher captures everything up to the terminator byte
type untilMatcher struct {
	terminator byte
}

func (m *untilMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		if input[i] == m.terminator {
			break
		}
		matched++
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
