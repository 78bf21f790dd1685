// Package reference parses names written as Name[version](modifier), used for
// step references, collection members and abstract property keys.
package reference

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/procdef/model/property"
)

// ModifierAbstract marks an abstract property key
const ModifierAbstract = "abstract"

// Reference is a parsed name with optional version and modifier
type Reference struct {
	Name string
	// Version is nil when absent or "last"
	Version *int
	// Versioned is true when a [version] part was present
	Versioned bool
	Abstract  bool
}

// VersionValue returns the version as a property value, "last" when nil
func (r *Reference) VersionValue() interface{} {
	if r.Version == nil {
		return property.Last
	}
	return *r.Version
}

// Parse parses input in the format: name[version](abstract); both the version
// and the modifier parts are optional
func Parse(input string) (*Reference, error) {
	cursor := parsly.NewCursor("", []byte(strings.TrimSpace(input)), 0)
	ret := &Reference{}

	matched := cursor.MatchOne(nameToken)
	if matched.Code != nameToken.Code {
		return nil, cursor.NewError(nameToken)
	}
	ret.Name = matched.Text(cursor)

	matched = cursor.MatchAfterOptional(whitespaceToken, openSquareBracketToken, openParenToken)
	switch matched.Code {
	case parsly.EOF:
		return ret, nil
	case openSquareBracketToken.Code:
		if err := parseVersion(cursor, ret); err != nil {
			return nil, err
		}
		matched = cursor.MatchAfterOptional(whitespaceToken, openParenToken)
		switch matched.Code {
		case parsly.EOF:
			return ret, nil
		case openParenToken.Code:
		default:
			return nil, cursor.NewError(openParenToken)
		}
	case openParenToken.Code:
	default:
		return nil, cursor.NewError(openSquareBracketToken, openParenToken)
	}
	if err := parseModifier(cursor, ret); err != nil {
		return nil, err
	}
	if cursor.HasMore() {
		return nil, fmt.Errorf("unexpected %q after reference %s", string(cursor.Input[cursor.Pos:]), ret.Name)
	}
	return ret, nil
}

func parseVersion(cursor *parsly.Cursor, ret *Reference) error {
	ret.Versioned = true
	var text string
	if matched := cursor.MatchOne(versionToken); matched.Code == versionToken.Code {
		text = strings.TrimSpace(matched.Text(cursor))
	}
	if matched := cursor.MatchOne(closeSquareBracketToken); matched.Code != closeSquareBracketToken.Code {
		return cursor.NewError(closeSquareBracketToken)
	}
	version, err := property.DeriveVersion(text)
	if err != nil {
		return fmt.Errorf("reference %s: %w", ret.Name, err)
	}
	ret.Version = version
	return nil
}

func parseModifier(cursor *parsly.Cursor, ret *Reference) error {
	matched := cursor.MatchOne(modifierToken)
	if matched.Code != modifierToken.Code {
		return cursor.NewError(modifierToken)
	}
	modifier := strings.TrimSpace(matched.Text(cursor))
	if !strings.EqualFold(modifier, ModifierAbstract) {
		return fmt.Errorf("reference %s: unsupported modifier %q", ret.Name, modifier)
	}
	ret.Abstract = true
	if matched = cursor.MatchOne(closeParenToken); matched.Code != closeParenToken.Code {
		return cursor.NewError(closeParenToken)
	}
	return nil
}
