package criteria

import (
	"github.com/viant/procdef/service/dao"
)

// Matches returns true when the record satisfies every Kind and ID parameter;
// unknown parameters are ignored
func Matches(record *dao.Record, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		switch parameter.Name {
		case dao.ParameterKind:
			if !matchValue(record.Kind, parameter.Value) {
				return false
			}
		case dao.ParameterID:
			if !matchValue(record.ID, parameter.Value) {
				return false
			}
		}
	}
	return true
}

// Value returns the single string value of the named parameter
func Value(name string, parameters []*dao.Parameter) (string, bool) {
	for _, parameter := range parameters {
		if parameter.Name != name {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			return actual, true
		case []string:
			if len(actual) == 1 {
				return actual[0], true
			}
		}
	}
	return "", false
}

func matchValue(value string, expected interface{}) bool {
	switch actual := expected.(type) {
	case string:
		return value == actual
	case []string:
		for _, s := range actual {
			if value == s {
				return true
			}
		}
		return false
	}
	return true
}
