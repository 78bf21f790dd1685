package property

import (
	"strconv"
	"strings"

	"github.com/viant/procdef/model/types"
	"github.com/viant/toolbox"
)

// Last is the textual form of the mutable latest version
const Last = "last"

// DeriveVersion converts a stored version value into a version number.
// nil, "", "last" and -1 all denote the latest version and return nil.
func DeriveVersion(value interface{}) (*int, error) {
	if value == nil {
		return nil, nil
	}
	var version int
	var err error
	if text, ok := value.(string); ok {
		text = strings.TrimSpace(text)
		if text == "" || strings.EqualFold(text, Last) {
			return nil, nil
		}
		version, err = strconv.Atoi(text)
	} else {
		version, err = toolbox.ToInt(value)
	}
	if err != nil {
		return nil, types.NewInvalidDataError("invalid version %v", value)
	}
	if version == -1 {
		return nil, nil
	}
	return &version, nil
}

// VersionName returns the textual version, "last" for nil
func VersionName(version *int) string {
	if version == nil {
		return Last
	}
	return strconv.Itoa(*version)
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// SameVersion returns true if both versions denote the same snapshot
func SameVersion(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// VersionNumber returns the version number, 0 for nil
func VersionNumber(version *int) int {
	if version == nil {
		return 0
	}
	return *version
}
