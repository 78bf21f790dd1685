package collection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/toolbox"
)

// Diff returns a unified diff of the member listings of two versions of a
// dependency. Members are listed by entity with their sorted properties.
func Diff(from, to *Dependency) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(listing(from)),
		B:        difflib.SplitLines(listing(to)),
		FromFile: from.String(),
		ToFile:   to.String(),
		Context:  1,
	}
	return difflib.GetUnifiedDiffString(diff)
}

func listing(dep *Dependency) string {
	lines := make([]string, 0, len(dep.Members))
	for _, member := range dep.Members {
		values := member.Properties.ToMap()
		keys := make([]string, 0, len(values))
		for k := range values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, k+"="+toolbox.AsString(values[k]))
		}
		lines = append(lines, fmt.Sprintf("%s %s\n", member.Entity, strings.Join(pairs, ",")))
	}
	sort.Strings(lines)
	return strings.Join(lines, "")
}
