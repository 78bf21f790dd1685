package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/model/property"
)

func TestDiff(t *testing.T) {
	ctx := context.Background()
	from := NewDependency("Owners", property.IntPtr(1))
	_, err := from.AddMember(ctx, nil, "alice", property.Properties{property.Concrete("Role", "lead")}, "")
	require.NoError(t, err)
	to := NewDependency("Owners", property.IntPtr(2))
	_, err = to.AddMember(ctx, nil, "bob", property.Properties{property.Concrete("Role", "backup")}, "")
	require.NoError(t, err)
	_, err = to.AddMember(ctx, nil, "alice", property.Properties{property.Concrete("Role", "lead")}, "")
	require.NoError(t, err)

	diff, err := Diff(from, to)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- Owners:1")
	assert.Contains(t, diff, "+++ Owners:2")
	assert.Contains(t, diff, "+bob Role=backup")
	assert.NotContains(t, diff, "-alice")

	same, err := Diff(to, to)
	require.NoError(t, err)
	assert.Empty(t, same)
}
