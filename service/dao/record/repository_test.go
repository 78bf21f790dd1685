package record

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/service/dao"
	"github.com/viant/procdef/service/dao/store"
)

type document struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func intPtr(v int) *int { return &v }

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New[document](store.NewMemory(), "Document")
	require.NoError(t, repo.Save(ctx, "doc", intPtr(1), &document{Name: "a", Count: 1}))
	require.NoError(t, repo.Save(ctx, "doc", intPtr(10), &document{Name: "a", Count: 10}))
	require.NoError(t, repo.Save(ctx, "doc", intPtr(2), &document{Name: "a", Count: 2}))
	require.NoError(t, repo.Save(ctx, "other", nil, &document{Name: "b"}))

	var testCases = []struct {
		description string
		id          string
		version     *int
		expect      int
		expectErr   bool
	}{
		{description: "exact version", id: "doc", version: intPtr(2), expect: 2},
		{description: "latest is numeric maximum", id: "doc", expect: 10},
		{description: "unversioned", id: "other", expect: 0},
		{description: "missing version", id: "doc", version: intPtr(3), expectErr: true},
		{description: "missing id", id: "none", expectErr: true},
	}
	for _, testCase := range testCases {
		actual, err := repo.Load(ctx, testCase.id, testCase.version)
		if testCase.expectErr {
			assert.True(t, errors.Is(err, dao.ErrNotFound), testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual.Count, testCase.description)
	}

	versions, err := repo.Versions(ctx, "doc")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2, 10}, versions)

	exists, err := repo.Exists(ctx, "doc", intPtr(3))
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Delete(ctx, "doc", intPtr(10)))
	latest, err := repo.Load(ctx, "doc", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Count)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
