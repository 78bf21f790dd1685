package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/procdef/service/dao"
)

func TestService_listQuery(t *testing.T) {
	srv, err := New(nil, "")
	require.NoError(t, err)
	var testCases = []struct {
		description string
		parameters  []*dao.Parameter
		expectQuery string
		expectArgs  []interface{}
	}{
		{
			description: "no criteria",
			expectQuery: "SELECT kind, id, version, data, updated_at FROM procdef_records ORDER BY kind, id, version",
		},
		{
			description: "kind and id",
			parameters:  []*dao.Parameter{dao.ByKind("Definition"), dao.ByID("Order")},
			expectQuery: "SELECT kind, id, version, data, updated_at FROM procdef_records WHERE kind = $1 AND id = $2 ORDER BY kind, id, version",
			expectArgs:  []interface{}{"Definition", "Order"},
		},
		{
			description: "many kinds are filtered after the query",
			parameters:  []*dao.Parameter{dao.ByKind("Schema", "Script")},
			expectQuery: "SELECT kind, id, version, data, updated_at FROM procdef_records ORDER BY kind, id, version",
		},
	}
	for _, testCase := range testCases {
		query, args := srv.listQuery(testCase.parameters)
		assert.Equal(t, testCase.expectQuery, query, testCase.description)
		assert.Equal(t, testCase.expectArgs, args, testCase.description)
	}

	_, err = New(nil, "records; DROP TABLE x")
	assert.Error(t, err)
}

// TestService_Postgres runs against a live database when PROCDEF_PG_DSN is set
func TestService_Postgres(t *testing.T) {
	dsn := os.Getenv("PROCDEF_PG_DSN")
	if dsn == "" {
		t.Skip("PROCDEF_PG_DSN not set")
	}
	ctx := context.Background()
	srv, err := Connect(ctx, dsn, "procdef_records_test")
	require.NoError(t, err)
	defer srv.Close()
	defer func() { _ = srv.DropSchema(ctx) }()

	version := 3
	require.NoError(t, srv.Save(ctx, &dao.Record{Kind: "Definition", ID: "Order", Version: &version, Data: json.RawMessage(`{"name":"Order"}`)}))
	loaded, err := srv.Load(ctx, "Definition/Order/3")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Order"}`, string(loaded.Data))

	listed, err := srv.List(ctx, dao.ByKind("Definition"))
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, srv.Delete(ctx, "Definition/Order/3"))
	_, err = srv.Load(ctx, "Definition/Order/3")
	assert.True(t, errors.Is(err, dao.ErrNotFound))
}
