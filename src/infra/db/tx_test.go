package db

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ldb/src/core/domain"
	"ldb/src/core/statement"
	"ldb/src/infra/config"
	"ldb/src/infra/logger"
)

func newTestDB(f *fakeDB) *DB {
	return New(f, config.DatabaseConfig{}, logger.Discard())
}

func TestTransactionResolvesReturnedValues(t *testing.T) {
	f := &fakeDB{handle: func(sql string, _ []any) (*fakeRows, error) {
		if strings.HasPrefix(sql, "INSERT") {
			return rowsOf("INSERT 0 1", []string{"id"}, []any{int32(7)}), nil
		}
		return rowsOf("UPDATE 1", nil), nil
	}}
	stmts := []statement.Statement{
		statement.New("INSERT INTO t (x) VALUES ($1) RETURNING id", 0),
		statement.Raw("UPDATE t SET x=1 WHERE id=#id#"),
	}

	results, err := newTestDB(f).Transaction(context.Background(), stmts)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"BEGIN",
		"INSERT INTO t (x) VALUES ($1) RETURNING id",
		"UPDATE t SET x=1 WHERE id=7",
		"COMMIT",
	}, f.executed())
	require.Len(t, results, 2)
	assert.Equal(t, []map[string]any{{"id": int32(7)}}, results[0].Rows)
	assert.Equal(t, []string{"id"}, results[0].Columns)
	assert.Equal(t, int64(1), results[1].RowsAffected)
	assert.Equal(t, "UPDATE t SET x=1 WHERE id=#id#", stmts[1].Text, "caller statements must not change")
	assert.Equal(t, 1, f.acquired)
	assert.Equal(t, 1, f.released)
}

func TestTransactionUnknownKeyBecomesNull(t *testing.T) {
	f := &fakeDB{handle: func(sql string, _ []any) (*fakeRows, error) {
		if strings.HasPrefix(sql, "INSERT") {
			return rowsOf("INSERT 0 1", []string{"name"}, []any{"office1"}), nil
		}
		return nil, nil
	}}

	_, err := newTestDB(f).Transaction(context.Background(), []statement.Statement{
		statement.Raw("CREATE TABLE offices (name TEXT)"),
		statement.Raw("INSERT INTO offices (name) VALUES ('office1') RETURNING *"),
		statement.Raw("UPDATE offices SET name='wont_set' WHERE name = #no_exist# RETURNING *"),
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE offices SET name='wont_set' WHERE name = null RETURNING *", f.executed()[3])
}

func TestTransactionChainedStatementsSeeLatestValue(t *testing.T) {
	f := &fakeDB{handle: func(sql string, _ []any) (*fakeRows, error) {
		switch {
		case strings.HasPrefix(sql, "INSERT INTO users (name) VALUES ('baz')"):
			return rowsOf("INSERT 0 1", nil), nil
		case strings.HasPrefix(sql, "INSERT"):
			return rowsOf("INSERT 0 1", []string{"name", "_meta"}, []any{"foo", int32(3)}), nil
		case strings.HasPrefix(sql, "SELECT"):
			return rowsOf("SELECT 1", []string{"name", "_meta"}, []any{"bar", int32(36)}), nil
		}
		return rowsOf("UPDATE 1", nil), nil
	}}

	update, ok := statement.BuildUpdate("users", statement.Fields{statement.F("_meta", 36)},
		statement.Explicit{Field: "_meta", Value: 3, Operator: "="})
	require.True(t, ok)

	results, err := newTestDB(f).Transaction(context.Background(), []statement.Statement{
		statement.Raw("CREATE TABLE users (name TEXT, _meta INT)"),
		statement.Raw("INSERT INTO users (name) VALUES ('baz')"),
		statement.Raw("INSERT INTO users (name, _meta) VALUES ('foo', 3) RETURNING *"),
		statement.Raw("UPDATE users SET name='bar' WHERE name = #name#"),
		update,
		statement.Raw("SELECT * FROM users WHERE name = 'bar'"),
	})
	require.NoError(t, err)

	executed := f.executed()
	assert.Equal(t, "UPDATE users SET name='bar' WHERE name = 'foo'", executed[4])
	assert.Equal(t, "UPDATE users SET _meta = $1 WHERE _meta = $2", executed[5])
	assert.Equal(t, []any{36, 3}, f.args[5])
	require.Len(t, results, 6)
	assert.Equal(t, "bar", results[5].Rows[0]["name"])
}

func TestTransactionZeroRowResultFallsThrough(t *testing.T) {
	calls := 0
	f := &fakeDB{handle: func(sql string, _ []any) (*fakeRows, error) {
		calls++
		switch calls {
		case 1:
			return rowsOf("SELECT 2", []string{"id"}, []any{int64(1)}, []any{int64(2)}), nil
		case 2:
			return rowsOf("SELECT 0", []string{"id"}), nil
		}
		return nil, nil
	}}

	_, err := newTestDB(f).Transaction(context.Background(), []statement.Statement{
		statement.Raw("SELECT id FROM a"),
		statement.Raw("SELECT id FROM b WHERE false"),
		statement.Raw("DELETE FROM c WHERE id = #id#"),
	})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM c WHERE id = 2", f.executed()[3])
}

func TestTransactionRollsBackOnFailure(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42883", Message: "function no_exist_function() does not exist"}
	f := &fakeDB{handle: func(sql string, _ []any) (*fakeRows, error) {
		if strings.Contains(sql, "no_exist_function") {
			return nil, pgErr
		}
		return rowsOf("CREATE TABLE", nil), nil
	}}

	results, err := newTestDB(f).Transaction(context.Background(), []statement.Statement{
		statement.Raw("CREATE TABLE error_tbl (name TEXT)"),
		statement.Raw("SELECT no_exist_function()"),
		statement.Raw("CREATE TABLE never_run (name TEXT)"),
	})

	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, domain.IsTransaction(err))
	assert.True(t, domain.IsStatement(err))

	var stmtErr *domain.StatementError
	require.True(t, errors.As(err, &stmtErr))
	assert.Equal(t, 1, stmtErr.Index)
	assert.Equal(t, "42883", stmtErr.SQLState)

	var gotPg *pgconn.PgError
	require.True(t, errors.As(err, &gotPg))
	assert.Same(t, pgErr, gotPg)

	assert.Equal(t, []string{
		"BEGIN",
		"CREATE TABLE error_tbl (name TEXT)",
		"SELECT no_exist_function()",
		"ROLLBACK",
	}, f.executed())
	assert.Equal(t, 1, f.released)
}

func TestTransactionRowErrorRollsBack(t *testing.T) {
	rowErr := errors.New("conn reset mid-stream")
	f := &fakeDB{handle: func(sql string, _ []any) (*fakeRows, error) {
		r := rowsOf("SELECT 1", []string{"id"}, []any{1})
		r.err = rowErr
		return r, nil
	}}

	_, err := newTestDB(f).Transaction(context.Background(), []statement.Statement{statement.Raw("SELECT 1")})
	require.ErrorIs(t, err, rowErr)
	assert.Equal(t, "ROLLBACK", f.executed()[2])
}

func TestRollbackFailureDoesNotMaskError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505"}
	f := &fakeDB{
		handle:  func(string, []any) (*fakeRows, error) { return nil, pgErr },
		execErr: map[string]error{"ROLLBACK": errors.New("connection lost")},
	}

	_, err := newTestDB(f).Transaction(context.Background(), []statement.Statement{statement.Raw("INSERT INTO u VALUES (1)")})
	require.Error(t, err)
	assert.ErrorIs(t, err, pgErr)
	assert.NotContains(t, err.Error(), "connection lost")
	assert.Equal(t, 1, f.released)
}

func TestTransactionRollbackIgnoresCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var rollbackCtxErr error
	f := &fakeDB{handle: func(sql string, _ []any) (*fakeRows, error) {
		cancel()
		return nil, context.Canceled
	}}
	conn := &ctxCheckingConn{fakeConn: fakeConn{db: f}, onExec: func(ctx context.Context, sql string) {
		if sql == "ROLLBACK" {
			rollbackCtxErr = ctx.Err()
		}
	}}
	pool := &singleConnPool{fakeDB: f, conn: conn}

	_, err := New(pool, config.DatabaseConfig{}, nil).Transaction(ctx, []statement.Statement{statement.Raw("SELECT pg_sleep(10)")})
	require.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, rollbackCtxErr)
}

func TestEmptyTransactionCommits(t *testing.T) {
	f := &fakeDB{}

	results, err := newTestDB(f).Transaction(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, []string{"BEGIN", "COMMIT"}, f.executed())
	assert.Equal(t, 1, f.released)
}

func TestTransactionCommitFailure(t *testing.T) {
	f := &fakeDB{execErr: map[string]error{"COMMIT": errors.New("serialization failure")}}

	results, err := newTestDB(f).Transaction(context.Background(), []statement.Statement{statement.Raw("SELECT 1")})
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, domain.IsTransaction(err))
	assert.Equal(t, []string{"BEGIN", "SELECT 1", "COMMIT", "ROLLBACK"}, f.executed())
}

func TestTransactionBeginFailure(t *testing.T) {
	f := &fakeDB{execErr: map[string]error{"BEGIN": errors.New("too many connections")}}

	_, err := newTestDB(f).Transaction(context.Background(), []statement.Statement{statement.Raw("SELECT 1")})
	require.Error(t, err)
	assert.True(t, domain.IsTransaction(err))
	assert.Equal(t, []string{"BEGIN"}, f.executed())
	assert.Equal(t, 1, f.released)
}

func TestTransactionAcquireFailure(t *testing.T) {
	f := &fakeDB{acquireErr: errors.New("pool closed")}

	_, err := newTestDB(f).Transaction(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, domain.IsTransaction(err))
	assert.Empty(t, f.executed())
}

type upperResolver struct{ seen [][]statement.Result }

func (u *upperResolver) Resolve(text string, prior []statement.Result) string {
	u.seen = append(u.seen, prior)
	return strings.ToUpper(text)
}

func TestTransactionUsesResolver(t *testing.T) {
	f := &fakeDB{}
	r := &upperResolver{}

	_, err := newTestDB(f).WithResolver(r).Transaction(context.Background(), []statement.Statement{
		statement.Raw("select 1"),
		statement.Raw("select 2"),
		statement.Raw("select 3"),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"BEGIN", "select 1", "SELECT 2", "SELECT 3", "COMMIT"}, f.executed())
	require.Len(t, r.seen, 2)
	assert.Len(t, r.seen[0], 1)
	assert.Len(t, r.seen[1], 2)
}

// ctxCheckingConn reports the context each Exec receives.
type ctxCheckingConn struct {
	fakeConn
	onExec func(ctx context.Context, sql string)
}

func (c *ctxCheckingConn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.onExec(ctx, sql)
	return c.fakeConn.Exec(ctx, sql, args...)
}

type singleConnPool struct {
	*fakeDB
	conn Conn
}

func (p *singleConnPool) Acquire(context.Context) (Conn, error) {
	return p.conn, nil
}
