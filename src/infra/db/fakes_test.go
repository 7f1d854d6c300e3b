package db

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeRows is an in-memory pgx.Rows.
type fakeRows struct {
	cols   []string
	data   [][]any
	tag    string
	err    error
	pos    int
	closed bool
}

var _ pgx.Rows = (*fakeRows)(nil)

func rowsOf(tag string, cols []string, data ...[]any) *fakeRows {
	return &fakeRows{cols: cols, data: data, tag: tag}
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag(r.tag) }
func (r *fakeRows) RawValues() [][]byte           { return nil }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fds := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		fds[i] = pgconn.FieldDescription{Name: c}
	}
	return fds
}

func (r *fakeRows) Next() bool {
	if r.closed || r.err != nil || r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if len(dest) == 1 {
		if rs, ok := dest[0].(pgx.RowScanner); ok {
			return rs.ScanRow(r)
		}
	}
	return errors.New("fakeRows: only RowScanner destinations are supported")
}

func (r *fakeRows) Values() ([]any, error) {
	return r.data[r.pos-1], nil
}

// fakeDB plays both Pool and the connections it hands out. Every SQL text
// it receives is appended to sql, in order.
type fakeDB struct {
	mu sync.Mutex

	// handle answers queries; nil means an empty result.
	handle func(sql string, args []any) (*fakeRows, error)

	execErr    map[string]error
	acquireErr error
	pingErr    error

	sql      []string
	args     [][]any
	acquired int
	released int
	closed   bool
}

var _ Pool = (*fakeDB)(nil)

func (f *fakeDB) record(sql string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sql = append(f.sql, sql)
	f.args = append(f.args, args)
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	if f.handle == nil {
		return rowsOf("SELECT 0", nil), nil
	}
	rows, err := f.handle(sql, args)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = rowsOf("SELECT 0", nil)
	}
	return rows, nil
}

func (f *fakeDB) Acquire(context.Context) (Conn, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	f.mu.Lock()
	f.acquired++
	f.mu.Unlock()
	return &fakeConn{db: f}, nil
}

func (f *fakeDB) Ping(context.Context) error { return f.pingErr }

func (f *fakeDB) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *fakeDB) executed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sql...)
}

type fakeConn struct {
	db *fakeDB
}

func (c *fakeConn) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	c.db.record(sql, args)
	if err := c.db.execErr[sql]; err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag(sql), nil
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.db.Query(ctx, sql, args...)
}

func (c *fakeConn) Release() {
	c.db.mu.Lock()
	c.db.released++
	c.db.mu.Unlock()
}
