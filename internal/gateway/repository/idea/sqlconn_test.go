package idea

import (
	"context"
	"database/sql/driver"
	"errors"
	"sync"
)

// scriptedConnector hands out connections whose Exec fails while failures
// remain, then succeeds. It counts every Exec that reached it.
type scriptedConnector struct {
	mu       sync.Mutex
	failures int
	execs    int
}

func (c *scriptedConnector) Connect(context.Context) (driver.Conn, error) {
	return &scriptedConn{c: c}, nil
}

func (c *scriptedConnector) Driver() driver.Driver { return scriptedDriver{c: c} }

func (c *scriptedConnector) execCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.execs
}

type scriptedDriver struct{ c *scriptedConnector }

func (d scriptedDriver) Open(string) (driver.Conn, error) { return &scriptedConn{c: d.c}, nil }

type scriptedConn struct{ c *scriptedConnector }

func (*scriptedConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (*scriptedConn) Close() error { return nil }

func (*scriptedConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions not supported")
}

func (sc *scriptedConn) ExecContext(ctx context.Context, _ string, _ []driver.NamedValue) (driver.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sc.c.mu.Lock()
	defer sc.c.mu.Unlock()
	sc.c.execs++
	if sc.c.failures > 0 {
		sc.c.failures--
		return nil, errors.New("connection refused")
	}
	return driver.RowsAffected(0), nil
}
