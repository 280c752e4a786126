// Package gatesso reads the employee and company directory that lives in the
// external gate_sso database. The gate_sso host is only reachable from the
// primary database server, so access goes through PostgreSQL's dblink
// extension rather than a second connection pool.
package gatesso

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/semaphore"
)

// ErrRemoteUnavailable is returned when the remote link could not be
// established after exhausting retries. Enrichment callers degrade on it;
// whole-result callers turn it into an empty listing.
var ErrRemoteUnavailable = errors.New("gate_sso: remote link unavailable")

// RowScanner is the per-row scanning surface handed to Query callbacks.
type RowScanner interface {
	Scan(dest ...any) error
}

// Querier executes read queries against the remote gate_sso database.
type Querier interface {
	Query(ctx context.Context, rowDef, remoteSQL string, fn func(RowScanner) error) error
}

const (
	connectAttempts = 3
	connectBackoff  = 100 * time.Millisecond

	// maxConcurrentLinks bounds simultaneous remote connections. Each
	// operation opens its own uniquely named link, so nothing shares
	// server-side link state across requests.
	maxConcurrentLinks = 4
)

// dbconn is the slice of the local pool the link layer needs. pgxpool.Pool
// satisfies it.
type dbconn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Link manages dblink connections to the gate_sso database. Every Query call
// opens a fresh, uniquely named link and tears it down on exit; the name
// never collides with a concurrent request's link.
type Link struct {
	pool      dbconn
	remoteDSN string
	logger    *slog.Logger
	sem       *semaphore.Weighted
	attempts  int
	backoff   time.Duration
}

// NewLink constructs a Link against the local pool using the given remote
// connection string.
func NewLink(pool *pgxpool.Pool, remoteDSN string, logger *slog.Logger) *Link {
	return &Link{
		pool:      pool,
		remoteDSN: remoteDSN,
		logger:    logger,
		sem:       semaphore.NewWeighted(maxConcurrentLinks),
		attempts:  connectAttempts,
		backoff:   connectBackoff,
	}
}

// Query runs remoteSQL on the gate_sso database and invokes fn once per
// returned row. rowDef is the dblink column definition list and comes from
// package-internal constants, never from input. Connectivity failures are
// retried; a failed execution gets one reconnect-and-retry cycle, but only
// while no row has reached fn yet, so a caller's accumulator never sees
// the same row twice.
func (l *Link) Query(ctx context.Context, rowDef, remoteSQL string, fn func(RowScanner) error) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.sem.Release(1)

	name := linkName()
	if err := l.connect(ctx, name); err != nil {
		return err
	}
	defer l.disconnect(name)

	delivered, err := l.run(ctx, name, rowDef, remoteSQL, fn)
	if err == nil {
		return nil
	}
	if delivered > 0 {
		// Rows already reached fn; a rerun would hand them over twice.
		return err
	}

	// One reconnect-and-retry cycle; covers links dropped server-side
	// between connect and query.
	l.disconnect(name)
	if cerr := l.connect(ctx, name); cerr != nil {
		return cerr
	}
	_, err = l.run(ctx, name, rowDef, remoteSQL, fn)
	return err
}

func (l *Link) connect(ctx context.Context, name string) error {
	var lastErr error
	for attempt := 1; attempt <= l.attempts; attempt++ {
		_, err := l.pool.Exec(ctx, `SELECT dblink_connect($1, $2)`, name, l.remoteDSN)
		if err == nil {
			return nil
		}
		lastErr = err

		// Best-effort teardown before the next attempt. "duplicate
		// connection name" and "connection not available" both land here
		// and are deliberately ignored.
		l.disconnect(name)

		if attempt == l.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.backoff * time.Duration(attempt)):
		}
	}
	if l.logger != nil {
		l.logger.Warn("gate_sso link establishment failed",
			slog.Int("attempts", l.attempts), slog.Any("error", lastErr))
	}
	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, lastErr)
}

func (l *Link) disconnect(name string) {
	// Disconnect must not inherit a canceled request context.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, _ = l.pool.Exec(ctx, `SELECT dblink_disconnect($1)`, name)
}

// run executes the remote query and reports how many rows it handed to fn
// before returning. The count decides whether a failure is still retryable.
func (l *Link) run(ctx context.Context, name, rowDef, remoteSQL string, fn func(RowScanner) error) (int, error) {
	query := fmt.Sprintf(`SELECT * FROM dblink($1, $2) AS t(%s)`, rowDef)
	rows, err := l.pool.Query(ctx, query, name, remoteSQL)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	delivered := 0
	for rows.Next() {
		if err := fn(rows); err != nil {
			return delivered, err
		}
		delivered++
	}
	return delivered, rows.Err()
}

func linkName() string {
	return "gate_sso_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
