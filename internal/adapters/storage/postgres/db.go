package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PoolOptions ajusta el pool de database/sql. Cero = default.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(orInt(opts.MaxOpenConns, 10))
	db.SetMaxIdleConns(orInt(opts.MaxIdleConns, 5))
	db.SetConnMaxIdleTime(orDuration(opts.ConnMaxIdleTime, 5*time.Minute))
	db.SetConnMaxLifetime(orDuration(opts.ConnMaxLifetime, 30*time.Minute))

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func orInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func orDuration(v, def time.Duration) time.Duration {
	if v <= 0 {
		return def
	}
	return v
}

// where arma el WHERE con placeholders $N en orden.
type where struct {
	clauses []string
	args    []any
}

func newWhere(clause string, args ...any) *where {
	w := &where{}
	if clause != "" {
		w.clauses = append(w.clauses, clause)
		w.args = append(w.args, args...)
	}
	return w
}

// add recibe un formato con un solo %d para el placeholder.
func (w *where) add(format string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(format, len(w.args)))
}

func (w *where) addIn(col string, vals []string) {
	if len(vals) == 0 {
		return
	}
	placeholders := make([]string, 0, len(vals))
	for _, v := range vals {
		w.args = append(w.args, v)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(w.args)))
	}
	w.clauses = append(w.clauses, col+" IN ("+strings.Join(placeholders, ",")+")")
}

// addILike busca q (sin comodines del usuario) en cualquiera de cols.
func (w *where) addILike(cols []string, q string) {
	q = strings.TrimSpace(q)
	if q == "" || len(cols) == 0 {
		return
	}
	w.args = append(w.args, "%"+q+"%")
	n := len(w.args)
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", c, n))
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func (w *where) limit(n int) string {
	w.args = append(w.args, n)
	return fmt.Sprintf(" LIMIT $%d", len(w.args))
}

func notFoundIfNone(res sql.Result, notFound error) error {
	n, _ := res.RowsAffected()
	if n == 0 {
		return notFound
	}
	return nil
}
