package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cofrinho/internal/core"
	"cofrinho/internal/store"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Repository implements store.Store over database/sql for SQLite and Postgres.
type Repository struct {
	db      *sql.DB
	dialect Dialect
}

var _ store.Store = (*Repository)(nil)

// NewSQLiteRepository opens (creating if needed) the SQLite file at dbPath and migrates it.
func NewSQLiteRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return open(SQLite, sqliteDSN(dbPath))
}

// NewPostgresRepository connects to the database at url and migrates it.
func NewPostgresRepository(url string) (*Repository, error) {
	return open(Postgres, url)
}

func open(dialect Dialect, dsn string) (*Repository, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", dialect, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dialect, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if dialect == SQLite {
		// SQLite serialises writers anyway; one connection avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	}

	return &Repository{db: db, dialect: dialect}, nil
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return r.db.ExecContext(ctx, r.dialect.rebind(query), args...)
}

func (r *Repository) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
}

func (r *Repository) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return r.db.QueryRowContext(ctx, r.dialect.rebind(query), args...)
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func nullDate(d *core.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.String()
}

const profileColumns = `id, name, phone, city, state, country, points, level, monthly_salary, created_at, updated_at`

// GetProfile implements store.ProfileStore
func (r *Repository) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var (
		p                core.Profile
		created, updated int64
	)
	err := r.queryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, userID).Scan(
		&p.ID, &p.Name, &p.Phone, &p.City, &p.State, &p.Country,
		&p.Points, &p.Level, &p.MonthlySalary, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Profile{}, store.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.CreatedAt = fromMillis(created)
	p.UpdatedAt = fromMillis(updated)
	return p, nil
}

// CreateProfile implements store.ProfileStore. An existing row is left untouched.
func (r *Repository) CreateProfile(ctx context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.exec(ctx,
		`INSERT INTO profiles (`+profileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (id) DO NOTHING`,
		p.ID, p.Name, p.Phone, p.City, p.State, p.Country,
		p.Points, p.Level, p.MonthlySalary.String(), millis(p.CreatedAt), millis(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	slog.InfoContext(ctx, "Profile created", "user_id", p.ID)
	return nil
}

// UpdateProfile implements store.ProfileStore
func (r *Repository) UpdateProfile(ctx context.Context, p core.Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}
	res, err := r.exec(ctx,
		`UPDATE profiles SET name = ?, phone = ?, city = ?, state = ?, country = ?,
		 points = ?, level = ?, monthly_salary = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.Phone, p.City, p.State, p.Country,
		p.Points, p.Level, p.MonthlySalary.String(), millis(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return requireRow(res)
}

const transactionColumns = `id, user_id, category, weekday, week_start, amount, created_at`

// ListWeek implements store.TransactionStore
func (r *Repository) ListWeek(ctx context.Context, userID string, weekStart core.Date) ([]core.Transaction, error) {
	rows, err := r.query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? AND week_start = ? ORDER BY created_at`,
		userID, weekStart.String())
	if err != nil {
		return nil, fmt.Errorf("list week transactions: %w", err)
	}
	return scanTransactions(rows)
}

// ListTransactions implements store.TransactionStore
func (r *Repository) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	rows, err := r.query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = ? ORDER BY week_start, created_at`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return scanTransactions(rows)
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	defer rows.Close()
	var out []core.Transaction
	for rows.Next() {
		var (
			t       core.Transaction
			created int64
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Category, &t.Weekday, &t.WeekStart, &t.Amount, &created); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.CreatedAt = fromMillis(created)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// DeleteWeek implements store.TransactionStore
func (r *Repository) DeleteWeek(ctx context.Context, userID string, weekStart core.Date) error {
	res, err := r.exec(ctx, `DELETE FROM transactions WHERE user_id = ? AND week_start = ?`, userID, weekStart.String())
	if err != nil {
		return fmt.Errorf("delete week: %w", err)
	}
	n, _ := res.RowsAffected()
	slog.DebugContext(ctx, "Week transactions deleted", "user_id", userID, "week_start", weekStart.String(), "rows", n)
	return nil
}

// DeleteWeekCategory implements store.TransactionStore
func (r *Repository) DeleteWeekCategory(ctx context.Context, userID string, weekStart core.Date, category core.Category) error {
	_, err := r.exec(ctx,
		`DELETE FROM transactions WHERE user_id = ? AND week_start = ? AND category = ?`,
		userID, weekStart.String(), string(category))
	if err != nil {
		return fmt.Errorf("delete week category: %w", err)
	}
	return nil
}

// InsertTransactions implements store.TransactionStore. The batch is inserted
// in one transaction.
func (r *Repository) InsertTransactions(ctx context.Context, txs []core.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert transactions: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, r.dialect.rebind(
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert transaction: %w", err)
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.ExecContext(ctx, t.ID, t.UserID, string(t.Category), string(t.Weekday),
			t.WeekStart.String(), t.Amount.String(), millis(t.CreatedAt)); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("commit insert transactions: %w", err)
	}
	slog.InfoContext(ctx, "Transactions saved", "count", len(txs), "user_id", txs[0].UserID)
	return nil
}

const goalColumns = `id, user_id, name, target, current, deadline, achieved, created_at`

// ListGoals implements store.GoalStore
func (r *Repository) ListGoals(ctx context.Context, userID string) ([]core.Goal, error) {
	rows, err := r.query(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

// GetGoal implements store.GoalStore
func (r *Repository) GetGoal(ctx context.Context, userID, goalID string) (core.Goal, error) {
	g, err := scanGoal(r.queryRow(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, goalID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, store.ErrNotFound
	}
	return g, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (core.Goal, error) {
	var (
		g        core.Goal
		deadline core.Date
		created  int64
	)
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Target, &g.Current, &deadline, &g.Achieved, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, err
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("scan goal: %w", err)
	}
	if !deadline.IsZero() {
		g.Deadline = &deadline
	}
	g.CreatedAt = fromMillis(created)
	return g, nil
}

// InsertGoal implements store.GoalStore
func (r *Repository) InsertGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	_, err := r.exec(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.UserID, g.Name, g.Target.String(), g.Current.String(), nullDate(g.Deadline), g.Achieved, millis(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	slog.InfoContext(ctx, "Goal created", "goal_id", g.ID, "user_id", g.UserID)
	return nil
}

// UpdateGoal implements store.GoalStore. The whole record is written back.
func (r *Repository) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	res, err := r.exec(ctx,
		`UPDATE goals SET name = ?, target = ?, current = ?, deadline = ?, achieved = ? WHERE id = ? AND user_id = ?`,
		g.Name, g.Target.String(), g.Current.String(), nullDate(g.Deadline), g.Achieved, g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

// InsertQuizResult implements store.QuizResultStore
func (r *Repository) InsertQuizResult(ctx context.Context, q core.QuizResult) error {
	if err := q.Validate(); err != nil {
		return err
	}
	_, err := r.exec(ctx,
		`INSERT INTO quiz_results (id, user_id, content_type, score, total, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		q.ID, q.UserID, q.ContentType, q.Score, q.Total, millis(q.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

// ListQuizResults implements store.QuizResultStore
func (r *Repository) ListQuizResults(ctx context.Context, userID string) ([]core.QuizResult, error) {
	rows, err := r.query(ctx,
		`SELECT id, user_id, content_type, score, total, created_at FROM quiz_results
		 WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list quiz results: %w", err)
	}
	defer rows.Close()

	var out []core.QuizResult
	for rows.Next() {
		var (
			q       core.QuizResult
			created int64
		)
		if err := rows.Scan(&q.ID, &q.UserID, &q.ContentType, &q.Score, &q.Total, &created); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		q.CreatedAt = fromMillis(created)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz results: %w", err)
	}
	return out, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
