package journal

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
	"go.uber.org/zap"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

//go:embed migrations
var migrations embed.FS

// Event is a journaled order not yet handed to the publisher.
type Event struct {
	OrderID   string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// Journal records every placed order locally, synced or not, so it can be
// tracked after a restart and fanned out through the outbox.
type Journal struct {
	db     *sql.DB
	driver string
	logger *zap.Logger
	now    func() time.Time
}

func Open(driver, dsn string, logger *zap.Logger) (*Journal, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(5)
	}
	return &Journal{db: db, driver: driver, logger: logger, now: time.Now}, nil
}

func (j *Journal) RunMigrations() error {
	src, err := iofs.New(migrations, "migrations/"+j.driver)
	if err != nil {
		return fmt.Errorf("could not open migrations: %w", err)
	}

	var target database.Driver
	switch j.driver {
	case DriverSQLite:
		target, err = sqlite.WithInstance(j.db, &sqlite.Config{})
	default:
		target, err = postgres.WithInstance(j.db, &postgres.Config{MigrationsTable: "journal_schema_migrations"})
	}
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, j.driver, target)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores a placed order with its outbox entry pending.
func (j *Journal) Record(ctx context.Context, order domain.Order) error {
	payload, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	query := j.rebind(`INSERT INTO orders (id, payload, total, synced, created_at) VALUES (?, ?, ?, ?, ?)`)
	_, err = j.db.ExecContext(ctx, query,
		order.ID,
		string(payload),
		order.Total,
		order.Synced,
		order.CreatedAt.UnixMilli())
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateOrder
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// OrderPlaced records the order; failures are logged because placing the
// order has already succeeded.
func (j *Journal) OrderPlaced(ctx context.Context, order domain.Order) {
	if err := j.Record(ctx, order); err != nil {
		j.logger.Error("failed to journal order", zap.String("order_id", order.ID), zap.Error(err))
	}
}

func (j *Journal) GetOrder(ctx context.Context, id string) (domain.Order, error) {
	var payload string
	err := j.db.QueryRowContext(ctx, j.rebind(`SELECT payload FROM orders WHERE id = ?`), id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("query order by id: %w", err)
	}

	var order domain.Order
	if err := json.Unmarshal([]byte(payload), &order); err != nil {
		return domain.Order{}, fmt.Errorf("unmarshal order: %w", err)
	}
	return order, nil
}

// Unpublished returns pending outbox entries, oldest first.
func (j *Journal) Unpublished(ctx context.Context, limit int) ([]Event, error) {
	query := j.rebind(`SELECT id, payload, created_at FROM orders
	          WHERE published_at IS NULL ORDER BY created_at, id LIMIT ?`)
	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query unpublished orders: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			e       Event
			payload string
			created int64
		)
		if err := rows.Scan(&e.OrderID, &payload, &created); err != nil {
			return nil, fmt.Errorf("scan unpublished order: %w", err)
		}
		e.Payload = json.RawMessage(payload)
		e.CreatedAt = time.UnixMilli(created).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unpublished orders: %w", err)
	}
	return events, nil
}

func (j *Journal) MarkPublished(ctx context.Context, id string) error {
	query := j.rebind(`UPDATE orders SET published_at = ? WHERE id = ? AND published_at IS NULL`)
	if _, err := j.db.ExecContext(ctx, query, j.now().UnixMilli(), id); err != nil {
		return fmt.Errorf("mark order published: %w", err)
	}
	return nil
}

// rebind turns ? placeholders into $n for postgres.
func (j *Journal) rebind(query string) string {
	if j.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isDuplicate(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *msqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
