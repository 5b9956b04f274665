package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 5 * time.Second
	pgUniqueCode = "23505"
)

var ErrDuplicateID = errors.New("duplicate order id")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) Create(ctx context.Context, o Order) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback() }()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO orders (id, customer, amount, status, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, o.ID, []byte(o.Customer), o.Amount, o.Status, o.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateID
			}
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO order_items (order_id, position, title, price, qty)
			VALUES ($1, $2, $3, $4, $5)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, it := range o.Items {
			if _, err := stmt.ExecContext(ctx, o.ID, i, it.Title, it.Price, it.Qty); err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Order, bool, error) {
	var (
		o        Order
		customer []byte
		found    bool
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		err := s.db.QueryRowContext(ctx, `
			SELECT id, customer, amount, status, created_at
			FROM orders
			WHERE id = $1
		`, id).Scan(&o.ID, &customer, &o.Amount, &o.Status, &o.CreatedAt)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		o.Customer = customer

		rows, err := s.db.QueryContext(ctx, `
			SELECT title, price, qty
			FROM order_items
			WHERE order_id = $1
			ORDER BY position ASC
		`, id)
		if err != nil {
			return err
		}
		defer rows.Close()

		items := make([]Item, 0, 8)
		for rows.Next() {
			var it Item
			if err := rows.Scan(&it.Title, &it.Price, &it.Qty); err != nil {
				return err
			}
			items = append(items, it)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		o.Items = items
		return nil
	})

	if err != nil {
		return Order{}, false, err
	}
	if !found {
		return Order{}, false, nil
	}
	return o, true, nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, id, status string) (bool, error) {
	var n int64

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		res, err := s.db.ExecContext(ctx, `
			UPDATE orders SET status = $2 WHERE id = $1
		`, id, status)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})

	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}
