package repositories

import (
	"context"

	"bibliotheque/internal/adapters/persistence/connpool"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type txKey struct{}

// Store hands repositories a gorm session bound to one pooled connection.
//
// Every call borrows a connection and returns it on all exit paths. Calls made
// with a context produced by Transaction reuse that transaction instead.
type Store struct {
	db     *gorm.DB
	pool   *connpool.Pool
	tracer trace.Tracer
}

// NewStore creates a new store
func NewStore(db *gorm.DB, pool *connpool.Pool) *Store {
	return &Store{
		db:     db,
		pool:   pool,
		tracer: otel.Tracer("bibliotheque/repositories"),
	}
}

// Run executes fn on a session bound to a pooled connection
func (s *Store) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(tx)
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer s.pool.Release(conn)

	// Same binding gorm.DB.Connection performs, but on our own pool.
	tx := s.db.WithContext(ctx)
	tx.Statement.ConnPool = conn
	return fn(tx)
}

// Transaction runs fn inside one store transaction. Repository calls made with
// the context passed to fn join that transaction.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	ctx, span := s.tracer.Start(ctx, "repositories.transaction")
	defer span.End()

	err := s.Run(ctx, func(conn *gorm.DB) error {
		return conn.Transaction(func(tx *gorm.DB) error {
			return fn(context.WithValue(ctx, txKey{}, tx))
		})
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}
