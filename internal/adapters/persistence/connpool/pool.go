package connpool

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"log"
	"sync"

	"bibliotheque/internal/core/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultSize is the number of tracked connections when none is configured
const DefaultSize = 10

// Connector opens dedicated store connections. *sql.DB satisfies it.
type Connector interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Stats is a snapshot of the pool bookkeeping
type Stats struct {
	Capacity int `json:"capacity"`
	Open     int `json:"open"`
	InUse    int `json:"in_use"`
	Overflow int `json:"overflow"`
}

// Pool keeps a fixed number of live connections in slots and hands them out.
//
// When every slot is in use, Acquire does not wait: it opens a temporary
// connection outside the slots. Release closes such a connection instead of
// caching it.
type Pool struct {
	connector Connector
	tracer    trace.Tracer

	mu       sync.Mutex
	slots    []*sql.Conn
	inUse    []bool
	overflow map[*sql.Conn]struct{}
}

// New creates a pool with size tracked slots. Slots are filled lazily.
func New(connector Connector, size int) *Pool {
	if size < 1 {
		size = DefaultSize
	}
	return &Pool{
		connector: connector,
		tracer:    otel.Tracer("bibliotheque/connpool"),
		slots:     make([]*sql.Conn, size),
		inUse:     make([]bool, size),
		overflow:  make(map[*sql.Conn]struct{}),
	}
}

// Acquire returns the first free slot connection, opening it if the slot is
// empty or its connection was closed. Failures surface as *domain.StoreUnavailableError.
func (p *Pool) Acquire(ctx context.Context) (*sql.Conn, error) {
	ctx, span := p.tracer.Start(ctx, "connpool.acquire")
	defer span.End()

	p.mu.Lock()
	defer p.mu.Unlock()

	var lastErr error
	for i := range p.slots {
		if p.inUse[i] {
			continue
		}

		if p.slots[i] == nil || !alive(p.slots[i]) {
			if p.slots[i] != nil {
				p.slots[i].Close()
				p.slots[i] = nil
			}
			conn, err := p.connector.Conn(ctx)
			if err != nil {
				log.Printf("❌ Failed to open pooled connection (slot %d): %v", i, err)
				lastErr = err
				continue
			}
			p.slots[i] = conn
			log.Printf("🔌 New pooled connection (slot %d)", i)
		}

		p.inUse[i] = true
		span.SetAttributes(attribute.Int("pool.slot", i))
		return p.slots[i], nil
	}

	conn, err := p.connector.Conn(ctx)
	if err != nil {
		if lastErr != nil {
			err = errors.Join(lastErr, err)
		}
		span.RecordError(err)
		return nil, &domain.StoreUnavailableError{Err: err}
	}
	p.overflow[conn] = struct{}{}
	span.SetAttributes(attribute.Bool("pool.overflow", true))
	log.Printf("⚠️ Pool saturated, opened temporary connection")
	return conn, nil
}

// Release hands a connection back. Slot connections stay open for reuse;
// any other connection is closed.
func (p *Pool) Release(conn *sql.Conn) {
	if conn == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for i, c := range p.slots {
		if c == conn {
			p.inUse[i] = false
			return
		}
	}

	delete(p.overflow, conn)
	if err := conn.Close(); err != nil {
		log.Printf("⚠️ Failed to close temporary connection: %v", err)
	}
}

// CloseAll closes every slot connection and clears the in-use flags.
// Callers must have stopped using the pool.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, c := range p.slots {
		if c != nil {
			if err := c.Close(); err != nil {
				log.Printf("⚠️ Failed to close pooled connection (slot %d): %v", i, err)
			}
			p.slots[i] = nil
		}
		p.inUse[i] = false
	}
	log.Println("✅ All pooled connections closed")
}

// Stats returns the current pool bookkeeping
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{Capacity: len(p.slots), Overflow: len(p.overflow)}
	for i, c := range p.slots {
		if c != nil {
			s.Open++
		}
		if p.inUse[i] {
			s.InUse++
		}
	}
	return s
}

// alive reports whether the connection is still usable without a round trip.
func alive(conn *sql.Conn) bool {
	err := conn.Raw(func(dc any) error {
		if v, ok := dc.(driver.Validator); ok && !v.IsValid() {
			return driver.ErrBadConn
		}
		return nil
	})
	return err == nil
}
