package config

import (
	"context"
	"embed"
	"fmt"
	"log"
	"strings"

	"bibliotheque/internal/adapters/persistence/connpool"
)

//go:embed sql/*.sql
var scripts embed.FS

// DefaultScript returns the embedded schema and seed script for a driver
func DefaultScript(driver string) (string, error) {
	b, err := scripts.ReadFile("sql/" + driver + ".sql")
	if err != nil {
		return "", fmt.Errorf("no bootstrap script for driver %q: %w", driver, err)
	}
	return string(b), nil
}

// BootstrapReport summarizes one bootstrap run
type BootstrapReport struct {
	TablesCreated int  `json:"tables_created"`
	TablesFailed  int  `json:"tables_failed"`
	Seeded        bool `json:"seeded"`
	RowsInserted  int  `json:"rows_inserted"`
}

// Bootstrapper creates the tables and seeds sample data into an empty store
type Bootstrapper struct {
	pool   *connpool.Pool
	script string
}

// NewBootstrapper creates a bootstrapper for a ';'-separated script
func NewBootstrapper(pool *connpool.Pool, script string) *Bootstrapper {
	return &Bootstrapper{pool: pool, script: script}
}

// Run executes the script's CREATE TABLE statements, then its INSERT
// statements when the livres table is empty. Other statements are ignored.
// Statement failures are logged and skipped; running twice is harmless.
func (b *Bootstrapper) Run(ctx context.Context) (*BootstrapReport, error) {
	log.Println("🌱 Bootstrapping database...")

	conn, err := b.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer b.pool.Release(conn)

	statements := splitStatements(b.script)
	report := &BootstrapReport{}

	for _, stmt := range statements {
		if !hasPrefixFold(stmt, "CREATE TABLE") {
			continue
		}
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			log.Printf("ℹ️ Create table skipped: %v", err)
			report.TablesFailed++
			continue
		}
		report.TablesCreated++
	}

	var count int64
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM livres").Scan(&count); err != nil {
		log.Printf("ℹ️ Could not count books: %v", err)
	}
	if count > 0 {
		log.Println("✅ Data already present, seeding skipped")
		return report, nil
	}

	report.Seeded = true
	for _, stmt := range statements {
		if !hasPrefixFold(stmt, "INSERT") {
			continue
		}
		result, err := conn.ExecContext(ctx, stmt)
		if err != nil {
			log.Printf("⚠️ Seed insert failed: %v", err)
			continue
		}
		if n, err := result.RowsAffected(); err == nil {
			report.RowsInserted += int(n)
		}
	}

	log.Printf("✅ Database bootstrap completed (%d rows seeded)", report.RowsInserted)
	return report, nil
}

// splitStatements splits a script on ';' after dropping "--" comment lines
func splitStatements(script string) []string {
	var kept []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		kept = append(kept, line)
	}

	var statements []string
	for _, stmt := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
