package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"bibliotheque/internal/adapters/persistence/connpool"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database bundles the store handles shared by the repositories
type Database struct {
	SQL  *sql.DB
	Gorm *gorm.DB
	Pool *connpool.Pool
}

// ConnectDatabase opens the store and wraps it in a connection pool
func ConnectDatabase(cfg *Config) (*Database, error) {
	var gormLogger logger.Interface
	if cfg.IsDev() {
		gormLogger = logger.Default.LogMode(logger.Info)
	} else {
		gormLogger = logger.Default.LogMode(logger.Error)
	}
	return OpenDatabase(cfg.Database, gormLogger)
}

// OpenDatabase opens the store described by d
func OpenDatabase(d DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	sqlDB, dialector, err := openDialector(d)
	if err != nil {
		return nil, err
	}

	// The pool below is the only place connections are kept for reuse.
	// database/sql must close whatever we hand back and never block opening.
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetMaxOpenConns(0)
	sqlDB.SetConnMaxLifetime(time.Hour)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("✅ Database connected successfully [%s]", describe(d))

	return &Database{
		SQL:  sqlDB,
		Gorm: db,
		Pool: connpool.New(sqlDB, d.PoolSize),
	}, nil
}

func openDialector(d DatabaseConfig) (*sql.DB, gorm.Dialector, error) {
	switch d.Driver {
	case DriverSQLite:
		sqlDB, err := sql.Open(sqlite.DriverName, buildSQLiteDSN(d))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		return sqlDB, &sqlite.Dialector{Conn: sqlDB}, nil
	default:
		if err := ensureDatabase(d); err != nil {
			return nil, nil, err
		}
		sqlDB, err := sql.Open("mysql", buildDSN(d))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open mysql database: %w", err)
		}
		return sqlDB, mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), nil
	}
}

// buildDSN returns the MySQL connection string.
// clientFoundRows makes UPDATE report matched rows, so rewriting a row with
// identical values still counts as one affected row.
func buildDSN(d DatabaseConfig) string {
	c := mysqlConfig(d)
	c.DBName = d.DBName
	return c.FormatDSN()
}

// buildServerDSN points at the server alone, for statements that must run
// before the schema exists.
func buildServerDSN(d DatabaseConfig) string {
	return mysqlConfig(d).FormatDSN()
}

func mysqlConfig(d DatabaseConfig) *gomysql.Config {
	c := gomysql.NewConfig()
	c.User = d.User
	c.Passwd = d.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(d.Host, d.Port)
	c.ClientFoundRows = true
	c.Params = map[string]string{"charset": "utf8mb4"}
	return c
}

// ensureDatabase creates the configured schema on the server if it is missing.
func ensureDatabase(d DatabaseConfig) error {
	server, err := sql.Open("mysql", buildServerDSN(d))
	if err != nil {
		return fmt.Errorf("failed to open mysql server connection: %w", err)
	}
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := server.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS "+quoteIdentifier(d.DBName)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", d.DBName, err)
	}
	log.Printf("ℹ️  Database %s is present", d.DBName)
	return nil
}

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func buildSQLiteDSN(d DatabaseConfig) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", d.Path)
}

func describe(d DatabaseConfig) string {
	if d.Driver == DriverSQLite {
		return "sqlite:" + d.Path
	}
	return fmt.Sprintf("%s:%s/%s", d.Host, d.Port, d.DBName)
}

// Close releases the pool and then the underlying store handle
func (d *Database) Close() error {
	d.Pool.CloseAll()
	return d.SQL.Close()
}

// HealthCheck borrows a pooled connection and pings the store
func (d *Database) HealthCheck(ctx context.Context) error {
	conn, err := d.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer d.Pool.Release(conn)
	return conn.PingContext(ctx)
}
