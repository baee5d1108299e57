package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/golangid/gqlsubscription/codebase/interfaces"
	"github.com/golangid/gqlsubscription/logger"

	// postgres driver
	_ "github.com/lib/pq"
)

type sqlInstance struct {
	read, write *sql.DB
}

func (s *sqlInstance) ReadDB() *sql.DB {
	return s.read
}

func (s *sqlInstance) WriteDB() *sql.DB {
	return s.write
}

func (s *sqlInstance) Health() map[string]error {
	ctx := context.Background()
	return map[string]error{
		"sql_read":  s.read.PingContext(ctx),
		"sql_write": s.write.PingContext(ctx),
	}
}

func (s *sqlInstance) Disconnect(ctx context.Context) (err error) {
	defer logger.LogWithDefer("\x1b[33;5msql\x1b[0m: disconnect...")()

	if s.read != s.write {
		if err := s.read.Close(); err != nil {
			return err
		}
	}
	return s.write.Close()
}

// NewSQLInstance wrap existing read & write connection
func NewSQLInstance(read, write *sql.DB) interfaces.SQLDatabase {
	if read == nil {
		read = write
	}
	return &sqlInstance{read: read, write: write}
}

// InitSQLDatabase return postgres read & write instance, if read dsn empty, read use write connection
func InitSQLDatabase(readDSN, writeDSN string) interfaces.SQLDatabase {
	defer logger.LogWithDefer("Load SQL connection...")()

	write := ConnectSQLDatabase(writeDSN)
	if readDSN == "" || readDSN == writeDSN {
		return NewSQLInstance(write, write)
	}
	return NewSQLInstance(ConnectSQLDatabase(readDSN), write)
}

// ConnectSQLDatabase connect to postgres with dsn
func ConnectSQLDatabase(dsn string) *sql.DB {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		panic("SQL Connection: " + err.Error())
	}
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		panic("SQL Ping: " + err.Error())
	}
	return db
}
