package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/logger"
	"github.com/golangid/gqlsubscription/subscription"
	"github.com/golangid/gqlsubscription/tracer"
	"github.com/lib/pq"
)

const defaultPostgresTable = "subscribers"

// PostgresStore subscriber record as compressed blob, indexed by channel and schema name columns
type PostgresStore struct {
	read, write *sql.DB
	table       string
}

// NewPostgresStore constructor
func NewPostgresStore(read, write *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = defaultPostgresTable
	}
	return &PostgresStore{read: read, write: write, table: pq.QuoteIdentifier(table)}
}

// Migrate create table and index when not exist
func (p *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(64) PRIMARY KEY,
			channel VARCHAR(255) NOT NULL,
			schema_name VARCHAR(255) NOT NULL DEFAULT '',
			data BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, p.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (channel, schema_name)`,
			pq.QuoteIdentifier(p.indexName()), p.table),
	}
	for _, stmt := range stmts {
		if _, err := p.write.ExecContext(ctx, stmt); err != nil {
			return candishared.NewStorageError("migrate", err)
		}
	}
	return nil
}

func (p *PostgresStore) indexName() string {
	// table is quoted
	return "idx_" + p.table[1:len(p.table)-1] + "_channel_schema"
}

// Store method
func (p *PostgresStore) Store(ctx context.Context, subscriber *subscription.Subscriber) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "postgres:store")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("subscriber_id", subscriber.ID)

	data, err := Encode(subscriber)
	if err != nil {
		return candishared.NewStorageError("store", err)
	}

	query := fmt.Sprintf(`INSERT INTO %s (id, channel, schema_name, data) VALUES ($1, $2, $3, $4)`, p.table)
	if _, err := p.write.ExecContext(ctx, query, subscriber.ID, subscriber.Channel, subscriber.SchemaName, data); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			return candishared.NewStorageError("store", fmt.Errorf("%s: %w", pqErr.Code.Name(), err))
		}
		return candishared.NewStorageError("store", err)
	}
	return nil
}

// FindByChannelAndSchema method, row that cannot be decoded or is incomplete is skipped
func (p *PostgresStore) FindByChannelAndSchema(ctx context.Context, channel, schemaName string, handleFunc func(*subscription.Subscriber) error) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "postgres:find_by_channel_and_schema")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("channel", channel)

	query := fmt.Sprintf(`SELECT id, data FROM %s WHERE channel = $1 AND schema_name = $2 ORDER BY created_at`, p.table)
	rows, err := p.read.QueryContext(ctx, query, channel, schemaName)
	if err != nil {
		return candishared.NewStorageError("find", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var data []byte
		if err := rows.Scan(&id, &data); err != nil {
			logger.LogYellow(fmt.Sprintf("storage: skip unreadable subscriber row: %v", err))
			continue
		}
		subscriber, ok := decodeRecord(id, data)
		if !ok {
			continue
		}
		if err := handleFunc(subscriber); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return candishared.NewStorageError("find", err)
	}
	return nil
}

// Delete method
func (p *PostgresStore) Delete(ctx context.Context, id string) (err error) {
	trace, ctx := tracer.StartTraceWithContext(ctx, "postgres:delete")
	defer func() { trace.Finish(tracer.FinishWithError(err)) }()
	trace.SetTag("subscriber_id", id)

	res, err := p.write.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, p.table), id)
	if err != nil {
		return candishared.NewStorageError("delete", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return candishared.NewStorageError("delete", err)
	}
	if affected == 0 {
		return candishared.NewNotFoundError("subscriber", id)
	}
	return nil
}
