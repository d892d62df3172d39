package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"SupplierScout/internal/domain"
	"SupplierScout/internal/ports"
)

// PostgresRepository persists finished search sessions into Postgres.
// A nil db turns every operation into a no-op so the pipeline runs
// without storage configured.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.SessionRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveSession stores the session row plus one row per supplier found.
// Re-saving a session replaces its suppliers.
func (r *PostgresRepository) SaveSession(ctx context.Context, req domain.SearchRequest, report domain.SearchReport) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Insert("search_sessions").
		Columns("session_id", "query", "amount", "delivery_date", "location",
			"country_code", "queries_used", "suppliers_found", "rejections",
			"started_at", "elapsed_ms").
		Values(report.SessionID, req.Query, req.Amount, req.DeliveryDate, req.Location,
			report.Location.CountryCode, pq.StringArray(report.QueriesUsed),
			len(report.Suppliers), len(report.Rejections),
			report.StartedAt, report.Elapsed.Milliseconds()).
		Suffix(`ON CONFLICT (session_id) DO UPDATE
			SET suppliers_found = EXCLUDED.suppliers_found,
			    rejections = EXCLUDED.rejections,
			    elapsed_ms = EXCLUDED.elapsed_ms`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build session insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	del, args, err := r.builder.
		Delete("supplier_candidates").
		Where(sq.Eq{"session_id": report.SessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build suppliers delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("delete stale suppliers: %w", err)
	}

	if len(report.Suppliers) > 0 {
		insert := r.builder.
			Insert("supplier_candidates").
			Columns("session_id", "name", "website", "contact_info",
				"phones", "emails", "supplier_type", "location", "source")
		for _, s := range report.Suppliers {
			insert = insert.Values(report.SessionID, s.Name, s.Website, s.ContactInfo,
				pq.StringArray(s.Phones), pq.StringArray(s.Emails),
				s.SupplierType, s.Location, s.Source)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("build suppliers insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert suppliers: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}
