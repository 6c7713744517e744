package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/loanspur/loanspur-nexus-finance-sub004/internal/apperrors"
	portsrepo "github.com/loanspur/loanspur-nexus-finance-sub004/internal/core/ports/repositories"
)

// requiredColumns lists the table/column pairs the migration run depends on.
// Columns added by the bundled schema migrations are included so validate
// catches a database that never ran them.
var requiredColumns = []struct {
	Table  string
	Column string
}{
	{"loans", "loan_id"},
	{"loans", "principal_amount"},
	{"loans", "outstanding_balance"},
	{"loans", "status"},
	{"loans", "migration_status"},
	{"loans", "migrated_at"},
	{"loans", "days_in_arrears"},
	{"loan_products", "accounting_type"},
	{"loan_products", "loan_portfolio_account_id"},
	{"loan_products", "fund_source_account_id"},
	{"loan_schedules", "installment_number"},
	{"loan_schedules", "due_date"},
	{"loan_schedules", "total_amount"},
	{"loan_schedules", "paid_amount"},
	{"loan_schedules", "outstanding_amount"},
	{"loan_schedules", "payment_status"},
	{"loan_payments", "amount"},
	{"loan_payments", "payment_date"},
	{"loan_payments", "principal_portion"},
	{"journals", "reference_type"},
	{"journals", "reference_id"},
	{"transactions", "transaction_type"},
}

type PgxSchemaRepository struct {
	BaseRepository
}

// NewSchemaRepository creates a repository for schema introspection.
func NewSchemaRepository(pool *pgxpool.Pool) portsrepo.SchemaReader {
	return &PgxSchemaRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SchemaReader = (*PgxSchemaRepository)(nil)

// MissingColumns returns the required table.column pairs absent from the
// connected database, empty when the schema is migration-ready.
func (r *PgxSchemaRepository) MissingColumns(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name, column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema()
		  AND table_name = ANY($1);
	`
	tables := make([]string, 0, len(requiredColumns))
	seen := make(map[string]struct{})
	for _, rc := range requiredColumns {
		if _, ok := seen[rc.Table]; !ok {
			seen[rc.Table] = struct{}{}
			tables = append(tables, rc.Table)
		}
	}

	rows, err := r.Pool.Query(ctx, query, tables)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query information_schema.columns", err)
	}
	defer rows.Close()

	present := make(map[string]struct{})
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan schema row", err)
		}
		present[table+"."+column] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating schema rows", err)
	}

	missing := make([]string, 0)
	for _, rc := range requiredColumns {
		key := rc.Table + "." + rc.Column
		if _, ok := present[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing, nil
}
