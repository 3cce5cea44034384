package sqlite

import (
	"github.com/rmed/receipt-keeper/internal/migrate"
)

// migrations is the schema history of the receipt database.
// Shipped entries are never edited; append a new version instead.
var migrations = migrate.Registry{
	{
		Version:     1,
		Description: "create receipts and revision tables",
		Statements: []string{
			`CREATE TABLE receipts (
    id INTEGER PRIMARY KEY,
    description TEXT,
    shop TEXT NOT NULL,
    amount REAL NOT NULL DEFAULT 0.0,
    currency TEXT NOT NULL,
    payment_type TEXT NOT NULL,
    date_paid TEXT NOT NULL
)`,
			`CREATE TABLE ` + migrate.RevisionTable + ` (
    version INTEGER
)`,
			`INSERT INTO ` + migrate.RevisionTable + ` (version) VALUES (1)`,
		},
	},
	{
		Version:     2,
		Description: "index receipts by payment date",
		Statements: []string{
			`CREATE INDEX receipts_date_paid_idx ON receipts (date_paid)`,
		},
	},
}.MustValidate()

// Migrations returns a copy of the registry applied by Migrate.
func Migrations() migrate.Registry {
	out := make(migrate.Registry, len(migrations))
	for i, m := range migrations {
		m.Statements = append([]string(nil), m.Statements...)
		out[i] = m
	}
	return out
}
