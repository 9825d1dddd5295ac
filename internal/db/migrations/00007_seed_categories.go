package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpSeedCategories, DownSeedCategories)
}

func UpSeedCategories(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO categories (uuid, name)
SELECT gen_random_uuid(), name
FROM unnest(ARRAY [
    'Fruits & Vegetables',
    'Dairy & Eggs',
    'Meat & Seafood',
    'Bakery',
    'Pantry Staples',
    'Snacks',
    'Beverages',
    'Frozen Foods',
    'Personal Care',
    'Household Items'
    ]) AS name
ON CONFLICT (name) DO NOTHING;`)
	return err
}

func DownSeedCategories(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM categories WHERE name IN ('Fruits & Vegetables', 'Dairy & Eggs', 'Meat & Seafood', 'Bakery', 'Pantry Staples', 'Snacks', 'Beverages', 'Frozen Foods', 'Personal Care', 'Household Items');")
	return err
}
