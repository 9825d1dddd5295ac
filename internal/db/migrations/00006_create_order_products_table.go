package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(UpOrderProductsTable, DownOrderProductsTable)
}

func UpOrderProductsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE TABLE order_products
(
    order_uuid UUID NOT NULL REFERENCES orders (uuid) ON DELETE CASCADE,
    position INT NOT NULL,
    product_uuid UUID REFERENCES products (uuid) ON DELETE SET NULL,
    quantity INT,
    PRIMARY KEY (order_uuid, position)
);`)
	return err
}

func DownOrderProductsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE order_products;")
	return err
}
