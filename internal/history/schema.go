package history

import (
	"database/sql"
	"fmt"
)

const contractSizesTable = `
CREATE TABLE IF NOT EXISTS contract_sizes (
	run_seq      INTEGER NOT NULL REFERENCES runs(seq) ON DELETE CASCADE,
	contract_key TEXT NOT NULL,
	name         TEXT NOT NULL,
	bytes        INTEGER NOT NULL,
	tier         TEXT NOT NULL,
	PRIMARY KEY (run_seq, contract_key)
);`

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	recorded_at TEXT NOT NULL,
	total_bytes INTEGER NOT NULL,
	max_size_kib REAL,
	violations  INTEGER NOT NULL DEFAULT 0
);
` + contractSizesTable + `

CREATE INDEX IF NOT EXISTS idx_contract_sizes_key ON contract_sizes(contract_key);
`

// runMigrations upgrades databases written before contract sizes were keyed
// by contract key. Rows from those runs use their display name as the key.
func runMigrations(conn *sql.DB) error {
	var hasTable bool
	err := conn.QueryRow(`
		SELECT COUNT(*) > 0 FROM sqlite_master
		WHERE type = 'table' AND name = 'contract_sizes'
	`).Scan(&hasTable)
	if err != nil {
		return fmt.Errorf("failed to check for contract_sizes: %w", err)
	}
	if !hasTable {
		return nil
	}

	var hasKey bool
	err = conn.QueryRow(`
		SELECT COUNT(*) > 0 FROM pragma_table_info('contract_sizes')
		WHERE name = 'contract_key'
	`).Scan(&hasKey)
	if err != nil {
		return fmt.Errorf("failed to check for contract_key column: %w", err)
	}
	if hasKey {
		return nil
	}

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	steps := []string{
		`ALTER TABLE contract_sizes RENAME TO contract_sizes_by_name`,
		`DROP INDEX IF EXISTS idx_contract_sizes_name`,
		contractSizesTable,
		`INSERT INTO contract_sizes (run_seq, contract_key, name, bytes, tier)
			SELECT run_seq, name, name, bytes, tier FROM contract_sizes_by_name`,
		`DROP TABLE contract_sizes_by_name`,
	}
	for _, stmt := range steps {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to migrate contract_sizes: %w", err)
		}
	}
	return tx.Commit()
}
