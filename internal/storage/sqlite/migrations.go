package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: villages must be created before budgets and users because
// of the foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS villages (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    district TEXT NOT NULL DEFAULT '',
    state TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS budgets (
    id TEXT PRIMARY KEY,
    village_id TEXT NOT NULL,
    year INTEGER NOT NULL,
    total_allocated INTEGER NOT NULL,
    UNIQUE (village_id, year),
    FOREIGN KEY (village_id) REFERENCES villages(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS budget_categories (
    id TEXT PRIMARY KEY,
    budget_id TEXT NOT NULL,
    category_name TEXT NOT NULL,
    allocated_amount INTEGER NOT NULL,
    FOREIGN KEY (budget_id) REFERENCES budgets(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    id TEXT PRIMARY KEY,
    category_id TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    amount INTEGER NOT NULL,
    vendor_name TEXT NOT NULL DEFAULT '',
    expense_date TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (category_id) REFERENCES budget_categories(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    role TEXT NOT NULL,
    village_id TEXT,
    is_active INTEGER NOT NULL DEFAULT 1,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (village_id) REFERENCES villages(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_budgets_village_id ON budgets(village_id);
CREATE INDEX IF NOT EXISTS idx_budget_categories_budget_id ON budget_categories(budget_id);
CREATE INDEX IF NOT EXISTS idx_expenses_category_id ON expenses(category_id);
CREATE INDEX IF NOT EXISTS idx_users_village_id ON users(village_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
