package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
)

type migration struct {
	name  string
	query string
}

// Every statement is idempotent so migrations can run on each startup.
var migrations = []migration{
	{
		name: "create_employees",
		query: `
			CREATE TABLE IF NOT EXISTS employees (
				id            UUID PRIMARY KEY,
				full_name     TEXT NOT NULL,
				email         TEXT NOT NULL,
				role          TEXT NOT NULL,
				department_id TEXT,
				base_salary   NUMERIC(14, 2) NOT NULL DEFAULT 0,
				status        TEXT NOT NULL DEFAULT 'Active' CHECK (status IN ('Active', 'Inactive')),
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT uk_employee_email UNIQUE (email)
			)`,
	},
	{
		name: "create_projects",
		query: `
			CREATE TABLE IF NOT EXISTS projects (
				id                     UUID PRIMARY KEY,
				name                   TEXT NOT NULL,
				client_name            TEXT NOT NULL,
				total_amount           NUMERIC(14, 2) NOT NULL DEFAULT 0,
				start_date             DATE NOT NULL,
				end_date               DATE,
				status                 TEXT NOT NULL DEFAULT 'Active' CHECK (status IN ('Active', 'Completed')),
				project_manager_id     UUID REFERENCES employees (id),
				team_lead_id           UUID REFERENCES employees (id),
				manager_id             UUID REFERENCES employees (id),
				bidder_id              UUID REFERENCES employees (id),
				developer_ids          TEXT[] NOT NULL DEFAULT '{}',
				bonus_pool             NUMERIC(14, 2) NOT NULL DEFAULT 0,
				pm_commission          JSONB,
				team_lead_commission   JSONB,
				manager_commission     JSONB,
				bidder_commission      JSONB,
				created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
	{
		name: "create_project_history",
		query: `
			CREATE TABLE IF NOT EXISTS project_history (
				id               UUID PRIMARY KEY,
				project_id       UUID NOT NULL REFERENCES projects (id),
				sequence         BIGINT NOT NULL,
				change_type      TEXT NOT NULL,
				changes          JSONB NOT NULL DEFAULT '[]',
				snapshot         JSONB NOT NULL,
				changed_by_id    TEXT NOT NULL,
				changed_by_email TEXT NOT NULL,
				notes            TEXT,
				created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT uk_project_history_sequence UNIQUE (project_id, sequence)
			)`,
	},
	{
		name: "create_monthly_project_revenues",
		query: `
			CREATE TABLE IF NOT EXISTS monthly_project_revenues (
				id               UUID PRIMARY KEY,
				project_id       UUID NOT NULL REFERENCES projects (id),
				month            TEXT NOT NULL CHECK (month ~ '^[0-9]{4}-(0[1-9]|1[0-2])$'),
				amount_collected NUMERIC(14, 2) NOT NULL CHECK (amount_collected >= 0),
				notes            TEXT,
				created_by       TEXT,
				created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT uk_revenue_project_month UNIQUE (project_id, month)
			)`,
	},
	{
		name: "create_salaries",
		query: `
			CREATE TABLE IF NOT EXISTS salaries (
				id                    UUID PRIMARY KEY,
				employee_id           UUID NOT NULL REFERENCES employees (id),
				month                 TEXT NOT NULL CHECK (month ~ '^[0-9]{4}-(0[1-9]|1[0-2])$'),
				base_salary           NUMERIC(14, 2) NOT NULL,
				project_bonuses       JSONB NOT NULL DEFAULT '[]',
				pm_commissions        JSONB NOT NULL DEFAULT '[]',
				team_lead_commissions JSONB NOT NULL DEFAULT '[]',
				manager_commissions   JSONB NOT NULL DEFAULT '[]',
				bidder_commissions    JSONB NOT NULL DEFAULT '[]',
				total_amount          NUMERIC(16, 2) NOT NULL,
				exchange_rate         NUMERIC(12, 4) NOT NULL,
				status                TEXT NOT NULL DEFAULT 'Pending' CHECK (status IN ('Pending', 'Paid')),
				paid_date             DATE,
				payment_reference     TEXT,
				created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT uk_salary_employee_month UNIQUE (employee_id, month)
			)`,
	},
	{
		name: "create_settings",
		query: `
			CREATE TABLE IF NOT EXISTS settings (
				id                       SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
				usd_to_pkr_rate          NUMERIC(12, 4) NOT NULL CHECK (usd_to_pkr_rate > 0),
				pm_commission_percentage NUMERIC(5, 2) NOT NULL DEFAULT 0,
				team_lead_bonus_amount   NUMERIC(14, 2) NOT NULL DEFAULT 0,
				bidder_bonus_amount      NUMERIC(14, 2) NOT NULL DEFAULT 0,
				last_updated_by          TEXT,
				updated_at               TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`,
	},
	{
		name:  "index_salaries_month_status",
		query: `CREATE INDEX IF NOT EXISTS idx_salaries_month_status ON salaries (month, status)`,
	},
	{
		name:  "index_project_history_project",
		query: `CREATE INDEX IF NOT EXISTS idx_project_history_project ON project_history (project_id, sequence)`,
	},
}

// RunMigrations applies the schema in order.
func RunMigrations(ctx context.Context, db *database.DB) error {
	slog.Info("Running database migrations", "count", len(migrations))

	for _, m := range migrations {
		if _, err := db.Exec(ctx, m.query); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.name, err)
		}
		slog.Debug("Migration applied", "name", m.name)
	}

	slog.Info("Database migrations completed")
	return nil
}
