package postgres

// migrations are idempotent DDL statements executed in order by Migrate.
var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS ledger_organizations (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    city        TEXT NOT NULL DEFAULT '',
    country     TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    tax_id      TEXT NOT NULL DEFAULT '',
    seq_prefix  TEXT NOT NULL DEFAULT 'INV',
    seq_next    BIGINT NOT NULL DEFAULT 1000,
    currency    TEXT NOT NULL DEFAULT 'usd',
    timezone    TEXT NOT NULL DEFAULT 'UTC',
    version     BIGINT NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`,
	`
CREATE TABLE IF NOT EXISTS ledger_clients (
    id          TEXT PRIMARY KEY,
    org_id      TEXT NOT NULL REFERENCES ledger_organizations (id),
    name        TEXT NOT NULL DEFAULT '',
    email       TEXT NOT NULL DEFAULT '',
    address     TEXT NOT NULL DEFAULT '',
    city        TEXT NOT NULL DEFAULT '',
    country     TEXT NOT NULL DEFAULT '',
    postal_code TEXT NOT NULL DEFAULT '',
    tax_id      TEXT NOT NULL DEFAULT '',
    contact     TEXT NOT NULL DEFAULT '',
    active      BOOLEAN NOT NULL DEFAULT TRUE,
    version     BIGINT NOT NULL DEFAULT 1,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_clients_org_email ON ledger_clients (org_id, email);
CREATE INDEX IF NOT EXISTS idx_ledger_clients_org_name ON ledger_clients (org_id, name);
`,
	`
CREATE TABLE IF NOT EXISTS ledger_invoices (
    id         TEXT PRIMARY KEY,
    org_id     TEXT NOT NULL REFERENCES ledger_organizations (id),
    client_id  TEXT NOT NULL,
    number     TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL DEFAULT 'draft',
    items      JSONB NOT NULL DEFAULT '[]',
    currency   TEXT NOT NULL DEFAULT 'usd',
    tax_rate   TEXT NOT NULL DEFAULT '0',
    subtotal   BIGINT NOT NULL DEFAULT 0,
    tax        BIGINT NOT NULL DEFAULT 0,
    total      BIGINT NOT NULL DEFAULT 0,
    notes      TEXT NOT NULL DEFAULT '',
    due_date   TIMESTAMPTZ,
    sent_at    TIMESTAMPTZ,
    paid_at    TIMESTAMPTZ,
    version    BIGINT NOT NULL DEFAULT 1,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_invoices_org_number ON ledger_invoices (org_id, number);
CREATE INDEX IF NOT EXISTS idx_ledger_invoices_org_status ON ledger_invoices (org_id, status, created_at);
CREATE INDEX IF NOT EXISTS idx_ledger_invoices_org_client ON ledger_invoices (org_id, client_id);
`,
	`
CREATE TABLE IF NOT EXISTS ledger_audit_log (
    id          TEXT PRIMARY KEY,
    org_id      TEXT NOT NULL,
    actor_id    TEXT NOT NULL DEFAULT '',
    action      TEXT NOT NULL DEFAULT '',
    target_type TEXT NOT NULL DEFAULT '',
    target_id   TEXT NOT NULL DEFAULT '',
    changes     JSONB NOT NULL DEFAULT '{}',
    metadata    JSONB,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_audit_org_created ON ledger_audit_log (org_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_ledger_audit_org_target ON ledger_audit_log (org_id, target_id);
`,
}
