// Package store is the sqlite-backed actor/inventory persistence collaborator
// the trade engine commits against.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	_ "modernc.org/sqlite"

	"tradepost.dev/internal/currency"
	"tradepost.dev/internal/trade"
)

//go:embed item.schema.json
var itemSchemaJSON string

// SQLite implements trade.Store over a single sqlite file. Item documents are
// validated against the embedded item schema before they are persisted.
type SQLite struct {
	db     *sql.DB
	schema *jsonschema.Schema
}

func Open(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema, err := jsonschema.CompileString("item.schema.json", itemSchemaJSON)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("item schema: %w", err)
	}
	return &SQLite{db: db, schema: schema}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS actors (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			pp INTEGER NOT NULL DEFAULT 0,
			gp INTEGER NOT NULL DEFAULT 0,
			ep INTEGER NOT NULL DEFAULT 0,
			sp INTEGER NOT NULL DEFAULT 0,
			cp INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			actor_id TEXT NOT NULL REFERENCES actors(id) ON DELETE CASCADE,
			source_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			price_value REAL NOT NULL DEFAULT 0,
			price_denom TEXT NOT NULL DEFAULT 'gp',
			doc TEXT NOT NULL DEFAULT '{}'
		);`,
		`CREATE INDEX IF NOT EXISTS idx_items_actor ON items(actor_id);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// EnsureActor inserts or replaces an actor row with the given holdings.
func (s *SQLite) EnsureActor(ctx context.Context, id, name string, coins currency.Bundle) error {
	b := currency.Canon(coins)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO actors (id, name, pp, gp, ep, sp, cp) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, name, b[currency.Platinum], b[currency.Gold], b[currency.Electrum], b[currency.Silver], b[currency.Copper])
	return err
}

// Items returns the actor's inventory, ordered by name then id.
func (s *SQLite) Items(ctx context.Context, actorID string) ([]trade.ItemRef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_id, name, type, quantity, price_value, price_denom, doc
		 FROM items WHERE actor_id = ? ORDER BY name, id`, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trade.ItemRef
	for rows.Next() {
		var it trade.ItemRef
		var denom string
		var doc string
		if err := rows.Scan(&it.ID, &it.SourceID, &it.Name, &it.Type, &it.Quantity, &it.Price.Value, &denom, &doc); err != nil {
			return nil, err
		}
		it.Price.Denomination = currency.Denomination(denom)
		it.Doc = json.RawMessage(doc)
		out = append(out, it)
	}
	return out, rows.Err()
}

// Currency returns the actor's held coins.
func (s *SQLite) Currency(ctx context.Context, actorID string) (currency.Bundle, error) {
	var pp, gp, ep, sp, cp int
	err := s.db.QueryRowContext(ctx,
		`SELECT pp, gp, ep, sp, cp FROM actors WHERE id = ?`, actorID).
		Scan(&pp, &gp, &ep, &sp, &cp)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("actor %s not found", actorID)
	}
	if err != nil {
		return nil, err
	}
	b := currency.New()
	b[currency.Platinum] = pp
	b[currency.Gold] = gp
	b[currency.Electrum] = ep
	b[currency.Silver] = sp
	b[currency.Copper] = cp
	return b, nil
}

// UpdateCurrency persists a full bundle for the actor.
func (s *SQLite) UpdateCurrency(ctx context.Context, actorID string, coins currency.Bundle) error {
	b := currency.Canon(coins)
	res, err := s.db.ExecContext(ctx,
		`UPDATE actors SET pp = ?, gp = ?, ep = ?, sp = ?, cp = ? WHERE id = ?`,
		b[currency.Platinum], b[currency.Gold], b[currency.Electrum], b[currency.Silver], b[currency.Copper], actorID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("actor %s not found", actorID)
	}
	return nil
}

// CreateItem persists a new inventory entry. An empty ID gets a fresh uuid.
// The item document (synthesized from the ref when absent) must satisfy the
// item schema.
func (s *SQLite) CreateItem(ctx context.Context, actorID string, item trade.ItemRef) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("item %q: quantity must be positive", item.Name)
	}
	id := item.ID
	if id == "" {
		id = uuid.NewString()
	}
	doc := item.Doc
	if len(doc) == 0 {
		var err error
		doc, err = json.Marshal(map[string]any{
			"name":      item.Name,
			"type":      item.Type,
			"source_id": item.SourceID,
			"price": map[string]any{
				"value":        item.Price.Value,
				"denomination": string(item.Price.Denomination),
			},
		})
		if err != nil {
			return err
		}
	}
	var decoded any
	if err := json.Unmarshal(doc, &decoded); err != nil {
		return fmt.Errorf("item %q: document is not valid JSON: %w", item.Name, err)
	}
	if err := s.schema.Validate(decoded); err != nil {
		return fmt.Errorf("item %q: document rejected: %w", item.Name, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (id, actor_id, source_id, name, type, quantity, price_value, price_denom, doc)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, actorID, item.SourceID, item.Name, item.Type, item.Quantity,
		item.Price.Value, string(item.Price.Denomination), string(doc))
	return err
}

// UpdateItemQuantity sets an entry's quantity.
func (s *SQLite) UpdateItemQuantity(ctx context.Context, actorID, itemID string, qty int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET quantity = ? WHERE id = ? AND actor_id = ?`, qty, itemID, actorID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("item %s not found on actor %s", itemID, actorID)
	}
	return nil
}

// DeleteItem removes an entry.
func (s *SQLite) DeleteItem(ctx context.Context, actorID, itemID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND actor_id = ?`, itemID, actorID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("item %s not found on actor %s", itemID, actorID)
	}
	return nil
}
