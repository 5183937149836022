// Package sqlite implements repository.Store using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"graphlens/internal/repository"

	_ "modernc.org/sqlite"
)

// Store implements repository.Store on a SQLite database file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
func New(dbPath string) (*Store, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		name TEXT PRIMARY KEY,
		nodes JSON NOT NULL,
		links JSON NOT NULL,
		node_count INTEGER NOT NULL DEFAULT 0,
		link_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_datasets_updated ON datasets(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveDataset inserts or replaces a named dataset.
func (s *Store) SaveDataset(ctx context.Context, ds *repository.Dataset) error {
	if ds.Name == "" {
		return fmt.Errorf("dataset name must not be empty")
	}

	nodes, err := json.Marshal(ds.Nodes)
	if err != nil {
		return fmt.Errorf("failed to marshal nodes: %w", err)
	}
	links, err := json.Marshal(ds.Links)
	if err != nil {
		return fmt.Errorf("failed to marshal links: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO datasets (name, nodes, links, node_count, link_count, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			nodes = excluded.nodes,
			links = excluded.links,
			node_count = excluded.node_count,
			link_count = excluded.link_count,
			updated_at = CURRENT_TIMESTAMP
	`, ds.Name, nodes, links, len(ds.Nodes), len(ds.Links))

	if err != nil {
		return fmt.Errorf("failed to upsert dataset: %w", err)
	}
	return nil
}

// GetDataset returns a dataset by name, or nil if it does not exist.
func (s *Store) GetDataset(ctx context.Context, name string) (*repository.Dataset, error) {
	ds := &repository.Dataset{Name: name}
	var nodes, links []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT nodes, links, created_at, updated_at
		FROM datasets WHERE name = ?
	`, name).Scan(&nodes, &links, &ds.CreatedAt, &ds.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}

	if err := json.Unmarshal(nodes, &ds.Nodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal nodes: %w", err)
	}
	if err := json.Unmarshal(links, &ds.Links); err != nil {
		return nil, fmt.Errorf("failed to unmarshal links: %w", err)
	}

	return ds, nil
}

// ListDatasets returns summaries of all stored datasets, newest first.
func (s *Store) ListDatasets(ctx context.Context) ([]repository.DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, node_count, link_count, updated_at
		FROM datasets ORDER BY updated_at DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	infos := []repository.DatasetInfo{}
	for rows.Next() {
		var info repository.DatasetInfo
		if err := rows.Scan(&info.Name, &info.NodeCount, &info.LinkCount, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating datasets: %w", err)
	}
	return infos, nil
}

// DeleteDataset removes a dataset by name.
func (s *Store) DeleteDataset(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

var _ repository.Store = (*Store)(nil)
