// Package repository defines persistent storage for named graph datasets.
//
// A dataset is raw input only: node data and link data as the caller
// supplied them. Layout positions are never stored; the simulation
// recomputes them deterministically on every load.
package repository

import (
	"context"
	"time"

	"graphlens/internal/domain"
)

// Dataset is one named raw-input snapshot.
type Dataset struct {
	Name      string             `json:"name"`
	Nodes     []domain.NodeDatum `json:"nodes"`
	Links     []domain.LinkDatum `json:"links"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// DatasetInfo is the listing view of a dataset, without its contents.
type DatasetInfo struct {
	Name      string    `json:"name"`
	NodeCount int       `json:"node_count"`
	LinkCount int       `json:"link_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store defines the interface for dataset access.
type Store interface {
	// SaveDataset inserts or replaces a named dataset.
	SaveDataset(ctx context.Context, ds *Dataset) error

	// GetDataset returns a dataset by name, or nil if it does not exist.
	GetDataset(ctx context.Context, name string) (*Dataset, error)

	// ListDatasets returns summaries of all stored datasets, newest first.
	ListDatasets(ctx context.Context) ([]DatasetInfo, error)

	// DeleteDataset removes a dataset by name.
	DeleteDataset(ctx context.Context, name string) error

	// Close releases resources.
	Close() error
}
