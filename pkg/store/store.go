// Package store provides named diagram storage with interchangeable
// backends:
//   - memory: in-process storage for development and testing
//   - file: JSON files in a config directory for CLI use
//   - redis: Redis-backed storage for multi-instance deployments
//   - mongo: MongoDB-backed storage for durable server deployments
//
// Every backend persists the wire document from pkg/persist and rebuilds
// diagrams through the dialect builders on load, so a loaded diagram always
// satisfies its dialect's structural invariants regardless of where it came
// from.
//
// Names are store keys and file basenames; they are validated against path
// traversal before any backend operation.
package store

import (
	"context"
	"time"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/errors"
)

// Info describes one stored diagram.
type Info struct {
	Name      string    `json:"name" bson:"name"`
	Diagram   string    `json:"diagram" bson:"diagram"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for diagram storage backends.
type Store interface {
	// Save stores a diagram under the given name, replacing any previous
	// version. Returns INVALID_NAME for names that fail validation.
	Save(ctx context.Context, name string, d *diagram.Diagram) error

	// Load retrieves the diagram stored under name. Returns NOT_FOUND if no
	// diagram has that name.
	Load(ctx context.Context, name string) (*diagram.Diagram, error)

	// List returns the stored diagrams sorted by name.
	List(ctx context.Context) ([]Info, error)

	// Delete removes the diagram stored under name. Returns NOT_FOUND if no
	// diagram has that name.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close() error
}

// validateName guards every backend operation that takes a user-supplied
// name.
func validateName(name string) error {
	return errors.ValidateDiagramName(name)
}
