package store

import (
	"context"
	"time"

	"github.com/umlkit/umlkit/pkg/diagram"
	"github.com/umlkit/umlkit/pkg/observability"
)

// Instrument wraps a store so every operation reports to the registered
// store hooks. The backend label identifies the wrapped implementation in
// metrics ("memory", "file", "redis", "mongo").
func Instrument(backend string, s Store) Store {
	return &instrumented{backend: backend, inner: s}
}

type instrumented struct {
	backend string
	inner   Store
}

func (s *instrumented) Save(ctx context.Context, name string, d *diagram.Diagram) error {
	start := time.Now()
	err := s.inner.Save(ctx, name, d)
	size := d.RootCount() + d.EdgeCount()
	observability.Store().OnSave(ctx, s.backend, name, size, time.Since(start), err)
	return err
}

func (s *instrumented) Load(ctx context.Context, name string) (*diagram.Diagram, error) {
	start := time.Now()
	d, err := s.inner.Load(ctx, name)
	observability.Store().OnLoad(ctx, s.backend, name, time.Since(start), err)
	return d, err
}

func (s *instrumented) List(ctx context.Context) ([]Info, error) {
	return s.inner.List(ctx)
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	err := s.inner.Delete(ctx, name)
	observability.Store().OnDelete(ctx, s.backend, name, err)
	return err
}

func (s *instrumented) Close() error { return s.inner.Close() }

var _ Store = (*instrumented)(nil)
