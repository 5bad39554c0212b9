package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/umlkit/umlkit/pkg/persist"
	"github.com/umlkit/umlkit/pkg/store"
)

// newStoreCmd creates the store command group for managing diagrams in a
// store backend. The backend is chosen by --backend or the config file.
func newStoreCmd() *cobra.Command {
	var backend string

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage diagrams in a store backend",
	}
	cmd.PersistentFlags().StringVar(&backend, "backend", "", "store backend: file (default), redis, mongo")

	cmd.AddCommand(&cobra.Command{
		Use:   "save [name] [file]",
		Short: "Store a diagram file under a name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), backend, func(ctx context.Context, s store.Store) error {
				d, err := persist.ReadFile(args[1])
				if err != nil {
					return err
				}
				if err := s.Save(ctx, args[0], d); err != nil {
					return err
				}
				printSuccess("Saved %s diagram %q", d.TypeName(), args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load [name] [file]",
		Short: "Write a stored diagram to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), backend, func(ctx context.Context, s store.Store) error {
				d, err := s.Load(ctx, args[0])
				if err != nil {
					return err
				}
				if err := persist.WriteFile(d, args[1]); err != nil {
					return err
				}
				printSuccess("Loaded %q", args[0])
				printFile(args[1])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored diagrams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), backend, func(ctx context.Context, s store.Store) error {
				infos, err := s.List(ctx)
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					printInfo("No stored diagrams")
					return nil
				}
				for _, info := range infos {
					fmt.Println("  " + StyleValue.Render(fmt.Sprintf("%-24s", info.Name)) +
						StyleDim.Render(fmt.Sprintf("%-18s %s", info.Diagram, info.UpdatedAt.Format("2006-01-02 15:04"))))
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a stored diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), backend, func(ctx context.Context, s store.Store) error {
				if err := s.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %q", args[0])
				return nil
			})
		},
	})

	return cmd
}

// withStore opens the configured backend, runs fn, and closes the backend.
func withStore(ctx context.Context, backend string, fn func(context.Context, store.Store) error) error {
	s, err := openStore(ctx, backend)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(ctx, s)
}

// openStore builds the store selected by the --backend flag, falling back to
// the config file. Every store is instrumented for the registered hooks.
func openStore(ctx context.Context, backend string) (store.Store, error) {
	cfg := configFromContext(ctx).Store
	if backend == "" {
		backend = cfg.Backend
	}
	logger := loggerFromContext(ctx)
	logger.Debugf("Opening %s store", backend)

	switch backend {
	case "", "file":
		s, err := store.NewFileStore(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return store.Instrument("file", s), nil
	case "memory":
		return store.Instrument("memory", store.NewMemoryStore()), nil
	case "redis":
		s, err := store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return store.Instrument("redis", s), nil
	case "mongo":
		s, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		if err != nil {
			return nil, err
		}
		return store.Instrument("mongo", s), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s (must be 'file', 'memory', 'redis', or 'mongo')", backend)
	}
}
