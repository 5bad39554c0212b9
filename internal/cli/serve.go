package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/umlkit/umlkit/pkg/errors"
	"github.com/umlkit/umlkit/pkg/persist"
	"github.com/umlkit/umlkit/pkg/store"
)

// newServeCmd creates the serve command, which exposes the diagram store
// over HTTP.
//
// Routes:
//   - GET    /healthz               liveness probe
//   - GET    /diagrams              list stored diagrams
//   - GET    /diagrams/{name}       diagram wire document
//   - PUT    /diagrams/{name}       store a diagram document
//   - DELETE /diagrams/{name}       delete a diagram
//   - GET    /diagrams/{name}/svg   render a diagram as SVG
func newServeCmd() *cobra.Command {
	var (
		addr    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored diagrams over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr, backend)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&backend, "backend", "", "store backend: file (default), redis, mongo")

	return cmd
}

func runServe(ctx context.Context, addr, backend string) error {
	logger := loggerFromContext(ctx)

	if addr == "" {
		addr = configFromContext(ctx).Serve.Addr
	}

	s, err := openStore(ctx, backend)
	if err != nil {
		return err
	}
	defer s.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(s),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Shut down when the command context is cancelled (SIGINT/SIGTERM).
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Serving diagrams on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return ctx.Err()
}

// newRouter builds the HTTP API over a diagram store.
func newRouter(s store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", handleList(s))
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", handleGet(s))
			r.Put("/", handlePut(s))
			r.Delete("/", handleDelete(s))
			r.Get("/svg", handleSVG(s))
		})
	})

	return r
}

func handleList(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		infos, err := s.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, infos)
	}
}

func handleGet(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := s.Load(r.Context(), chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, persist.Encode(d))
	}
}

func handlePut(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := persist.Read(r.Body)
		if err != nil {
			writeError(w, err)
			return
		}
		name := chi.URLParam(r, "name")
		if err := s.Save(r.Context(), name, d); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"name": name, "diagram": d.TypeName()})
	}
}

func handleDelete(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSVG(s store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		d, err := s.Load(ctx, chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		svg, err := persist.RenderSVG(ctx, persist.ToDOT(d, persist.DOTOptions{}))
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeInvalidArgument, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidName:
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}
