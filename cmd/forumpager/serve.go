package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-discussion-pager/internal/store"
	"github.com/goliatone/go-discussion-pager/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr   string
		driver string
		dsn    string
		seed   int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the discussion list API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(cmd, false)
			s, err := loadSettings()
			if err != nil {
				return err
			}

			db, err := store.Open(driver, dsn)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			repo := store.New(db)
			if seed > 0 {
				if repo, err = store.Seed(ctx, db, store.SampleDiscussions(seed, time.Now().UTC())); err != nil {
					return err
				}
				logger.Info("seeded discussions", "count", seed)
			} else if err := repo.CreateSchema(ctx); err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(repo, s, server.WithLogger(logger)).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr, "per_page", s.PerPage, "paginate", s.PaginationOnLoading)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("serve: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	cmd.Flags().StringVar(&driver, "driver", store.DriverSQLite, "Database driver: sqlite3 or postgres")
	cmd.Flags().StringVar(&dsn, "dsn", "file:forumpager.db?cache=shared", "Database DSN")
	cmd.Flags().IntVar(&seed, "seed", 0, "Insert this many sample discussions on start")

	return cmd
}
