package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/ponto/internal/engine"
	"github.com/roach88/ponto/internal/httpapi"
)

// shutdownTimeout bounds how long in-flight requests may finish after a stop signal.
const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API for a local front-end",
		Long: `Start the local JSON API. Every ledger operation is available under /api;
the acting user is taken from the X-Actor header, or --actor when absent.

The server stops gracefully on SIGINT or SIGTERM.

Example:
  ponto serve --addr 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("addr") {
				addr = s.cfg.HTTPAddr
			}

			traceGen := rootOpts.Trace
			if traceGen == nil {
				traceGen = engine.UUIDv7Generator{}
			}
			router := httpapi.NewRouter(httpapi.Deps{
				Ledger:        s.ledger,
				Audit:         s.audit,
				Timesheet:     s.sheet,
				Clock:         s.clock,
				Location:      s.store.Location(),
				Logger:        s.logger,
				Trace:         traceGen,
				DefaultActor:  s.actor,
				RetentionDays: s.cfg.LogRetentionDays,
			})

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return s.out.Fail("failed to listen", err)
			}
			srv := &http.Server{Handler: router, ReadHeaderTimeout: 5 * time.Second}

			// Use command's context if available (for testing)
			ctx, cancel := context.WithCancel(commandContext(cmd))
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Serve(ln)
			}()

			s.logger.Info("api listening", "addr", ln.Addr().String(), "db", s.cfg.Database)
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", ln.Addr())

			select {
			case sig := <-sigChan:
				s.logger.Info("received signal, shutting down", "signal", sig)
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return s.out.Fail("server error", err)
				}
				return nil
			}

			shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return s.out.Fail("shutdown failed", err)
			}
			s.logger.Info("api stopped gracefully")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address (default from config)")
	return cmd
}
