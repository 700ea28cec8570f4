package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"hygiene-analyzer/server"
)

// NewServeCmd serves the latest report over HTTP.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the report as a JSON API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (default SERVER_ADDR)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = rt.cfg.ServerAddr
	}

	ctx := cmd.Context()
	p, closeStore, err := rt.pipeline(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	srv := server.New(p, rt.metrics.Registry(), rt.logger)
	if history, ok := p.Store.(server.RunHistory); ok {
		srv.SetHistory(history)
	}

	// Report routes answer 503 until the first run lands; refresh requests
	// made meanwhile get 409.
	go func() {
		run, err := srv.Refresh(ctx)
		if err != nil {
			rt.logger.Error("[serve] Initial run: %v", err)
		}
		if run != nil {
			rt.logger.Info("[serve] Serving run %s", run.ID)
		}
	}()

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		rt.logger.Info("[serve] Listening on %s", addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		rt.logger.Info("[serve] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	}
}
