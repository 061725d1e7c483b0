package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	// The master database queries speak database/sql; the driver is
	// registered here at the command edge.
	_ "github.com/go-sql-driver/mysql"

	"github.com/zaiyan-alam/pegasus/internal/config"
	"github.com/zaiyan-alam/pegasus/internal/server"
	"github.com/zaiyan-alam/pegasus/pkg/monitoring"
	"github.com/zaiyan-alam/pegasus/pkg/monitoring/queries"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// serve command is interrupted.
const shutdownTimeout = 5 * time.Second

// serveOpts holds the command-line flags for the serve command.
// Non-empty flags override the corresponding configuration file values.
type serveOpts struct {
	config    string // TOML configuration file path
	listen    string // listen address override
	masterURL string // master database DSN override
	pretty    bool   // pretty-print JSON responses by default
}

// newServeCmd creates the serve command for running the monitoring
// REST API.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the monitoring REST API",
		Long: `Serve exposes root workflow records from a master database over a JSON
REST API. Lookups by id or uuid, paging and ordering follow the query
arguments described in the configuration reference. Stampede database
URLs are resolved through the configured cache backend.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML configuration file")
	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.masterURL, "master-db-url", "", "master database DSN (overrides config)")
	cmd.Flags().BoolVar(&opts.pretty, "pretty", false, "pretty-print JSON responses by default")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	if opts.listen != "" {
		cfg.Listen = opts.listen
	}
	if opts.masterURL != "" {
		cfg.MasterDBURL = opts.masterURL
	}
	if opts.pretty {
		cfg.PrettyPrint = true
	}
	if cfg.MasterDBURL == "" {
		return errors.New("no master database configured (set master_db_url or --master-db-url)")
	}

	q, err := queries.New(queries.WithDSN(cfg.MasterDBURL))
	if err != nil {
		return err
	}
	defer q.Close()

	c, err := cfg.Cache.Open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	logger.Debugf("Cache backend: %s", cfg.Cache.Backend)

	resolver := monitoring.NewStampedeResolver(q, c, cfg.MasterDBURL, cfg.Cache.TTL.Duration)
	handler := server.New(q, resolver, logger, cfg.PrettyPrint)

	srv := &http.Server{Addr: cfg.Listen, Handler: handler}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	logger.Infof("Listening on %s", cfg.Listen)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
