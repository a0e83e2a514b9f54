package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/erazemk/timely/internal/api"
	"github.com/erazemk/timely/internal/auth"
	"github.com/erazemk/timely/internal/config"
	"github.com/erazemk/timely/internal/db"
	"github.com/erazemk/timely/internal/files"
	"github.com/erazemk/timely/internal/metrics"
	"github.com/erazemk/timely/internal/service"
	"github.com/erazemk/timely/internal/store"
	"github.com/erazemk/timely/internal/store/mongostore"
	"github.com/erazemk/timely/internal/web"
)

const usage = `Usage: timely [flags]

Flags:
  -c, -config <path>      YAML config file (default: none, built-in defaults)
  -d, -db <path>          SQLite database path (default: timely.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -u, -uploads <dir>      image upload directory (default: uploads)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
      -driver <name>      record store: sqlite or mongo (default: sqlite)
      -mongo-uri <uri>    MongoDB connection string (driver mongo)
  -h, -help               show this help and exit
`

// flags holds command-line overrides; empty values leave the config alone.
type flags struct {
	config   string
	db       string
	addr     string
	uploads  string
	log      string
	driver   string
	mongoURI string
}

func parseFlags(args []string) (*flags, error) {
	fs := flag.NewFlagSet("timely", flag.ContinueOnError)
	f := &flags{}

	fs.StringVar(&f.config, "config", "", "")
	fs.StringVar(&f.config, "c", "", "")
	fs.StringVar(&f.db, "db", "", "")
	fs.StringVar(&f.db, "d", "", "")
	fs.StringVar(&f.addr, "addr", "", "")
	fs.StringVar(&f.addr, "a", "", "")
	fs.StringVar(&f.uploads, "uploads", "", "")
	fs.StringVar(&f.uploads, "u", "", "")
	fs.StringVar(&f.log, "log", "", "")
	fs.StringVar(&f.log, "l", "", "")
	fs.StringVar(&f.driver, "driver", "", "")
	fs.StringVar(&f.mongoURI, "mongo-uri", "", "")

	fs.Usage = func() { fmt.Fprint(os.Stdout, usage) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return f, nil
}

// loadConfig reads the config file (if any) and applies flag overrides.
func loadConfig(f *flags) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		var err error
		if cfg, err = config.Load(f.config); err != nil {
			return nil, err
		}
	}

	if f.db != "" {
		cfg.Store.Path = f.db
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}
	if f.uploads != "" {
		cfg.Uploads.Dir = f.uploads
	}
	if f.log != "" {
		cfg.Log.Path = f.log
	}
	if f.driver != "" {
		cfg.Store.Driver = f.driver
	}
	if f.mongoURI != "" {
		cfg.Store.MongoURI = f.mongoURI
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	f, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// INFO/WARN → stdout, ERROR → stderr, optionally mirrored to a file.
	logger, closeLog, err := newLogger(os.Stdout, os.Stderr, cfg.Log.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	backend, err := openBackend(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := ensureAdminPassword(ctx, backend, cfg.Admin.Username); err != nil {
		return err
	}

	// Load JWT secret from the store (auto-generated on first run).
	jwtSecret, err := store.GetJWTSecret(ctx, backend)
	if err != nil {
		return fmt.Errorf("loading jwt secret: %w", err)
	}

	uploads, err := files.NewDir(cfg.Uploads.Dir)
	if err != nil {
		return err
	}
	slog.Info("uploads ready", "dir", uploads.Root())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	creator := &service.Creator{
		Records:      backend,
		Images:       uploads,
		MaxDimension: cfg.Uploads.MaxDimension,
	}
	retriever := &service.Retriever{Records: backend}

	apiRouter := api.NewRouter(api.Options{
		Store:     backend,
		Creator:   creator,
		Retriever: retriever,
		Metrics:   m,
		JWTSecret: jwtSecret,
		AdminUser: cfg.Admin.Username,
	})
	webRouter, err := web.NewRouter(&web.Server{
		Creator:   creator,
		Retriever: retriever,
		Uploads:   uploads,
		Metrics:   m,
		PublicURL: cfg.Server.PublicURL,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/healthz", apiRouter)
	mux.Handle("/metrics", apiRouter)
	mux.Handle("/", webRouter)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.LoggingMiddleware(m, mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Server.Addr, err)
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	slog.Info("server started", "addr", ln.Addr().String(), "driver", cfg.Store.Driver)
	if err := serve(ctx, server, ln, shutdownTimeout); err != nil {
		return err
	}

	slog.Info("server stopped, closing store")
	return nil
}

const shutdownTimeout = 5 * time.Second

// serve runs srv on ln until ctx is cancelled, then shuts it down. It returns
// once in-flight requests have finished or timeout expired, so the store can
// be closed afterwards.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}
	slog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// openBackend opens the configured record store, applying the SQLite schema
// when needed.
func openBackend(ctx context.Context, cfg config.Store) (store.Backend, error) {
	switch cfg.Driver {
	case config.DriverMongo:
		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()

		s, err := mongostore.Open(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		slog.Info("store ready", "driver", cfg.Driver, "database", cfg.MongoDatabase)
		return s, nil

	default:
		database, err := db.Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		if err := db.EnsureSchema(database); err != nil {
			database.Close()
			return nil, fmt.Errorf("ensuring schema: %w", err)
		}
		slog.Info("store ready", "driver", cfg.Driver, "path", cfg.Path)
		return store.NewSQLite(database), nil
	}
}

// ensureAdminPassword creates the operator password on first start and prints
// it once. Later starts keep the stored hash.
func ensureAdminPassword(ctx context.Context, s store.Settings, username string) error {
	if _, ok, err := s.GetSetting(ctx, store.SettingAdminPasswordHash); err != nil {
		return fmt.Errorf("loading admin password: %w", err)
	} else if ok {
		return nil
	}

	password, err := auth.GeneratePassword()
	if err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	stored, err := s.EnsureSetting(ctx, store.SettingAdminPasswordHash, hash)
	if err != nil {
		return fmt.Errorf("storing admin password: %w", err)
	}
	if stored == hash {
		printAdminCredentials(username, password)
	}
	return nil
}

func printAdminCredentials(username, password string) {
	fmt.Println("Operator account created:")
	fmt.Printf("  Username: %s\n", username)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password; it cannot be recovered.")
	fmt.Println()
}
