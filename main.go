package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MicahParks/keyfunc"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"prism-board/api"
	"prism-board/board"
	"prism-board/storage"
	"prism-board/view"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("load .env: %v", err)
	}

	root := &cobra.Command{
		Use:           "prism-board",
		Short:         "Kanban task board server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), initStorageCmd(), showCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}

func setup() (config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, err
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the board page, event API and update stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			deps, err := openDeps(cfg)
			if err != nil {
				return err
			}
			defer deps.Close()

			auth, err := newAuthenticator(cfg)
			if err != nil {
				return err
			}
			var deduper api.Deduper
			if deps.redis != nil {
				deduper = api.NewRedisDeduper(deps.redis, cfg.DeduperTTL)
			}
			renderer, err := view.NewHTMLRenderer()
			if err != nil {
				return fmt.Errorf("page template: %w", err)
			}

			e := echo.New()
			e.HideBanner = true
			e.Renderer = renderer
			e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
				AllowOrigins: []string{"*"},
				AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Idempotency-Key"},
			}))

			logger := log.StandardLogger()
			registry := board.NewRegistry(deps.factory(cfg, logger))
			api.Register(e, registry, auth, deduper, logger)

			log.WithFields(log.Fields{"backend": cfg.Backend, "auth": cfg.AuthMode, "port": cfg.Port}).Info("board server starting")
			return e.Start(":" + cfg.Port)
		},
	}
}

func initStorageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-storage",
		Short: "Create the Azure table and queue used by the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			if cfg.StorageConn == "" {
				return errors.New("missing STORAGE_CONNECTION_STRING")
			}
			log.Info("storage init starting")
			queues := []string{}
			if cfg.EventsQueue != "" {
				queues = append(queues, cfg.EventsQueue)
			}
			if err := storage.Provision(cmd.Context(), cfg.StorageConn, []string{cfg.BoardTable}, queues); err != nil {
				return fmt.Errorf("provision storage: %w", err)
			}
			log.Info("storage init complete")
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	var namespace, boardName string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the active board as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			deps, err := openDeps(cfg)
			if err != nil {
				return err
			}
			defer deps.Close()
			return show(cmd.Context(), cmd.OutOrStdout(), deps.factory(cfg, log.StandardLogger()), namespace, boardName)
		},
	}
	cmd.Flags().StringVarP(&namespace, "namespace", "n", localScope, "board owner namespace")
	cmd.Flags().StringVarP(&boardName, "board", "b", "", "board to select before printing")
	return cmd
}

func show(ctx context.Context, w io.Writer, factory board.Factory, namespace, boardName string) error {
	doc, err := board.NewSession(factory(namespace)).Do(ctx, func(ctx context.Context, c *board.Controller) error {
		if boardName == "" {
			return nil
		}
		return c.SetActiveBoard(ctx, boardName)
	})
	if err != nil {
		return err
	}
	view.WriteTable(w, doc)
	return nil
}

func newAuthenticator(cfg config) (api.Authenticator, error) {
	switch cfg.AuthMode {
	case authHS256:
		return api.NewSharedSecretAuth([]byte(cfg.SharedSecret)), nil
	case authAuth0:
		jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", cfg.Auth0Domain)
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
		if err != nil {
			return nil, fmt.Errorf("jwks: %w", err)
		}
		return api.NewAuth(jwks, cfg.Auth0Audience, "https://"+cfg.Auth0Domain+"/", cfg.JWKSCacheTTL), nil
	default:
		return api.LocalAuth{Namespace: localScope}, nil
	}
}

// deps holds the opened storage backends.
type deps struct {
	kv      storage.KV
	redis   *redis.Client
	journal board.Journal
	closers []io.Closer
}

func openDeps(cfg config) (*deps, error) {
	d := &deps{journal: storage.NopJournal{}}
	if cfg.RedisConn != "" {
		d.redis = redis.NewClient(storage.ParseRedisOptions(cfg.RedisConn))
		d.closers = append(d.closers, d.redis)
	}

	switch cfg.Backend {
	case backendMemory:
		d.kv = storage.NewMemory()
	case backendSQLite:
		db, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			d.Close()
			return nil, err
		}
		d.kv = db
		d.closers = append(d.closers, db)
	case backendRedis:
		d.kv = storage.NewRedis(d.redis)
	case backendTables:
		t, err := storage.NewTables(cfg.StorageConn, cfg.BoardTable)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("tables: %w", err)
		}
		d.kv = t
	}
	if d.redis != nil && cfg.CacheTTL > 0 && cfg.Backend != backendRedis {
		d.kv = storage.NewCache(d.kv, d.redis, cfg.CacheTTL)
	}

	if cfg.EventsQueue != "" {
		j, err := storage.NewQueueJournal(cfg.StorageConn, cfg.EventsQueue)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("journal: %w", err)
		}
		d.journal = j
	}
	return d, nil
}

// factory builds per-namespace controllers. The first controller of a
// namespace seeds its storage when it holds no tasks yet.
func (d *deps) factory(cfg config, logger *log.Logger) board.Factory {
	return func(namespace string) *board.Controller {
		kv := storage.WithNamespace(d.kv, namespace)
		if seeded, err := storage.Seed(context.Background(), kv); err != nil {
			logger.WithError(err).WithField("namespace", namespace).Error("seed initial tasks")
		} else if seeded {
			logger.WithField("namespace", namespace).Info("seeded initial tasks")
		}
		return board.NewController(board.Config{
			Store:     storage.NewTaskStore(kv),
			Prefs:     storage.NewPreferenceStore(kv),
			Journal:   d.journal,
			Statuses:  cfg.Statuses,
			Namespace: namespace,
			Logger:    logger,
		})
	}
}

func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			log.WithError(err).Warn("close backend")
		}
	}
}
