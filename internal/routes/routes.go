package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/baintwallet/baintwallet/internal/chain"
	"github.com/baintwallet/baintwallet/internal/config"
	"github.com/baintwallet/baintwallet/internal/custody"
	"github.com/baintwallet/baintwallet/internal/middleware"
	"github.com/baintwallet/baintwallet/internal/pending"
	"github.com/baintwallet/baintwallet/internal/sms"
	"github.com/baintwallet/baintwallet/internal/transfer"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg     config.Config
	DB      *pgxpool.Pool
	Cache   *redis.Client
	Gateway chain.Gateway
	Logger  *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce real backends outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	// Health
	RegisterHealthRoutes(app, d)

	// Backends with in-memory dev fallbacks
	var custodyRepo custody.Repository
	if d.DB != nil {
		custodyRepo = custody.NewPostgresRepository(d.DB)
	} else {
		custodyRepo = custody.NewMemoryRepository()
	}

	var cache pending.Cache
	if d.Cache != nil {
		cache = pending.NewRedisCache(d.Cache, d.Cfg.PendingTTL)
	} else {
		cache = pending.NewMemoryCache()
	}

	gateway := d.Gateway
	if gateway == nil {
		gateway = chain.NewStaticGateway()
	}

	custodyStore, err := custody.NewStore(custodyRepo, []byte(d.Cfg.MasterSecret))
	if err != nil {
		return err
	}

	transferSvc := transfer.NewService(custodyStore, gateway, d.Cfg.ChainIDBig(), d.Logger)
	smsHandler := sms.NewHandler(custodyStore, cache, transferSvc, sms.Options{
		ChainName:   d.Cfg.ChainName,
		ChainSymbol: d.Cfg.ChainSymbol,
		ExplorerURL: d.Cfg.ExplorerURL,
		PendingTTL:  d.Cfg.PendingTTL,
	}, d.Logger)

	rateLimiter := middleware.SMSRateLimit(d.Cache, d.Cfg.SMSRatePerMin)
	RegisterWebhookRoutes(app, smsHandler, rateLimiter, d.Logger)

	api := app.Group("/api")
	RegisterWalletRoutes(api, transferSvc, d.Cfg)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
