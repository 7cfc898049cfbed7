// Package container wires the application with Uber FX
package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/planner"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/preference"
	apprecipe "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/recipe"
	appuser "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/application/user"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/config"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/http/apiserver"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/messaging"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/monitoring"
	gormrepo "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/gorm"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/memory"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/postgres"
	rediscache "github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/redis"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/sqlite"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/inbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/healthcheck"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/pkg/logger"
)

// ConfigPath is the configuration file handed to config.Load; empty
// searches the default locations
type ConfigPath string

// Module provides every application dependency
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	DatabaseModule,
	CacheModule,
	RepositoryModule,
	EventModule,
	ServiceModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
			Service:     cfg.App.Name,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			JaegerEndpoint: cfg.Monitoring.JaegerEndpoint,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
)

// Database is the open connection of the configured driver
type Database struct {
	fx.Out

	Gorm *gorm.DB
	SQL  *sql.DB
}

// DatabaseModule provides the GORM connection for the configured driver
var DatabaseModule = fx.Provide(NewDatabase)

// NewDatabase opens sqlite or postgres, installs query metrics and seeds the
// development catalog when asked to
func NewDatabase(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) (Database, error) {
	var (
		db    *gorm.DB
		sqlDB *sql.DB
		err   error
	)

	switch cfg.Database.Driver {
	case "postgres":
		cm, err := postgres.NewConnectionManager(cfg.Database, metrics, log)
		if err != nil {
			return Database{}, err
		}
		if cfg.Database.AutoMigrate {
			if err := cm.Migrate(); err != nil {
				_ = cm.Close()
				return Database{}, err
			}
		}
		db, sqlDB = cm.GetDB(), cm.SQLDB()
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return cm.Close() }})

	default:
		db, err = sqlite.SetupDatabase(cfg.Database.Path,
			gormrepo.NewLogger(log, cfg.Database.LogLevel, cfg.Database.SlowQueryThreshold))
		if err != nil {
			return Database{}, fmt.Errorf("failed to setup SQLite database: %w", err)
		}
		if err := gormrepo.NewQueryMonitor(log, metrics, cfg.Database.SlowQueryThreshold).Install(db); err != nil {
			log.Warn("Failed to install query monitoring", zap.Error(err))
		}
		if sqlDB, err = db.DB(); err != nil {
			return Database{}, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return sqlDB.Close() }})
		log.Info("Connected to SQLite database",
			zap.String("path", cfg.Database.Path),
			zap.Bool("in_memory", cfg.Database.Path == ""),
		)
	}

	if cfg.Database.Seed {
		if err := sqlite.SeedDatabase(context.Background(), db); err != nil {
			log.Warn("Failed to seed database", zap.Error(err))
		}
	}
	if err := metrics.RegisterDBStats(sqlDB, cfg.Database.Driver); err != nil {
		log.Warn("Failed to register database stats", zap.Error(err))
	}

	return Database{Gorm: db, SQL: sqlDB}, nil
}

// Cache is the preference cache plus the redis client behind it, if any
type Cache struct {
	fx.Out

	Repository outbound.CacheRepository
	Redis      redis.UniversalClient
}

// CacheModule provides the preference cache
var CacheModule = fx.Provide(NewCache)

// NewCache uses redis when enabled and an in-process cache otherwise
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (Cache, error) {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled, using in-memory cache")
		c := memory.NewCacheRepository(cfg.Cache.CleanupInterval, log)
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return c.Close() }})
		return Cache{Repository: c}, nil
	}

	client, err := rediscache.NewClient(context.Background(), cfg.Redis, log)
	if err != nil {
		return Cache{}, err
	}
	repo := rediscache.NewCacheRepository(client, cfg.Redis.KeyPrefix, log)
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return repo.Close() }})
	return Cache{Repository: repo, Redis: client}, nil
}

// RepositoryModule provides repository implementations
var RepositoryModule = fx.Provide(
	func(db *gorm.DB, cfg *config.Config) outbound.RecipeRepository {
		return gormrepo.NewRecipeRepository(db, cfg.Cache.RecipeLRUSize)
	},
	fx.Annotate(gormrepo.NewUserProfileRepository, fx.As(new(outbound.UserProfileRepository))),
	fx.Annotate(gormrepo.NewPreferenceRepository, fx.As(new(outbound.PreferenceRepository))),
	fx.Annotate(gormrepo.NewMealPlanRepository, fx.As(new(outbound.MealPlanRepository))),
	fx.Annotate(gormrepo.NewGroceryListRepository, fx.As(new(outbound.GroceryListRepository))),
)

// EventModule provides the in-process event bus with its audit handlers
var EventModule = fx.Options(
	fx.Provide(
		messaging.NewDispatcher,
		func(d *messaging.Dispatcher) outbound.EventPublisher { return d },
	),
	fx.Invoke(messaging.RegisterAuditLog),
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		repo outbound.PreferenceRepository,
		cache outbound.CacheRepository,
		cfg *config.Config,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) *preference.PreferenceService {
		return preference.NewPreferenceService(repo, cache, cfg.Cache.PreferenceTTL, cfg.Engine(), metrics, log)
	},
	func(s *preference.PreferenceService) inbound.PreferenceService { return s },

	func(
		cfg *config.Config,
		profiles outbound.UserProfileRepository,
		recipes outbound.RecipeRepository,
		plans outbound.MealPlanRepository,
		groceries outbound.GroceryListRepository,
		preferences *preference.PreferenceService,
		events outbound.EventPublisher,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) *planner.PlannerService {
		return planner.NewPlannerService(cfg.Engine(), cfg.CostTable(),
			profiles, recipes, plans, groceries, preferences, events, metrics, log)
	},
	func(s *planner.PlannerService) inbound.PlannerService { return s },

	fx.Annotate(appuser.NewProfileService, fx.As(new(inbound.ProfileService))),
	fx.Annotate(apprecipe.NewCatalogService, fx.As(new(inbound.CatalogService))),
)

// HTTPModule provides health checks and the API server
var HTTPModule = fx.Provide(
	NewHealthCheck,
	func(
		cfg *config.Config,
		log *zap.Logger,
		plannerSvc inbound.PlannerService,
		preferenceSvc inbound.PreferenceService,
		profileSvc inbound.ProfileService,
		catalogSvc inbound.CatalogService,
		health *healthcheck.HealthCheck,
		metrics *monitoring.MetricsCollector,
		tracing *monitoring.TracingProvider,
	) *apiserver.Server {
		return apiserver.New(cfg, log, apiserver.Deps{
			Planner:     plannerSvc,
			Preferences: preferenceSvc,
			Profiles:    profileSvc,
			Catalog:     catalogSvc,
			Health:      health,
			Metrics:     metrics,
			Tracing:     tracing,
		})
	},
)

// HealthCheckParams groups the dependencies probed by /health
type HealthCheckParams struct {
	fx.In

	Config  *config.Config
	Logger  *zap.Logger
	SQL     *sql.DB
	Redis   redis.UniversalClient `optional:"true"`
	Recipes outbound.RecipeRepository
}

// NewHealthCheck registers the database, cache and catalog checks
func NewHealthCheck(p HealthCheckParams) *healthcheck.HealthCheck {
	h := healthcheck.New(p.Config.App.Version, p.Logger)
	h.Register("database", healthcheck.NewDatabaseChecker(p.SQL))
	if p.Redis != nil {
		// preferences fall back to the database when the cache is down
		h.Register("redis", healthcheck.NewRedisChecker(p.Redis), healthcheck.Optional())
	}
	h.Register("catalog", healthcheck.CheckFunc(func(ctx context.Context) healthcheck.Check {
		recipes, err := p.Recipes.List(ctx, outbound.RecipeFilter{Limit: 1})
		switch {
		case err != nil:
			return healthcheck.Check{Status: healthcheck.StatusUnhealthy, Message: err.Error()}
		case len(recipes) == 0:
			return healthcheck.Check{Status: healthcheck.StatusDegraded, Message: "recipe catalog is empty"}
		default:
			return healthcheck.Check{Status: healthcheck.StatusHealthy}
		}
	}))
	return h
}

// LifecycleModule starts the server and hot reload
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	server *apiserver.Server,
	plannerSvc *planner.PlannerService,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting Foodi meal planner",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
				zap.String("database", cfg.Database.Driver),
			)

			cfg.Watch(log, func(next *config.Config) {
				plannerSvc.Reconfigure(next.Engine(), next.CostTable())
			})

			go func() {
				if err := server.Start(); err != nil {
					log.Error("HTTP server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Foodi meal planner")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}
			_ = log.Sync()
			return nil
		},
	})
}
