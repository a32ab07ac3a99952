package cli

import (
	"fmt"

	"soufra_admin/internal/changefeed"
	"soufra_admin/internal/config"
	"soufra_admin/internal/database"
	"soufra_admin/internal/logger"
	"soufra_admin/internal/migrations"
	"soufra_admin/internal/models"
	"soufra_admin/internal/redis"
	"soufra_admin/internal/repository"
	"soufra_admin/internal/services"

	"gorm.io/gorm"
)

// app holds the connections and services shared by the long-running commands.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *gorm.DB
	redis  *redis.Client
	feed   changefeed.Feed

	users       services.UserService
	auth        services.AuthService
	restaurants services.RestaurantService
	menu        services.MenuService
	orders      services.OrderService
	carts       services.CartService
}

type appOptions struct {
	// withSessions connects Redis even when the feed does not need it.
	withSessions bool
}

func newApp(cfg *config.Config, log *logger.Logger, opts appOptions) (*app, error) {
	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel, log)
	if err != nil {
		return nil, err
	}
	if err := migrations.RunMigrations(db, log); err != nil {
		closeDB(db)
		return nil, err
	}

	a := &app{cfg: cfg, logger: log, db: db}
	if opts.withSessions || cfg.FeedDriver == config.FeedRedis {
		a.redis, err = redis.Initialize(cfg.RedisURL)
		if err != nil {
			a.close()
			return nil, err
		}
	}

	switch cfg.FeedDriver {
	case config.FeedRedis:
		a.feed = changefeed.NewRedisFeed(a.redis, log.With("changefeed"))
	case config.FeedPostgres:
		a.feed = changefeed.NewPostgresFeed(cfg.DatabaseURL, migrations.NotifyChannel, log.With("changefeed"))
	case config.FeedMemory:
		a.feed = changefeed.NewMemory()
	default:
		a.close()
		return nil, fmt.Errorf("unknown feed driver %q", cfg.FeedDriver)
	}

	restaurantRepo := repository.NewRestaurantRepository(db)
	a.users = services.NewUserService(repository.NewUserRepository(db))
	a.restaurants = services.NewRestaurantService(restaurantRepo)
	a.menu = services.NewMenuService(repository.NewCategoryRepository(db), repository.NewMenuItemRepository(db))
	a.orders = services.NewOrderService(repository.NewOrderRepository(db), restaurantRepo, a.feed, log.With("orders"))
	a.carts = services.NewCartService(a.menu)
	if a.redis != nil {
		a.auth = services.NewAuthService(a.users, a.redis, cfg.SessionTTL(), models.UserRole(cfg.SignupRole), log.With("auth"))
	}
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis_close_failed", "Failed to close Redis client", err, nil)
		}
	}
	closeDB(a.db)
}

func closeDB(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
