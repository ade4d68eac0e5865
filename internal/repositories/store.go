package repositories

import (
	"context"
	"fmt"

	"artisan/internal/config"
	"artisan/internal/repositories/interfaces"
	"artisan/internal/repositories/memory"
	"artisan/internal/repositories/mongodb"
	"artisan/pkg/database"
	"artisan/pkg/logger"
)

// Store bundles the repositories for the configured driver.
type Store struct {
	Coupons       interfaces.CouponRepository
	Orders        interfaces.OrderRepository
	Subscriptions interfaces.SubscriptionRepository
	Posts         interfaces.BlogPostRepository

	mongo *database.MongoDB
}

// Open connects to MongoDB, running pending index migrations when
// configured, or builds in-process repositories for DB_DRIVER=memory.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warn("Using in-memory repositories, data is lost on restart")
		return &Store{
			Coupons:       memory.NewCouponRepository(),
			Orders:        memory.NewOrderRepository(),
			Subscriptions: memory.NewSubscriptionRepository(),
			Posts:         memory.NewBlogPostRepository(),
		}, nil
	case config.DriverMongo, "":
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	db, err := ConnectMongo(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := database.NewMigrator(db.Database, log).Up(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return &Store{
		Coupons:       mongodb.NewCouponRepository(db.Database),
		Orders:        mongodb.NewOrderRepository(db.Database),
		Subscriptions: mongodb.NewSubscriptionRepository(db.Database),
		Posts:         mongodb.NewBlogPostRepository(db.Database),
		mongo:         db,
	}, nil
}

func ConnectMongo(cfg *config.Config) (*database.MongoDB, error) {
	return database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		AppName:        cfg.App.Name,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
}

func (s *Store) Ping(ctx context.Context) error {
	if s.mongo == nil {
		return nil
	}
	return s.mongo.Ping(ctx)
}

func (s *Store) Close() error {
	if s.mongo == nil {
		return nil
	}
	return s.mongo.Close()
}
