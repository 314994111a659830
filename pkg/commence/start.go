package commence

import (
	"context"
	"time"

	"github.com/luminshop/payments/pkg/config"
	"github.com/luminshop/payments/pkg/contextstore"
	"github.com/luminshop/payments/pkg/database"
	"github.com/luminshop/payments/pkg/events"
	"github.com/luminshop/payments/pkg/gateway/cardgw"
	"github.com/luminshop/payments/pkg/notify"
	"github.com/luminshop/payments/pkg/payment"
)

func Start(cfg *config.CommenceConfig) error {
	config.Config = cfg

	if err := database.Init(cfg.DatabaseDSN); err != nil {
		return err
	}

	ttl := time.Duration(cfg.Redis.ContextTTLMins) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	var store contextstore.Store
	if cfg.Redis.Addr != "" {
		redisStore, err := contextstore.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl)
		if err != nil {
			return err
		}
		store = redisStore
	} else {
		store = contextstore.NewMemoryStore(ttl)
	}

	gw := cardgw.New(
		cfg.Gateway.APIKey,
		cfg.Gateway.SecretKey,
		cfg.Gateway.BaseURL,
		time.Duration(cfg.Gateway.TimeoutSeconds)*time.Second,
	)

	payment.Init(gw, store)

	if err := notify.Init(context.Background()); err != nil {
		return err
	}

	return nil
}

// 注册业务系统的事件处理器
func RegisterEventHandler(handler events.EventHandler) {
	events.SetEventHandler(handler)
}
