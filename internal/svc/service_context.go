package svc

import (
	"context"
	"fmt"

	"flashloan-program/internal/config"
	"flashloan-program/internal/logic/processor"
	"flashloan-program/internal/runtime"
	"flashloan-program/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/zeromicro/go-zero/core/logx"
)

// ServiceContext 包含本地运行时所需的资源
type ServiceContext struct {
	Config    config.Config
	Store     store.AccountStore
	Runtime   *runtime.Runtime
	Processor *processor.Processor

	rdb *redis.Client
}

// NewServiceContext 按配置创建账户存储、运行时，并部署闪电贷程序
func NewServiceContext(ctx context.Context, c config.Config, opts ...processor.Option) (*ServiceContext, error) {
	sc := &ServiceContext{Config: c}

	// 1. 初始化账户存储
	switch c.StoreConf.Type {
	case config.StoreRedis:
		sc.rdb = redis.NewClient(&redis.Options{
			Addr: c.StoreConf.RedisAddr,
			DB:   c.StoreConf.RedisDB,
		})
		if err := sc.rdb.Ping(ctx).Err(); err != nil {
			_ = sc.rdb.Close()
			return nil, fmt.Errorf("redis ping %s failed: %w", c.StoreConf.RedisAddr, err)
		}
		sc.Store = store.NewRedisStore(sc.rdb, c.StoreConf.KeyPrefix)
	default:
		sc.Store = store.NewMemoryStore()
	}

	// 2. 初始化运行时并部署程序
	sc.Runtime = runtime.NewRuntime(sc.Store, c.RentConf.ToRent())
	sc.Processor = processor.NewProcessor(c.ProgramConf.ProgramID, sc.Runtime, opts...)
	sc.Runtime.RegisterProgram(c.ProgramConf.ProgramID, sc.Processor)

	logx.Infof("service context ready: program=%s store=%s", c.ProgramConf.ProgramID, c.StoreConf.Type)
	return sc, nil
}

// Close 关闭服务上下文中的资源
func (sc *ServiceContext) Close() {
	if sc.rdb != nil {
		_ = sc.rdb.Close()
	}
}
