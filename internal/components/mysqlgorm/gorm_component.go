package mysqlgorm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	mysqlDriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/praxisware/tpflow/internal/components/gormlog"
	"github.com/praxisware/tpflow/internal/components/logging"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/migrate"
)

// GormComponent manages one *gorm.DB per configured datasource.
type GormComponent struct {
	*core.BaseComponent
	cfg   *Config
	dbs   map[string]*gorm.DB
	mutex sync.RWMutex
	log   logger.Interface
}

func NewGormComponent(cfg *Config) *GormComponent {
	gc := &GormComponent{
		BaseComponent: core.NewBaseComponent(consts.COMPONENT_MYSQL_GORM, consts.COMPONENT_LOGGING),
		cfg:           cfg,
		dbs:           make(map[string]*gorm.DB),
	}
	var level string
	var slow time.Duration
	if cfg != nil {
		level, slow = cfg.LogLevel, cfg.SlowThreshold
	}
	gc.log = gormlog.New(level, slow)
	return gc
}

func (c *GormComponent) Start(ctx context.Context) error {
	if err := c.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if c.cfg == nil || !c.cfg.Enabled {
		return fmt.Errorf("mysql_gorm component disabled or nil config")
	}
	if len(c.cfg.DataSources) == 0 {
		return fmt.Errorf("mysql_gorm no data_sources configured")
	}

	for name, ds := range c.cfg.DataSources {
		if ds == nil {
			return fmt.Errorf("datasource %s config is nil", name)
		}
		dsn, err := buildDSN(ds)
		if err != nil {
			return fmt.Errorf("build dsn for %s failed: %w", name, err)
		}

		gormDB, err := gorm.Open(mysqlDriver.New(mysqlDriver.Config{DSN: dsn}), &gorm.Config{
			Logger:                                   c.log,
			SkipDefaultTransaction:                   ds.SkipDefaultTransaction,
			PrepareStmt:                              ds.PrepareStmt,
			DisableForeignKeyConstraintWhenMigrating: true,
		})
		if err != nil {
			return fmt.Errorf("open gorm db %s failed: %w", name, err)
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			return fmt.Errorf("get underlying sql.DB for %s failed: %w", name, err)
		}

		if ds.MaxOpenConns > 0 {
			sqlDB.SetMaxOpenConns(ds.MaxOpenConns)
		} else {
			sqlDB.SetMaxOpenConns(50)
		}
		if ds.MaxIdleConns > 0 {
			sqlDB.SetMaxIdleConns(ds.MaxIdleConns)
		} else {
			sqlDB.SetMaxIdleConns(10)
		}
		if ds.ConnMaxLife > 0 {
			sqlDB.SetConnMaxLifetime(ds.ConnMaxLife)
		} else {
			sqlDB.SetConnMaxLifetime(60 * time.Minute)
		}
		if ds.ConnMaxIdle > 0 {
			sqlDB.SetConnMaxIdleTime(ds.ConnMaxIdle)
		}

		if ds.PingOnStart {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := sqlDB.PingContext(pingCtx); err != nil {
				cancel()
				_ = sqlDB.Close()
				return fmt.Errorf("ping gorm db %s failed: %w", name, err)
			}
			cancel()
		}

		if ds.MigrateEnabled {
			if strings.TrimSpace(ds.MigrateDir) == "" {
				_ = sqlDB.Close()
				return fmt.Errorf("mysql_gorm datasource %s migrate_enabled=true but migrate_dir empty", name)
			}
			logging.Infof(ctx, "[mysql_gorm] datasource %s running migrations dir=%s", name, ds.MigrateDir)
			if err := migrate.RunDir(ctx, sqlDB, ds.MigrateDir); err != nil {
				_ = sqlDB.Close()
				return fmt.Errorf("mysql_gorm datasource %s migrations failed: %w", name, err)
			}
		}

		c.mutex.Lock()
		c.dbs[name] = gormDB
		c.mutex.Unlock()

		logging.Infof(ctx, "[mysql_gorm] datasource %s initialized", name)
	}
	logging.Infof(ctx, "[mysql_gorm] started. data sources=%v", c.listNames())
	return nil
}

func (c *GormComponent) Stop(ctx context.Context) error {
	defer func() { _ = c.BaseComponent.Stop(ctx) }()
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for name, gdb := range c.dbs {
		if gdb != nil {
			if sqlDB, err := gdb.DB(); err == nil {
				_ = sqlDB.Close()
			}
			logging.Infof(ctx, "[mysql_gorm] datasource %s closed", name)
		}
	}
	return nil
}

func (c *GormComponent) HealthCheck() error {
	if err := c.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	for name, gdb := range c.dbs {
		if gdb == nil {
			return fmt.Errorf("datasource %s not initialized", name)
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return fmt.Errorf("datasource %s get sql.DB failed: %w", name, err)
		}
		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("datasource %s ping failed: %w", name, err)
		}
	}
	return nil
}

func (c *GormComponent) GetDB(name string) (*gorm.DB, error) {
	c.mutex.RLock()
	db, ok := c.dbs[name]
	c.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("mysql_gorm datasource %s not found", name)
	}
	return db, nil
}

func (c *GormComponent) listNames() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	names := make([]string, 0, len(c.dbs))
	for k := range c.dbs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// buildDSN assembles a DSN from the datasource pieces when one is not
// provided directly.
func buildDSN(ds *DataSourceConfig) (string, error) {
	if strings.TrimSpace(ds.DSN) != "" {
		return ds.DSN, nil
	}
	if ds.Host == "" || ds.User == "" || ds.Database == "" {
		return "", errors.New("host, user, database required when dsn not provided")
	}
	port := ds.Port
	if port == 0 {
		port = 3306
	}
	params := url.Values{}
	params.Set("parseTime", "true")
	params.Set("charset", "utf8mb4")
	params.Set("loc", "Local")
	for k, v := range ds.Params {
		params.Set(k, v)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", ds.User, ds.Password, ds.Host, port, ds.Database, params.Encode()), nil
}
