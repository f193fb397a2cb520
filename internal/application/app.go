package application

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/praxisware/tpflow/internal/autowire"
	"github.com/praxisware/tpflow/internal/config"
	"github.com/praxisware/tpflow/internal/core"
	"github.com/praxisware/tpflow/internal/registry"
)

// App ties config loading, component registration, autowiring and lifecycle
// management together. Construction is cheap; boot happens lazily on Run.
type App struct {
	container        *core.Container
	lifecycleManager *core.LifecycleManager
	configManager    *config.ConfigManager

	bootOnce sync.Once
	bootErr  error
	booted   bool

	shutdownTimeout time.Duration
}

func NewApp(env string, configPath string) *App {
	abs := configPath
	if p, err := filepath.Abs(configPath); err == nil {
		abs = p
	}
	container := core.NewContainer()
	return &App{
		configManager:    config.NewConfigManager(env, abs),
		container:        container,
		lifecycleManager: core.NewLifecycleManager(container, core.NewHookManager()),
		shutdownTimeout:  30 * time.Second,
	}
}

// SetBizConfig registers the project-specific config pointer; must be called
// before Run.
func (app *App) SetBizConfig(biz any) { app.configManager.SetBizConfig(biz) }

func (app *App) SetShutdownTimeout(d time.Duration) { app.shutdownTimeout = d }

func (app *App) boot() error {
	app.bootOnce.Do(func() {
		if err := app.configManager.LoadConfig(); err != nil {
			app.bootErr = fmt.Errorf("load config failed: %w", err)
			return
		}
		if err := app.registerComponents(); err != nil {
			app.bootErr = fmt.Errorf("register components failed: %w", err)
			return
		}
		app.booted = true
	})
	return app.bootErr
}

func (app *App) registerComponents() error {
	cfg := app.configManager.GetConfig()
	if cfg == nil {
		return fmt.Errorf("config not loaded")
	}
	// Each component self-registers its builder in a registry init().
	if err := registry.BuildAndRegisterAll(cfg, app.container); err != nil {
		return err
	}
	return autowire.InjectAll(app.container)
}

func (app *App) GetComponent(name string) (core.Component, error) {
	return app.container.Resolve(name)
}

func (app *App) Container() *core.Container { return app.container }

func (app *App) GetConfig() *config.AppConfig {
	if app.configManager == nil {
		return nil
	}
	return app.configManager.GetConfig()
}

func (app *App) BizConfig() any { return app.configManager.BizConfig() }

func (app *App) AddHook(name string, phase core.Phase, fn core.HookFunc, priority int) error {
	return app.lifecycleManager.AddHook(name, phase, fn, priority)
}

// Run blocks until SIGINT/SIGTERM, then shuts components down gracefully.
func (app *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.RunWithContext(ctx)
}

// RunWithContext starts components and blocks until the context is done,
// then performs graceful shutdown.
func (app *App) RunWithContext(ctx context.Context) error {
	if err := app.boot(); err != nil {
		return err
	}

	if err := app.lifecycleManager.StartAll(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.shutdownTimeout)
	defer cancel()
	app.lifecycleManager.StopAll(shutdownCtx)
	return nil
}

func (app *App) Shutdown(ctx context.Context) {
	app.lifecycleManager.StopAll(ctx)
}
