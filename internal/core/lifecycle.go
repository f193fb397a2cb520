package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"
)

// LifecycleManager starts components in dependency order and stops them in
// reverse. Bootstrap logging goes through the stdlib logger because the
// logging component may not be up yet.
type LifecycleManager struct {
	container      *Container
	hookManager    *HookManager
	mutex          sync.RWMutex
	shutdownCalled bool
	timeout        time.Duration
}

func NewLifecycleManager(container *Container, hooks *HookManager) *LifecycleManager {
	if hooks == nil {
		hooks = NewHookManager()
	}
	return &LifecycleManager{
		container:   container,
		hookManager: hooks,
		timeout:     30 * time.Second,
	}
}

// SetTimeout overrides the per-component start/stop timeout.
func (lm *LifecycleManager) SetTimeout(timeout time.Duration) { lm.timeout = timeout }

func (lm *LifecycleManager) AddHook(name string, phase Phase, fn HookFunc, priority int) error {
	return lm.hookManager.Register(&Hook{Name: name, Phase: phase, Function: fn, Priority: priority})
}

func (lm *LifecycleManager) StartAll(ctx context.Context) error {
	if err := lm.hookManager.Execute(ctx, BeforeStart); err != nil {
		return fmt.Errorf("before_start hooks failed: %w", err)
	}

	components, err := lm.container.SortComponentsByDependencies()
	if err != nil {
		return fmt.Errorf("failed to sort components: %w", err)
	}

	for _, comp := range components {
		startCtx, cancel := context.WithTimeout(ctx, lm.timeout)
		err := comp.Start(startCtx)
		cancel()

		if err != nil {
			log.Printf("Failed to start component %s: %v", comp.Name(), err)
			lm.stopStartedComponents(context.Background(), components, comp.Name())
			return fmt.Errorf("failed to start component %s: %w", comp.Name(), err)
		}
		log.Printf("Component %s started successfully", comp.Name())
	}

	if err := lm.hookManager.Execute(ctx, AfterStart); err != nil {
		log.Printf("after_start hooks failed: %v", err)
	}
	return nil
}

func (lm *LifecycleManager) StopAll(ctx context.Context) {
	lm.mutex.Lock()
	if lm.shutdownCalled {
		lm.mutex.Unlock()
		return
	}
	lm.shutdownCalled = true
	lm.mutex.Unlock()

	log.Println("Initiating shutdown sequence...")

	if err := lm.hookManager.Execute(ctx, BeforeShutdown); err != nil {
		log.Printf("before_shutdown hooks failed: %v", err)
	}

	components, err := lm.container.SortComponentsByDependencies()
	if err != nil {
		log.Printf("Failed to sort components for shutdown: %v", err)
		registered := lm.container.ListRegistered()
		components = make([]Component, 0, len(registered))
		for _, comp := range registered {
			components = append(components, comp)
		}
	}

	for i := len(components) - 1; i >= 0; i-- {
		comp := components[i]
		if !comp.IsActive() {
			continue
		}
		log.Printf("Stopping component: %s", comp.Name())
		stopCtx, cancel := context.WithTimeout(ctx, lm.timeout)
		if err := comp.Stop(stopCtx); err != nil {
			log.Printf("Error stopping component %s: %v", comp.Name(), err)
		}
		cancel()
	}

	if err := lm.hookManager.Execute(ctx, AfterShutdown); err != nil {
		log.Printf("after_shutdown hooks failed: %v", err)
	}
	log.Println("Shutdown sequence completed")
}

func (lm *LifecycleManager) stopStartedComponents(ctx context.Context, components []Component, failedComponentName string) {
	for i := len(components) - 1; i >= 0; i-- {
		comp := components[i]
		if comp.Name() == failedComponentName {
			break
		}
		if comp.IsActive() {
			stopCtx, cancel := context.WithTimeout(ctx, lm.timeout)
			if err := comp.Stop(stopCtx); err != nil {
				log.Printf("Error stopping component %s during cleanup: %v", comp.Name(), err)
			}
			cancel()
		}
	}
}
