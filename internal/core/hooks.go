package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type HookFunc func(ctx context.Context) error

// Phase identifies where in the lifecycle a hook runs.
type Phase string

const (
	BeforeStart    Phase = "before_start"
	AfterStart     Phase = "after_start"
	BeforeShutdown Phase = "before_shutdown"
	AfterShutdown  Phase = "after_shutdown"
)

type Hook struct {
	Name     string
	Phase    Phase
	Function HookFunc
	Priority int // lower runs first
}

type HookManager struct {
	hooks map[Phase][]*Hook
	mutex sync.RWMutex
}

func NewHookManager() *HookManager {
	return &HookManager{hooks: make(map[Phase][]*Hook)}
}

func (m *HookManager) Register(hook *Hook) error {
	if hook == nil || hook.Function == nil {
		return fmt.Errorf("hook and hook function cannot be nil")
	}
	switch hook.Phase {
	case BeforeStart, AfterStart, BeforeShutdown, AfterShutdown:
	default:
		return fmt.Errorf("invalid hook phase: %s", hook.Phase)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.hooks[hook.Phase] = append(m.hooks[hook.Phase], hook)
	sort.SliceStable(m.hooks[hook.Phase], func(i, j int) bool {
		return m.hooks[hook.Phase][i].Priority < m.hooks[hook.Phase][j].Priority
	})
	return nil
}

func (m *HookManager) Execute(ctx context.Context, phase Phase) error {
	m.mutex.RLock()
	hooks := make([]*Hook, len(m.hooks[phase]))
	copy(hooks, m.hooks[phase])
	m.mutex.RUnlock()

	for _, hook := range hooks {
		if err := hook.Function(ctx); err != nil {
			return fmt.Errorf("hook %s failed: %w", hook.Name, err)
		}
	}
	return nil
}
