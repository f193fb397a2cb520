package httpserver

import (
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/praxisware/tpflow/internal/core"
)

// RouteRegisterFunc mounts routes onto the router; the container is provided
// for resolving controller components.
type RouteRegisterFunc func(r chi.Router, c *core.Container) error

var (
	registryMu sync.RWMutex
	registrars []RouteRegisterFunc
)

// RegisterRoutes queues a registrar to run when the server component starts.
// Call from a controller init() or a setup function.
func RegisterRoutes(fn RouteRegisterFunc) {
	if fn == nil {
		return
	}
	registryMu.Lock()
	registrars = append(registrars, fn)
	registryMu.Unlock()
}

func snapshot() []RouteRegisterFunc {
	registryMu.RLock()
	cp := make([]RouteRegisterFunc, len(registrars))
	copy(cp, registrars)
	registryMu.RUnlock()
	return cp
}
