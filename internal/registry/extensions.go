package registry

import (
	"log"
	"sync"

	"github.com/praxisware/tpflow/internal/core"
)

// runtimeDepExtMap stores extra runtime dependency edges applied after
// components are built and registered, before lifecycle StartAll sorts them.
var (
	runtimeDepExtMap = map[string][]string{}
	runtimeDepExtMu  sync.Mutex
)

// ExtendRuntimeDependencies declares that component target should additionally
// depend on deps. This affects runtime start/stop ordering only, not builder
// build order, and must be called before BuildAndRegisterAll (typically from
// an init()).
func ExtendRuntimeDependencies(target string, deps ...string) {
	if target == "" || len(deps) == 0 {
		return
	}
	runtimeDepExtMu.Lock()
	defer runtimeDepExtMu.Unlock()
	runtimeDepExtMap[target] = append(runtimeDepExtMap[target], deps...)
}

func applyRuntimeDepExtensions(c *core.Container) {
	runtimeDepExtMu.Lock()
	defer runtimeDepExtMu.Unlock()
	if len(runtimeDepExtMap) == 0 {
		return
	}
	for target, extra := range runtimeDepExtMap {
		comp, err := c.Resolve(target)
		if err != nil {
			log.Printf("registry: runtime dep extension target %s not registered (skipped): %v", target, err)
			continue
		}
		if extender, ok := comp.(interface{ AddDependencies(...string) }); ok {
			extender.AddDependencies(extra...)
		} else {
			log.Printf("registry: component %s does not support AddDependencies; extension skipped", target)
		}
	}
	runtimeDepExtMap = map[string][]string{}
}
