package autowire_test

import (
	"testing"

	"github.com/praxisware/tpflow/internal/autowire"
	"github.com/praxisware/tpflow/internal/core"
)

type leafComp struct {
	*core.BaseComponent
}

type wiredComp struct {
	*core.BaseComponent
	Leaf  *leafComp `infra:"dep:leaf"`
	Maybe *leafComp `infra:"dep:missing?"`
}

type badComp struct {
	*core.BaseComponent
	Leaf *leafComp `infra:"dep:nowhere"`
}

func TestInjectAssignsTaggedFields(t *testing.T) {
	c := core.NewContainer()
	leaf := &leafComp{BaseComponent: core.NewBaseComponent("leaf")}
	w := &wiredComp{BaseComponent: core.NewBaseComponent("wired")}
	if err := c.Register("leaf", leaf); err != nil {
		t.Fatalf("register leaf: %v", err)
	}
	if err := c.Register("wired", w); err != nil {
		t.Fatalf("register wired: %v", err)
	}

	if err := autowire.InjectAll(c); err != nil {
		t.Fatalf("inject: %v", err)
	}
	if w.Leaf != leaf {
		t.Fatal("required dependency not injected")
	}
	if w.Maybe != nil {
		t.Fatal("missing optional dependency should stay nil")
	}
}

func TestInjectExtendsRuntimeDependencies(t *testing.T) {
	c := core.NewContainer()
	leaf := &leafComp{BaseComponent: core.NewBaseComponent("leaf")}
	w := &wiredComp{BaseComponent: core.NewBaseComponent("wired")}
	c.Register("leaf", leaf)
	c.Register("wired", w)

	if err := autowire.InjectAll(c); err != nil {
		t.Fatalf("inject: %v", err)
	}

	found := false
	for _, d := range w.Dependencies() {
		if d == "leaf" {
			found = true
		}
	}
	if !found {
		t.Fatalf("injected dep not appended to dependency list: %v", w.Dependencies())
	}
}

func TestInjectFailsOnMissingRequiredDep(t *testing.T) {
	c := core.NewContainer()
	b := &badComp{BaseComponent: core.NewBaseComponent("bad")}
	c.Register("bad", b)

	if err := autowire.InjectAll(c); err == nil {
		t.Fatal("expected error for missing required dependency")
	}
}
