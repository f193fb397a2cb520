package httpclient

import (
	"fmt"

	"github.com/praxisware/tpflow/internal/core"
)

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Create(cfg interface{}) (core.Component, error) {
	c, ok := cfg.(*Config)
	if !ok {
		return nil, fmt.Errorf("invalid config type for http_clients component")
	}
	if !c.Enabled {
		return nil, fmt.Errorf("http_clients component disabled")
	}
	return NewClientsComponent(c), nil
}
