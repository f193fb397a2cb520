package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/praxisware/tpflow/internal/components/logging"
	"github.com/praxisware/tpflow/internal/consts"
	"github.com/praxisware/tpflow/internal/core"
)

type ClientsComponent struct {
	*core.BaseComponent
	cfg     *Config
	mu      sync.RWMutex
	clients map[string]*InstrumentedClient
	defName string
}

func NewClientsComponent(cfg *Config) *ClientsComponent {
	return &ClientsComponent{
		BaseComponent: core.NewBaseComponent(
			consts.COMPONENT_HTTP_CLIENTS,
			consts.COMPONENT_LOGGING,
			consts.COMPONENT_TELEMETRY,
		),
		cfg:     cfg,
		clients: map[string]*InstrumentedClient{},
	}
}

func (hc *ClientsComponent) Start(ctx context.Context) error {
	if err := hc.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if hc.cfg == nil || !hc.cfg.Enabled {
		return fmt.Errorf("http_clients disabled or missing config")
	}
	hc.cfg.applyDefaults()
	hc.defName = hc.cfg.Default

	for name, cCfg := range hc.cfg.Clients {
		underlying := &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        cCfg.MaxIdleConns,
			MaxIdleConnsPerHost: cCfg.MaxIdleConnsPerHost,
			IdleConnTimeout:     cCfg.IdleConnTimeout,
			TLSHandshakeTimeout: 5 * time.Second,
		}

		httpClient := &http.Client{
			Timeout:   cCfg.Timeout,
			Transport: otelhttp.NewTransport(underlying),
		}

		hc.clients[name] = &InstrumentedClient{
			Name:           name,
			BaseURL:        cCfg.BaseURL,
			DefaultHeaders: cCfg.DefaultHeaders,
			Client:         httpClient,
			Retry:          cCfg.Retry,
			Underlying:     underlying,
		}
	}

	SetGlobalClients(hc)
	logging.Info(ctx, "http_clients component started")
	return nil
}

func (hc *ClientsComponent) Stop(ctx context.Context) error {
	defer hc.BaseComponent.Stop(ctx)
	hc.mu.RLock()
	for _, cli := range hc.clients {
		if cli != nil && cli.Underlying != nil {
			cli.Underlying.CloseIdleConnections()
		}
	}
	hc.mu.RUnlock()
	logging.Info(ctx, "http_clients component stopped")
	return nil
}

func (hc *ClientsComponent) HealthCheck() error {
	if err := hc.BaseComponent.HealthCheck(); err != nil {
		return err
	}
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	if len(hc.clients) == 0 {
		return fmt.Errorf("no http clients initialized")
	}
	return nil
}

func (hc *ClientsComponent) Client(name string) (*InstrumentedClient, error) {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	if name == "" {
		name = hc.defName
	}
	cli, ok := hc.clients[name]
	if !ok {
		return nil, fmt.Errorf("http client %s not found", name)
	}
	return cli, nil
}

func (hc *ClientsComponent) Default() (*InstrumentedClient, error) {
	return hc.Client(hc.defName)
}
