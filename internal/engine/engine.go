// Package engine runs the manager's HTTP surface: the topic management proxy
// in front of the message-queue cluster masters and the sink schema
// provisioning API.
package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/streamweld/streamweld/internal/config"
	"github.com/streamweld/streamweld/internal/mq"
	"github.com/streamweld/streamweld/pkg/adapter"
	runtimeconfig "github.com/streamweld/streamweld/pkg/config"
	"github.com/streamweld/streamweld/pkg/health"
	"github.com/streamweld/streamweld/pkg/logger"
)

type Engine struct {
	config   *config.Config
	server   *http.Server
	registry *adapter.Registry
	logger   *logger.Logger
	health   *health.Checker
	settings *runtimeconfig.Config

	mastersMu sync.Mutex
	masters   map[int64]*mq.MasterClient

	state struct {
		sync.Mutex
		isRunning         bool
		ongoingOperations int32
	}
	metrics struct {
		requestsProcessed int64
		errors            int64
	}
}

func NewEngine(cfg *config.Config) *Engine {
	settings := runtimeconfig.New()
	settings.Update(map[string]string{
		"server.port":            cfg.ListenAddr,
		"mq.master_addr":         cfg.DefaultMasterAddr,
		"mq.master_timeout":      cfg.MasterTimeout.String(),
		"sink.dial_timeout":      cfg.DialTimeout.String(),
		"sink.statement_timeout": cfg.StatementTimeout.String(),
	})

	return &Engine{
		config:   cfg,
		registry: adapter.Default(),
		health:   health.NewChecker(),
		settings: settings,
		masters:  make(map[int64]*mq.MasterClient),
	}
}

// Settings returns the runtime settings store.
func (e *Engine) Settings() *runtimeconfig.Config {
	return e.settings
}

// SetLogger sets the logger for the engine
func (e *Engine) SetLogger(logger *logger.Logger) {
	e.logger = logger
}

// SetRegistry overrides the adapter registry. Used by tests.
func (e *Engine) SetRegistry(registry *adapter.Registry) {
	e.registry = registry
}

func (e *Engine) Start(ctx context.Context) error {
	e.state.Lock()
	if e.state.isRunning {
		e.state.Unlock()
		return fmt.Errorf("engine is already running")
	}
	e.state.isRunning = true
	e.state.Unlock()

	if e.logger != nil {
		e.logger.Infof("Starting manager engine...")
	}

	e.server = &http.Server{
		Addr:    e.config.ListenAddr,
		Handler: NewServer(e),
	}

	if e.logger != nil {
		e.logger.Infof("Starting HTTP server on %s", e.config.ListenAddr)
	}

	go func() {
		if err := e.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if e.logger != nil {
				e.logger.Errorf("HTTP server error: %v", err)
			}
			atomic.AddInt64(&e.metrics.errors, 1)
		}
	}()

	if e.logger != nil {
		e.logger.Infof("Manager engine started successfully")
	}

	return nil
}

func (e *Engine) Stop(ctx context.Context) error {
	e.state.Lock()
	if !e.state.isRunning {
		e.state.Unlock()
		return nil
	}
	e.state.isRunning = false
	e.state.Unlock()

	if e.server != nil {
		return e.server.Shutdown(ctx)
	}

	return nil
}

// MasterClient returns the client for the given cluster, building and caching
// it on first use. Cluster 0 resolves to the default master.
func (e *Engine) MasterClient(clusterID int64) (*mq.MasterClient, error) {
	addr, ok := e.config.MasterAddr(clusterID)
	if !ok {
		return nil, fmt.Errorf("%s %d", mq.ErrMsgNoSuchCluster, clusterID)
	}

	e.mastersMu.Lock()
	defer e.mastersMu.Unlock()

	if client, ok := e.masters[clusterID]; ok {
		return client, nil
	}
	client := mq.NewMasterClient(addr, e.config.MasterTimeout, e.logger)
	e.masters[clusterID] = client
	return client, nil
}

// Registry returns the sink adapter registry.
func (e *Engine) Registry() *adapter.Registry {
	return e.registry
}

// Config returns the service configuration.
func (e *Engine) Config() *config.Config {
	return e.config
}

func (e *Engine) GetMetrics() map[string]int64 {
	return map[string]int64{
		"requests_processed": atomic.LoadInt64(&e.metrics.requestsProcessed),
		"errors":             atomic.LoadInt64(&e.metrics.errors),
	}
}

// Health re-evaluates the engine's checks and returns the checker.
func (e *Engine) Health() *health.Checker {
	e.health.RunCheck("http_server", e.CheckHealth)
	return e.health
}

func (e *Engine) CheckHealth() error {
	e.state.Lock()
	defer e.state.Unlock()

	if !e.state.isRunning {
		return fmt.Errorf("service not initialized")
	}

	if e.server == nil {
		return fmt.Errorf("HTTP server not initialized")
	}

	return nil
}

func (e *Engine) TrackOperation() {
	atomic.AddInt32(&e.state.ongoingOperations, 1)
	atomic.AddInt64(&e.metrics.requestsProcessed, 1)
}

func (e *Engine) UntrackOperation() {
	atomic.AddInt32(&e.state.ongoingOperations, -1)
}

func (e *Engine) trackError() {
	atomic.AddInt64(&e.metrics.errors, 1)
}
