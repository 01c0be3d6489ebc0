// Package node assembles a runnable minter from a data directory: the
// configuration file, structured logging, Prometheus metrics, the bbolt
// state store, the allocation engine and, when configured, a BSV node used
// to settle on-chain payments.
package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bitfsorg/libmint-go/chain"
	"github.com/bitfsorg/libmint-go/config"
	"github.com/bitfsorg/libmint-go/issuance"
	"github.com/bitfsorg/libmint-go/logging"
	"github.com/bitfsorg/libmint-go/manifest"
	"github.com/bitfsorg/libmint-go/metrics"
	"github.com/bitfsorg/libmint-go/minter"
	"github.com/bitfsorg/libmint-go/store"
)

// ServiceName labels every log line of the node.
const ServiceName = "libmint"

// Node is an assembled minter.
type Node struct {
	Config  config.Config
	Log     *slog.Logger
	Store   *store.Store
	Metrics *metrics.Metrics
	Engine  *minter.Engine
	Chain   chain.Service // nil when no RPC endpoint is configured

	registry  *prometheus.Registry
	logCloser io.Closer
}

// Options carries what the configuration file does not.
type Options struct {
	CodeHash  string    // announced to the payment asset at init
	LogOutput io.Writer // used when the config names no log file

	// Chain overrides the RPC client built from the configuration.
	Chain chain.Service
}

// Open loads the configuration from dataDir, falling back to defaults when
// the file does not exist, and assembles the node.
func Open(dataDir string, client issuance.Client, opts Options) (*Node, error) {
	cfg, err := config.LoadConfig(config.ConfigPath(dataDir))
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		cfg = config.DefaultConfig()
	case err != nil:
		return nil, err
	}
	cfg.DataDir = dataDir
	return New(cfg, client, opts)
}

// New validates cfg and assembles the node.
func New(cfg config.Config, client issuance.Client, opts Options) (*Node, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: issuance client", ErrNilParam)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	log, closer, err := logging.Setup(logging.Options{
		Service: ServiceName,
		Env:     cfg.Environment,
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Output:  opts.LogOutput,
	})
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("node: register metrics: %w", err)
	}

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		closer.Close()
		return nil, err
	}

	n := &Node{
		Config:    cfg,
		Log:       log,
		Store:     st,
		Metrics:   m,
		Chain:     opts.Chain,
		registry:  registry,
		logCloser: closer,
	}
	if n.Chain == nil && cfg.RPCURL != "" {
		n.Chain = chain.NewRPCClient(chain.RPCConfig{
			URL:      cfg.RPCURL,
			User:     cfg.RPCUser,
			Password: cfg.RPCPassword,
		})
	}
	n.Engine = minter.New(st, client, minter.Options{
		CodeHash:      opts.CodeHash,
		Logger:        log,
		Metrics:       m,
		Chain:         n.Chain,
		Confirmations: cfg.Confirmations,
	})
	log.Info("node opened", slog.String("db", cfg.DBPath()))
	return n, nil
}

// Bootstrap initializes the minter from the init manifest at initPath and,
// when itemsPath is set, preloads the item manifest as the administrator.
func (n *Node) Bootstrap(ctx context.Context, env minter.Env, initPath, itemsPath string) error {
	msg, err := manifest.LoadInit(initPath)
	if err != nil {
		return err
	}
	if _, err := n.Engine.Init(ctx, env, msg); err != nil {
		return err
	}
	if itemsPath == "" {
		return nil
	}

	items, err := manifest.LoadItems(itemsPath)
	if err != nil {
		return err
	}
	admin := env
	if msg.Admin != "" {
		admin.Caller = msg.Admin
	}
	if err := n.Engine.PreloadItems(ctx, admin, items); err != nil {
		return err
	}
	n.Log.Info("inventory preloaded", slog.Int("items", len(items)))
	return nil
}

// SettleTx settles the payment transaction txid once it has the configured
// number of confirmations.
func (n *Node) SettleTx(ctx context.Context, txid string) (*minter.Response, error) {
	if n.Chain == nil {
		return nil, fmt.Errorf("%w: chain service", ErrNilParam)
	}
	resp, err := n.Engine.Dispatch(ctx, minter.Env{}, &minter.HandleMsg{
		ReceiveTx: &minter.ReceiveTxMsg{TxID: txid},
	})
	if err != nil {
		n.Log.Warn("payment not settled", slog.String("txid", txid), slog.String("error", err.Error()))
		return nil, err
	}
	return resp, nil
}

// MetricsHandler serves the node metrics in the Prometheus exposition format.
func (n *Node) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(n.registry, promhttp.HandlerOpts{})
}

// ServeMetrics serves MetricsHandler on the configured address until ctx is
// done. It returns immediately when no address is configured.
func (n *Node) ServeMetrics(ctx context.Context) error {
	if n.Config.MetricsAddr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", n.MetricsHandler())
	srv := &http.Server{
		Addr:              n.Config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return fmt.Errorf("node: metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("node: metrics shutdown: %w", err)
		}
		return nil
	}
}

// Close releases the store and the log file.
func (n *Node) Close() error {
	err := n.Store.Close()
	if cerr := n.logCloser.Close(); err == nil {
		err = cerr
	}
	return err
}
