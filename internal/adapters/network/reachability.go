// Package network provides the online/offline signal consumed by the sync
// stub. The habit store itself never touches the network.
package network

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

var (
	_ domain.Reachability = (*DialProbe)(nil)
	_ domain.Reachability = Offline{}
)

// Offline reports no connectivity. Used when no probe address is configured.
type Offline struct{}

func (Offline) IsOnline(ctx context.Context) bool { return false }

// DialProbe considers the device online when a TCP connection to Addr
// succeeds within Timeout.
type DialProbe struct {
	Addr    string
	Timeout time.Duration
}

func NewDialProbe(addr string, timeout time.Duration) *DialProbe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &DialProbe{Addr: addr, Timeout: timeout}
}

func (p *DialProbe) IsOnline(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", p.Addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Watcher polls a probe and calls OnReconnect on every offline to online
// transition.
type Watcher struct {
	probe       domain.Reachability
	interval    time.Duration
	onReconnect func(ctx context.Context)
	log         *zap.Logger

	mu     sync.RWMutex
	online bool
}

func NewWatcher(probe domain.Reachability, interval time.Duration, onReconnect func(ctx context.Context), log *zap.Logger) *Watcher {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		probe:       probe,
		interval:    interval,
		onReconnect: onReconnect,
		log:         log.With(zap.String("component", "network")),
	}
}

// IsOnline returns the last observed state without probing.
func (w *Watcher) IsOnline(ctx context.Context) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.online
}

// Check probes once and reports whether the device just came back online.
func (w *Watcher) Check(ctx context.Context) bool {
	now := w.probe.IsOnline(ctx)

	w.mu.Lock()
	was := w.online
	w.online = now
	w.mu.Unlock()

	if was != now {
		w.log.Info("reachability changed", zap.Bool("online", now))
	}

	reconnected := now && !was
	if reconnected && w.onReconnect != nil {
		w.onReconnect(ctx)
	}
	return reconnected
}

// Run polls until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Check(ctx)
	for {
		select {
		case <-ticker.C:
			w.Check(ctx)
		case <-ctx.Done():
			return
		}
	}
}
