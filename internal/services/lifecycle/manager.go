// Package lifecycle stops the server's components in dependency order when
// the process is asked to exit.
package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Phase groups components that stop together. Phases run in ascending order
// and every hook of a phase returns before the next phase starts.
type Phase int

const (
	// PhaseIngress stops the HTTP server so no new requests arrive.
	PhaseIngress Phase = iota
	// PhaseWorkers stops the autopilot scheduler and the health monitor.
	PhaseWorkers
	// PhaseFlush runs the buffer processor's final sync into Postgres.
	PhaseFlush
	// PhaseStorage closes the bolt file, Redis and the Postgres pool.
	PhaseStorage
)

func (p Phase) String() string {
	switch p {
	case PhaseIngress:
		return "ingress"
	case PhaseWorkers:
		return "workers"
	case PhaseFlush:
		return "flush"
	case PhaseStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// StopFunc stops one component within the shutdown deadline.
type StopFunc func(ctx context.Context) error

type component struct {
	name  string
	phase Phase
	stop  StopFunc
}

// Manager owns the shutdown sequence for the server.
type Manager struct {
	timeout time.Duration
	logger  *zap.Logger

	mu         sync.Mutex
	components []component
}

func New(timeout time.Duration, logger *zap.Logger) *Manager {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		timeout: timeout,
		logger:  logger.Named("lifecycle"),
	}
}

// Register adds a component to phase. Within a phase, components stop in
// reverse registration order.
func (m *Manager) Register(phase Phase, name string, stop StopFunc) {
	if stop == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{name: name, phase: phase, stop: stop})
}

// Shutdown stops every registered component once. Failures are joined and do
// not halt the sequence; a missed deadline is logged and the remaining
// components still get their call.
func (m *Manager) Shutdown(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	var result error
	for phase := PhaseIngress; phase <= PhaseStorage; phase++ {
		for i := len(m.components) - 1; i >= 0; i-- {
			c := m.components[i]
			if c.phase != phase {
				continue
			}
			if ctx.Err() != nil {
				m.logger.Warn("shutdown deadline exceeded", zap.String("component", c.name), zap.Stringer("phase", phase))
			}
			started := time.Now()
			if err := c.stop(ctx); err != nil {
				m.logger.Error("component failed to stop",
					zap.String("component", c.name),
					zap.Stringer("phase", phase),
					zap.Error(err))
				result = errors.Join(result, err)
				continue
			}
			m.logger.Info("component stopped",
				zap.String("component", c.name),
				zap.Stringer("phase", phase),
				zap.Duration("took", time.Since(started)))
		}
	}
	m.components = nil
	return result
}

// Listen calls cancel on the first SIGINT or SIGTERM.
func (m *Manager) Listen(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		defer signal.Stop(sigCh)
		sig := <-sigCh
		m.logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		cancel()
	}()
}
