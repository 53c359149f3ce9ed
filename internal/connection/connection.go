// Package connection implements a named, pooled handle owning one
// transport, a shelf/location name->id resolver, a two-state health machine,
// and a subscription for state-change listeners. Grounded on
// original_source/kachaka_core/connection.py almost 1:1.
package connection

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/estuary/kachaka-core/internal/kachakapb"
	"github.com/estuary/kachaka-core/internal/metrics"
	"github.com/estuary/kachaka-core/internal/ops"
	"github.com/estuary/kachaka-core/internal/transport"
)

var log = ops.For("connection")

// DefaultPort is appended to a target with no explicit port.
const DefaultPort = 26400

// DefaultTimeout is the default per-call RPC deadline.
const DefaultTimeout = 5 * time.Second

// DefaultHealthInterval is the default ping cadence.
const DefaultHealthInterval = 5 * time.Second

// Dialer opens a gRPC channel to target. The default implementation dials
// insecure (this module has no TLS configuration surface, mirroring
// original_source/kachaka_core/connection.py's grpc.insecure_channel).
type Dialer func(target string) (grpc.ClientConnInterface, error)

func defaultDialer(target string) (grpc.ClientConnInterface, error) {
	return grpc.NewClient(target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(grpc_prometheus.UnaryClientInterceptor),
	)
}

// Config customizes a Connection. The zero value applies sane defaults.
type Config struct {
	DefaultTimeout time.Duration
	Dialer         Dialer
	Registerer     prometheus.Registerer

	// Client, when set, is used verbatim instead of dialing, the seam tests
	// use to substitute kachakapb.Fake for a real robot (mirroring
	// go/shuffle/api_test.go's brokertest substitution).
	Client kachakapb.KachakaApiClient
}

// Connection is a named, pooled handle to one robot.
type Connection struct {
	Target string

	timeout time.Duration
	dialer  Dialer

	mu         sync.Mutex
	transport  *transport.Transport
	client     kachakapb.KachakaApiClient
	fixedClient kachakapb.KachakaApiClient

	resolver *resolver
	health   *healthMachine

	healthGauge prometheus.Gauge
}

// CanonicalTarget appends DefaultPort when target has no explicit port.
func CanonicalTarget(target string) string {
	if !strings.Contains(target, ":") {
		return fmt.Sprintf("%s:%d", target, DefaultPort)
	}
	return target
}

func newConnection(target string, cfg Config) *Connection {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = DefaultTimeout
	}
	if cfg.Dialer == nil {
		cfg.Dialer = defaultDialer
	}
	c := &Connection{
		Target:      CanonicalTarget(target),
		timeout:     cfg.DefaultTimeout,
		dialer:      cfg.Dialer,
		fixedClient: cfg.Client,
		resolver:    newResolver(),
	}
	c.health = newHealthMachine(c.pingErr)
	if cfg.Registerer != nil {
		c.healthGauge = metrics.NewConnectionHealthGauge(cfg.Registerer, c.Target)
		c.health.subscribe(StateListenerFunc(func(_, next State) {
			v := 0.0
			if next == Connected {
				v = 1.0
			}
			c.healthGauge.Set(v)
		}))
	}
	return c
}

// ensureTransport materializes the transport under a handle-local mutex
// (double-checked). A best-effort probe is issued immediately after: its
// failure logs but does not prevent the handle from being returned, since
// the retry policy re-exercises the channel on real traffic.
func (c *Connection) ensureTransport() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil
	}
	if c.fixedClient != nil {
		c.client = c.fixedClient
		return nil
	}

	log.WithField("target", c.Target).Info("connecting")
	cc, err := c.dialer(c.Target)
	if err != nil {
		return err
	}
	c.transport = transport.New(cc, c.timeout)
	c.client = kachakapb.NewClient(c.transport)

	if _, pingErr := c.client.GetRobotSerialNumber(context.Background()); pingErr != nil {
		log.WithField("error", pingErr).Warn("connection created but probe ping failed")
	}
	return nil
}

// Client returns the underlying RPC client, connecting lazily.
func (c *Connection) Client() (kachakapb.KachakaApiClient, error) {
	if err := c.ensureTransport(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client, nil
}

// PingResult is the outcome of Ping.
type PingResult struct {
	OK     bool
	Serial string
	Pose   kachakapb.Pose
	Error  string
}

// Ping reads serial number and pose, the sole oracle for the health
// machine.
func (c *Connection) Ping(ctx context.Context) PingResult {
	if err := c.pingErr(); err != nil {
		return PingResult{OK: false, Error: err.Error()}
	}
	client, err := c.Client()
	if err != nil {
		return PingResult{OK: false, Error: err.Error()}
	}
	serial, err := client.GetRobotSerialNumber(ctx)
	if err != nil {
		return PingResult{OK: false, Error: err.Error()}
	}
	pose, err := client.GetRobotPose(ctx)
	if err != nil {
		return PingResult{OK: false, Error: err.Error()}
	}
	return PingResult{OK: true, Serial: serial, Pose: *pose}
}

// pingErr is Ping reduced to a bare error, the shape the health prober
// needs.
func (c *Connection) pingErr() error {
	client, err := c.Client()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	if _, err := client.GetRobotSerialNumber(ctx); err != nil {
		return err
	}
	if _, err := client.GetRobotPose(ctx); err != nil {
		return err
	}
	return nil
}

// EnsureResolver fetches the shelf/location lists on first call
// (idempotent) and builds the local name->id maps.
func (c *Connection) EnsureResolver(ctx context.Context) error {
	client, err := c.Client()
	if err != nil {
		return err
	}
	return c.resolver.ensure(ctx, client)
}

// ResolveShelf resolves a shelf name or id to its canonical id.
func (c *Connection) ResolveShelf(nameOrID string) string {
	return c.resolver.resolveShelf(nameOrID)
}

// ResolveLocation resolves a location name or id to its canonical id.
func (c *Connection) ResolveLocation(nameOrID string) string {
	return c.resolver.resolveLocation(nameOrID)
}

// HealthState returns the current health-machine state.
func (c *Connection) HealthState() State {
	return c.health.State()
}

// StartMonitoring launches the background health prober. No-op if already
// running. listener may be nil.
func (c *Connection) StartMonitoring(interval time.Duration, listener StateListener) {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	c.health.startMonitoring(interval, listener)
}

// Subscribe registers an additional health-transition listener. Unlike
// StartMonitoring's listener argument, this can be called any number of
// times (before or after monitoring starts) so Controller and
// camera.Sampler can each subscribe to the same Connection independently.
func (c *Connection) Subscribe(listener StateListener) {
	c.health.subscribe(listener)
}

// StopMonitoring signals the prober to exit and joins within a bounded
// timeout.
func (c *Connection) StopMonitoring() {
	c.health.stopMonitoring(3 * DefaultHealthInterval)
}

// WaitForState blocks until the health state equals target or timeout
// elapses, returning whether it was reached.
func (c *Connection) WaitForState(target State, timeout time.Duration) bool {
	return c.health.waitForState(target, timeout)
}
