// Package controller implements a background state sampler, a
// shelf-drop monitor, and a command executor with per-command identity
// verification. Grounded on original_source/kachaka_core/controller.py.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/estuary/kachaka-core/internal/connection"
	"github.com/estuary/kachaka-core/internal/kachakapb"
	"github.com/estuary/kachaka-core/internal/metrics"
	"github.com/estuary/kachaka-core/internal/ops"
	"github.com/estuary/kachaka-core/internal/retry"
)

var log = ops.For("controller")

// Config tunes sampler cadence and retry behavior. The zero value is not
// usable; call DefaultConfig and override selectively.
type Config struct {
	FastInterval time.Duration
	SlowInterval time.Duration
	PollInterval time.Duration
	RetryDelay   time.Duration

	RegistrationWaitBudget   time.Duration
	RegistrationPollInterval time.Duration

	// Metrics, when set, publishes poll RTT/failure counts to Prometheus in
	// addition to the in-memory ControllerMetrics every Controller keeps.
	Metrics *metrics.Controller
}

// DefaultConfig returns the default sampler/retry configuration.
func DefaultConfig() Config {
	return Config{
		FastInterval:             time.Second,
		SlowInterval:             30 * time.Second,
		PollInterval:             time.Second,
		RetryDelay:               time.Second,
		RegistrationWaitBudget:   5 * time.Second,
		RegistrationPollInterval: 200 * time.Millisecond,
	}
}

// CommandOptions carries the start-command RPC's optional flags.
type CommandOptions struct {
	CancelAll    bool
	TTSOnSuccess string
	Title        string
}

// ExecResult is the normalized, non-throwing outcome of Execute.
type ExecResult struct {
	OK        bool
	Action    string
	Target    string
	Elapsed   time.Duration
	ErrorCode int32
	Error     string
	Timeout   time.Duration
}

// Controller is built around one already-pooled Connection. Command
// execution is NOT safe for concurrent use by multiple callers; the state
// snapshot and metrics are.
type Controller struct {
	conn *connection.Connection
	cfg  Config

	metrics ControllerMetrics

	mu    sync.Mutex
	state RobotState

	shelfMu       sync.Mutex
	shelfArmed    bool
	lastMovingId  string
	onShelfDrop   func(shelfID string)

	catalogOnce sync.Once
	catalog     map[int32]kachakapb.ErrorDefinition

	stop    chan struct{}
	stopped chan struct{}
	running bool
}

// New builds a Controller around conn. Call Start before issuing commands
// or reading State if the sampler loop and connection-state integration are
// wanted (they are optional: Execute works standalone).
func New(conn *connection.Connection, cfg Config) *Controller {
	return &Controller{
		conn:  conn,
		cfg:   cfg,
		state: RobotState{ConnectionState: conn.HealthState()},
	}
}

// SetOnShelfDropped registers the listener fired when an armed shelf
// monitor observes a non-empty -> empty moving-shelf-id transition.
func (c *Controller) SetOnShelfDropped(fn func(shelfID string)) {
	c.shelfMu.Lock()
	c.onShelfDrop = fn
	c.shelfMu.Unlock()
}

// Start launches the background state sampler and subscribes to the
// Connection's health machine so reconnects trigger an off-thread probe.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.stop = make(chan struct{})
	c.stopped = make(chan struct{})
	stop, stopped := c.stop, c.stopped
	c.mu.Unlock()

	c.conn.Subscribe(connection.StateListenerFunc(c.onConnectionStateChange))
	go c.samplerLoop(stop, stopped)
}

// Stop signals the sampler to exit and joins within a bounded timeout.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	close(c.stop)
	stopped := c.stopped
	c.mu.Unlock()

	select {
	case <-stopped:
	case <-time.After(5 * c.cfg.FastInterval):
		log.Warn("state sampler did not stop within timeout")
	}
}

// State returns an independent copy of the live state.
func (c *Controller) State() RobotState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Metrics returns an independent copy of the accumulated poll metrics.
func (c *Controller) Metrics() ControllerMetrics {
	return c.metrics.Snapshot()
}

// ResetMetrics clears the accumulated poll metrics.
func (c *Controller) ResetMetrics() {
	c.metrics.Reset()
}

// ResetShelfMonitor disarms the shelf monitor and clears its seed, without
// firing the drop listener.
func (c *Controller) ResetShelfMonitor() {
	c.shelfMu.Lock()
	c.shelfArmed = false
	c.lastMovingId = ""
	c.shelfMu.Unlock()
}

// armShelfMonitor arms the monitor seeded with shelfID: seeding with the
// target id (rather than leaving it empty) means even a first-poll
// transition-to-empty is detected.
func (c *Controller) armShelfMonitor(shelfID string) {
	c.shelfMu.Lock()
	c.shelfArmed = true
	c.lastMovingId = shelfID
	c.shelfMu.Unlock()
}

func (c *Controller) disarmShelfMonitor() {
	c.shelfMu.Lock()
	c.shelfArmed = false
	c.shelfMu.Unlock()
}

// checkShelfMonitor polls the moving-shelf id and fires the drop listener
// on a non-empty -> empty transition, disarming itself afterward.
func (c *Controller) checkShelfMonitor(ctx context.Context, client kachakapb.KachakaApiClient) {
	c.shelfMu.Lock()
	armed := c.shelfArmed
	prev := c.lastMovingId
	c.shelfMu.Unlock()
	if !armed {
		return
	}

	current, err := client.GetMovingShelfId(ctx)
	if err != nil {
		log.WithField("error", err).Debug("shelf monitor poll failed")
		return
	}

	c.shelfMu.Lock()
	c.lastMovingId = current
	dropped := prev != "" && current == ""
	var listener func(string)
	if dropped {
		c.shelfArmed = false
		listener = c.onShelfDrop
	}
	c.shelfMu.Unlock()

	c.mu.Lock()
	c.state.MovingShelfId = current
	if dropped {
		c.state.ShelfDropped = true
	}
	c.mu.Unlock()

	if dropped && listener != nil {
		safeCall(func() { listener(prev) })
	}
}

func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("listener panicked")
		}
	}()
	fn()
}

// onConnectionStateChange runs on the health prober's goroutine, so the
// reconnect probe is dispatched off-thread to avoid blocking the prober.
func (c *Controller) onConnectionStateChange(old, next connection.State) {
	c.mu.Lock()
	c.state.ConnectionState = next
	now := time.Now()
	if next == connection.Disconnected {
		c.state.DisconnectedAt = &now
	}
	c.mu.Unlock()

	if next == connection.Connected && old == connection.Disconnected {
		go c.probeAfterReconnect(now)
	}
}

func (c *Controller) probeAfterReconnect(reconnectAt time.Time) {
	client, err := c.conn.Client()
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FastInterval+c.cfg.SlowInterval)
	defer cancel()

	c.sampleFast(ctx, client)
	c.sampleSlow(ctx, client)

	c.mu.Lock()
	c.state.LastReconnectAt = &reconnectAt
	c.mu.Unlock()
}

func (c *Controller) samplerLoop(stop, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(c.cfg.FastInterval)
	defer ticker.Stop()
	lastSlow := time.Now()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			client, err := c.conn.Client()
			if err != nil {
				log.WithField("error", err).Debug("sampler could not obtain client")
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), c.cfg.FastInterval)
			c.sampleFast(ctx, client)
			if time.Since(lastSlow) >= c.cfg.SlowInterval {
				c.sampleSlow(ctx, client)
				lastSlow = time.Now()
			}
			cancel()
		}
	}
}

// sampleFast reads pose and is-command-running. Each field is caught
// independently so one RPC's failure never suppresses the other.
func (c *Controller) sampleFast(ctx context.Context, client kachakapb.KachakaApiClient) {
	pose, err := client.GetRobotPose(ctx)
	if err != nil {
		log.WithField("error", err).Debug("fast-cycle pose read failed")
	}
	running, runErr := client.IsCommandRunning(ctx)
	if runErr != nil {
		log.WithField("error", runErr).Debug("fast-cycle is-running read failed")
	}

	c.mu.Lock()
	if err == nil {
		c.state.Pose = *pose
	}
	if runErr == nil {
		c.state.IsCommandRunning = running
	}
	c.state.LastUpdated = time.Now()
	c.mu.Unlock()
}

// sampleSlow reads battery percent.
func (c *Controller) sampleSlow(ctx context.Context, client kachakapb.KachakaApiClient) {
	battery, err := client.GetBatteryInfo(ctx)
	if err != nil {
		log.WithField("error", err).Debug("slow-cycle battery read failed")
		return
	}
	c.mu.Lock()
	c.state.BatteryPercent = battery.Percent
	c.mu.Unlock()
}

// ensureErrorCatalog fetches the server-side error catalog at most once
// per Controller instance.
func (c *Controller) ensureErrorCatalog(ctx context.Context) {
	c.catalogOnce.Do(func() {
		client, err := c.conn.Client()
		if err != nil {
			return
		}
		catalog, err := client.GetRobotErrorCode(ctx)
		if err != nil {
			log.WithField("error", err).Warn("error catalog fetch failed, descriptions will degrade to bare codes")
			return
		}
		c.mu.Lock()
		c.catalog = catalog
		c.mu.Unlock()
	})
}

// describeError composes "error_code=N: <title>", degrading to the bare
// code when the catalog is unavailable or lacks the entry.
func (c *Controller) describeError(ctx context.Context, code int32) string {
	c.ensureErrorCatalog(ctx)

	c.mu.Lock()
	def, ok := c.catalog[code]
	c.mu.Unlock()
	if !ok {
		return fmt.Sprintf("error_code=%d", code)
	}
	title := def.TitleEn
	if title == "" {
		title = def.Title
	}
	if title == "" {
		return fmt.Sprintf("error_code=%d", code)
	}
	return fmt.Sprintf("error_code=%d: %s", code, title)
}

// Execute runs the command executor state machine: disconnect gate,
// start, registration wait, main poll, completion detection, timeout.
// action and target are labels only, carried through into ExecResult.
func (c *Controller) Execute(ctx context.Context, cmd *kachakapb.Command, action, target string, timeout time.Duration, opts CommandOptions) ExecResult {
	start := time.Now()
	deadline := start.Add(timeout)

	// 1. Disconnect gate.
	if c.conn.HealthState() == connection.Disconnected {
		if !c.conn.WaitForState(connection.Connected, time.Until(deadline)) {
			return ExecResult{OK: false, Action: action, Error: "DISCONNECTED", Elapsed: time.Since(start)}
		}
	}

	client, err := c.conn.Client()
	if err != nil {
		return ExecResult{OK: false, Action: action, Target: target, Error: err.Error(), Elapsed: time.Since(start)}
	}

	// 2. Start.
	var result *kachakapb.CommandResult
	var commandID string
	startPolicy := retry.Policy{BaseDelay: c.cfg.RetryDelay, MaxDelay: 10 * c.cfg.RetryDelay, Deadline: deadline}
	startErr := retry.Do(ctx, startPolicy, func(ctx context.Context) error {
		r, id, err := client.StartCommand(ctx, cmd, opts.CancelAll, opts.TTSOnSuccess, opts.Title)
		if err != nil {
			return err
		}
		result, commandID = r, id
		return nil
	})
	if startErr != nil {
		return ExecResult{OK: false, Action: action, Target: target, Error: retry.Describe(startErr), Elapsed: time.Since(start)}
	}
	if !result.Success {
		desc := c.describeError(ctx, result.ErrorCode)
		return ExecResult{OK: false, Action: action, Target: target, ErrorCode: result.ErrorCode, Error: desc, Elapsed: time.Since(start)}
	}

	// 3. Registration wait.
	c.waitForRegistration(ctx, client, commandID, deadline)

	// 4 & 5. Main polling and completion detection.
	pollTicker := time.NewTicker(c.cfg.PollInterval)
	defer pollTicker.Stop()

	for time.Now().Before(deadline) {
		<-pollTicker.C

		pollStart := time.Now()
		state, currentID, err := client.GetCommandState(ctx)
		rtt := time.Since(pollStart)
		if err != nil {
			c.metrics.recordFailure()
			if c.cfg.Metrics != nil {
				c.cfg.Metrics.PollFailureTotal.Inc()
			}
			continue
		}
		c.metrics.recordSuccess(rtt)
		if c.cfg.Metrics != nil {
			c.cfg.Metrics.PollRTT.Observe(rtt.Seconds())
		}

		c.checkShelfMonitor(ctx, client)

		completed := (state != kachakapb.CommandStateRunning && state != kachakapb.CommandStatePending) || currentID != commandID
		if !completed {
			continue
		}

		lastPolicy := retry.Policy{BaseDelay: c.cfg.RetryDelay, MaxDelay: 10 * c.cfg.RetryDelay, Deadline: deadline}
		var lastResult *kachakapb.CommandResult
		var lastID string
		resultErr := retry.Do(ctx, lastPolicy, func(ctx context.Context) error {
			r, id, err := client.GetLastCommandResult(ctx)
			if err != nil {
				return err
			}
			lastResult, lastID = r, id
			return nil
		})
		if resultErr != nil {
			return ExecResult{OK: false, Action: action, Target: target, Error: retry.Describe(resultErr), Elapsed: time.Since(start)}
		}
		if lastID != commandID {
			log.WithFields(map[string]interface{}{"expected": commandID, "got": lastID}).Info("stale last-command-result, continuing to poll")
			continue
		}
		if lastResult.Success {
			return ExecResult{OK: true, Action: action, Target: target, Elapsed: time.Since(start)}
		}
		desc := c.describeError(ctx, lastResult.ErrorCode)
		return ExecResult{OK: false, Action: action, Target: target, ErrorCode: lastResult.ErrorCode, Error: desc, Elapsed: time.Since(start)}
	}

	// 6. Timeout.
	return ExecResult{OK: false, Action: action, Target: target, Error: "TIMEOUT", Timeout: timeout, Elapsed: time.Since(start)}
}

// waitForRegistration polls at RegistrationPollInterval cadence for up to
// RegistrationWaitBudget (never past deadline), looking for the server to
// adopt commandID as current and enter RUNNING/PENDING. Failing to
// observe registration is not an error: the result phase detects
// completion by other means regardless.
func (c *Controller) waitForRegistration(ctx context.Context, client kachakapb.KachakaApiClient, commandID string, deadline time.Time) {
	budget := c.cfg.RegistrationWaitBudget
	if remaining := time.Until(deadline); remaining < budget {
		budget = remaining
	}
	if budget <= 0 {
		return
	}
	registrationDeadline := time.Now().Add(budget)

	ticker := time.NewTicker(c.cfg.RegistrationPollInterval)
	defer ticker.Stop()

	for time.Now().Before(registrationDeadline) {
		<-ticker.C
		state, currentID, err := client.GetCommandState(ctx)
		if err != nil {
			continue
		}
		if currentID == commandID && (state == kachakapb.CommandStateRunning || state == kachakapb.CommandStatePending) {
			return
		}
	}
}
