package controller

import (
	"context"
	"time"

	"github.com/estuary/kachaka-core/internal/kachakapb"
)

// MoveToLocation resolves locationNameOrID and drives there.
func (c *Controller) MoveToLocation(ctx context.Context, locationNameOrID string, timeout time.Duration, opts CommandOptions) ExecResult {
	start := time.Now()
	if err := c.conn.EnsureResolver(ctx); err != nil {
		return ExecResult{OK: false, Action: "move_to_location", Error: err.Error(), Elapsed: time.Since(start)}
	}
	id := c.conn.ResolveLocation(locationNameOrID)
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindMoveToLocation, TargetLocationId: id}
	return c.Execute(ctx, cmd, "move_to_location", id, timeout, opts)
}

// MoveToPose drives to an absolute (x, y, yaw) pose.
func (c *Controller) MoveToPose(ctx context.Context, x, y, yaw float64, timeout time.Duration, opts CommandOptions) ExecResult {
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindMoveToPose, X: x, Y: y, Yaw: yaw}
	return c.Execute(ctx, cmd, "move_to_pose", "", timeout, opts)
}

// MoveForward drives distanceMeter forward (negative for backward) at
// speedMps (0 = robot default).
func (c *Controller) MoveForward(ctx context.Context, distanceMeter, speedMps float64, timeout time.Duration, opts CommandOptions) ExecResult {
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindMoveForward, DistanceMeter: distanceMeter, SpeedMps: speedMps}
	return c.Execute(ctx, cmd, "move_forward", "", timeout, opts)
}

// RotateInPlace rotates by angleRadian.
func (c *Controller) RotateInPlace(ctx context.Context, angleRadian float64, timeout time.Duration, opts CommandOptions) ExecResult {
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindRotateInPlace, AngleRadian: angleRadian}
	return c.Execute(ctx, cmd, "rotate_in_place", "", timeout, opts)
}

// ReturnHome drives to the charger dock.
func (c *Controller) ReturnHome(ctx context.Context, timeout time.Duration, opts CommandOptions) ExecResult {
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindReturnHome}
	return c.Execute(ctx, cmd, "return_home", "", timeout, opts)
}

// MoveShelf picks up shelfNameOrID and carries it to destinationNameOrID.
// The shelf monitor is armed, seeded with the resolved shelf id, BEFORE the
// executor runs: this guarantees even a first-poll transition-to-empty is
// detected as a drop.
func (c *Controller) MoveShelf(ctx context.Context, shelfNameOrID, destinationNameOrID string, timeout time.Duration, opts CommandOptions) ExecResult {
	start := time.Now()
	if err := c.conn.EnsureResolver(ctx); err != nil {
		return ExecResult{OK: false, Action: "move_shelf", Error: err.Error(), Elapsed: time.Since(start)}
	}
	shelfID := c.conn.ResolveShelf(shelfNameOrID)
	destID := c.conn.ResolveLocation(destinationNameOrID)
	c.armShelfMonitor(shelfID)
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindMoveShelf, TargetShelfId: shelfID, DestinationLocationId: destID}
	return c.Execute(ctx, cmd, "move_shelf", shelfID, timeout, opts)
}

// ReturnShelf returns the currently-carried shelf to its home location and
// disarms the shelf monitor once the executor completes.
func (c *Controller) ReturnShelf(ctx context.Context, timeout time.Duration, opts CommandOptions) ExecResult {
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindReturnShelf}
	result := c.Execute(ctx, cmd, "return_shelf", "", timeout, opts)
	c.disarmShelfMonitor()
	return result
}

// DockShelf docks shelfNameOrID at its current location.
func (c *Controller) DockShelf(ctx context.Context, shelfNameOrID string, timeout time.Duration, opts CommandOptions) ExecResult {
	start := time.Now()
	if err := c.conn.EnsureResolver(ctx); err != nil {
		return ExecResult{OK: false, Action: "dock_shelf", Error: err.Error(), Elapsed: time.Since(start)}
	}
	id := c.conn.ResolveShelf(shelfNameOrID)
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindDockShelf, TargetShelfId: id}
	return c.Execute(ctx, cmd, "dock_shelf", id, timeout, opts)
}

// UndockShelf undocks shelfNameOrID.
func (c *Controller) UndockShelf(ctx context.Context, shelfNameOrID string, timeout time.Duration, opts CommandOptions) ExecResult {
	start := time.Now()
	if err := c.conn.EnsureResolver(ctx); err != nil {
		return ExecResult{OK: false, Action: "undock_shelf", Error: err.Error(), Elapsed: time.Since(start)}
	}
	id := c.conn.ResolveShelf(shelfNameOrID)
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindUndockShelf, TargetShelfId: id}
	return c.Execute(ctx, cmd, "undock_shelf", id, timeout, opts)
}

// ResetShelfPose resets shelfNameOrID's recorded pose.
func (c *Controller) ResetShelfPose(ctx context.Context, shelfNameOrID string, timeout time.Duration, opts CommandOptions) ExecResult {
	start := time.Now()
	if err := c.conn.EnsureResolver(ctx); err != nil {
		return ExecResult{OK: false, Action: "reset_shelf_pose", Error: err.Error(), Elapsed: time.Since(start)}
	}
	id := c.conn.ResolveShelf(shelfNameOrID)
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindResetShelfPose, TargetShelfId: id}
	return c.Execute(ctx, cmd, "reset_shelf_pose", id, timeout, opts)
}

// Speak plays text as speech.
func (c *Controller) Speak(ctx context.Context, text string, timeout time.Duration, opts CommandOptions) ExecResult {
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindSpeak, Text: text}
	return c.Execute(ctx, cmd, "speak", "", timeout, opts)
}

// SetVolume sets the speaker volume, clamped to [0, 10].
func (c *Controller) SetVolume(ctx context.Context, volume int32, timeout time.Duration, opts CommandOptions) ExecResult {
	if volume < 0 {
		volume = 0
	}
	if volume > 10 {
		volume = 10
	}
	cmd := &kachakapb.Command{Kind: kachakapb.CommandKindSetVolume, Volume: volume}
	return c.Execute(ctx, cmd, "set_volume", "", timeout, opts)
}

// Cancel cancels the currently-running command.
func (c *Controller) Cancel(ctx context.Context) (*kachakapb.CommandResult, string, error) {
	client, err := c.conn.Client()
	if err != nil {
		return nil, "", err
	}
	return client.CancelCommand(ctx)
}

// Proceed resumes a command paused awaiting operator confirmation.
func (c *Controller) Proceed(ctx context.Context) (*kachakapb.CommandResult, error) {
	client, err := c.conn.Client()
	if err != nil {
		return nil, err
	}
	return client.Proceed(ctx)
}

// SetManualControlEnabled toggles joystick-style manual drive.
func (c *Controller) SetManualControlEnabled(ctx context.Context, enabled bool) (*kachakapb.CommandResult, error) {
	client, err := c.conn.Client()
	if err != nil {
		return nil, err
	}
	return client.SetManualControlEnabled(ctx, enabled)
}

// Velocity clamps applied to manual-control commands.
const (
	MaxLinearMps    = 0.3
	MaxAngularRadps = 1.57
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SetVelocity issues a manual-control velocity command, clamped to a
// linear [-0.3, 0.3] m/s and angular [-1.57, 1.57] rad/s range.
func (c *Controller) SetVelocity(ctx context.Context, linear, angular float64) (*kachakapb.CommandResult, error) {
	linear = clamp(linear, -MaxLinearMps, MaxLinearMps)
	angular = clamp(angular, -MaxAngularRadps, MaxAngularRadps)
	client, err := c.conn.Client()
	if err != nil {
		return nil, err
	}
	return client.SetRobotVelocity(ctx, linear, angular)
}

// Stop issues an emergency stop. It is bound by the Connection's default
// per-call timeout (via the transport's deadline injection), so it returns
// promptly even against an unreachable target.
func (c *Controller) Stop(ctx context.Context) error {
	client, err := c.conn.Client()
	if err != nil {
		return err
	}
	return client.SetRobotStop(ctx)
}

// PollUntilComplete blocks, polling command state at interval, until the
// command is no longer RUNNING/PENDING or timeout elapses.
func (c *Controller) PollUntilComplete(ctx context.Context, timeout, interval time.Duration) (kachakapb.CommandState, error) {
	client, err := c.conn.Client()
	if err != nil {
		return kachakapb.CommandStateUnspecified, err
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		state, _, err := client.GetCommandState(ctx)
		if err == nil && state != kachakapb.CommandStateRunning && state != kachakapb.CommandStatePending {
			return state, nil
		}
		if !time.Now().Before(deadline) {
			return state, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return kachakapb.CommandStateUnspecified, ctx.Err()
		}
	}
}
