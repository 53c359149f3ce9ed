// Package facade is the Go analog of
// original_source/mcp_server/server.py: one tool function per caller-facing
// operation, each a one-line dispatch onto connection/controller/camera.
// It exists so a tool server or CLI has a single surface instead of
// importing every core package directly.
package facade

import (
	"context"
	"time"

	"github.com/estuary/kachaka-core/internal/connection"
	"github.com/estuary/kachaka-core/internal/controller"
	"github.com/estuary/kachaka-core/internal/detection"
	"github.com/estuary/kachaka-core/internal/kachakapb"
)

// DefaultCommandTimeout is the wall-clock budget given to every blocking
// command dispatched through the facade, absent a more specific one.
const DefaultCommandTimeout = 30 * time.Second

// Facade owns one pooled robot (by target) and the Controller/Detector
// built around it, constructed lazily per target on first use —
// the same shape original_source/mcp_server/server.py's module-level
// `_connections` dict has.
type Facade struct {
	pool   *connection.Pool
	robots map[string]*robot
}

type robot struct {
	conn       *connection.Connection
	controller *controller.Controller
	detector   *detection.Detector
}

// New builds a Facade backed by pool. Pass connection.DefaultPool() to
// share the process-wide pool, or a dedicated *connection.Pool for tests.
func New(pool *connection.Pool) *Facade {
	return &Facade{pool: pool, robots: map[string]*robot{}}
}

func (f *Facade) robotFor(target string) *robot {
	key := connection.CanonicalTarget(target)
	if r, ok := f.robots[key]; ok {
		return r
	}
	conn := f.pool.Acquire(target)
	r := &robot{
		conn:       conn,
		controller: controller.New(conn, controller.DefaultConfig()),
	}
	f.robots[key] = r
	return r
}

// PingRobot pings target, the bare health oracle.
func (f *Facade) PingRobot(ctx context.Context, target string) connection.PingResult {
	return f.robotFor(target).conn.Ping(ctx)
}

// DisconnectRobot removes target from the pool, stopping its monitor.
func (f *Facade) DisconnectRobot(target string) {
	f.pool.Remove(target)
	delete(f.robots, connection.CanonicalTarget(target))
}

// GetRobotStatus returns the controller's current state snapshot.
func (f *Facade) GetRobotStatus(target string) controller.RobotState {
	return f.robotFor(target).controller.State()
}

// GetRobotPose returns only the pose field of the state snapshot.
func (f *Facade) GetRobotPose(target string) kachakapb.Pose {
	return f.robotFor(target).controller.State().Pose
}

// GetBattery reads battery info directly (bypassing the sampled
// snapshot), mirroring get_battery's direct RPC call in the source.
func (f *Facade) GetBattery(ctx context.Context, target string) (int32, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return 0, err
	}
	info, err := client.GetBatteryInfo(ctx)
	if err != nil {
		return 0, err
	}
	return info.Percent, nil
}

// GetErrors reads the robot's currently-active error codes.
func (f *Facade) GetErrors(ctx context.Context, target string) ([]int32, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return nil, err
	}
	return client.GetError(ctx)
}

// GetRobotInfo reads target's serial number and firmware version.
func (f *Facade) GetRobotInfo(ctx context.Context, target string) (serial, version string, err error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return "", "", err
	}
	if serial, err = client.GetRobotSerialNumber(ctx); err != nil {
		return "", "", err
	}
	version, err = client.GetRobotVersion(ctx)
	return serial, version, err
}

// ListLocations reads target's full location list.
func (f *Facade) ListLocations(ctx context.Context, target string) ([]kachakapb.Location, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return nil, err
	}
	return client.GetLocations(ctx)
}

// ListShelves reads target's full shelf list.
func (f *Facade) ListShelves(ctx context.Context, target string) ([]kachakapb.Shelf, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return nil, err
	}
	return client.GetShelves(ctx)
}

// GetMovingShelf reads target's currently-moving shelf id.
func (f *Facade) GetMovingShelf(ctx context.Context, target string) (string, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return "", err
	}
	return client.GetMovingShelfId(ctx)
}

// ListMaps reads target's full map list.
func (f *Facade) ListMaps(ctx context.Context, target string) ([]kachakapb.MapSummary, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return nil, err
	}
	return client.GetMapList(ctx)
}

// GetMap reads target's current map as a PNG.
func (f *Facade) GetMap(ctx context.Context, target string) (*kachakapb.PngMap, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return nil, err
	}
	return client.GetPngMap(ctx)
}

// GetHistory reads target's command history.
func (f *Facade) GetHistory(ctx context.Context, target string) ([]kachakapb.HistoryEntry, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return nil, err
	}
	return client.GetHistoryList(ctx)
}

// MoveToLocation drives target to locationName.
func (f *Facade) MoveToLocation(ctx context.Context, target, locationName string) controller.ExecResult {
	return f.robotFor(target).controller.MoveToLocation(ctx, locationName, DefaultCommandTimeout, controller.CommandOptions{})
}

// MoveToPose drives target to an absolute pose.
func (f *Facade) MoveToPose(ctx context.Context, target string, x, y, yaw float64) controller.ExecResult {
	return f.robotFor(target).controller.MoveToPose(ctx, x, y, yaw, DefaultCommandTimeout, controller.CommandOptions{})
}

// MoveForward drives target forward by distanceMeter.
func (f *Facade) MoveForward(ctx context.Context, target string, distanceMeter float64) controller.ExecResult {
	return f.robotFor(target).controller.MoveForward(ctx, distanceMeter, 0, DefaultCommandTimeout, controller.CommandOptions{})
}

// Rotate rotates target in place by angleRadian.
func (f *Facade) Rotate(ctx context.Context, target string, angleRadian float64) controller.ExecResult {
	return f.robotFor(target).controller.RotateInPlace(ctx, angleRadian, DefaultCommandTimeout, controller.CommandOptions{})
}

// ReturnHome drives target to its charger dock.
func (f *Facade) ReturnHome(ctx context.Context, target string) controller.ExecResult {
	return f.robotFor(target).controller.ReturnHome(ctx, DefaultCommandTimeout, controller.CommandOptions{})
}

// MoveShelf carries shelfName to locationName.
func (f *Facade) MoveShelf(ctx context.Context, target, shelfName, locationName string) controller.ExecResult {
	return f.robotFor(target).controller.MoveShelf(ctx, shelfName, locationName, DefaultCommandTimeout, controller.CommandOptions{})
}

// ReturnShelf returns the shelf target is currently carrying to its home
// location. shelfName is not used: no particular shelf can be selected.
func (f *Facade) ReturnShelf(ctx context.Context, target, shelfName string) controller.ExecResult {
	return f.robotFor(target).controller.ReturnShelf(ctx, DefaultCommandTimeout, controller.CommandOptions{})
}

// DockShelf docks shelfName.
func (f *Facade) DockShelf(ctx context.Context, target, shelfName string) controller.ExecResult {
	return f.robotFor(target).controller.DockShelf(ctx, shelfName, DefaultCommandTimeout, controller.CommandOptions{})
}

// UndockShelf undocks shelfName.
func (f *Facade) UndockShelf(ctx context.Context, target, shelfName string) controller.ExecResult {
	return f.robotFor(target).controller.UndockShelf(ctx, shelfName, DefaultCommandTimeout, controller.CommandOptions{})
}

// Speak plays text as speech on target.
func (f *Facade) Speak(ctx context.Context, target, text string) controller.ExecResult {
	return f.robotFor(target).controller.Speak(ctx, text, DefaultCommandTimeout, controller.CommandOptions{})
}

// SetVolume sets target's speaker volume.
func (f *Facade) SetVolume(ctx context.Context, target string, volume int32) controller.ExecResult {
	return f.robotFor(target).controller.SetVolume(ctx, volume, DefaultCommandTimeout, controller.CommandOptions{})
}

// GetVolume reads target's speaker volume.
func (f *Facade) GetVolume(ctx context.Context, target string) (int32, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return 0, err
	}
	return client.GetSpeakerVolume(ctx)
}

// CancelCommand cancels target's currently-running command.
func (f *Facade) CancelCommand(ctx context.Context, target string) (string, error) {
	_, id, err := f.robotFor(target).controller.Cancel(ctx)
	return id, err
}

// GetCommandState reads target's current command state.
func (f *Facade) GetCommandState(ctx context.Context, target string) (string, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return "", err
	}
	state, _, err := client.GetCommandState(ctx)
	if err != nil {
		return "", err
	}
	return state.String(), nil
}

// GetLastResult reads target's last command result.
func (f *Facade) GetLastResult(ctx context.Context, target string) (bool, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return false, err
	}
	result, _, err := client.GetLastCommandResult(ctx)
	if err != nil {
		return false, err
	}
	return result.Success, nil
}

// CaptureFrontCamera performs one capture+detect from the front camera.
func (f *Facade) CaptureFrontCamera(ctx context.Context, target string) detection.Capture {
	detector, err := f.detectorFor(target)
	if err != nil {
		return detection.Capture{OK: false, Error: err.Error()}
	}
	return detector.CaptureWithDetections(ctx, detection.CameraFront)
}

// CaptureBackCamera performs one capture+detect from the back camera.
func (f *Facade) CaptureBackCamera(ctx context.Context, target string) detection.Capture {
	detector, err := f.detectorFor(target)
	if err != nil {
		return detection.Capture{OK: false, Error: err.Error()}
	}
	return detector.CaptureWithDetections(ctx, detection.CameraBack)
}

func (f *Facade) detectorFor(target string) (*detection.Detector, error) {
	r := f.robotFor(target)
	if r.detector != nil {
		return r.detector, nil
	}
	client, err := r.conn.Client()
	if err != nil {
		return nil, err
	}
	r.detector = detection.New(client)
	return r.detector, nil
}

// ListShortcuts reads target's saved shortcuts.
func (f *Facade) ListShortcuts(ctx context.Context, target string) ([]string, error) {
	client, err := f.robotFor(target).conn.Client()
	if err != nil {
		return nil, err
	}
	shortcuts, err := client.GetShortcuts(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		names = append(names, s.Name)
	}
	return names, nil
}

// EnableManualControl toggles manual drive on target.
func (f *Facade) EnableManualControl(ctx context.Context, target string, enabled bool) error {
	_, err := f.robotFor(target).controller.SetManualControlEnabled(ctx, enabled)
	return err
}

// SetVelocity issues a clamped manual-control velocity command.
func (f *Facade) SetVelocity(ctx context.Context, target string, linear, angular float64) error {
	_, err := f.robotFor(target).controller.SetVelocity(ctx, linear, angular)
	return err
}

// EmergencyStop issues an immediate stop, bounded by the per-call timeout.
func (f *Facade) EmergencyStop(ctx context.Context, target string) error {
	return f.robotFor(target).controller.Stop(ctx)
}
