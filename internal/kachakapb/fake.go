package kachakapb

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
)

// Fake is an in-memory KachakaApiClient used by this module's tests in place
// of a real robot, the way go/shuffle/api_test.go substitutes brokertest's
// in-memory broker for a real Gazette cluster. It is safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	Serial  string
	Version string

	Pose    Pose
	Battery BatteryInfo

	Shelves   []Shelf
	Locations []Location
	Maps      []MapSummary
	CurrentMap string

	// PingErr, when set, is returned by GetRobotSerialNumber and
	// GetRobotPose — the two calls Connection.Ping issues — simulating a
	// disconnected robot.
	PingErr error

	// CurrentCommandId/CurrentState are what GetCommandState reports.
	CurrentCommandId string
	CurrentState     CommandState

	// LastResult/LastResultId are what GetLastCommandResult reports.
	LastResult   CommandResult
	LastResultId string

	// StartErr/StartResult control StartCommand's response.
	StartErr    error
	StartResult CommandResult

	// MovingShelfId is what GetMovingShelfId reports.
	MovingShelfId string

	ErrorCodes map[int32]ErrorDefinition

	FrontImage CompressedImage
	BackImage  CompressedImage
	Detections []DetectionRecord

	Volume int32

	// StartCalls counts invocations of StartCommand, for assertions.
	StartCalls int
	// PollCalls counts invocations of GetCommandState.
	PollCalls int
}

// NewFake returns a Fake with a healthy, idle default state.
func NewFake() *Fake {
	return &Fake{
		Serial:       "KAC-0001",
		Version:      "1.0.0",
		CurrentState: CommandStateUnspecified,
		ErrorCodes:   map[int32]ErrorDefinition{},
	}
}

func (f *Fake) GetRobotSerialNumber(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PingErr != nil {
		return "", f.PingErr
	}
	return f.Serial, nil
}

func (f *Fake) GetRobotVersion(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Version, nil
}

func (f *Fake) GetRobotPose(ctx context.Context, opts ...grpc.CallOption) (*Pose, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PingErr != nil {
		return nil, f.PingErr
	}
	p := f.Pose
	return &p, nil
}

func (f *Fake) GetBatteryInfo(ctx context.Context, opts ...grpc.CallOption) (*BatteryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.Battery
	return &b, nil
}

func (f *Fake) GetShelves(ctx context.Context, opts ...grpc.CallOption) ([]Shelf, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Shelf(nil), f.Shelves...), nil
}

func (f *Fake) GetLocations(ctx context.Context, opts ...grpc.CallOption) ([]Location, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Location(nil), f.Locations...), nil
}

func (f *Fake) GetMapList(ctx context.Context, opts ...grpc.CallOption) ([]MapSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MapSummary(nil), f.Maps...), nil
}

func (f *Fake) GetCurrentMapId(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CurrentMap, nil
}

func (f *Fake) GetPngMap(ctx context.Context, opts ...grpc.CallOption) (*PngMap, error) {
	return &PngMap{}, nil
}

func (f *Fake) StartCommand(ctx context.Context, cmd *Command, cancelAll bool, ttsOnSuccess, title string, opts ...grpc.CallOption) (*CommandResult, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StartCalls++
	if f.StartErr != nil {
		return nil, "", f.StartErr
	}
	id := uuid.NewString()
	f.CurrentCommandId = id
	if f.StartResult.Success {
		f.CurrentState = CommandStateRunning
	}
	res := f.StartResult
	return &res, id, nil
}

func (f *Fake) GetCommandState(ctx context.Context, opts ...grpc.CallOption) (CommandState, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.PollCalls++
	return f.CurrentState, f.CurrentCommandId, nil
}

func (f *Fake) GetLastCommandResult(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	res := f.LastResult
	return &res, f.LastResultId, nil
}

func (f *Fake) IsCommandRunning(ctx context.Context, opts ...grpc.CallOption) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.CurrentState == CommandStateRunning || f.CurrentState == CommandStatePending, nil
}

func (f *Fake) CancelCommand(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.CurrentCommandId
	f.CurrentState = CommandStateUnspecified
	return &CommandResult{Success: true}, id, nil
}

func (f *Fake) Proceed(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, error) {
	return &CommandResult{Success: true}, nil
}

func (f *Fake) GetMovingShelfId(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.MovingShelfId, nil
}

func (f *Fake) GetRobotErrorCode(ctx context.Context, opts ...grpc.CallOption) (map[int32]ErrorDefinition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int32]ErrorDefinition, len(f.ErrorCodes))
	for k, v := range f.ErrorCodes {
		out[k] = v
	}
	return out, nil
}

func (f *Fake) GetError(ctx context.Context, opts ...grpc.CallOption) ([]int32, error) {
	return nil, nil
}

func (f *Fake) GetFrontCameraImage(ctx context.Context, opts ...grpc.CallOption) (*CompressedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img := f.FrontImage
	return &img, nil
}

func (f *Fake) GetBackCameraImage(ctx context.Context, opts ...grpc.CallOption) (*CompressedImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img := f.BackImage
	return &img, nil
}

func (f *Fake) GetObjectDetection(ctx context.Context, opts ...grpc.CallOption) ([]DetectionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]DetectionRecord(nil), f.Detections...), nil
}

func (f *Fake) GetShortcuts(ctx context.Context, opts ...grpc.CallOption) ([]Shortcut, error) {
	return nil, nil
}

func (f *Fake) GetHistoryList(ctx context.Context, opts ...grpc.CallOption) ([]HistoryEntry, error) {
	return nil, nil
}

func (f *Fake) GetSpeakerVolume(ctx context.Context, opts ...grpc.CallOption) (int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Volume, nil
}

func (f *Fake) SetSpeakerVolume(ctx context.Context, volume int32, opts ...grpc.CallOption) (*CommandResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Volume = volume
	return &CommandResult{Success: true}, nil
}

func (f *Fake) SetManualControlEnabled(ctx context.Context, enabled bool, opts ...grpc.CallOption) (*CommandResult, error) {
	return &CommandResult{Success: true}, nil
}

func (f *Fake) SetRobotVelocity(ctx context.Context, linear, angular float64, opts ...grpc.CallOption) (*CommandResult, error) {
	return &CommandResult{Success: true}, nil
}

func (f *Fake) SetRobotStop(ctx context.Context, opts ...grpc.CallOption) error {
	return nil
}

var _ KachakaApiClient = (*Fake)(nil)
