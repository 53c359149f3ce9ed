package kachakapb

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the gRPC service identity used to build full method names
// for grpc.ClientConnInterface.Invoke (e.g. "/pkg.Service/Method").
const serviceName = "/kachaka.api.v2.KachakaApi/"

// KachakaApiClient is the RPC surface consumed by this module. Implementers
// bind this interface to the real robot-side service; tests bind it to an
// in-memory fake (see fake.go).
type KachakaApiClient interface {
	GetRobotSerialNumber(ctx context.Context, opts ...grpc.CallOption) (string, error)
	GetRobotVersion(ctx context.Context, opts ...grpc.CallOption) (string, error)

	GetRobotPose(ctx context.Context, opts ...grpc.CallOption) (*Pose, error)
	GetBatteryInfo(ctx context.Context, opts ...grpc.CallOption) (*BatteryInfo, error)

	GetShelves(ctx context.Context, opts ...grpc.CallOption) ([]Shelf, error)
	GetLocations(ctx context.Context, opts ...grpc.CallOption) ([]Location, error)
	GetMapList(ctx context.Context, opts ...grpc.CallOption) ([]MapSummary, error)
	GetCurrentMapId(ctx context.Context, opts ...grpc.CallOption) (string, error)
	GetPngMap(ctx context.Context, opts ...grpc.CallOption) (*PngMap, error)

	StartCommand(ctx context.Context, cmd *Command, cancelAll bool, ttsOnSuccess, title string, opts ...grpc.CallOption) (*CommandResult, string, error)
	GetCommandState(ctx context.Context, opts ...grpc.CallOption) (CommandState, string, error)
	GetLastCommandResult(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, string, error)
	IsCommandRunning(ctx context.Context, opts ...grpc.CallOption) (bool, error)
	CancelCommand(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, string, error)
	Proceed(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, error)

	GetMovingShelfId(ctx context.Context, opts ...grpc.CallOption) (string, error)

	GetRobotErrorCode(ctx context.Context, opts ...grpc.CallOption) (map[int32]ErrorDefinition, error)
	GetError(ctx context.Context, opts ...grpc.CallOption) ([]int32, error)

	GetFrontCameraImage(ctx context.Context, opts ...grpc.CallOption) (*CompressedImage, error)
	GetBackCameraImage(ctx context.Context, opts ...grpc.CallOption) (*CompressedImage, error)
	GetObjectDetection(ctx context.Context, opts ...grpc.CallOption) ([]DetectionRecord, error)

	GetShortcuts(ctx context.Context, opts ...grpc.CallOption) ([]Shortcut, error)
	GetHistoryList(ctx context.Context, opts ...grpc.CallOption) ([]HistoryEntry, error)

	GetSpeakerVolume(ctx context.Context, opts ...grpc.CallOption) (int32, error)
	SetSpeakerVolume(ctx context.Context, volume int32, opts ...grpc.CallOption) (*CommandResult, error)

	SetManualControlEnabled(ctx context.Context, enabled bool, opts ...grpc.CallOption) (*CommandResult, error)
	SetRobotVelocity(ctx context.Context, linear, angular float64, opts ...grpc.CallOption) (*CommandResult, error)
	SetRobotStop(ctx context.Context, opts ...grpc.CallOption) error
}

// grpcClient implements KachakaApiClient over any grpc.ClientConnInterface —
// a real *grpc.ClientConn in production, or the transport.Transport deadline
// wrapper that also satisfies grpc.ClientConnInterface.
type grpcClient struct {
	cc grpc.ClientConnInterface
}

// NewClient binds the RPC surface to a gRPC channel.
func NewClient(cc grpc.ClientConnInterface) KachakaApiClient {
	return &grpcClient{cc: cc}
}

type empty struct{}

func (*empty) Reset()         {}
func (*empty) String() string { return "" }
func (*empty) ProtoMessage()  {}

type stringValue struct{ Value string }

func (*stringValue) Reset()         {}
func (*stringValue) String() string { return "" }
func (*stringValue) ProtoMessage()  {}

type boolValue struct{ Value bool }

func (*boolValue) Reset()         {}
func (*boolValue) String() string { return "" }
func (*boolValue) ProtoMessage()  {}

type int32Value struct{ Value int32 }

func (*int32Value) Reset()         {}
func (*int32Value) String() string { return "" }
func (*int32Value) ProtoMessage()  {}

func (c *grpcClient) invoke(ctx context.Context, method string, in, out interface{}, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, serviceName+method, in, out, opts...)
}

func (c *grpcClient) GetRobotSerialNumber(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	var out stringValue
	if err := c.invoke(ctx, "GetRobotSerialNumber", &empty{}, &out, opts...); err != nil {
		return "", err
	}
	return out.Value, nil
}

func (c *grpcClient) GetRobotVersion(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	var out stringValue
	if err := c.invoke(ctx, "GetRobotVersion", &empty{}, &out, opts...); err != nil {
		return "", err
	}
	return out.Value, nil
}

func (c *grpcClient) GetRobotPose(ctx context.Context, opts ...grpc.CallOption) (*Pose, error) {
	var out Pose
	if err := c.invoke(ctx, "GetRobotPose", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *grpcClient) GetBatteryInfo(ctx context.Context, opts ...grpc.CallOption) (*BatteryInfo, error) {
	var out BatteryInfo
	if err := c.invoke(ctx, "GetBatteryInfo", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

type shelfList struct{ Shelves []Shelf }

func (c *grpcClient) GetShelves(ctx context.Context, opts ...grpc.CallOption) ([]Shelf, error) {
	var out shelfList
	if err := c.invoke(ctx, "GetShelves", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return out.Shelves, nil
}

type locationList struct{ Locations []Location }

func (c *grpcClient) GetLocations(ctx context.Context, opts ...grpc.CallOption) ([]Location, error) {
	var out locationList
	if err := c.invoke(ctx, "GetLocations", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return out.Locations, nil
}

type mapList struct{ Maps []MapSummary }

func (c *grpcClient) GetMapList(ctx context.Context, opts ...grpc.CallOption) ([]MapSummary, error) {
	var out mapList
	if err := c.invoke(ctx, "GetMapList", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return out.Maps, nil
}

func (c *grpcClient) GetCurrentMapId(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	var out stringValue
	if err := c.invoke(ctx, "GetCurrentMapId", &empty{}, &out, opts...); err != nil {
		return "", err
	}
	return out.Value, nil
}

func (c *grpcClient) GetPngMap(ctx context.Context, opts ...grpc.CallOption) (*PngMap, error) {
	var out PngMap
	if err := c.invoke(ctx, "GetPngMap", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

type startCommandRequest struct {
	Command      *Command
	CancelAll    bool
	TtsOnSuccess string
	Title        string
}

func (*startCommandRequest) Reset()         {}
func (*startCommandRequest) String() string { return "" }
func (*startCommandRequest) ProtoMessage()  {}

type startCommandResponse struct {
	Result    CommandResult
	CommandId string
}

func (*startCommandResponse) Reset()         {}
func (*startCommandResponse) String() string { return "" }
func (*startCommandResponse) ProtoMessage()  {}

func (c *grpcClient) StartCommand(ctx context.Context, cmd *Command, cancelAll bool, ttsOnSuccess, title string, opts ...grpc.CallOption) (*CommandResult, string, error) {
	req := &startCommandRequest{Command: cmd, CancelAll: cancelAll, TtsOnSuccess: ttsOnSuccess, Title: title}
	var out startCommandResponse
	if err := c.invoke(ctx, "StartCommand", req, &out, opts...); err != nil {
		return nil, "", err
	}
	return &out.Result, out.CommandId, nil
}

type commandStateResponse struct {
	State     CommandState
	CommandId string
}

func (*commandStateResponse) Reset()         {}
func (*commandStateResponse) String() string { return "" }
func (*commandStateResponse) ProtoMessage()  {}

func (c *grpcClient) GetCommandState(ctx context.Context, opts ...grpc.CallOption) (CommandState, string, error) {
	var out commandStateResponse
	if err := c.invoke(ctx, "GetCommandState", &empty{}, &out, opts...); err != nil {
		return CommandStateUnspecified, "", err
	}
	return out.State, out.CommandId, nil
}

func (c *grpcClient) GetLastCommandResult(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, string, error) {
	var out startCommandResponse
	if err := c.invoke(ctx, "GetLastCommandResult", &empty{}, &out, opts...); err != nil {
		return nil, "", err
	}
	return &out.Result, out.CommandId, nil
}

func (c *grpcClient) IsCommandRunning(ctx context.Context, opts ...grpc.CallOption) (bool, error) {
	var out boolValue
	if err := c.invoke(ctx, "IsCommandRunning", &empty{}, &out, opts...); err != nil {
		return false, err
	}
	return out.Value, nil
}

func (c *grpcClient) CancelCommand(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, string, error) {
	var out startCommandResponse
	if err := c.invoke(ctx, "CancelCommand", &empty{}, &out, opts...); err != nil {
		return nil, "", err
	}
	return &out.Result, out.CommandId, nil
}

func (c *grpcClient) Proceed(ctx context.Context, opts ...grpc.CallOption) (*CommandResult, error) {
	var out CommandResult
	if err := c.invoke(ctx, "Proceed", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *grpcClient) GetMovingShelfId(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	var out stringValue
	if err := c.invoke(ctx, "GetMovingShelfId", &empty{}, &out, opts...); err != nil {
		return "", err
	}
	return out.Value, nil
}

type errorCodeTable struct{ Definitions []ErrorDefinition }

func (*errorCodeTable) Reset()         {}
func (*errorCodeTable) String() string { return "" }
func (*errorCodeTable) ProtoMessage()  {}

func (c *grpcClient) GetRobotErrorCode(ctx context.Context, opts ...grpc.CallOption) (map[int32]ErrorDefinition, error) {
	var out errorCodeTable
	if err := c.invoke(ctx, "GetRobotErrorCode", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	table := make(map[int32]ErrorDefinition, len(out.Definitions))
	for _, d := range out.Definitions {
		table[d.Code] = d
	}
	return table, nil
}

type errorCodes struct{ Codes []int32 }

func (*errorCodes) Reset()         {}
func (*errorCodes) String() string { return "" }
func (*errorCodes) ProtoMessage()  {}

func (c *grpcClient) GetError(ctx context.Context, opts ...grpc.CallOption) ([]int32, error) {
	var out errorCodes
	if err := c.invoke(ctx, "GetError", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return out.Codes, nil
}

func (c *grpcClient) GetFrontCameraImage(ctx context.Context, opts ...grpc.CallOption) (*CompressedImage, error) {
	var out CompressedImage
	if err := c.invoke(ctx, "GetFrontCameraRosCompressedImage", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *grpcClient) GetBackCameraImage(ctx context.Context, opts ...grpc.CallOption) (*CompressedImage, error) {
	var out CompressedImage
	if err := c.invoke(ctx, "GetBackCameraRosCompressedImage", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

type objectDetectionResponse struct{ Objects []DetectionRecord }

func (*objectDetectionResponse) Reset()         {}
func (*objectDetectionResponse) String() string { return "" }
func (*objectDetectionResponse) ProtoMessage()  {}

func (c *grpcClient) GetObjectDetection(ctx context.Context, opts ...grpc.CallOption) ([]DetectionRecord, error) {
	var out objectDetectionResponse
	if err := c.invoke(ctx, "GetObjectDetection", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return out.Objects, nil
}

type shortcutList struct{ Shortcuts []Shortcut }

func (c *grpcClient) GetShortcuts(ctx context.Context, opts ...grpc.CallOption) ([]Shortcut, error) {
	var out shortcutList
	if err := c.invoke(ctx, "GetShortcuts", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return out.Shortcuts, nil
}

type historyList struct{ History []HistoryEntry }

func (c *grpcClient) GetHistoryList(ctx context.Context, opts ...grpc.CallOption) ([]HistoryEntry, error) {
	var out historyList
	if err := c.invoke(ctx, "GetHistoryList", &empty{}, &out, opts...); err != nil {
		return nil, err
	}
	return out.History, nil
}

func (c *grpcClient) GetSpeakerVolume(ctx context.Context, opts ...grpc.CallOption) (int32, error) {
	var out int32Value
	if err := c.invoke(ctx, "GetSpeakerVolume", &empty{}, &out, opts...); err != nil {
		return 0, err
	}
	return out.Value, nil
}

func (c *grpcClient) SetSpeakerVolume(ctx context.Context, volume int32, opts ...grpc.CallOption) (*CommandResult, error) {
	var out CommandResult
	if err := c.invoke(ctx, "SetSpeakerVolume", &int32Value{Value: volume}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *grpcClient) SetManualControlEnabled(ctx context.Context, enabled bool, opts ...grpc.CallOption) (*CommandResult, error) {
	var out CommandResult
	if err := c.invoke(ctx, "SetManualControlEnabled", &boolValue{Value: enabled}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

type velocityRequest struct {
	Linear  float64
	Angular float64
}

func (*velocityRequest) Reset()         {}
func (*velocityRequest) String() string { return "" }
func (*velocityRequest) ProtoMessage()  {}

func (c *grpcClient) SetRobotVelocity(ctx context.Context, linear, angular float64, opts ...grpc.CallOption) (*CommandResult, error) {
	var out CommandResult
	if err := c.invoke(ctx, "SetRobotVelocity", &velocityRequest{Linear: linear, Angular: angular}, &out, opts...); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *grpcClient) SetRobotStop(ctx context.Context, opts ...grpc.CallOption) error {
	return c.invoke(ctx, "SetRobotStop", &empty{}, &empty{}, opts...)
}
