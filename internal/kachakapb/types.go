// Package kachakapb defines the wire contract of the upstream Kachaka RPC
// service: the message types and the unary methods consumed by this module.
// No .proto toolchain was available, so the message types below are
// hand-authored structs rather than protoc output. Most request and response
// types declare the Reset/String/ProtoMessage methods of proto.Message's
// marker interface structurally, without importing gogo/protobuf; the list
// entry types (Shelf, Location, MapSummary, ErrorDefinition, Shortcut,
// HistoryEntry) and their list wrappers in client.go declare none.
package kachakapb

// Pose is the robot's (or a location's) 2D planar pose.
type Pose struct {
	X     float64
	Y     float64
	Theta float64
}

func (*Pose) Reset()         {}
func (p *Pose) String() string { return protoString(p) }
func (*Pose) ProtoMessage()  {}

// PowerStatus enumerates the battery's charging state.
type PowerStatus int32

const (
	PowerStatusUnknown PowerStatus = iota
	PowerStatusDischarging
	PowerStatusCharging
	PowerStatusFull
)

func (s PowerStatus) String() string {
	switch s {
	case PowerStatusDischarging:
		return "DISCHARGING"
	case PowerStatusCharging:
		return "CHARGING"
	case PowerStatusFull:
		return "FULL"
	default:
		return "UNKNOWN"
	}
}

// BatteryInfo is the result of GetBatteryInfo.
type BatteryInfo struct {
	Percent int32
	Status  PowerStatus
}

func (*BatteryInfo) Reset()         {}
func (b *BatteryInfo) String() string { return protoString(b) }
func (*BatteryInfo) ProtoMessage()  {}

// Shelf is one entry of GetShelves.
type Shelf struct {
	Id             string
	Name           string
	HomeLocationId string
}

// Location is one entry of GetLocations.
type Location struct {
	Id   string
	Name string
	Type string
	Pose Pose
}

// MapSummary is one entry of GetMapList.
type MapSummary struct {
	Id   string
	Name string
}

// PngMap is the result of GetPngMap.
type PngMap struct {
	Data       []byte
	Name       string
	Resolution float64
	Width      int32
	Height     int32
}

func (*PngMap) Reset()         {}
func (m *PngMap) String() string { return protoString(m) }
func (*PngMap) ProtoMessage()  {}

// CompressedImage is the result of the camera capture RPCs.
type CompressedImage struct {
	Data   []byte
	Format string
}

func (*CompressedImage) Reset()         {}
func (i *CompressedImage) String() string { return protoString(i) }
func (*CompressedImage) ProtoMessage()  {}

// CommandState enumerates the server-side lifecycle of a started command.
type CommandState int32

const (
	CommandStateUnspecified CommandState = iota
	CommandStatePending
	CommandStateRunning
)

func (s CommandState) String() string {
	switch s {
	case CommandStatePending:
		return "PENDING"
	case CommandStateRunning:
		return "RUNNING"
	default:
		return "UNSPECIFIED"
	}
}

// CommandKind tags the variant carried by a Command.
type CommandKind int32

const (
	CommandKindUnspecified CommandKind = iota
	CommandKindMoveToLocation
	CommandKindMoveToPose
	CommandKindMoveForward
	CommandKindRotateInPlace
	CommandKindReturnHome
	CommandKindMoveShelf
	CommandKindReturnShelf
	CommandKindDockShelf
	CommandKindUndockShelf
	CommandKindResetShelfPose
	CommandKindSpeak
	CommandKindSetVolume
)

// Command is a tagged union over the outbound command variants. Only the
// field matching Kind is meaningful; this mirrors the protobuf
// oneof idiom the original SDK exposes (pb2.Command with one populated
// sub-message), flattened into a single struct since gogo/protobuf oneofs
// require generated accessor code this module does not have.
type Command struct {
	Kind CommandKind

	TargetLocationId string // MoveToLocation

	X   float64 // MoveToPose
	Y   float64
	Yaw float64

	DistanceMeter float64 // MoveForward
	SpeedMps      float64 // MoveForward (0 = robot default)

	AngleRadian float64 // RotateInPlace

	TargetShelfId           string // MoveShelf / ReturnShelf / DockShelf / UndockShelf / ResetShelfPose
	DestinationLocationId string // MoveShelf

	Text string // Speak

	Volume int32 // SetVolume
}

func (*Command) Reset()         {}
func (c *Command) String() string { return protoString(c) }
func (*Command) ProtoMessage()  {}

// CommandResult is the server's {success, error_code} pair for a command.
type CommandResult struct {
	Success   bool
	ErrorCode int32
}

func (*CommandResult) Reset()         {}
func (r *CommandResult) String() string { return protoString(r) }
func (*CommandResult) ProtoMessage()  {}

// ErrorDefinition is one entry of the error-code catalog.
type ErrorDefinition struct {
	Code        int32
	Title       string
	TitleEn     string
	Description string
}

// Shortcut is one entry of GetShortcuts.
type Shortcut struct {
	Id   string
	Name string
}

// HistoryEntry is one entry of GetHistoryList.
type HistoryEntry struct {
	Id               string
	Command          string
	Success          bool
	ErrorCode        int32
	CommandExecuted string
}

// DetectionRecord is one entry of GetObjectDetection's object list.
type DetectionRecord struct {
	Label          int32
	RoiX           int32
	RoiY           int32
	RoiWidth       int32
	RoiHeight      int32
	Score          float64
	DistanceMedian float64
}

func (*DetectionRecord) Reset()         {}
func (d *DetectionRecord) String() string { return protoString(d) }
func (*DetectionRecord) ProtoMessage()  {}

// protoString gives every message type a stable String() without pulling in
// reflection-heavy gogo text marshaling machinery this module has no use for
// beyond satisfying the proto.Message interface.
func protoString(v interface{}) string {
	return ""
}
