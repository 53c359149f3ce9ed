// Package detection implements a stateless query layer turning raw
// detection records into structured results and composing capture+detect
// atomically. Grounded on original_source/kachaka_core/detection.py.
package detection

import (
	"context"
	"math"

	"github.com/estuary/kachaka-core/internal/kachakapb"
)

// labelNames is the fixed label map the server reports ids against.
var labelNames = map[int32]string{
	0: "unknown",
	1: "person",
	2: "shelf",
	3: "charger",
	4: "door",
}

// Detection is one detected object.
type Detection struct {
	Label     string
	LabelID   int32
	RoiX      int32
	RoiY      int32
	RoiWidth  int32
	RoiHeight int32
	Score     float64
	// Distance is present only when the sensor reports a positive median.
	Distance *float64
}

func labelName(id int32) string {
	if name, ok := labelNames[id]; ok {
		return name
	}
	return labelNames[0]
}

func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}

func convert(r kachakapb.DetectionRecord) Detection {
	d := Detection{
		Label:     labelName(r.Label),
		LabelID:   r.Label,
		RoiX:      r.RoiX,
		RoiY:      r.RoiY,
		RoiWidth:  r.RoiWidth,
		RoiHeight: r.RoiHeight,
		Score:     roundScore(r.Score),
	}
	if r.DistanceMedian > 0 {
		dist := r.DistanceMedian
		d.Distance = &dist
	}
	return d
}

// Detector is a stateless query layer over the object-detection RPC.
type Detector struct {
	client kachakapb.KachakaApiClient
}

// New builds a Detector over client.
func New(client kachakapb.KachakaApiClient) *Detector {
	return &Detector{client: client}
}

// Result is the normalized, non-throwing outcome of a detection query.
type Result struct {
	OK      bool
	Objects []Detection
	Error   string
}

// GetDetections returns the current object-detection stream, converted
// into Detection values.
func (d *Detector) GetDetections(ctx context.Context) Result {
	records, err := d.client.GetObjectDetection(ctx)
	if err != nil {
		return Result{OK: false, Error: err.Error()}
	}
	objects := make([]Detection, 0, len(records))
	for _, r := range records {
		objects = append(objects, convert(r))
	}
	return Result{OK: true, Objects: objects}
}

// Capture is one camera frame paired with its detections.
type Capture struct {
	OK      bool
	Image   kachakapb.CompressedImage
	Objects []Detection
	Error   string
}

// Camera selects which camera CaptureWithDetections reads from.
type Camera int

const (
	CameraFront Camera = iota
	CameraBack
)

// CaptureWithDetections performs one capture and one detection call and
// returns both.
func (d *Detector) CaptureWithDetections(ctx context.Context, camera Camera) Capture {
	var image *kachakapb.CompressedImage
	var err error
	switch camera {
	case CameraBack:
		image, err = d.client.GetBackCameraImage(ctx)
	default:
		image, err = d.client.GetFrontCameraImage(ctx)
	}
	if err != nil {
		return Capture{OK: false, Error: err.Error()}
	}

	detections := d.GetDetections(ctx)
	if !detections.OK {
		// A detection failure never suppresses a frame: return the image
		// with no objects rather than failing the whole capture.
		return Capture{OK: true, Image: *image}
	}
	return Capture{OK: true, Image: *image, Objects: detections.Objects}
}
