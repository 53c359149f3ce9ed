package detection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/estuary/kachaka-core/internal/kachakapb"
)

func TestGetDetectionsConvertsLabelsAndRoundsScore(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.Detections = []kachakapb.DetectionRecord{
		{Label: 1, RoiX: 1, RoiY: 2, RoiWidth: 3, RoiHeight: 4, Score: 0.123456, DistanceMedian: 1.5},
		{Label: 99, Score: 0.5},
	}
	d := New(fake)

	result := d.GetDetections(context.Background())
	require.True(t, result.OK)
	require.Len(t, result.Objects, 2)

	require.Equal(t, "person", result.Objects[0].Label)
	require.Equal(t, 0.1235, result.Objects[0].Score)
	require.NotNil(t, result.Objects[0].Distance)
	require.InDelta(t, 1.5, *result.Objects[0].Distance, 0.0001)

	require.Equal(t, "unknown", result.Objects[1].Label)
}

func TestDistanceAbsentWhenNonPositive(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.Detections = []kachakapb.DetectionRecord{{Label: 2, DistanceMedian: 0}}
	d := New(fake)

	result := d.GetDetections(context.Background())
	require.True(t, result.OK)
	require.Nil(t, result.Objects[0].Distance)
}

func TestCaptureWithDetectionsComposesImageAndObjects(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.FrontImage = kachakapb.CompressedImage{Data: []byte("jpeg"), Format: "jpeg"}
	fake.Detections = []kachakapb.DetectionRecord{{Label: 3}}
	d := New(fake)

	capture := d.CaptureWithDetections(context.Background(), CameraFront)
	require.True(t, capture.OK)
	require.Equal(t, []byte("jpeg"), capture.Image.Data)
	require.Len(t, capture.Objects, 1)
	require.Equal(t, "charger", capture.Objects[0].Label)
}
