package camera

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/estuary/kachaka-core/internal/connection"
	"github.com/estuary/kachaka-core/internal/kachakapb"
)

func newTestSampler(client kachakapb.KachakaApiClient, cfg Config) *Sampler {
	conn := connection.NewPool(connection.Config{Client: client, DefaultTimeout: time.Second}).Acquire("robot")
	return New(conn, cfg, nil)
}

func TestDropRatePercentInvariant(t *testing.T) {
	stats := StreamStats{TotalFrames: 10, Dropped: 3}
	require.Equal(t, 30.0, stats.DropRatePercent())
}

func TestDropRatePercentZeroWhenNoFrames(t *testing.T) {
	require.Equal(t, 0.0, StreamStats{}.DropRatePercent())
}

func TestCaptureOnceRecordsFrameAndInvokesListener(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.FrontImage = kachakapb.CompressedImage{Data: []byte("jpeg-bytes"), Format: "jpeg"}

	var mu sync.Mutex
	var received Frame
	s := newTestSampler(fake, Config{
		Interval: 10 * time.Millisecond,
		Camera:   Front,
		OnFrame: func(f Frame) {
			mu.Lock()
			received = f
			mu.Unlock()
		},
	})

	s.captureOnce()

	mu.Lock()
	defer mu.Unlock()
	require.True(t, received.OK)
	require.Equal(t, "jpeg", received.Format)
	require.Equal(t, 1, s.Stats().TotalFrames)
}

func TestCaptureOnceComposesDetections(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.FrontImage = kachakapb.CompressedImage{Data: []byte("x"), Format: "jpeg"}
	fake.Detections = []kachakapb.DetectionRecord{{Label: 1}}
	s := newTestSampler(fake, Config{Interval: 10 * time.Millisecond, Camera: Front, Detect: true})

	s.captureOnce()

	frame := s.LatestFrame()
	require.Len(t, frame.Objects, 1)
	require.Equal(t, "person", frame.Objects[0].Label)
}

func TestCaptureOnceDropsOnCameraFailure(t *testing.T) {
	fake := &failingCameraFake{Fake: kachakapb.NewFake()}
	s := newTestSampler(fake, Config{Interval: 10 * time.Millisecond, Camera: Front})

	s.captureOnce()

	stats := s.Stats()
	require.Equal(t, 1, stats.TotalFrames)
	require.Equal(t, 1, stats.Dropped)
	require.Equal(t, 100.0, stats.DropRatePercent())
}

func TestRecoveryLatencyRecordedOnceAfterReconnect(t *testing.T) {
	fake := kachakapb.NewFake()
	fake.FrontImage = kachakapb.CompressedImage{Data: []byte("x"), Format: "jpeg"}
	s := newTestSampler(fake, Config{Interval: 10 * time.Millisecond, Camera: Front})

	s.notifyStateChange(connection.Disconnected, connection.Connected)
	time.Sleep(5 * time.Millisecond)
	s.captureOnce()

	stats := s.Stats()
	require.NotNil(t, stats.RecoveryLatencyMs)
	require.Greater(t, *stats.RecoveryLatencyMs, 0.0)

	firstLatency := *stats.RecoveryLatencyMs
	s.captureOnce()
	stats = s.Stats()
	require.Equal(t, firstLatency, *stats.RecoveryLatencyMs)
}

// failingCameraFake wraps kachakapb.Fake to force GetFrontCameraImage to
// fail, exercising the capture-failure/drop path without mutating Fake's
// happy-path behavior used elsewhere.
type failingCameraFake struct {
	*kachakapb.Fake
}

func (f *failingCameraFake) GetFrontCameraImage(ctx context.Context, opts ...grpc.CallOption) (*kachakapb.CompressedImage, error) {
	return nil, errors.New("camera unavailable")
}
