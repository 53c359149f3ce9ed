// Package camera implements a background periodic sampler producing a
// lazy, bounded-buffer sequence of the most recent frame, with optional
// object-detection and annotation composed per frame. Grounded on
// original_source/kachaka_core/camera.py.
package camera

import (
	"context"
	"encoding/base64"
	"sync"
	"time"

	"github.com/estuary/kachaka-core/internal/connection"
	"github.com/estuary/kachaka-core/internal/detection"
	"github.com/estuary/kachaka-core/internal/kachakapb"
	"github.com/estuary/kachaka-core/internal/metrics"
	"github.com/estuary/kachaka-core/internal/ops"
)

var log = ops.For("camera")

// Which selects the physical camera a Sampler reads from.
type Which int

const (
	Front Which = iota
	Back
)

// Frame is the latest published capture.
type Frame struct {
	OK          bool
	ImageBase64 string
	Format      string
	Timestamp   time.Time
	Objects     []detection.Detection
}

// StreamStats tracks stream health over the sampler's lifetime.
type StreamStats struct {
	TotalFrames        int
	Dropped            int
	LongestGapSeconds  float64
	RecoveryLatencyMs  *float64
}

// DropRatePercent computes 100*dropped/total when total>0, else 0.
func (s StreamStats) DropRatePercent() float64 {
	if s.TotalFrames == 0 {
		return 0
	}
	return 100 * float64(s.Dropped) / float64(s.TotalFrames)
}

// Config configures a Sampler.
type Config struct {
	Interval time.Duration
	Camera   Which
	Detect   bool
	// Annotate implies Detect.
	Annotate detection.Annotator
	OnFrame  func(Frame)
}

// Sampler is a background camera sampler.
type Sampler struct {
	conn     *connection.Connection
	detector *detection.Detector
	cfg      Config

	promMetrics *metrics.Camera

	mu    sync.Mutex
	frame Frame
	stats StreamStats

	lastSuccess time.Time
	reconnectAt *time.Time

	stop    chan struct{}
	stopped chan struct{}
	running bool
}

// New builds a Sampler around conn, reading conn.Client() lazily on each
// tick (so it always sees the current, lazily-dialed transport).
func New(conn *connection.Connection, cfg Config, promMetrics *metrics.Camera) *Sampler {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Sampler{conn: conn, cfg: cfg, promMetrics: promMetrics}
}

// Start launches the background sampler. No-op if already running.
func (s *Sampler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	s.stopped = make(chan struct{})
	stop, stopped := s.stop, s.stopped
	s.mu.Unlock()

	s.conn.Subscribe(connection.StateListenerFunc(s.notifyStateChange))
	go s.loop(stop, stopped)
}

// Stop signals the sampler to exit; it returns within one tick via an
// interruptible wait on the stop signal.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stop)
	stopped := s.stopped
	s.mu.Unlock()

	select {
	case <-stopped:
	case <-time.After(3 * s.cfg.Interval):
		log.Warn("camera sampler did not stop within timeout")
	}
}

// IsRunning reports whether the sampler's background loop is active.
func (s *Sampler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LatestFrame returns the most recently captured frame.
func (s *Sampler) LatestFrame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// LatestDetections returns the detection records attached to the latest
// frame, or nil if none were attached.
func (s *Sampler) LatestDetections() []detection.Detection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]detection.Detection(nil), s.frame.Objects...)
}

// Stats returns an independent copy of the stream statistics.
func (s *Sampler) Stats() StreamStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// notifyStateChange marks a reconnect for recovery-latency accounting.
func (s *Sampler) notifyStateChange(old, next connection.State) {
	if next != connection.Connected {
		return
	}
	now := time.Now()
	s.mu.Lock()
	s.reconnectAt = &now
	s.mu.Unlock()
}

func (s *Sampler) loop(stop, stopped chan struct{}) {
	defer close(stopped)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.captureOnce()
		}
	}
}

func (s *Sampler) captureOnce() {
	client, err := s.conn.Client()
	if err != nil {
		s.recordDrop()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Interval)
	defer cancel()

	var image *kachakapb.CompressedImage
	switch s.cfg.Camera {
	case Back:
		image, err = client.GetBackCameraImage(ctx)
	default:
		image, err = client.GetFrontCameraImage(ctx)
	}
	if err != nil {
		log.WithField("error", err).Debug("camera capture failed")
		s.recordDrop()
		return
	}

	frame := Frame{
		OK:          true,
		ImageBase64: base64.StdEncoding.EncodeToString(image.Data),
		Format:      image.Format,
		Timestamp:   time.Now(),
	}
	if frame.Format == "" {
		frame.Format = "jpeg"
	}

	if s.cfg.Detect || s.cfg.Annotate != nil {
		if s.detector == nil {
			s.detector = detection.New(client)
		}
		result := s.detector.GetDetections(ctx)
		if result.OK {
			frame.Objects = result.Objects
		} else {
			log.WithField("error", result.Error).Debug("object detection failed, publishing frame without objects")
		}
	}

	if s.cfg.Annotate != nil {
		annotated, err := s.cfg.Annotate.Annotate(image.Data, frame.Objects)
		if err != nil {
			log.WithField("error", err).Debug("annotation failed, publishing unannotated frame")
		} else {
			frame.ImageBase64 = base64.StdEncoding.EncodeToString(annotated)
		}
	}

	s.recordSuccess(frame)

	if s.cfg.OnFrame != nil {
		s.safeNotifyFrame(frame)
	}
}

func (s *Sampler) safeNotifyFrame(frame Frame) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("on_frame listener panicked")
		}
	}()
	s.cfg.OnFrame(frame)
}

func (s *Sampler) recordDrop() {
	s.mu.Lock()
	s.stats.TotalFrames++
	s.stats.Dropped++
	s.mu.Unlock()
	if s.promMetrics != nil {
		s.promMetrics.FramesTotal.Inc()
		s.promMetrics.FramesDropped.Inc()
	}
}

func (s *Sampler) recordSuccess(frame Frame) {
	now := frame.Timestamp

	s.mu.Lock()
	s.stats.TotalFrames++
	if !s.lastSuccess.IsZero() {
		gap := now.Sub(s.lastSuccess).Seconds()
		if gap > s.stats.LongestGapSeconds {
			s.stats.LongestGapSeconds = gap
		}
	}
	s.lastSuccess = now

	if s.reconnectAt != nil && s.stats.RecoveryLatencyMs == nil {
		ms := now.Sub(*s.reconnectAt).Seconds() * 1000
		s.stats.RecoveryLatencyMs = &ms
		s.reconnectAt = nil
	}
	s.frame = frame
	s.mu.Unlock()

	if s.promMetrics != nil {
		s.promMetrics.FramesTotal.Inc()
	}
}
