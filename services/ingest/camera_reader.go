package ingest

import (
	"context"
	"image"
	"math/rand"
	"sync/atomic"
	"time"

	"dataset-logger/models"
	"dataset-logger/utils"
)

// CameraReader simulates the left image stream of a stereo camera.
// It pumps frames into a buffered channel that downstream consumers read without blocking.
type CameraReader struct {
	cfg      utils.CameraConfig
	clock    *utils.DeviceClock
	Out      chan *models.StreamData
	dropped  uint64
	produced uint64
}

// NewCameraReader wires up the simulated stream.
func NewCameraReader(cfg utils.CameraConfig, clock *utils.DeviceClock) *CameraReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 120
	}
	return &CameraReader{
		cfg:   cfg,
		clock: clock,
		Out:   make(chan *models.StreamData, buf),
	}
}

// Start launches a goroutine that produces frames until ctx is cancelled.
func (r *CameraReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Info("camera reader started  (fps=%d, %dx%d, buffer=%d)",
		r.cfg.FPS, r.cfg.Width, r.cfg.Height, cap(r.Out))
}

func (r *CameraReader) run(ctx context.Context) {
	defer close(r.Out)

	interval := time.Second / time.Duration(r.cfg.FPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var frameID uint64
	for {
		select {
		case <-ctx.Done():
			utils.L().Info("camera reader stopped  (produced=%d, dropped=%d)",
				atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped))
			return
		case <-ticker.C:
			frame := r.capture(frameID)
			frameID++

			// Non-blocking send: if the channel is full we drop the frame
			// so the capture goroutine never waits on the recorder.
			select {
			case r.Out <- frame:
				atomic.AddUint64(&r.produced, 1)
			default:
				atomic.AddUint64(&r.dropped, 1)
				utils.L().Warn("camera: dropped frame %d (consumer too slow)", frame.FrameID)
			}
		}
	}
}

// capture renders a diagonal gradient that scrolls one pixel per frame.
func (r *CameraReader) capture(frameID uint64) *models.StreamData {
	ts := r.clock.Now()

	img := image.NewGray(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	for y := 0; y < r.cfg.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+r.cfg.Width]
		for x := range row {
			row[x] = uint8(uint64(x+y) + frameID)
		}
	}

	return &models.StreamData{
		FrameID:      frameID,
		Timestamp:    ts,
		ExposureTime: r.cfg.ExposureMs * (0.98 + rand.Float64()*0.04),
		Image:        img,
	}
}

// Stats returns (produced, dropped) counts atomically.
func (r *CameraReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}
