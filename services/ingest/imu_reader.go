package ingest

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"dataset-logger/models"
	"dataset-logger/utils"
)

// IMUReader simulates an inertial measurement unit at a fixed rate.
// Samples are timestamped with the shared device clock.
type IMUReader struct {
	cfg      utils.IMUConfig
	clock    *utils.DeviceClock
	Out      chan *models.MotionData
	dropped  uint64
	produced uint64
}

func NewIMUReader(cfg utils.IMUConfig, clock *utils.DeviceClock) *IMUReader {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 512
	}
	return &IMUReader{
		cfg:   cfg,
		clock: clock,
		Out:   make(chan *models.MotionData, buf),
	}
}

// Start launches the sampling goroutine. Out is closed once ctx is done.
func (r *IMUReader) Start(ctx context.Context) {
	go r.run(ctx)
	utils.L().Info("imu reader started     (rate=%dHz, buffer=%d)",
		r.cfg.UpdateRateHz, cap(r.Out))
}

func (r *IMUReader) run(ctx context.Context) {
	defer close(r.Out)

	interval := time.Second / time.Duration(r.cfg.UpdateRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var step float64
	for {
		select {
		case <-ctx.Done():
			utils.L().Info("imu reader stopped     (produced=%d, dropped=%d)",
				atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped))
			return
		case <-ticker.C:
			d := r.read(step)
			step += 0.01

			select {
			case r.Out <- d:
				atomic.AddUint64(&r.produced, 1)
			default:
				atomic.AddUint64(&r.dropped, 1)
			}
		}
	}
}

func (r *IMUReader) read(step float64) *models.MotionData {
	return &models.MotionData{
		Flag:      models.MotionFlagAccelGyro,
		Timestamp: r.clock.Now(),
		Accel: [3]float64{
			0.02*math.Sin(step) + rand.Float64()*0.005,
			0.01*math.Cos(step) + rand.Float64()*0.005,
			9.81 + rand.Float64()*0.02,
		},
		Gyro: [3]float64{
			0.001*math.Sin(step*2) + rand.Float64()*0.0005,
			0.001*math.Cos(step*2) + rand.Float64()*0.0005,
			0.0005 + rand.Float64()*0.0002,
		},
		Temperature: 35.0 + rand.Float64()*2.0,
	}
}

// Stats returns (produced, dropped) counts atomically.
func (r *IMUReader) Stats() (uint64, uint64) {
	return atomic.LoadUint64(&r.produced), atomic.LoadUint64(&r.dropped)
}
