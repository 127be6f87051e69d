package controller

import (
	"context"

	"dataset-logger/models"
	"dataset-logger/services/ingest"
	"dataset-logger/utils"
)

// SensorsController owns the lifecycle of every sensor reader goroutine.
// It exposes typed output channels that the recording controller consumes.
type SensorsController struct {
	imu    *ingest.IMUReader
	camera *ingest.CameraReader

	MotionCh chan *models.MotionData
	StreamCh chan *models.StreamData
}

// NewSensorsController creates reader instances for every enabled sensor.
// Both readers share one device clock so their timestamps are comparable.
func NewSensorsController(cfg utils.SensorsConfig) *SensorsController {
	sc := &SensorsController{}
	clock := utils.NewDeviceClock()

	if cfg.IMU.Enabled {
		sc.imu = ingest.NewIMUReader(cfg.IMU, clock)
		sc.MotionCh = sc.imu.Out
	}
	if cfg.Camera.Enabled {
		sc.camera = ingest.NewCameraReader(cfg.Camera, clock)
		sc.StreamCh = sc.camera.Out
	}

	return sc
}

// Start launches all enabled sensor goroutines.
func (sc *SensorsController) Start(ctx context.Context) {
	if sc.imu != nil {
		sc.imu.Start(ctx)
	}
	if sc.camera != nil {
		sc.camera.Start(ctx)
	}
	utils.L().Info("sensors controller: all enabled readers launched")
}

// LogStats prints current produce/drop counters for each active sensor.
func (sc *SensorsController) LogStats() {
	if sc.imu != nil {
		p, d := sc.imu.Stats()
		utils.L().Info("  imu      produced=%d  dropped=%d", p, d)
	}
	if sc.camera != nil {
		p, d := sc.camera.Stats()
		utils.L().Info("  camera   produced=%d  dropped=%d", p, d)
	}
}
