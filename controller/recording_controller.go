package controller

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"dataset-logger/models"
	"dataset-logger/utils"
)

// LeftDir is the image folder of the left stream, relative to the session.
const LeftDir = "left"

// ManifestFile is written into the session directory on Stop.
const ManifestFile = "session.yaml"

// Manifest summarises one recording session.
type Manifest struct {
	RunID         string    `yaml:"run_id"`
	SessionDir    string    `yaml:"session_dir"`
	StartedAt     time.Time `yaml:"started_at"`
	StoppedAt     time.Time `yaml:"stopped_at"`
	MotionRecords uint64    `yaml:"motion_records"`
	StreamRecords uint64    `yaml:"stream_records"`
	ImagesSaved   uint64    `yaml:"images_saved"`
	WriteErrors   uint64    `yaml:"write_errors"`
}

// RecordingController is the final pipeline stage. It prepares the session
// directory, drains the sensor channels into a Dataset and saves the left
// images next to left/stream.txt.
type RecordingController struct {
	cfg        utils.DatasetConfig
	sessionDir string
	runID      string
	startedAt  time.Time

	dataset *Dataset

	imagesSaved uint64
	writeErrors uint64
	wg          sync.WaitGroup
}

// NewRecordingController creates the session directory tree. When outdir is
// empty a timestamped session is created under cfg.BaseDir.
func NewRecordingController(cfg utils.DatasetConfig, outdir string) (*RecordingController, error) {
	sessionDir := outdir
	if sessionDir == "" {
		sessionDir = filepath.Join(cfg.BaseDir, utils.SessionName(cfg.SessionPrefix))
	}

	if !cfg.Overwrite {
		if _, err := os.Stat(sessionDir); err == nil {
			return nil, fmt.Errorf("session dir %s already exists (overwrite=false)", sessionDir)
		}
	}

	if err := os.MkdirAll(filepath.Join(sessionDir, LeftDir), 0755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	rc := &RecordingController{
		cfg:        cfg,
		sessionDir: sessionDir,
		runID:      uuid.NewString(),
		startedAt:  time.Now(),
		dataset:    NewDataset(sessionDir, cfg),
	}

	utils.L().Info("recording controller ready  session=%s run_id=%s", sessionDir, rc.runID)
	return rc, nil
}

// Start begins consuming both sensor channels. A nil channel is skipped.
// Each consumer runs until its channel is closed, so everything a reader
// produced before shutting down is still written.
func (rc *RecordingController) Start(ctx context.Context, motionCh <-chan *models.MotionData, streamCh <-chan *models.StreamData) {
	if !rc.cfg.FlushEveryRecord {
		rc.wg.Add(1)
		go func() {
			defer rc.wg.Done()
			rc.flushLoop(ctx)
		}()
	}

	if motionCh != nil {
		rc.wg.Add(1)
		go func() {
			defer rc.wg.Done()
			var failed bool
			for d := range motionCh {
				rc.check(rc.dataset.SaveMotionData(d), &failed)
			}
		}()
	}

	if streamCh != nil {
		rc.wg.Add(1)
		go func() {
			defer rc.wg.Done()
			var failed bool
			for d := range streamCh {
				rc.writeStream(d, &failed)
			}
		}()
	}

	utils.L().Info("recording controller started")
}

func (rc *RecordingController) flushLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Duration(rc.cfg.FlushIntervalMs) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := rc.dataset.Flush(); err != nil {
				utils.L().Error("flush dataset: %v", err)
			}
		}
	}
}

// writeStream saves the image of one frame, then its metadata line.
func (rc *RecordingController) writeStream(d *models.StreamData, failed *bool) {
	if rc.cfg.SaveImages && d.Image != nil {
		path := filepath.Join(rc.sessionDir, LeftDir, fmt.Sprintf("%06d.png", d.FrameID))
		if err := savePNG(path, d); err != nil {
			utils.L().Error("save image: %v", err)
		} else {
			atomic.AddUint64(&rc.imagesSaved, 1)
		}
	}
	rc.check(rc.dataset.SaveStreamData(d), failed)
}

// check counts a save error. Only the first error per channel is logged;
// a broken channel would otherwise flood the log at sensor rate.
func (rc *RecordingController) check(err error, failed *bool) {
	if err == nil {
		return
	}
	atomic.AddUint64(&rc.writeErrors, 1)
	if !*failed {
		*failed = true
		utils.L().Error("%v", err)
	}
}

func savePNG(path string, d *models.StreamData) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, d.Image); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode frame %d: %w", d.FrameID, err)
	}
	return f.Close()
}

// Stop waits for the consumers to drain, closes the dataset and writes the
// session manifest. The caller must have cancelled the readers' context.
func (rc *RecordingController) Stop() error {
	rc.wg.Wait()

	closeErr := rc.dataset.Close()
	if closeErr != nil {
		utils.L().Error("close dataset: %v", closeErr)
	}

	m := rc.Manifest()
	m.StoppedAt = time.Now()
	manifestErr := writeManifest(filepath.Join(rc.sessionDir, ManifestFile), m)

	utils.L().Info("recording controller stopped  (motion=%d, stream=%d, images=%d, errors=%d)",
		m.MotionRecords, m.StreamRecords, m.ImagesSaved, m.WriteErrors)
	return errors.Join(closeErr, manifestErr)
}

// Manifest returns the session summary as of now.
func (rc *RecordingController) Manifest() Manifest {
	return Manifest{
		RunID:         rc.runID,
		SessionDir:    rc.sessionDir,
		StartedAt:     rc.startedAt,
		MotionRecords: rc.dataset.MotionCount(),
		StreamRecords: rc.dataset.StreamCount(),
		ImagesSaved:   atomic.LoadUint64(&rc.imagesSaved),
		WriteErrors:   atomic.LoadUint64(&rc.writeErrors),
	}
}

func writeManifest(path string, m Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// SessionDir returns the path to the active session directory.
func (rc *RecordingController) SessionDir() string {
	return rc.sessionDir
}

// LogStats prints the records written so far.
func (rc *RecordingController) LogStats() {
	utils.L().Info("  motion rows written: %d", rc.dataset.MotionCount())
	utils.L().Info("  stream rows written: %d", rc.dataset.StreamCount())
}
