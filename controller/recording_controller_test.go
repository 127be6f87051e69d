package controller

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"dataset-logger/models"
	"dataset-logger/utils"
)

func TestNewRecordingControllerCreatesLeftDir(t *testing.T) {
	outdir := filepath.Join(t.TempDir(), "run1")
	rc, err := NewRecordingController(utils.DefaultConfig().Dataset, outdir)
	if err != nil {
		t.Fatalf("NewRecordingController: %v", err)
	}
	if rc.SessionDir() != outdir {
		t.Errorf("SessionDir() = %q, want %q", rc.SessionDir(), outdir)
	}
	if info, err := os.Stat(filepath.Join(outdir, LeftDir)); err != nil || !info.IsDir() {
		t.Errorf("left dir missing: %v", err)
	}
}

func TestNewRecordingControllerSessionName(t *testing.T) {
	cfg := utils.DefaultConfig().Dataset
	cfg.BaseDir = t.TempDir()
	cfg.SessionPrefix = "drive"

	rc, err := NewRecordingController(cfg, "")
	if err != nil {
		t.Fatalf("NewRecordingController: %v", err)
	}
	if got := filepath.Dir(rc.SessionDir()); got != cfg.BaseDir {
		t.Errorf("session parent = %q, want %q", got, cfg.BaseDir)
	}
	if matched, _ := filepath.Match("drive_*_*", filepath.Base(rc.SessionDir())); !matched {
		t.Errorf("session name %q does not match drive_YYYYMMDD_HHMMSS", filepath.Base(rc.SessionDir()))
	}
}

func TestNewRecordingControllerOverwrite(t *testing.T) {
	outdir := t.TempDir()
	cfg := utils.DefaultConfig().Dataset

	if _, err := NewRecordingController(cfg, outdir); err == nil {
		t.Fatal("expected error for existing session dir with overwrite=false")
	}

	cfg.Overwrite = true
	if _, err := NewRecordingController(cfg, outdir); err != nil {
		t.Fatalf("overwrite=true: %v", err)
	}
}

func feed(motion []*models.MotionData, stream []*models.StreamData) (chan *models.MotionData, chan *models.StreamData) {
	motionCh := make(chan *models.MotionData, len(motion))
	streamCh := make(chan *models.StreamData, len(stream))
	for _, d := range motion {
		motionCh <- d
	}
	for _, d := range stream {
		streamCh <- d
	}
	close(motionCh)
	close(streamCh)
	return motionCh, streamCh
}

func TestRecordingControllerStartStop(t *testing.T) {
	tests := map[string]struct {
		saveImages       bool
		flushEveryRecord bool
	}{
		"images, flush per record":  {saveImages: true, flushEveryRecord: true},
		"no images, periodic flush": {saveImages: false, flushEveryRecord: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := utils.DefaultConfig().Dataset
			cfg.SaveImages = tt.saveImages
			cfg.FlushEveryRecord = tt.flushEveryRecord
			outdir := filepath.Join(t.TempDir(), "run")

			rc, err := NewRecordingController(cfg, outdir)
			if err != nil {
				t.Fatalf("NewRecordingController: %v", err)
			}

			motionCh, streamCh := feed(
				[]*models.MotionData{{Timestamp: 0.005}, {Timestamp: 0.010}, {Timestamp: 0.015}},
				[]*models.StreamData{
					{FrameID: 0, Timestamp: 0.0, ExposureTime: 8.3, Image: image.NewGray(image.Rect(0, 0, 4, 4))},
					{FrameID: 1, Timestamp: 0.033, ExposureTime: 8.3, Image: image.NewGray(image.Rect(0, 0, 4, 4))},
				},
			)

			ctx, cancel := context.WithCancel(context.Background())
			rc.Start(ctx, motionCh, streamCh)
			cancel()
			if err := rc.Stop(); err != nil {
				t.Fatalf("Stop: %v", err)
			}

			if n := len(readLines(t, filepath.Join(outdir, "motion.txt"))); n != 4 {
				t.Errorf("motion.txt has %d lines, want 4", n)
			}
			if n := len(readLines(t, filepath.Join(outdir, "left", "stream.txt"))); n != 3 {
				t.Errorf("stream.txt has %d lines, want 3", n)
			}

			png := filepath.Join(outdir, LeftDir, "000001.png")
			if tt.saveImages {
				if _, err := os.Stat(png); err != nil {
					t.Errorf("image not saved: %v", err)
				}
			} else {
				assertNotExist(t, png)
			}

			data, err := os.ReadFile(filepath.Join(outdir, ManifestFile))
			if err != nil {
				t.Fatalf("read manifest: %v", err)
			}
			var m Manifest
			if err := yaml.Unmarshal(data, &m); err != nil {
				t.Fatalf("parse manifest: %v", err)
			}
			if _, err := uuid.Parse(m.RunID); err != nil {
				t.Errorf("run_id %q is not a uuid: %v", m.RunID, err)
			}
			if m.MotionRecords != 3 || m.StreamRecords != 2 {
				t.Errorf("manifest records = (%d, %d), want (3, 2)", m.MotionRecords, m.StreamRecords)
			}
			wantImages := uint64(0)
			if tt.saveImages {
				wantImages = 2
			}
			if m.ImagesSaved != wantImages {
				t.Errorf("manifest images_saved = %d, want %d", m.ImagesSaved, wantImages)
			}
			if m.WriteErrors != 0 {
				t.Errorf("manifest write_errors = %d, want 0", m.WriteErrors)
			}
			if m.StoppedAt.Before(m.StartedAt) {
				t.Errorf("stopped_at %v before started_at %v", m.StoppedAt, m.StartedAt)
			}
		})
	}
}

func TestRecordingControllerCountsWriteErrors(t *testing.T) {
	outdir := filepath.Join(t.TempDir(), "run")
	rc, err := NewRecordingController(utils.DefaultConfig().Dataset, outdir)
	if err != nil {
		t.Fatalf("NewRecordingController: %v", err)
	}
	// Stream channel cannot open once left/ is gone.
	if err := os.Remove(filepath.Join(outdir, LeftDir)); err != nil {
		t.Fatal(err)
	}

	motionCh, streamCh := feed(
		[]*models.MotionData{{Timestamp: 1}},
		[]*models.StreamData{{FrameID: 0}, {FrameID: 1}},
	)
	rc.Start(context.Background(), motionCh, streamCh)
	if err := rc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	m := rc.Manifest()
	if m.WriteErrors != 2 {
		t.Errorf("WriteErrors = %d, want 2", m.WriteErrors)
	}
	if m.MotionRecords != 1 || m.StreamRecords != 0 {
		t.Errorf("records = (%d, %d), want (1, 0)", m.MotionRecords, m.StreamRecords)
	}
}

func TestRecordingControllerNilChannels(t *testing.T) {
	outdir := filepath.Join(t.TempDir(), "run")
	rc, err := NewRecordingController(utils.DefaultConfig().Dataset, outdir)
	if err != nil {
		t.Fatalf("NewRecordingController: %v", err)
	}
	rc.Start(context.Background(), nil, nil)
	if err := rc.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	assertNotExist(t, filepath.Join(outdir, "motion.txt"))
	assertNotExist(t, filepath.Join(outdir, "left", "stream.txt"))
}
