package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dataset-logger/controller"
	"dataset-logger/utils"
)

type recordOptions struct {
	configPath string
	outdir     string
	duration   time.Duration
	logFile    string
	logLevel   string
}

func newRecordCommand() *cobra.Command {
	var opts recordOptions

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a dataset until interrupted or the duration elapses",
		Long: `Record a dataset from the simulated IMU and left camera.

Without --outdir a new session directory <base_dir>/<session_prefix>_YYYYMMDD_HHMMSS
is created. The run directory receives motion.txt, left/stream.txt, the left
images and a session.yaml manifest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecord(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to dataset.yaml (defaults apply when omitted)")
	cmd.Flags().StringVarP(&opts.outdir, "outdir", "o", "", "run directory (overrides base_dir/session_prefix)")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", 0, "stop after this long (overrides simulation.duration_seconds)")
	cmd.Flags().StringVar(&opts.logFile, "log", "", "optional log file path (stdout is always included)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")

	return cmd
}

func runRecord(parent context.Context, opts recordOptions) error {
	level, err := utils.ParseLogLevel(opts.logLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", utils.ErrInvalidConfig, err)
	}
	logger := utils.InitLogger(level, opts.logFile)
	defer logger.Close()

	utils.L().Info("dataset-logger %s  GOMAXPROCS=%d  PID=%d", version, runtime.GOMAXPROCS(0), os.Getpid())

	cfg, err := utils.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}

	// Resolve relative base_dir to absolute.
	if !filepath.IsAbs(cfg.Dataset.BaseDir) {
		if abs, err := filepath.Abs(cfg.Dataset.BaseDir); err == nil {
			cfg.Dataset.BaseDir = abs
		}
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	duration := opts.duration
	if duration == 0 {
		duration = time.Duration(cfg.Simulation.DurationSeconds) * time.Second
	}
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
		utils.L().Info("recording will auto-stop after %s", duration)
	}

	// ── Pipeline assembly ────────────────────────────────────────────
	//
	//  IMU reader     ──► MotionCh ──┐
	//                                ├──► RecordingController ──► motion.txt
	//  Camera reader  ──► StreamCh ──┘                            left/stream.txt, left/*.png

	recordCtrl, err := controller.NewRecordingController(cfg.Dataset, opts.outdir)
	if err != nil {
		return err
	}

	sensorCtrl := controller.NewSensorsController(cfg.Sensors)
	sensorCtrl.Start(ctx)
	recordCtrl.Start(ctx, sensorCtrl.MotionCh, sensorCtrl.StreamCh)

	utils.L().Info("pipeline running, press Ctrl+C to stop")

	statsTicker := time.NewTicker(5 * time.Second)
	defer statsTicker.Stop()

	for running := true; running; {
		select {
		case <-ctx.Done():
			utils.L().Info("shutting down: %v", context.Cause(ctx))
			running = false
		case <-statsTicker.C:
			utils.L().Info("── stats ─────────────────────────")
			sensorCtrl.LogStats()
			recordCtrl.LogStats()
			utils.L().Info("──────────────────────────────────")
		}
	}

	// Readers close their channels on ctx cancellation; Stop drains them.
	if err := recordCtrl.Stop(); err != nil {
		return err
	}

	m := recordCtrl.Manifest()
	if m.WriteErrors > 0 {
		return fmt.Errorf("%w: %d records not written to %s", controller.ErrWrite, m.WriteErrors, recordCtrl.SessionDir())
	}
	fmt.Printf("\n✓ dataset-logger finished. %d motion / %d stream records at: %s\n",
		m.MotionRecords, m.StreamRecords, recordCtrl.SessionDir())
	return nil
}
