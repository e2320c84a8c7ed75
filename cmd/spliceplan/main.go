// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Command spliceplan is the splice planner CLI: it reads a baseline and a
// target timeline description, diffs them, snaps the kept runs to baseline
// keyframes, schedules glue re-renders for everything that can't be
// stream-copied, and writes the resulting concat-muxer script.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/mrjoshuak/spliceplan/internal/diffengine"
	"github.com/mrjoshuak/spliceplan/internal/edlsource"
	"github.com/mrjoshuak/spliceplan/internal/keyframe"
	"github.com/mrjoshuak/spliceplan/internal/nle"
	"github.com/mrjoshuak/spliceplan/internal/opentime"
	"github.com/mrjoshuak/spliceplan/internal/planner"
	"github.com/mrjoshuak/spliceplan/internal/probe"
	"github.com/mrjoshuak/spliceplan/internal/segment"
	"github.com/mrjoshuak/spliceplan/internal/splerr"
	"github.com/mrjoshuak/spliceplan/internal/splice"
	"github.com/mrjoshuak/spliceplan/internal/timeline"
)

type flags struct {
	timelineName string
	renderPath   string
	outputPath   string
	renderPreset string

	debugLogs       bool
	debugUniqueName bool
	debugReport     bool

	// Offline NLE stand-in: the live NLE projection/scheduler interfaces
	// (internal/nle) are an external collaborator's responsibility per
	// the core contract. These two flags let the planner run against a
	// pair of CMX3600 EDLs instead of a live editor session, via
	// internal/edlsource.
	baselineEDL string
	targetEDL   string

	probeBinary string
	tempDir     string
	nominalFPS  int
	frameRateN  int64
	frameRateD  int64
}

func parseFlags(args []string) (*flags, error) {
	fs := pflag.NewFlagSet("spliceplan", pflag.ContinueOnError)
	f := &flags{}
	fs.StringVarP(&f.timelineName, "t", "t", "", "baseline timeline name")
	fs.StringVarP(&f.renderPath, "f", "f", "", "baseline render path")
	fs.StringVarP(&f.outputPath, "o", "o", "", "output concat script path")
	fs.StringVar(&f.renderPreset, "renderpreset", "", "NLE render preset name")
	fs.BoolVar(&f.debugLogs, "debuglogs", false, "enable debug-level logging")
	fs.BoolVar(&f.debugUniqueName, "debuguniquename", false, "date-stamp the output filename")
	fs.BoolVar(&f.debugReport, "debugreport", false, "emit a per-segment debug report alongside the script")
	fs.StringVar(&f.baselineEDL, "baselineedl", "", "offline baseline timeline EDL (replaces a live NLE session)")
	fs.StringVar(&f.targetEDL, "targetedl", "", "offline target timeline EDL (replaces a live NLE session)")
	fs.StringVar(&f.probeBinary, "probebinary", "ffprobe", "media-probe binary name or path")
	fs.StringVar(&f.tempDir, "tempdir", "", "scratch directory for glue renders and the output script")
	fs.IntVar(&f.nominalFPS, "nominalfps", 30, "nominal integer frame rate for EDL timecode arithmetic")
	fs.Int64Var(&f.frameRateN, "fps-num", 30000, "baseline frame rate numerator")
	fs.Int64Var(&f.frameRateD, "fps-den", 1001, "baseline frame rate denominator")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	f, err := parseFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	logger, err := newLogger(f.debugLogs)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer logger.Sync() //nolint:errcheck

	if err := execute(context.Background(), f, logger); err != nil {
		logger.Error("splice plan failed", zap.Error(err))
		return exitCodeFor(err)
	}
	return 0
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.Development = true
	}
	return cfg.Build()
}

func exitCodeFor(err error) int {
	switch err.(type) {
	case *splerr.InputMismatch:
		return 10
	case *splerr.NoTemplateRender:
		return 11
	case *splerr.ProbeFailed:
		return 12
	case *splerr.KeyframeNotFound:
		return 13
	case *splerr.PlanInconsistent:
		return 14
	case *splerr.RenderFailed:
		return 15
	case *splerr.MuxFailed:
		return 16
	default:
		return 1
	}
}

func execute(ctx context.Context, f *flags, logger *zap.Logger) error {
	if f.renderPath == "" {
		return &splerr.NoTemplateRender{Path: f.renderPath}
	}
	if f.baselineEDL == "" || f.targetEDL == "" {
		return fmt.Errorf("spliceplan: -baselineedl and -targetedl are required until a live NLE backend is wired")
	}

	rate := opentime.NewFrameRate(f.frameRateN, f.frameRateD)

	baselineDesc, err := describeOfflineTimeline(f.baselineEDL, f.nominalFPS)
	if err != nil {
		return err
	}
	targetDesc, err := describeOfflineTimeline(f.targetEDL, f.nominalFPS)
	if err != nil {
		return err
	}
	if baselineDesc.Start != targetDesc.Start {
		return &splerr.InputMismatch{Field: "start_frame", Baseline: fmt.Sprint(baselineDesc.Start), Target: fmt.Sprint(targetDesc.Start)}
	}

	baselineSeq := timeline.Project(baselineDesc)
	targetSeq := timeline.Project(targetDesc)

	rawSegments := diffengine.Diff(baselineSeq, targetSeq)
	logger.Debug("diffed timelines",
		zap.Int("baseline_frames", len(baselineSeq)),
		zap.Int("target_frames", len(targetSeq)),
		zap.Int("raw_segments", len(rawSegments)))

	tempDir := f.tempDir
	if tempDir == "" {
		var err error
		tempDir, err = os.MkdirTemp("", "spliceplan-*")
		if err != nil {
			return fmt.Errorf("spliceplan: create temp dir: %w", err)
		}
	}

	probeClient := probe.NewClient(f.probeBinary, logger)
	oracle := keyframe.New(probeClient, f.renderPath, rate, logger)

	segs, err := planner.Plan(ctx, rawSegments, oracle, baselineDesc.Length(), targetDesc.Length())
	if err != nil {
		return err
	}

	scheduler := &offlineScheduler{logger: logger}
	ext := filepath.Ext(f.renderPath)
	if ext != "" {
		ext = ext[1:]
	} else {
		ext = "mov"
	}

	var report *debugReport
	if f.debugReport {
		report = newDebugReport()
	}

	if err := scheduleGlueRenders(ctx, segs, scheduler, f, tempDir, ext, logger); err != nil {
		return err
	}

	outputPath := f.outputPath
	if f.debugUniqueName {
		outputPath = dateStampedPath(outputPath)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return &splerr.MuxFailed{Step: "create output", Err: err}
	}
	defer out.Close()

	emitter := splice.Emitter{
		BaselinePath: f.renderPath,
		TempDir:      tempDir,
		GlueExt:      ext,
		Rate:         rate,
	}
	if report != nil {
		emitter.Report = report
	}
	if _, err := emitter.Emit(out, segs); err != nil {
		return &splerr.MuxFailed{Step: "emit concat script", Err: err}
	}

	if report != nil {
		if err := report.writeTo(outputPath + ".debugreport.txt"); err != nil {
			logger.Warn("failed to write debug report", zap.Error(err))
		}
	}

	logger.Info("splice plan complete",
		zap.String("output", outputPath),
		zap.Int("segments", len(segs)),
		zap.String("render_preset", f.renderPreset))
	return nil
}

func describeOfflineTimeline(edlPath string, nominalFPS int) (timeline.Description, error) {
	file, err := os.Open(edlPath)
	if err != nil {
		return timeline.Description{}, &splerr.NoTemplateRender{Path: edlPath}
	}
	defer file.Close()

	dec := edlsource.NewDecoder(file, nominalFPS)
	items, err := dec.Decode()
	if err != nil {
		return timeline.Description{}, fmt.Errorf("spliceplan: decode %s: %w", edlPath, err)
	}

	var end int64
	for _, it := range items {
		if it.End > end {
			end = it.End
		}
	}
	return timeline.Description{
		Start:           0,
		End:             end,
		VideoTrackCount: 1,
		Tracks:          [][]timeline.Item{items},
	}, nil
}

func scheduleGlueRenders(ctx context.Context, segs []segment.Segment, scheduler nle.Scheduler, f *flags, tempDir, ext string, logger *zap.Logger) error {
	glueIdx := 0
	for _, s := range segs {
		if !s.IsTarget() {
			continue
		}
		name := splice.GlueName(glueIdx, ext)
		job := nle.RenderJob{
			MarkIn:       s.TargetFrame(),
			MarkOut:      s.TargetFrame() + s.Duration,
			ExportVideo:  true,
			ExportAudio:  false,
			TargetDir:    tempDir,
			CustomName:   name,
			RenderPreset: f.renderPreset,
		}
		if _, err := nle.AwaitRender(ctx, scheduler, job, logger); err != nil {
			return err
		}
		glueIdx++
	}
	return nil
}

func dateStampedPath(path string) string {
	ext := filepath.Ext(path)
	base := path[:len(path)-len(ext)]
	return fmt.Sprintf("%s.%s%s", base, time.Now().Format("20060102-150405"), ext)
}

// offlineScheduler is a stand-in Scheduler for offline/-debuglogs runs: it
// reports every render complete immediately instead of driving a live NLE.
// A production deployment supplies its own nle.Scheduler backed by the
// editor's actual render-job API.
type offlineScheduler struct {
	logger *zap.Logger
}

func (s *offlineScheduler) ScheduleRender(ctx context.Context, job nle.RenderJob) (string, error) {
	id := uuid.NewString()
	s.logger.Debug("offline scheduler accepted render job",
		zap.String("job_id", id),
		zap.Int64("mark_in", job.MarkIn),
		zap.Int64("mark_out", job.MarkOut))
	return id, nil
}

func (s *offlineScheduler) PollStatus(ctx context.Context, jobID string) (nle.JobStatus, error) {
	return nle.StatusComplete, nil
}

// debugReport accumulates the -debugreport trace.
type debugReport struct {
	lines []string
}

func newDebugReport() *debugReport {
	return &debugReport{}
}

func (r *debugReport) Segment(index int, kind segment.Kind, targetFrame, duration int64, note string) {
	r.lines = append(r.lines, fmt.Sprintf("%d\t%s\tframe=%d\tduration=%d\t%s", index, kind, targetFrame, duration, note))
}

func (r *debugReport) writeTo(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, line := range r.lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return err
		}
	}
	return nil
}
