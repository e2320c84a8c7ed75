// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package nle models the two halves of the NLE projection interface
// (spec §6) the planner consumes: a read-only Projector for walking
// timelines and their items, and a Scheduler for requesting glue
// re-renders and polling them to completion. Both are narrow ports so
// unit tests can supply in-memory fakes instead of driving a live editor.
package nle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mrjoshuak/spliceplan/internal/opentime"
	"github.com/mrjoshuak/spliceplan/internal/splerr"
	"github.com/mrjoshuak/spliceplan/internal/timeline"
)

// Projector enumerates timelines and reads their per-track item lists.
type Projector interface {
	TimelineCount(ctx context.Context) (int, error)
	TimelineByName(ctx context.Context, name string) (int, error)
	TimelineFrameRange(ctx context.Context, idx int) (start, end int64, err error)
	TimelineVideoTrackCount(ctx context.Context, idx int) (int, error)
	TimelineFrameRate(ctx context.Context, idx int) (opentime.FrameRate, error)
	TimelineTrackItems(ctx context.Context, idx int, track int) ([]timeline.Item, error)
}

// Describe pulls a full Description (spec §3) for one timeline out of a
// Projector, one video track at a time, ascending.
func Describe(ctx context.Context, p Projector, timelineIdx int) (timeline.Description, error) {
	start, end, err := p.TimelineFrameRange(ctx, timelineIdx)
	if err != nil {
		return timeline.Description{}, err
	}
	trackCount, err := p.TimelineVideoTrackCount(ctx, timelineIdx)
	if err != nil {
		return timeline.Description{}, err
	}

	tracks := make([][]timeline.Item, trackCount)
	for t := 0; t < trackCount; t++ {
		items, err := p.TimelineTrackItems(ctx, timelineIdx, t)
		if err != nil {
			return timeline.Description{}, err
		}
		tracks[t] = items
	}

	return timeline.Description{
		Start:           start,
		End:             end,
		VideoTrackCount: trackCount,
		Tracks:          tracks,
	}, nil
}

// JobStatus is a render job's terminal or in-flight status, as read back
// from the NLE.
type JobStatus string

const (
	StatusRunning  JobStatus = "running"
	StatusComplete JobStatus = "complete"
	StatusFailed   JobStatus = "failed"
)

func (s JobStatus) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// RenderJob describes one glue re-render request (spec §6).
type RenderJob struct {
	MarkIn, MarkOut int64
	ExportVideo     bool
	ExportAudio     bool
	TargetDir       string
	CustomName      string
	RenderPreset    string
}

// Scheduler schedules render jobs and reports their status.
type Scheduler interface {
	ScheduleRender(ctx context.Context, job RenderJob) (jobID string, err error)
	PollStatus(ctx context.Context, jobID string) (JobStatus, error)
}

// PollInterval is the bounded sleep between status polls (spec §5: "~1s").
const PollInterval = time.Second

// AwaitRender schedules job and blocks, polling at PollInterval, until it
// reaches a terminal status. Any terminal status other than complete is
// fatal: the planner never retries a failed render.
func AwaitRender(ctx context.Context, s Scheduler, job RenderJob, log *zap.Logger) (jobID string, err error) {
	if log == nil {
		log = zap.NewNop()
	}

	jobID, err = s.ScheduleRender(ctx, job)
	if err != nil {
		return "", fmt.Errorf("schedule render: %w", err)
	}
	log.Debug("scheduled glue render", zap.String("job_id", jobID), zap.String("custom_name", job.CustomName))

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return jobID, ctx.Err()
		case <-ticker.C:
			status, err := s.PollStatus(ctx, jobID)
			if err != nil {
				return jobID, err
			}
			if !status.Terminal() {
				continue
			}
			if status != StatusComplete {
				return jobID, &splerr.RenderFailed{JobID: jobID, Status: string(status)}
			}
			log.Debug("glue render complete", zap.String("job_id", jobID))
			return jobID, nil
		}
	}
}
