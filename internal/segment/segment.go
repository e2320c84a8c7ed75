// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package segment defines the splice plan's Segment tagged union (spec §3,
// §9): a contiguous run of the target timeline that is either copied from
// the baseline render (Original) or must be re-encoded by the NLE
// (Target). The two variants share a header but their OriginalFrame field
// means different things in each — baseline-file frame for Original,
// target-timeline frame for Target — so callers MUST switch on Kind
// before touching coordinate-specific fields; there is no polymorphic
// dispatch here on purpose, per spec §9's warning against
// cross-coordinate arithmetic bugs.
package segment

import "github.com/mrjoshuak/spliceplan/internal/opentime"

// Kind tags which Segment variant a value holds.
type Kind int

const (
	// Original is a run copied byte-for-byte from the baseline file.
	Original Kind = iota
	// Target is a run that must be re-rendered by the NLE.
	Target
)

func (k Kind) String() string {
	if k == Target {
		return "target"
	}
	return "original"
}

// Segment is one contiguous run of the target timeline.
//
// For Kind == Original: OriginalFrame is the 0-indexed frame in the
// baseline file where this run begins; PositionDelta is the signed offset
// such that OriginalFrame+PositionDelta is the run's start in the target
// timeline; InKeyframe/OutKeyframe/OutKFDTSDelta are Keyframe Oracle
// results, valid only once Pass A has attached them.
//
// For Kind == Target: OriginalFrame is the target-timeline frame of the
// run's first frame; PositionDelta is always 0; the keyframe fields are
// unused (zero).
type Segment struct {
	Kind          Kind
	OriginalFrame int64
	Duration      int64

	PositionDelta int64

	InKeyframe    int64
	OutKeyframe   int64
	OutKFDTSDelta opentime.Rational
}

// NewOriginal constructs an unsnapped Original segment (before Pass A
// attaches keyframe metadata).
func NewOriginal(originalFrame, positionDelta, duration int64) Segment {
	return Segment{
		Kind:          Original,
		OriginalFrame: originalFrame,
		PositionDelta: positionDelta,
		Duration:      duration,
	}
}

// NewTarget constructs a Target segment at target-timeline frame
// targetFrame, stored in OriginalFrame (the field's Target-variant
// meaning).
func NewTarget(targetFrame, duration int64) Segment {
	return Segment{
		Kind:          Target,
		OriginalFrame: targetFrame,
		PositionDelta: 0,
		Duration:      duration,
	}
}

// IsOriginal and IsTarget are readability helpers over Kind.
func (s Segment) IsOriginal() bool { return s.Kind == Original }
func (s Segment) IsTarget() bool   { return s.Kind == Target }

// TargetFrame returns the run's first frame in target-timeline
// coordinates, regardless of variant — this is the one piece of
// coordinate arithmetic both variants need, so it is centralized here
// instead of repeated (and risking a sign error) at every call site.
func (s Segment) TargetFrame() int64 {
	if s.Kind == Target {
		return s.OriginalFrame
	}
	return s.OriginalFrame + s.PositionDelta
}

// End returns the run's target-timeline frame one past its last frame.
func (s Segment) End() int64 {
	return s.TargetFrame() + s.Duration
}

// SumDurations totals Duration over a segment list, the quantity the §3
// Σduration invariant requires to equal the target timeline length.
func SumDurations(segs []Segment) int64 {
	var total int64
	for _, s := range segs {
		total += s.Duration
	}
	return total
}
