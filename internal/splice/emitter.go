// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package splice writes the final segment list out as a concat-muxer
// script (spec §4.5, §6): one `file`/`inpoint`/`outpoint`/`duration` block
// per OriginalSegment, one `file`/`duration` block per TargetSegment,
// naming glue renders by position in the list. The shape of this walk
// mirrors the teacher package's EDL event writer — iterate the ordered
// run list once, format one block per entry — generalised from EDL event
// lines to concat-demuxer lines.
package splice

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/mrjoshuak/spliceplan/internal/opentime"
	"github.com/mrjoshuak/spliceplan/internal/segment"
)

// GlueName returns the filename (not path) of the k-th glue render, per
// spec §6's naming convention.
func GlueName(k int, ext string) string {
	return fmt.Sprintf("glue%d.%s", k, ext)
}

// Report receives one line of commentary per emitted segment, when
// non-nil. It exists for the -debugreport CLI flag: a human-readable
// trace giving, for each block of the script, the segment's index, kind,
// target frame and duration, and whether it is stream-copied or which
// glue file it names. It does not record which planner pass produced a
// segment. This module does not run the muxer, so no report option is
// passed to one.
type Report interface {
	Segment(index int, kind segment.Kind, targetFrame, duration int64, note string)
}

// Emitter writes the concat-muxer script for a finished segment list.
type Emitter struct {
	BaselinePath string
	TempDir      string
	GlueExt      string
	Rate         opentime.FrameRate
	Report       Report
}

// Emit writes one block per segment to w, in order, and returns the glue
// file paths it referenced (in emission order) so the caller can schedule
// their renders.
func (e Emitter) Emit(w io.Writer, segs []segment.Segment) ([]string, error) {
	var gluePaths []string
	glueIdx := 0

	for i, s := range segs {
		switch s.Kind {
		case segment.Original:
			if err := e.writeOriginal(w, s); err != nil {
				return nil, err
			}
			if e.Report != nil {
				e.Report.Segment(i, s.Kind, s.TargetFrame(), s.Duration, "stream-copied from baseline")
			}
		case segment.Target:
			name := GlueName(glueIdx, e.GlueExt)
			path := filepath.Join(e.TempDir, name)
			if err := e.writeTarget(w, path, s.Duration); err != nil {
				return nil, err
			}
			gluePaths = append(gluePaths, path)
			if e.Report != nil {
				e.Report.Segment(i, s.Kind, s.TargetFrame(), s.Duration, "re-rendered glue "+name)
			}
			glueIdx++
		}
	}
	return gluePaths, nil
}

func (e Emitter) writeOriginal(w io.Writer, s segment.Segment) error {
	inpointUS := opentime.FrameToMicroseconds(s.OriginalFrame, e.Rate)

	outFrames := opentime.NewRationalFromInt(s.OriginalFrame + s.Duration).Add(s.OutKFDTSDelta)
	outpointUS := opentime.RationalFrameToMicroseconds(outFrames, e.Rate)

	durationUS := opentime.FrameToMicroseconds(s.Duration, e.Rate)

	_, err := fmt.Fprintf(w, "file '%s'\ninpoint %dus\noutpoint %dus\nduration %dus\n",
		e.BaselinePath, inpointUS, outpointUS, durationUS)
	return err
}

func (e Emitter) writeTarget(w io.Writer, gluePath string, duration int64) error {
	durationUS := opentime.FrameToMicroseconds(duration, e.Rate)
	_, err := fmt.Fprintf(w, "file '%s'\nduration %dus\n", gluePath, durationUS)
	return err
}
