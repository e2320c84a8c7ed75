// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edlsource

import (
	"fmt"
	"io"

	"github.com/mrjoshuak/spliceplan/internal/opentime"
	"github.com/mrjoshuak/spliceplan/internal/timeline"
)

// Encoder writes a Description's video track back out as a CMX 3600 EDL,
// for round-tripping offline test fixtures. It
// keeps the teacher encoder's one-event-per-clip, blank-line-separated
// layout but drops the gap/transition/multi-track handling an NLE-sourced
// Description never produces (Items abut with no gaps once the Planner
// has run, and EDL-sourced input never carries OTIO transitions).
type Encoder struct {
	w           io.Writer
	nominalFPS  int
	reelNameLen int
}

// NewEncoder creates an encoder writing to w at the given nominal frame
// rate (see FrameToTimecodeNDF).
func NewEncoder(w io.Writer, nominalFPS int) *Encoder {
	return &Encoder{w: w, nominalFPS: nominalFPS, reelNameLen: DefaultReelNameLength}
}

// SetReelNameLength overrides DefaultReelNameLength.
func (e *Encoder) SetReelNameLength(length int) {
	e.reelNameLen = length
}

// Encode writes d's first video track as a sequence of cut events.
func (e *Encoder) Encode(d timeline.Description) error {
	if d.VideoTrackCount == 0 {
		return fmt.Errorf("edlsource: description has no video track")
	}

	if _, err := fmt.Fprintf(e.w, "TITLE: Timeline\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "FCM: NON-DROP FRAME\n\n"); err != nil {
		return err
	}

	eventNum := 1
	for _, item := range d.Tracks[0] {
		if err := e.writeEvent(eventNum, item); err != nil {
			return err
		}
		eventNum++
	}
	return nil
}

func (e *Encoder) writeEvent(eventNum int, item timeline.Item) error {
	reelName := SanitizeReelName(item.MediaID, e.reelNameLen)

	sourceIn := int64(0)
	if item.SourceStart != nil {
		sourceIn = *item.SourceStart
	}
	duration := item.End - item.Start

	if _, err := fmt.Fprintf(e.w, "%03d  %-8s V    C\n", eventNum, reelName); err != nil {
		return err
	}

	_, err := fmt.Fprintf(e.w, "     %s %s %s %s\n",
		opentime.FrameToTimecodeNDF(sourceIn, e.nominalFPS),
		opentime.FrameToTimecodeNDF(sourceIn+duration, e.nominalFPS),
		opentime.FrameToTimecodeNDF(item.Start, e.nominalFPS),
		opentime.FrameToTimecodeNDF(item.End, e.nominalFPS),
	)
	if err != nil {
		return err
	}

	for _, p := range item.Properties {
		if p.Key == "clip_name" {
			if _, err := fmt.Fprintf(e.w, "* FROM CLIP NAME: %s\n", p.Value); err != nil {
				return err
			}
		}
	}

	_, err = fmt.Fprintf(e.w, "\n")
	return err
}
