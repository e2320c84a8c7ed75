// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package edlsource adapts a CMX 3600 EDL into a Timeline Projector input
// (spec §4.1, §6) for use when no live NLE session is available — offline
// tests and -debuglogs reruns. It is not a general-purpose EDL codec: it
// keeps only what the Projector's TimelineItem needs (record range,
// source-in, clip identity, a handful of comment-borne properties) and
// drops timeline concepts the splice planner's domain has no use for
// (transitions, wipes, wholesale color-decision modelling).
package edlsource

import (
	"fmt"
	"strings"
)

// EditType is the edit type of an EDL event.
type EditType string

const (
	EditTypeCut      EditType = "C"
	EditTypeDissolve EditType = "D"
	EditTypeWipe     EditType = "W"
)

// TrackType is the track an EDL event targets.
type TrackType string

const (
	TrackTypeVideo  TrackType = "V"
	TrackTypeAudio  TrackType = "A"
	TrackTypeAudio1 TrackType = "A1"
	TrackTypeAudio2 TrackType = "A2"
)

// IsVideoTrack reports whether t is the video track type.
func (t TrackType) IsVideoTrack() bool { return t == TrackTypeVideo }

// Event is a single parsed edit event.
type Event struct {
	EventNumber        int
	ReelName           string
	TrackType          TrackType
	EditType           EditType
	TransitionDuration int
	SourceIn           string
	SourceOut          string
	RecordIn           string
	RecordOut          string
	ClipName           string
	FilePath           string
	FreezeFrame        bool
	Comment            string
	ColorDecision      string // raw ASC_SOP/ASC_SAT text, carried through as a property
	Locators           []string
}

// DefaultReelNameLength is the default maximum length for reel names.
const DefaultReelNameLength = 8

// SanitizeReelName ensures a reel name conforms to EDL requirements:
// alphanumeric, within maxLength (0 or negative means unlimited).
func SanitizeReelName(name string, maxLength int) string {
	name = strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, name)
	if maxLength > 0 && len(name) > maxLength {
		name = name[:maxLength]
	}
	if name == "" {
		name = "AX"
	}
	return name
}

// ParseError reports a malformed line of EDL input.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}
