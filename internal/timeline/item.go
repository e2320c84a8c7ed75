// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package timeline models the NLE's projection interface input (spec §3,
// §6): the per-track item list describing a baseline or target timeline,
// and the Timeline Projector (§4.1) that turns it into a per-frame
// fingerprint sequence.
package timeline

// Property is one entry of an item's opaque, ordered property map. Order
// as received from the NLE is not significant to the projection (the
// Projector sorts by Key before encoding), but is preserved here so callers
// can round-trip what the NLE reported.
type Property struct {
	Key   string
	Value string
}

// Item is one item on one video track of a timeline, per spec §3's
// TimelineItem.
type Item struct {
	// MediaID is the clip name or, preferably, a stable media-pool id.
	MediaID string
	// Start and End are timeline-locked frame numbers; End is exclusive.
	Start int64
	End   int64
	// SourceStart is the item's first source-media frame. Absent for
	// transitions and compositions that have no single source.
	SourceStart *int64
	// HasLeftTrim reports whether a non-zero left trim was applied,
	// needed to disambiguate a SourceStart of 0 from "no left trim, so
	// the NLE reports frame 0" (see Projector's per-frame source-index
	// rule).
	HasLeftTrim bool
	// Properties is the item's opaque property map.
	Properties []Property
}

// Description is a frame-accurate description of one timeline (spec §3,
// §6): its frame span, video track count, and the items on each video
// track.
type Description struct {
	Start           int64
	End             int64
	VideoTrackCount int
	// Tracks holds one item slice per video track, index 0 being the
	// lowest (bottom-most) track. Items within a track are assumed
	// non-overlapping and ascending by Start; that invariant is the
	// NLE's responsibility, not the Projector's.
	Tracks [][]Item
}

// Length returns the number of timeline frames this description spans.
func (d Description) Length() int64 {
	return d.End - d.Start
}
