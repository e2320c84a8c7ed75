// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package timeline

import "github.com/mrjoshuak/spliceplan/internal/fingerprint"

// Project turns a timeline description into a per-frame fingerprint
// sequence (spec §4.1). One running hash accumulator is allocated per
// timeline frame; every video track is visited in ascending index, and
// every item on that track hashes its identity and per-frame source index
// into each frame it spans. Higher tracks layer onto lower ones by
// updating the same accumulator, never replacing it.
func Project(d Description) fingerprint.Sequence {
	n := d.Length()
	accs := make([]*fingerprint.Accumulator, n)
	for i := range accs {
		accs[i] = fingerprint.NewAccumulator()
	}

	for trackIdx := 0; trackIdx < len(d.Tracks); trackIdx++ {
		for _, item := range d.Tracks[trackIdx] {
			hashItem(accs, d.Start, item)
		}
	}

	seq := make(fingerprint.Sequence, n)
	for i, acc := range accs {
		seq[i] = acc.Finalize()
	}
	return seq
}

// hashItem walks one item's frame span and streams its contribution into
// the corresponding per-frame accumulators, applying the per-frame
// source-index rule (spec §4.1): absent source_start_frame is treated as
// 0 and does not advance; a source_start_frame of exactly 0 with a
// non-zero left trim is bumped to 1 before use, since the NLE conflates
// "first frame" and "one past first frame" as zero, distinguishable only
// by left-trim presence.
func hashItem(accs []*fingerprint.Accumulator, timelineStart int64, item Item) {
	properties := make(map[string]string, len(item.Properties))
	for _, p := range item.Properties {
		properties[p.Key] = p.Value
	}

	advances := item.SourceStart != nil
	var current int64
	if item.SourceStart != nil {
		current = *item.SourceStart
		if current == 0 && item.HasLeftTrim {
			current = 1
		}
	}

	for frame := item.Start; frame < item.End; frame++ {
		idx := frame - timelineStart
		if idx < 0 || idx >= int64(len(accs)) {
			continue
		}
		accs[idx].HashItem(item.MediaID, properties, item.SourceStart, current)
		if advances {
			current++
		}
	}
}
