// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package timeline

import "testing"

func TestProjectLength(t *testing.T) {
	d := Description{
		Start:           10,
		End:             15,
		VideoTrackCount: 1,
		Tracks: [][]Item{
			{{MediaID: "clipA", Start: 10, End: 15}},
		},
	}
	seq := Project(d)
	if len(seq) != 5 {
		t.Fatalf("expected 5 frames, got %d", len(seq))
	}
}

func TestProjectHigherTrackChangesFingerprint(t *testing.T) {
	base := Description{
		Start: 0, End: 3, VideoTrackCount: 1,
		Tracks: [][]Item{{{MediaID: "clipA", Start: 0, End: 3}}},
	}
	layered := Description{
		Start: 0, End: 3, VideoTrackCount: 2,
		Tracks: [][]Item{
			{{MediaID: "clipA", Start: 0, End: 3}},
			{{MediaID: "clipB", Start: 1, End: 2}},
		},
	}

	baseSeq := Project(base)
	layeredSeq := Project(layered)

	if baseSeq[0].Equal(layeredSeq[0]) != true {
		t.Errorf("frame 0 should be unaffected by the higher track's item")
	}
	if baseSeq[1].Equal(layeredSeq[1]) {
		t.Errorf("frame 1 should change once a higher track layers onto it")
	}
	if baseSeq[2].Equal(layeredSeq[2]) != true {
		t.Errorf("frame 2 should be unaffected by the higher track's item")
	}
}

func TestProjectSourceIndexAdvancesPerFrame(t *testing.T) {
	src := int64(0)
	d := Description{
		Start: 0, End: 3, VideoTrackCount: 1,
		Tracks: [][]Item{{{MediaID: "clipA", Start: 0, End: 3, SourceStart: &src, HasLeftTrim: true}}},
	}
	seq := Project(d)
	if seq[0].Equal(seq[1]) || seq[1].Equal(seq[2]) || seq[0].Equal(seq[2]) {
		t.Errorf("consecutive frames of an advancing item must have distinct fingerprints")
	}
}

func TestProjectTransitionDoesNotAdvance(t *testing.T) {
	d := Description{
		Start: 0, End: 2, VideoTrackCount: 1,
		Tracks: [][]Item{{{MediaID: "transition", Start: 0, End: 2, SourceStart: nil}}},
	}
	seq := Project(d)
	if !seq[0].Equal(seq[1]) {
		t.Errorf("a non-advancing item (absent source start) must repeat its fingerprint across frames")
	}
}
