// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edlsource

import (
	"strings"
	"testing"
)

func TestDecoderSimpleEDL(t *testing.T) {
	edl := `TITLE: Test Timeline
FCM: NON-DROP FRAME

001  AX       V     C
     00:00:00:00 00:00:05:00 00:00:00:00 00:00:05:00
* FROM CLIP NAME: Shot1

002  AX       V     C
     00:00:10:00 00:00:15:00 00:00:05:00 00:00:10:00
* FROM CLIP NAME: Shot2
`

	d := NewDecoder(strings.NewReader(edl), 24)
	items, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Start != 0 || first.End != 120 {
		t.Errorf("item 0 span = [%d,%d), want [0,120)", first.Start, first.End)
	}
	if first.SourceStart == nil || *first.SourceStart != 0 {
		t.Errorf("item 0 source start = %v, want 0", first.SourceStart)
	}

	second := items[1]
	if second.Start != 120 || second.End != 240 {
		t.Errorf("item 1 span = [%d,%d), want [120,240)", second.Start, second.End)
	}
	if second.SourceStart == nil || *second.SourceStart != 240 {
		t.Errorf("item 1 source start = %v, want 240", second.SourceStart)
	}

	foundClipName := false
	for _, p := range first.Properties {
		if p.Key == "clip_name" && p.Value == "Shot1" {
			foundClipName = true
		}
	}
	if !foundClipName {
		t.Errorf("item 0 missing clip_name property, got %+v", first.Properties)
	}
}

func TestDecoderSkipsAudioTracks(t *testing.T) {
	edl := `TITLE: Test
FCM: NON-DROP FRAME

001  AX       V     C
     00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00

002  AX       A     C
     00:00:00:00 00:00:01:00 00:00:00:00 00:00:01:00
`
	d := NewDecoder(strings.NewReader(edl), 24)
	items, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 video item, got %d", len(items))
	}
}

func TestSanitizeReelName(t *testing.T) {
	cases := []struct {
		in, want string
		max      int
	}{
		{"Shot 01!", "Shot_01_", 0},
		{"averylongname", "averylo", 7},
		{"", "AX", 0},
	}
	for _, c := range cases {
		got := SanitizeReelName(c.in, c.max)
		if got != c.want {
			t.Errorf("SanitizeReelName(%q, %d) = %q, want %q", c.in, c.max, got, c.want)
		}
	}
}
