// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package fingerprint defines FrameFingerprint (spec §3): an opaque
// fixed-width digest identifying the visible composition at one timeline
// frame. Two frames with identical fingerprints must produce identical
// pixels.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"sort"
)

// Size is the digest width in bytes.
const Size = sha256.Size

// Fingerprint is an opaque, fixed-width frame identity.
type Fingerprint [Size]byte

// Equal reports whether two fingerprints are byte-identical.
func (f Fingerprint) Equal(g Fingerprint) bool {
	return f == g
}

// Sequence is an ordered run of Fingerprint, indexed 0..N-1 for a
// timeline spanning N frames.
type Sequence []Fingerprint

// Accumulator is a per-frame running hash state. The Projector allocates
// one per timeline frame and streams every contributing item's canonical
// encoding into it, highest track last, before calling Finalize once.
type Accumulator struct {
	h hash.Hash
}

// NewAccumulator returns a fresh, empty running hash state.
func NewAccumulator() *Accumulator {
	return &Accumulator{h: sha256.New()}
}

// HashItem streams one item's contribution to a single timeline frame into
// the accumulator: the item's static identity tuple (media id/name, its
// properties sorted by key, and its declared source-start frame, which may
// be absent), followed by the per-frame source-media index computed for
// this particular frame (spec §4.1's per-frame source-index rule, which
// the Projector resolves before calling HashItem).
func (a *Accumulator) HashItem(mediaID string, properties map[string]string, sourceStartFrame *int64, currentSourceIndex int64) {
	writeString(a.h, mediaID)

	keys := make([]string, 0, len(properties))
	for k := range properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeString(a.h, k)
		writeString(a.h, properties[k])
	}

	if sourceStartFrame == nil {
		a.h.Write([]byte{0})
	} else {
		a.h.Write([]byte{1})
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(*sourceStartFrame))
		a.h.Write(b[:])
	}

	var idx [8]byte
	binary.LittleEndian.PutUint64(idx[:], uint64(currentSourceIndex))
	a.h.Write(idx[:])
}

// Finalize digests everything streamed in so far and returns the
// fingerprint. The accumulator must not be reused afterward.
func (a *Accumulator) Finalize() Fingerprint {
	var fp Fingerprint
	copy(fp[:], a.h.Sum(nil))
	return fp
}

func writeString(h hash.Hash, s string) {
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], uint64(len(s)))
	h.Write(n[:])
	h.Write([]byte(s))
}
