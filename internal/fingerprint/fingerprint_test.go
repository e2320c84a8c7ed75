// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package fingerprint

import "testing"

func TestHashItemDeterministic(t *testing.T) {
	src := int64(5)
	props := map[string]string{"b": "2", "a": "1"}

	a1 := NewAccumulator()
	a1.HashItem("clipA", props, &src, 5)
	fp1 := a1.Finalize()

	a2 := NewAccumulator()
	a2.HashItem("clipA", props, &src, 5)
	fp2 := a2.Finalize()

	if !fp1.Equal(fp2) {
		t.Errorf("identical inputs produced different fingerprints")
	}
}

func TestHashItemDistinguishesSourceIndex(t *testing.T) {
	src := int64(5)

	a1 := NewAccumulator()
	a1.HashItem("clipA", nil, &src, 5)
	fp1 := a1.Finalize()

	a2 := NewAccumulator()
	a2.HashItem("clipA", nil, &src, 6)
	fp2 := a2.Finalize()

	if fp1.Equal(fp2) {
		t.Errorf("different source indices produced the same fingerprint")
	}
}

func TestHashItemNilVsZeroSourceStart(t *testing.T) {
	zero := int64(0)

	a1 := NewAccumulator()
	a1.HashItem("clipA", nil, nil, 0)
	fpNil := a1.Finalize()

	a2 := NewAccumulator()
	a2.HashItem("clipA", nil, &zero, 0)
	fpZero := a2.Finalize()

	if fpNil.Equal(fpZero) {
		t.Errorf("absent and explicit-zero source start must hash differently")
	}
}

func TestHashItemPropertyOrderIndependent(t *testing.T) {
	a1 := NewAccumulator()
	a1.HashItem("clipA", map[string]string{"a": "1", "b": "2"}, nil, 0)
	fp1 := a1.Finalize()

	a2 := NewAccumulator()
	a2.HashItem("clipA", map[string]string{"b": "2", "a": "1"}, nil, 0)
	fp2 := a2.Finalize()

	if !fp1.Equal(fp2) {
		t.Errorf("property map key order must not affect the fingerprint")
	}
}
