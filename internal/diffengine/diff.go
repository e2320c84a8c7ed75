// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package diffengine computes the longest common subsequence of two frame
// fingerprint sequences and derives the segment list describing how to
// build the target out of baseline runs plus insertions (spec §4.2).
package diffengine

import (
	"github.com/mrjoshuak/spliceplan/internal/fingerprint"
	"github.com/mrjoshuak/spliceplan/internal/segment"
)

// Diff compares a baseline sequence s1 against a target sequence s2 and
// returns the Segment list that reconstructs s2 from runs of s1 plus
// Target insertions. Deletions (baseline frames absent from the target)
// emit no segment; they are simply skipped over by the surrounding match
// runs' boundaries.
//
// Boundary case: if either sequence is empty, the whole of s2 becomes a
// single TargetSegment (or, if s2 itself is empty, no segments at all).
func Diff(s1, s2 fingerprint.Sequence) []segment.Segment {
	m, n := len(s1), len(s2)
	if m == 0 || n == 0 {
		if n == 0 {
			return nil
		}
		return []segment.Segment{segment.NewTarget(0, int64(n))}
	}

	dp := suffixLCSTable(s1, s2)

	var out []segment.Segment
	matchStartI, matchStartJ := -1, -1
	insertStartJ := -1

	flushMatch := func(i, j int) {
		if matchStartI < 0 {
			return
		}
		out = append(out, segment.NewOriginal(
			int64(matchStartI),
			int64(matchStartJ-matchStartI),
			int64(i-matchStartI),
		))
		matchStartI, matchStartJ = -1, -1
	}
	flushInsert := func(j int) {
		if insertStartJ < 0 {
			return
		}
		out = append(out, segment.NewTarget(int64(insertStartJ), int64(j-insertStartJ)))
		insertStartJ = -1
	}

	i, j := 0, 0
	for i < m || j < n {
		if i < m && j < n && s1[i].Equal(s2[j]) {
			flushInsert(j)
			if matchStartI < 0 {
				matchStartI, matchStartJ = i, j
			}
			i++
			j++
			continue
		}
		flushMatch(i, j)

		switch {
		case j == n:
			// Only deletions remain; they emit nothing.
			i++
		case i == m:
			if insertStartJ < 0 {
				insertStartJ = j
			}
			j++
		case dp[i][j+1] >= dp[i+1][j]:
			// Tie-break: insertions before deletions at the same position.
			if insertStartJ < 0 {
				insertStartJ = j
			}
			j++
		default:
			i++
		}
	}
	flushMatch(i, j)
	flushInsert(j)

	return out
}

// suffixLCSTable computes dp[i][j] = length of the LCS of s1[i:] and
// s2[j:], the standard O(mn) table used both to find the LCS length and
// to drive the deterministic walk in Diff.
func suffixLCSTable(s1, s2 fingerprint.Sequence) [][]int {
	m, n := len(s1), len(s2)
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if s1[i].Equal(s2[j]) {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}
	return dp
}
