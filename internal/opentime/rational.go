// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package opentime provides exact rational-number arithmetic for frame
// counts, codec time-bases, and frame rates. Timestamps in NTSC-derived
// rates (30000/1001 and friends) lose precision under floating point;
// everything here is kept as an exact fraction until the final conversion
// to an integer microsecond count.
package opentime

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Rational is an exact fraction, normalised to lowest terms with a
// positive denominator.
type Rational struct {
	r big.Rat
}

// NewRational returns num/den reduced to lowest terms.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic("opentime: zero denominator")
	}
	var r Rational
	r.r.SetFrac64(num, den)
	return r
}

// NewRationalFromInt returns n/1.
func NewRationalFromInt(n int64) Rational {
	return NewRational(n, 1)
}

// Add returns a+b.
func (a Rational) Add(b Rational) Rational {
	var out Rational
	out.r.Add(&a.r, &b.r)
	return out
}

// Sub returns a-b.
func (a Rational) Sub(b Rational) Rational {
	var out Rational
	out.r.Sub(&a.r, &b.r)
	return out
}

// Mul returns a*b.
func (a Rational) Mul(b Rational) Rational {
	var out Rational
	out.r.Mul(&a.r, &b.r)
	return out
}

// Quo returns a/b. Panics if b is zero, matching big.Rat.Quo.
func (a Rational) Quo(b Rational) Rational {
	var out Rational
	out.r.Quo(&a.r, &b.r)
	return out
}

// Inv returns 1/a.
func (a Rational) Inv() Rational {
	var out Rational
	out.r.Inv(&a.r)
	return out
}

// Cmp returns -1, 0, or 1 as a<b, a==b, a>b.
func (a Rational) Cmp(b Rational) int {
	return a.r.Cmp(&b.r)
}

// Sign returns -1, 0, or 1 depending on the sign of a.
func (a Rational) Sign() int {
	return a.r.Sign()
}

// IsZero reports whether a is exactly zero.
func (a Rational) IsZero() bool {
	return a.r.Sign() == 0
}

// Floor returns the greatest integer <= a.
func (a Rational) Floor() int64 {
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(a.r.Num(), a.r.Denom(), m)
	return q.Int64()
}

// Num and Denom expose the reduced numerator/denominator, mainly for
// logging and test assertions.
func (a Rational) Num() int64   { return a.r.Num().Int64() }
func (a Rational) Denom() int64 { return a.r.Denom().Int64() }

// Float64 returns an inexact float64 approximation, for logging and for
// the probe's seek-interval text — never for a value that feeds back into
// a cut-point computation.
func (a Rational) Float64() float64 {
	f, _ := a.r.Float64()
	return f
}

func (a Rational) String() string {
	return fmt.Sprintf("%d/%d", a.Num(), a.Denom())
}

// FrameFromTimecodeNDF parses a non-drop-frame "HH:MM:SS:FF" (or
// "HH:MM:SS;FF") timecode into a frame count at the given nominal integer
// frame rate. This is used only by the offline EDL timeline source, never
// by the precision-critical splice arithmetic, so a nominal (rounded)
// frame rate is an acceptable approximation — exactly how non-drop
// timecode already treats 29.97 as 30.
func FrameFromTimecodeNDF(tc string, nominalFPS int) (int64, error) {
	parts := strings.FieldsFunc(tc, func(r rune) bool { return r == ':' || r == ';' })
	if len(parts) != 4 {
		return 0, fmt.Errorf("opentime: malformed timecode %q", tc)
	}
	var hh, mm, ss, ff int64
	for i, dst := range []*int64{&hh, &mm, &ss, &ff} {
		v, err := strconv.ParseInt(parts[i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("opentime: malformed timecode %q: %w", tc, err)
		}
		*dst = v
	}
	fps := int64(nominalFPS)
	return ((hh*60+mm)*60+ss)*fps + ff, nil
}

// FrameToTimecodeNDF formats a frame count as a non-drop-frame
// "HH:MM:SS:FF" timecode at the given nominal integer frame rate.
func FrameToTimecodeNDF(frame int64, nominalFPS int) string {
	if frame < 0 {
		frame = 0
	}
	fps := int64(nominalFPS)
	ff := frame % fps
	totalSec := frame / fps
	ss := totalSec % 60
	totalMin := totalSec / 60
	mm := totalMin % 60
	hh := totalMin / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hh, mm, ss, ff)
}

// ParseRational parses a media-probe-style rational string: "num/den" or
// a bare integer "num" (meaning num/1). This is how time_base and
// avg_frame_rate arrive in the probe JSON contract.
func ParseRational(s string) (Rational, error) {
	parts := strings.SplitN(s, "/", 2)
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("opentime: invalid rational %q: %w", s, err)
	}
	if len(parts) == 1 {
		return NewRationalFromInt(num), nil
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return Rational{}, fmt.Errorf("opentime: invalid rational %q: %w", s, err)
	}
	if den == 0 {
		return Rational{}, fmt.Errorf("opentime: invalid rational %q: zero denominator", s)
	}
	return NewRational(num, den), nil
}

// FrameRate is a rational frames-per-second value, e.g. 30000/1001 for
// NTSC 29.97.
type FrameRate = Rational

// NewFrameRate constructs a FrameRate from an exact numerator/denominator,
// as carried in a media-probe's avg_frame_rate field (e.g. "30000/1001").
func NewFrameRate(num, den int64) FrameRate {
	return NewRational(num, den)
}

// TicksPerFrame returns the number of time-base ticks that elapse per
// video frame, given the stream's time_base (seconds per tick) and the
// frame rate. This MUST be computed exactly: (1/framerate) / time_base.
func TicksPerFrame(timeBase, frameRate FrameRate) Rational {
	return frameRate.Inv().Quo(timeBase)
}

// FrameToMicroseconds converts a frame count to microseconds at the given
// frame rate, truncating (never rounding) so that summed durations stay
// additive, per spec: floor(frame * 1_000_000 / framerate).
func FrameToMicroseconds(frame int64, rate FrameRate) int64 {
	return RationalFrameToMicroseconds(NewRationalFromInt(frame), rate)
}

// RationalFrameToMicroseconds is FrameToMicroseconds generalised to a
// fractional frame count, needed for the outpoint rule: an
// OriginalSegment's outpoint is (original_frame + duration +
// out_kf_dts_delta), and out_kf_dts_delta is itself an exact fraction of
// a frame.
func RationalFrameToMicroseconds(frames Rational, rate FrameRate) int64 {
	return frames.Mul(NewRationalFromInt(1_000_000)).Mul(rate.Inv()).Floor()
}
