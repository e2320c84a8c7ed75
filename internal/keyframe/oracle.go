// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package keyframe implements the Keyframe Oracle (spec §4.3): it turns a
// set of baseline-file frame positions into, for each, the nearest
// enclosing keyframe in both directions plus the DTS-vs-PTS skew at the
// answering packet.
package keyframe

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/mrjoshuak/spliceplan/internal/opentime"
	"github.com/mrjoshuak/spliceplan/internal/probe"
	"github.com/mrjoshuak/spliceplan/internal/splerr"
)

// Answer is the Oracle's response to one query in one direction: the
// baseline frame number of the answering keyframe, and the DTS-PTS skew
// in frames at that keyframe (non-positive: decode precedes presentation
// for B-frame-carrying codecs).
type Answer struct {
	Keyframe int64
	DTSDelta opentime.Rational
}

// PositionAnswer holds both directions' answers for one queried position,
// per spec §4.3's contract ("answer for each position two questions").
type PositionAnswer struct {
	Next Answer // first keyframe >= position
	Prev Answer // last keyframe <= position
}

// Oracle answers keyframe queries against one baseline render file.
type Oracle struct {
	client    *probe.Client
	path      string
	frameRate opentime.FrameRate
	log       *zap.Logger
}

// New returns an Oracle that queries path through client at frameRate.
func New(client *probe.Client, path string, frameRate opentime.FrameRate, log *zap.Logger) *Oracle {
	if log == nil {
		log = zap.NewNop()
	}
	return &Oracle{client: client, path: path, frameRate: frameRate, log: log}
}

// Resolve answers both directions for every position in positions, in a
// single batched probe request.
func (o *Oracle) Resolve(ctx context.Context, positions []int64) (map[int64]PositionAnswer, error) {
	if len(positions) == 0 {
		return map[int64]PositionAnswer{}, nil
	}

	intervals := make([]string, len(positions))
	for i, f := range positions {
		sec := opentime.NewRationalFromInt(f).Mul(o.frameRate.Inv())
		intervals[i] = fmt.Sprintf("%s%%+#100", formatSeconds(sec))
	}

	out, err := o.client.Probe(ctx, o.path, intervals)
	if err != nil {
		return nil, err
	}
	stream, err := out.Stream0()
	if err != nil {
		return nil, err
	}

	timeBase, err := opentime.ParseRational(stream.TimeBase)
	if err != nil {
		return nil, &splerr.ProbeFailed{Reason: "bad time_base", Err: err}
	}
	frameRate, err := opentime.ParseRational(stream.AvgFrameRate)
	if err != nil {
		return nil, &splerr.ProbeFailed{Reason: "bad avg_frame_rate", Err: err}
	}
	ticksPerFrame := opentime.TicksPerFrame(timeBase, frameRate)

	packets := dedupeSortByPTS(stream.Packets)

	results := make(map[int64]PositionAnswer, len(positions))
	for _, f := range positions {
		idx, err := locatePacket(packets, f, ticksPerFrame)
		if err != nil {
			return nil, err
		}

		next, err := scanForward(packets, idx, ticksPerFrame, stream.DurationTS)
		if err != nil {
			return nil, err
		}
		prev, err := scanBackward(packets, idx, ticksPerFrame)
		if err != nil {
			return nil, err
		}
		results[f] = PositionAnswer{Next: next, Prev: prev}
	}

	o.log.Debug("keyframe oracle resolved positions",
		zap.Int("count", len(positions)),
		zap.String("ticks_per_frame", ticksPerFrame.String()),
	)
	return results, nil
}

func dedupeSortByPTS(packets []probe.Packet) []probe.Packet {
	seen := make(map[int64]probe.Packet, len(packets))
	for _, p := range packets {
		seen[p.PTS] = p
	}
	out := make([]probe.Packet, 0, len(seen))
	for _, p := range seen {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PTS < out[j].PTS })
	return out
}

// locatePacket finds the index of the packet whose PTS equals frame *
// ticksPerFrame exactly.
func locatePacket(packets []probe.Packet, frame int64, ticksPerFrame opentime.Rational) (int, error) {
	target := ticksPerFrame.Mul(opentime.NewRationalFromInt(frame))
	if target.Denom() != 1 {
		return 0, &splerr.KeyframeNotFound{BaselineFrame: frame, Reason: "frame does not land on an integer PTS tick"}
	}
	pts := target.Num()

	i := sort.Search(len(packets), func(i int) bool { return packets[i].PTS >= pts })
	if i < len(packets) && packets[i].PTS == pts {
		return i, nil
	}
	return 0, &splerr.KeyframeNotFound{BaselineFrame: frame, Reason: "no packet at the queried PTS"}
}

func scanForward(packets []probe.Packet, idx int, ticksPerFrame opentime.Rational, durationTS int64) (Answer, error) {
	for i := idx; i < len(packets); i++ {
		if packets[i].IsKeyframe() {
			return packetAnswer(packets[i], ticksPerFrame), nil
		}
	}
	last := packets[len(packets)-1]
	if last.PTS+last.Duration == durationTS {
		return packetAnswer(last, ticksPerFrame), nil
	}
	return Answer{}, &splerr.KeyframeNotFound{
		BaselineFrame: ptsToFrame(packets[idx].PTS, ticksPerFrame),
		Reason:        "forward scan reached end of stream without a keyframe or stream-end sentinel",
	}
}

func scanBackward(packets []probe.Packet, idx int, ticksPerFrame opentime.Rational) (Answer, error) {
	for i := idx; i >= 0; i-- {
		if packets[i].IsKeyframe() {
			return packetAnswer(packets[i], ticksPerFrame), nil
		}
	}
	return Answer{}, &splerr.KeyframeNotFound{
		BaselineFrame: ptsToFrame(packets[idx].PTS, ticksPerFrame),
		Reason:        "backward scan reached start of stream without a keyframe",
	}
}

func packetAnswer(p probe.Packet, ticksPerFrame opentime.Rational) Answer {
	delta := opentime.NewRationalFromInt(p.DTS - p.PTS).Quo(ticksPerFrame)
	return Answer{
		Keyframe: ptsToFrame(p.PTS, ticksPerFrame),
		DTSDelta: delta,
	}
}

func ptsToFrame(pts int64, ticksPerFrame opentime.Rational) int64 {
	return opentime.NewRationalFromInt(pts).Quo(ticksPerFrame).Floor()
}

// formatSeconds renders a Rational number of seconds for the probe's
// "<sec>%+#100" interval syntax as a plain decimal with six places, via
// the value's float64 approximation (the probe tool accepts plain
// decimals; the value only chooses where the probe starts reading and
// never enters a cut-point computation).
func formatSeconds(sec opentime.Rational) string {
	return fmt.Sprintf("%.6f", sec.Float64())
}
