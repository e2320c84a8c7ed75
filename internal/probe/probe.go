// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

// Package probe models the media-probe collaborator (spec §4.3, §6): a
// subprocess invoked with a batch of seek-and-read intervals that answers
// with a JSON packet listing. The planner never parses frames itself; it
// only ever sees this contract.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/mrjoshuak/spliceplan/internal/splerr"
)

// Packet is one entry of a probe response's packets array.
type Packet struct {
	PTS      int64  `json:"pts"`
	DTS      int64  `json:"dts"`
	Duration int64  `json:"duration"`
	Flags    string `json:"flags"`
}

// IsKeyframe reports whether the packet is self-decodable, per the probe
// contract's flags convention.
func (p Packet) IsKeyframe() bool {
	return p.Flags == "K__"
}

// Stream is the streams[0] object of a probe response.
type Stream struct {
	TimeBase     string   `json:"time_base"`
	AvgFrameRate string   `json:"avg_frame_rate"`
	DurationTS   int64    `json:"duration_ts"`
	Packets      []Packet `json:"packets"`
}

// Output is the top-level probe response shape.
type Output struct {
	Streams []Stream `json:"streams"`
}

// Stream0 returns the first stream, failing with ProbeFailed if the
// response has no streams or is missing a required field.
func (o Output) Stream0() (Stream, error) {
	if len(o.Streams) == 0 {
		return Stream{}, &splerr.ProbeFailed{Reason: "response has no streams"}
	}
	s := o.Streams[0]
	if s.TimeBase == "" || s.AvgFrameRate == "" {
		return Stream{}, &splerr.ProbeFailed{Reason: "stream missing time_base or avg_frame_rate"}
	}
	return s, nil
}

// Runner executes the probe subprocess and returns its raw stdout. It is
// the narrow port the Keyframe Oracle depends on, so tests can replace it
// with an in-memory fake returning scripted keyframe maps instead of
// shelling out.
type Runner interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// ExecRunner runs the probe binary as a real subprocess.
type ExecRunner struct {
	Logger *zap.Logger
}

// Run implements Runner by invoking binary with args and capturing stdout;
// a non-zero exit is a fatal ProbeFailed.
func (r ExecRunner) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug("running media probe", zap.String("command", cmd.String()))

	if err := cmd.Run(); err != nil {
		return nil, &splerr.ProbeFailed{
			Reason: fmt.Sprintf("probe exited non-zero: %s", stderr.String()),
			Err:    err,
		}
	}
	return stdout.Bytes(), nil
}

// Client issues batched probe requests against a baseline render file.
type Client struct {
	Binary string
	Runner Runner
}

// NewClient returns a Client using the real subprocess Runner, logging
// through log.
func NewClient(binary string, log *zap.Logger) *Client {
	return &Client{Binary: binary, Runner: ExecRunner{Logger: log}}
}

// Probe requests one or more "<sec>%+#100"-style read intervals against
// path in a single batched invocation and parses the resulting JSON.
// ffprobe only honors the last occurrence of a repeated -read_intervals
// flag, so every requested interval is joined into one comma-separated
// argument (matching the reference tool's own `",".join(intervals)`)
// rather than passed as one -read_intervals per interval.
func (c *Client) Probe(ctx context.Context, path string, readIntervals []string) (Output, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_entries", "stream=time_base,avg_frame_rate,duration_ts:packet=pts,dts,duration,flags",
	}
	if len(readIntervals) > 0 {
		args = append(args, "-read_intervals", strings.Join(readIntervals, ","))
	}
	args = append(args, path)

	raw, err := c.Runner.Run(ctx, c.Binary, args)
	if err != nil {
		return Output{}, err
	}

	var out Output
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return Output{}, &splerr.ProbeFailed{Reason: "malformed probe JSON", Err: err}
	}
	return out, nil
}
