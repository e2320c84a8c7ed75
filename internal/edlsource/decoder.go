// SPDX-License-Identifier: Apache-2.0
// Copyright Contributors to the OpenTimelineIO project

package edlsource

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/mrjoshuak/spliceplan/internal/opentime"
	"github.com/mrjoshuak/spliceplan/internal/timeline"
)

// Decoder reads a CMX 3600 EDL and produces the video-track TimelineItems
// a Timeline Projector needs.
type Decoder struct {
	r          io.Reader
	nominalFPS int
}

// NewDecoder creates a decoder reading from r at the given nominal
// integer frame rate (used only for timecode arithmetic).
func NewDecoder(r io.Reader, nominalFPS int) *Decoder {
	return &Decoder{r: r, nominalFPS: nominalFPS}
}

var (
	eventLineRegex    = regexp.MustCompile(`^\s*(\d+)\s+(\S+)\s+(V|A\d?)\s+(C|D|W\d{3})\s*(\d+)?`)
	timecodeLineRegex = regexp.MustCompile(`^\s*(\d{2}:\d{2}:\d{2}[;:]\d{2})\s+(\d{2}:\d{2}:\d{2}[;:]\d{2})\s+(\d{2}:\d{2}:\d{2}[;:]\d{2})\s+(\d{2}:\d{2}:\d{2}[;:]\d{2})`)
	ascSOPRegex       = regexp.MustCompile(`ASC_SOP.*`)
	ascSATRegex       = regexp.MustCompile(`ASC_SAT\s+[-+]?[\d.]+`)
	markerRegex       = regexp.MustCompile(`^\*\s*LOC:\s+\d{2}:\d{2}:\d{2}:\d{2}\s+\w*\s*.*`)
)

// Decode reads every event in the EDL and returns the items for the
// video track(s), in file order, as TimelineItems anchored at timeline
// frame 0 (callers needing a different start frame should shift the
// result).
func (d *Decoder) Decode() ([]timeline.Item, error) {
	events, err := d.parseEvents()
	if err != nil {
		return nil, err
	}

	items := make([]timeline.Item, 0, len(events))
	for _, ev := range events {
		if !ev.TrackType.IsVideoTrack() {
			continue
		}
		item, err := d.eventToItem(ev)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (d *Decoder) parseEvents() ([]Event, error) {
	scanner := bufio.NewScanner(d.r)
	var events []Event
	var current *Event
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "TITLE:") || strings.HasPrefix(trimmed, "FCM:") {
			continue
		}

		if matches := eventLineRegex.FindStringSubmatch(line); matches != nil {
			if current != nil {
				events = append(events, *current)
			}
			eventNum, _ := strconv.Atoi(matches[1])
			transitionDuration := 0
			if matches[5] != "" {
				transitionDuration, _ = strconv.Atoi(matches[5])
			}
			current = &Event{
				EventNumber:        eventNum,
				ReelName:           matches[2],
				TrackType:          TrackType(matches[3]),
				EditType:           EditType(matches[4]),
				TransitionDuration: transitionDuration,
			}

			if scanner.Scan() {
				lineNum++
				tcLine := scanner.Text()
				tcMatches := timecodeLineRegex.FindStringSubmatch(tcLine)
				if tcMatches == nil {
					return nil, &ParseError{Line: lineNum, Message: "expected timecode line after event"}
				}
				current.SourceIn = tcMatches[1]
				current.SourceOut = tcMatches[2]
				current.RecordIn = tcMatches[3]
				current.RecordOut = tcMatches[4]
			}
			continue
		}

		if current == nil {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "*FROM CLIP NAME:"):
			current.ClipName = strings.TrimSpace(strings.TrimPrefix(trimmed, "*FROM CLIP NAME:"))
		case strings.HasPrefix(trimmed, "* FROM CLIP NAME:"):
			current.ClipName = strings.TrimSpace(strings.TrimPrefix(trimmed, "* FROM CLIP NAME:"))
		case strings.HasPrefix(trimmed, "*FROM FILE:"):
			current.FilePath = strings.TrimSpace(strings.TrimPrefix(trimmed, "*FROM FILE:"))
		case strings.HasPrefix(trimmed, "* FROM FILE:"):
			current.FilePath = strings.TrimSpace(strings.TrimPrefix(trimmed, "* FROM FILE:"))
		case strings.HasSuffix(trimmed, " FF"):
			current.FreezeFrame = true
		case markerRegex.MatchString(trimmed):
			current.Locators = append(current.Locators, trimmed)
		case ascSOPRegex.MatchString(trimmed) || ascSATRegex.MatchString(trimmed):
			if current.ColorDecision != "" {
				current.ColorDecision += " "
			}
			current.ColorDecision += trimmed
		case strings.HasPrefix(trimmed, "*"):
			if current.Comment != "" {
				current.Comment += "\n"
			}
			current.Comment += trimmed
		}
	}
	if current != nil {
		events = append(events, *current)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// eventToItem converts one parsed event into a TimelineItem: the record
// in/out timecodes become the timeline frame span, the source-in
// timecode becomes the declared source-start frame, and every
// comment-borne field becomes a Properties entry.
func (d *Decoder) eventToItem(ev Event) (timeline.Item, error) {
	recordIn, err := opentime.FrameFromTimecodeNDF(ev.RecordIn, d.nominalFPS)
	if err != nil {
		return timeline.Item{}, fmt.Errorf("event %d record in: %w", ev.EventNumber, err)
	}
	recordOut, err := opentime.FrameFromTimecodeNDF(ev.RecordOut, d.nominalFPS)
	if err != nil {
		return timeline.Item{}, fmt.Errorf("event %d record out: %w", ev.EventNumber, err)
	}
	sourceIn, err := opentime.FrameFromTimecodeNDF(ev.SourceIn, d.nominalFPS)
	if err != nil {
		return timeline.Item{}, fmt.Errorf("event %d source in: %w", ev.EventNumber, err)
	}

	mediaID := ev.ReelName
	if ev.FilePath != "" {
		mediaID = ev.FilePath
	}

	clipName := ev.ClipName
	if clipName == "" {
		clipName = ev.ReelName
	}

	var props []timeline.Property
	addProp := func(k, v string) {
		if v != "" {
			props = append(props, timeline.Property{Key: k, Value: v})
		}
	}
	addProp("clip_name", clipName)
	addProp("comment", ev.Comment)
	addProp("color_decision", ev.ColorDecision)
	for i, loc := range ev.Locators {
		addProp(fmt.Sprintf("locator_%d", i), loc)
	}
	if ev.FreezeFrame {
		addProp("freeze_frame", "true")
	}

	src := sourceIn
	return timeline.Item{
		MediaID:     mediaID,
		Start:       recordIn,
		End:         recordOut,
		SourceStart: &src,
		HasLeftTrim: sourceIn > 0,
		Properties:  props,
	}, nil
}
