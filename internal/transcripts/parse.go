package transcripts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Content is the text extracted from one transcript file.
type Content struct {
	// Text is the whitespace-trimmed segment texts joined with single spaces.
	Text string
	// SegmentCount is the number of segments the file carried, including
	// segments without usable text.
	SegmentCount int
}

// payloadShape classifies the JSON layouts the upstream processor emits.
type payloadShape int

const (
	// shapeSegmentList is a bare JSON array of segment objects.
	shapeSegmentList payloadShape = iota
	// shapeFilteredObject is an object whose filtered_transcription field
	// holds the segment array.
	shapeFilteredObject
	// shapeSingleObject is any other object, treated as one segment.
	shapeSingleObject
)

// ExtractContent parses a transcript payload and extracts its spoken text.
// The payload is classified once into one of three shapes; anything else
// (strings, numbers, malformed JSON) is an error the caller logs and skips.
func ExtractContent(data []byte) (Content, error) {
	_, segments, err := classify(data)
	if err != nil {
		return Content{}, err
	}

	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(segment, &fields); err != nil {
			// Non-object entries in a segment list carry no text.
			continue
		}
		raw, ok := fields["text"]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	return Content{
		Text:         strings.Join(parts, " "),
		SegmentCount: len(segments),
	}, nil
}

func classify(data []byte) (payloadShape, []json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return 0, nil, fmt.Errorf("empty transcript payload")
	}

	switch trimmed[0] {
	case '[':
		var segments []json.RawMessage
		if err := json.Unmarshal(data, &segments); err != nil {
			return 0, nil, fmt.Errorf("parse segment list: %w", err)
		}
		return shapeSegmentList, segments, nil
	case '{':
		var object map[string]json.RawMessage
		if err := json.Unmarshal(data, &object); err != nil {
			return 0, nil, fmt.Errorf("parse transcript object: %w", err)
		}
		if filtered, ok := object["filtered_transcription"]; ok {
			var segments []json.RawMessage
			if err := json.Unmarshal(filtered, &segments); err != nil {
				return 0, nil, fmt.Errorf("parse filtered_transcription: %w", err)
			}
			return shapeFilteredObject, segments, nil
		}
		return shapeSingleObject, []json.RawMessage{json.RawMessage(data)}, nil
	default:
		return 0, nil, fmt.Errorf("unrecognized transcript shape (starts with %q)", trimmed[0])
	}
}
