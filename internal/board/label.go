package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// LabelKind discriminates the encodings a status column value may use.
type LabelKind int

const (
	// KindLabel carries the label text itself.
	KindLabel LabelKind = iota
	// KindIndex carries a numeric position in the board's label list.
	KindIndex
)

// LabelValue is the parsed form of a status column value. The board
// emits the same logical event in three shapes: an object with a label
// (plain string or nested {"text": ...}), an object with an index, or a
// plain string that may itself be one of the former serialized.
type LabelValue struct {
	Kind  LabelKind
	Text  string
	Index int
}

var errNoLabel = errors.New("value carries no label or index")

type rawLabelObject struct {
	Label *json.RawMessage `json:"label"`
	Index *int             `json:"index"`
}

type rawLabelText struct {
	Text string `json:"text"`
}

// ParseLabelValue decodes a status column value into a LabelValue.
// A string value gets one re-parse pass before being taken verbatim.
func ParseLabelValue(raw json.RawMessage) (LabelValue, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return LabelValue{}, errNoLabel
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return LabelValue{}, err
		}
		// the string may itself be a serialized object
		inner := strings.TrimSpace(s)
		if strings.HasPrefix(inner, "{") {
			if lv, err := parseLabelObject([]byte(inner)); err == nil {
				return lv, nil
			}
		}
		return LabelValue{Kind: KindLabel, Text: s}, nil
	}

	return parseLabelObject(trimmed)
}

func parseLabelObject(data []byte) (LabelValue, error) {
	var obj rawLabelObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return LabelValue{}, err
	}

	if obj.Label != nil {
		label := bytes.TrimSpace(*obj.Label)
		if len(label) > 0 && label[0] == '"' {
			var s string
			if err := json.Unmarshal(label, &s); err != nil {
				return LabelValue{}, err
			}
			return LabelValue{Kind: KindLabel, Text: s}, nil
		}
		var nested rawLabelText
		if err := json.Unmarshal(label, &nested); err != nil {
			return LabelValue{}, err
		}
		return LabelValue{Kind: KindLabel, Text: nested.Text}, nil
	}

	if obj.Index != nil {
		return LabelValue{Kind: KindIndex, Index: *obj.Index}, nil
	}

	return LabelValue{}, errNoLabel
}
