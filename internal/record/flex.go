package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ListShape identifies which of the closed set of raw shapes a FlexList holds.
type ListShape int

// The shapes a list-typed raw field may arrive in.
const (
	ShapeEmpty ListShape = iota
	ShapeText
	ShapeTextList
	ShapeObjectList
)

type flexEntry struct {
	text   string
	fields map[string]string
}

// FlexList models a raw field that sources emit as a single string, a list of
// strings, or a list of objects carrying a description-like field. The shape
// is resolved once when the record is decoded; any unrecognized shape decodes
// to the empty variant rather than failing.
type FlexList struct {
	shape   ListShape
	text    string
	entries []flexEntry
}

// TextValue wraps a single free-form text block.
func TextValue(s string) FlexList {
	if s == "" {
		return FlexList{}
	}
	return FlexList{shape: ShapeText, text: s}
}

// ListValue wraps a list of lines.
func ListValue(items []string) FlexList {
	if len(items) == 0 {
		return FlexList{}
	}
	entries := make([]flexEntry, 0, len(items))
	for _, it := range items {
		entries = append(entries, flexEntry{text: it})
	}
	return FlexList{shape: ShapeTextList, entries: entries}
}

// ObjectValue wraps a list of labeled objects, e.g. benefit cards carrying a
// title and a description.
func ObjectValue(objects []map[string]string) FlexList {
	if len(objects) == 0 {
		return FlexList{}
	}
	entries := make([]flexEntry, 0, len(objects))
	for _, obj := range objects {
		entries = append(entries, flexEntry{fields: obj})
	}
	return FlexList{shape: ShapeObjectList, entries: entries}
}

// Shape reports the resolved variant.
func (f FlexList) Shape() ListShape {
	return f.shape
}

// IsEmpty reports whether the field carried no usable content.
func (f FlexList) IsEmpty() bool {
	return f.shape == ShapeEmpty
}

// Strings coerces the field into a flat list of trimmed, non-empty lines:
// text splits on line breaks, object entries yield their description (or
// title) field. This never fails; the empty shape yields an empty slice.
func (f FlexList) Strings() []string {
	switch f.shape {
	case ShapeText:
		return splitLines(f.text)
	case ShapeTextList, ShapeObjectList:
		out := make([]string, 0, len(f.entries))
		for _, e := range f.entries {
			text := e.text
			if text == "" && e.fields != nil {
				text = e.fields["description"]
				if text == "" {
					text = e.fields["title"]
				}
			}
			if t := strings.TrimSpace(text); t != "" {
				out = append(out, t)
			}
		}
		return out
	default:
		return []string{}
	}
}

// MarshalJSON emits the original source shape so raw log round-trips are
// byte-compatible with what the extractor produced.
func (f FlexList) MarshalJSON() ([]byte, error) {
	switch f.shape {
	case ShapeText:
		return json.Marshal(f.text)
	case ShapeTextList, ShapeObjectList:
		items := make([]any, 0, len(f.entries))
		for _, e := range f.entries {
			if e.fields != nil {
				items = append(items, e.fields)
			} else {
				items = append(items, e.text)
			}
		}
		return json.Marshal(items)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON resolves the incoming value into one of the closed shapes.
// Values outside the documented set (numbers, booleans, bare objects) resolve
// to the empty shape.
func (f *FlexList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = FlexList{}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*f = TextValue(s)
		return nil
	}

	var items []any
	if err := json.Unmarshal(trimmed, &items); err != nil {
		*f = FlexList{}
		return nil
	}

	out := FlexList{shape: ShapeTextList}
	for _, item := range items {
		switch v := item.(type) {
		case string:
			out.entries = append(out.entries, flexEntry{text: v})
		case map[string]any:
			fields := make(map[string]string, len(v))
			for k, raw := range v {
				if str, ok := raw.(string); ok {
					fields[k] = str
				} else if raw != nil {
					fields[k] = fmt.Sprint(raw)
				}
			}
			out.entries = append(out.entries, flexEntry{fields: fields})
			out.shape = ShapeObjectList
		}
	}
	if len(out.entries) == 0 {
		out = FlexList{}
	}
	*f = out
	return nil
}

func splitLines(s string) []string {
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
