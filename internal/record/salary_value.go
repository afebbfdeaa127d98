package record

import (
	"bytes"
	"encoding/json"
)

// SalaryValue holds a listing's salary field in whichever shape the source
// produced it: a pre-classified SalaryInfo object, a free-form text string,
// or nothing. Exactly one of Info and Text is set.
type SalaryValue struct {
	Info *SalaryInfo
	Text string
}

// SalaryTextValue wraps a free-form salary string.
func SalaryTextValue(s string) SalaryValue {
	return SalaryValue{Text: s}
}

// SalaryInfoValue wraps a classified salary. A nil info yields the empty value.
func SalaryInfoValue(info *SalaryInfo) SalaryValue {
	return SalaryValue{Info: info}
}

// IsEmpty reports whether no salary information was captured.
func (v SalaryValue) IsEmpty() bool {
	return v.Info == nil && v.Text == ""
}

// MarshalJSON preserves the source shape: object for classified salaries,
// string otherwise, null when absent.
func (v SalaryValue) MarshalJSON() ([]byte, error) {
	if v.Info != nil {
		return json.Marshal(v.Info)
	}
	if v.Text != "" {
		return json.Marshal(v.Text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts an object, a string, or null. Anything else decodes
// to the empty value.
func (v *SalaryValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = SalaryValue{}
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*v = SalaryValue{Text: s}
		return nil
	}

	var info SalaryInfo
	if err := json.Unmarshal(trimmed, &info); err == nil && info.Kind != "" {
		*v = SalaryValue{Info: &info}
		return nil
	}

	*v = SalaryValue{}
	return nil
}
