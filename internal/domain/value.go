package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Value is a single answer: a categorical slug or a numeric guess. The zero
// Value is "unanswered", same as an empty string.
type Value struct {
	text    string
	number  float64
	numeric bool
}

// Text wraps a string answer.
func Text(s string) Value {
	return Value{text: s}
}

// Number wraps a numeric answer.
func Number(n float64) Value {
	return Value{number: n, numeric: true}
}

// Int wraps an integer answer.
func Int(n int) Value {
	return Number(float64(n))
}

// IsEmpty reports whether the value counts as unanswered. Numeric zero is an answer.
func (v Value) IsEmpty() bool {
	return !v.numeric && v.text == ""
}

// IsNumber reports whether the value was provided as a number rather than text.
func (v Value) IsNumber() bool {
	return v.numeric
}

func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// MaxSafeInteger bounds numeric answers to integers a float64 holds exactly.
const MaxSafeInteger = 1<<53 - 1

// Int coerces the value to an integer. Numbers are truncated toward zero and
// text is parsed from its leading integer prefix ("12 points" -> 12). The
// second result is false when no integer can be read or it lies outside
// ±MaxSafeInteger.
func (v Value) Int() (int, bool) {
	if v.numeric {
		if math.IsNaN(v.number) || math.IsInf(v.number, 0) {
			return 0, false
		}
		t := math.Trunc(v.number)
		if t > MaxSafeInteger || t < -MaxSafeInteger {
			return 0, false
		}
		return int(t), true
	}
	return parseLeadingInt(v.text)
}

func parseLeadingInt(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n > MaxSafeInteger || n < -MaxSafeInteger {
		return 0, false
	}
	return n, true
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.numeric {
		return json.Marshal(v.number)
	}
	return json.Marshal(v.text)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Value{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAnswer, data)
		}
		*v = Number(n)
	}
	return nil
}

func (v Value) MarshalYAML() (interface{}, error) {
	if v.numeric {
		return v.number, nil
	}
	return v.text, nil
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: expected a scalar at line %d", ErrInvalidAnswer, node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		*v = Value{}
	case "!!int", "!!float":
		var n float64
		if err := node.Decode(&n); err != nil {
			return err
		}
		*v = Number(n)
	default:
		*v = Text(node.Value)
	}
	return nil
}

// Answers maps question ids to answer values. A missing key and an empty
// value both mean "unanswered".
type Answers map[string]Value

// Lookup returns the answer for a question, reporting false when unanswered.
func (a Answers) Lookup(questionID string) (Value, bool) {
	v, ok := a[questionID]
	if !ok || v.IsEmpty() {
		return Value{}, false
	}
	return v, true
}

// Clone returns a copy that can be modified independently.
func (a Answers) Clone() Answers {
	if a == nil {
		return nil
	}
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Merge returns a copy of a with updates applied; empty values clear answers.
func (a Answers) Merge(updates Answers) Answers {
	out := a.Clone()
	if out == nil {
		out = make(Answers, len(updates))
	}
	for k, v := range updates {
		if v.IsEmpty() {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}
