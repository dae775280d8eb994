package grading

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the payload carried by an AnswerValue.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindBool
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	default:
		return "missing"
	}
}

// AnswerValue is a submitted or expected answer. Only the field matching Kind
// is meaningful.
type AnswerValue struct {
	Kind   Kind
	Text   string
	Bool   bool
	Number float64
}

func MissingAnswer() AnswerValue               { return AnswerValue{Kind: KindMissing} }
func TextAnswer(s string) AnswerValue          { return AnswerValue{Kind: KindText, Text: s} }
func BoolAnswer(b bool) AnswerValue            { return AnswerValue{Kind: KindBool, Bool: b} }
func NumberAnswer(n float64) AnswerValue       { return AnswerValue{Kind: KindNumber, Number: n} }
func (v AnswerValue) IsMissing() bool          { return v.Kind == KindMissing }
func (v AnswerValue) Equal(o AnswerValue) bool { return v.Kind == o.Kind && v.payloadEqual(o) }

func (v AnswerValue) payloadEqual(o AnswerValue) bool {
	switch v.Kind {
	case KindText:
		return v.Text == o.Text
	case KindBool:
		return v.Bool == o.Bool
	case KindNumber:
		return v.Number == o.Number
	default:
		return true
	}
}

// Normalized renders the value for text-type comparison: lower-cased and
// trimmed. Numbers and booleans use their canonical JSON spelling.
func (v AnswerValue) Normalized() string {
	var s string
	switch v.Kind {
	case KindText:
		s = v.Text
	case KindBool:
		s = strconv.FormatBool(v.Bool)
	case KindNumber:
		s = strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindNumber:
		return json.Marshal(v.Number)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON string, boolean, number or null. Arrays and
// objects are rejected.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = MissingAnswer()
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, ok := scalar(raw)
	if !ok {
		return fmt.Errorf("answer must be a string, boolean or number")
	}
	*v = val
	return nil
}

func scalar(raw interface{}) (AnswerValue, bool) {
	switch t := raw.(type) {
	case nil:
		return MissingAnswer(), true
	case string:
		return TextAnswer(t), true
	case bool:
		return BoolAnswer(t), true
	case float64:
		return NumberAnswer(t), true
	default:
		return AnswerValue{}, false
	}
}

// CorrectAnswer is the decoded expected value of a question. A list-valued
// answer is a set of accepted alternatives.
type CorrectAnswer struct {
	Alternatives []AnswerValue
}

// ParseCorrectAnswer decodes a stored correct answer. Empty or null input yields
// an answer nothing matches.
func ParseCorrectAnswer(data []byte) (CorrectAnswer, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return CorrectAnswer{}, nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return CorrectAnswer{}, err
	}
	if list, ok := raw.([]interface{}); ok {
		out := CorrectAnswer{Alternatives: make([]AnswerValue, 0, len(list))}
		for _, item := range list {
			val, ok := scalar(item)
			if !ok || val.IsMissing() {
				return CorrectAnswer{}, fmt.Errorf("correct answer list items must be scalars")
			}
			out.Alternatives = append(out.Alternatives, val)
		}
		return out, nil
	}
	val, ok := scalar(raw)
	if !ok {
		return CorrectAnswer{}, fmt.Errorf("correct answer must be a scalar or a list of scalars")
	}
	return CorrectAnswer{Alternatives: []AnswerValue{val}}, nil
}
