package model

import (
	"encoding/json"
	"fmt"
)

// UnmarshalJSON decodes a question with its content record typed according
// to the kind tag, so documents read back from disk carry the same content
// types the conversion pipeline produces.
func (q *Question) UnmarshalJSON(data []byte) error {
	type alias Question
	aux := struct {
		*alias
		Content json.RawMessage `json:"content"`
	}{alias: (*alias)(q)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	content, err := decodeContent(q.Kind, aux.Content)
	if err != nil {
		return fmt.Errorf("question %s: %w", q.ID, err)
	}
	q.Content = content
	return nil
}

func decodeContent(kind Kind, data json.RawMessage) (any, error) {
	if len(data) == 0 || string(data) == "null" {
		return EmptyContent{}, nil
	}
	decode := func(v any) error {
		return json.Unmarshal(data, v)
	}
	switch kind {
	case KindSingleChoice, KindMultiSelect:
		var c ChoiceContent
		return c, decode(&c)
	case KindMatching:
		var c MatchingContent
		return c, decode(&c)
	case KindNumeric:
		var c NumericContent
		return c, decode(&c)
	case KindShortAnswerText:
		var c ShortAnswerContent
		return c, decode(&c)
	case KindClozeLabeled:
		var c ClozeBlanksContent
		return c, decode(&c)
	case KindClozeTable:
		var c ClozeTableContent
		return c, decode(&c)
	case KindMultipartShort:
		var c MultipartContent
		return c, decode(&c)
	case KindExternalMediaRef:
		var c MediaContent
		return c, decode(&c)
	}
	return EmptyContent{}, nil
}
