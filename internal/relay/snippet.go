package relay

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

var ErrInvalidSnippet = errors.New("invalid snippet")

// Snippet is the last exchange of a conversation.
type Snippet struct {
	PersonOne string `json:"person_one"`
	PersonTwo string `json:"person_two"`
}

// ParseSnippet accepts either [{"person_one": ..}, {"person_two": ..}]
// or a single {"person_one": .., "person_two": ..} object.
func ParseSnippet(body []byte) (Snippet, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Snippet{}, fmt.Errorf("%w: %v", ErrInvalidSnippet, err)
	}

	var merged map[string]any
	switch v := raw.(type) {
	case map[string]any:
		merged = v
	case []any:
		merged = make(map[string]any, 2)
		for i, item := range v {
			part, ok := item.(map[string]any)
			if !ok {
				return Snippet{}, fmt.Errorf("%w: item %d is not an object", ErrInvalidSnippet, i)
			}
			for k, val := range part {
				merged[k] = val
			}
		}
	default:
		return Snippet{}, fmt.Errorf("%w: expected object or array", ErrInvalidSnippet)
	}

	var s Snippet
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return Snippet{}, err
	}
	if err := dec.Decode(merged); err != nil {
		return Snippet{}, fmt.Errorf("%w: %v", ErrInvalidSnippet, err)
	}
	if s.PersonOne == "" && s.PersonTwo == "" {
		return Snippet{}, fmt.Errorf("%w: no messages", ErrInvalidSnippet)
	}
	return s, nil
}
