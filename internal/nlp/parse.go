package nlp

import (
	"encoding/json"
	"fmt"
	"strings"
)

// extractSystemPrompt instructs the model to act as a pure NER tagger.
const extractSystemPrompt = `You are a named-entity recognizer for citizen grievance reports.
Extract every mention of a location, organization, or person from the user's text.

Respond with ONLY a JSON object of this exact shape, no prose:
{"entities":[{"text":"<span as it appears>","label":"location|organization|person"}]}

If there are no entities, respond with {"entities":[]}.`

type entityEnvelope struct {
	Entities []rawEntity `json:"entities"`
}

type rawEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// ParseEntities decodes a model response into entities. It accepts the
// envelope form {"entities":[...]} or a bare JSON array, tolerates markdown
// code fences, normalizes labels, and drops spans with unknown labels or
// empty text.
func ParseEntities(raw string) ([]Entity, error) {
	body := stripFences(strings.TrimSpace(raw))
	if body == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var items []rawEntity
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(body), &items); err != nil {
			return nil, fmt.Errorf("decode entity array: %w", err)
		}
	} else {
		var env entityEnvelope
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			return nil, fmt.Errorf("decode entity envelope: %w", err)
		}
		items = env.Entities
	}

	out := make([]Entity, 0, len(items))
	for _, it := range items {
		label, ok := NormalizeLabel(strings.TrimSpace(it.Label))
		if !ok {
			continue
		}
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		out = append(out, Entity{Text: text, Label: label})
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence if present.
func stripFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
