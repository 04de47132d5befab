package service

import (
	"encoding/json"
	"sort"
	"strings"

	"taskboard/internal/apperror"
	"taskboard/internal/model"
)

// Payload is a JSON object exactly as the client sent it. Update operations
// take a Payload so they can reject keys outside the entity's allow-list.
type Payload map[string]any

// accepted checks every key against allowed and returns the payload with
// falsy values removed.
func (p Payload) accepted(schema model.Schema) (Payload, error) {
	keys := make([]string, 0, len(p))
	for key := range p {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(Payload, len(p))
	for _, key := range keys {
		if !schema.AllowsUpdate(key) {
			return nil, apperror.Validation("Keyword %s is not accepted. Only %s are accepted", key, strings.Join(schema.UpdateKeys, ", "))
		}
		if isFalsy(p[key]) {
			continue
		}
		out[key] = p[key]
	}
	return out, nil
}

func (p Payload) str(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", apperror.Validation("%s must be a string", key)
	}
	return s, nil
}

func isFalsy(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	case int:
		return val == 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f == 0
	default:
		return false
	}
}
