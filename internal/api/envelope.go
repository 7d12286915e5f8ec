package api

import (
	"encoding/json"
	"fmt"
)

// The backend is not consistent about response envelopes: some
// endpoints return {"<resource>": [...]}, others {"data":
// {"<resource>": [...]}}, and a few return the payload bare. Envelope
// unwrapping is pinned here once so no call site probes shapes ad hoc.

// unwrap extracts the JSON value for key from body, tolerating both
// envelope conventions. An empty body yields nil without error so
// DELETE-style responses decode cleanly.
func unwrap(body []byte, key string) (json.RawMessage, error) {
	if len(body) == 0 {
		return nil, nil
	}

	var outer map[string]json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		// Bare array/scalar payload: hand it back untouched.
		return json.RawMessage(body), nil
	}

	if raw, ok := outer[key]; ok {
		return raw, nil
	}

	if data, ok := outer["data"]; ok {
		var inner map[string]json.RawMessage
		if err := json.Unmarshal(data, &inner); err == nil {
			if raw, ok := inner[key]; ok {
				return raw, nil
			}
		}
		// data holds the payload directly.
		return data, nil
	}

	// Bare object payload.
	return json.RawMessage(body), nil
}

// decode unwraps body at key and unmarshals into out. A missing or
// null payload leaves out at its zero value.
func decode(body []byte, key string, out any) error {
	raw, err := unwrap(body, key)
	if err != nil {
		return err
	}
	if raw == nil || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}
