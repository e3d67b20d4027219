package agentrun

import (
	"encoding/json"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// redactedKeys are metadata keys that must never reach the run log.
var redactedKeys = []string{
	"apiKey",
	"api_key",
	"authorization",
	"token",
	"secret",
}

// RedactMetadata strips credential-bearing keys from a raw metadata bag
// before it is persisted. Invalid JSON is dropped entirely rather than
// stored unredacted.
func RedactMetadata(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	if !gjson.ValidBytes(raw) {
		return ""
	}
	out := []byte(raw)
	for _, key := range redactedKeys {
		if !gjson.GetBytes(out, key).Exists() {
			continue
		}
		cleaned, err := sjson.DeleteBytes(out, key)
		if err != nil {
			continue
		}
		out = cleaned
	}
	return string(out)
}
