package devtools

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"reflect"
	"strings"
)

// kinded errors name themselves in telemetry.
type kinded interface {
	Kind() string
}

// ErrorKind names err for ErrorInfo.Type: the Kind() of the first error in
// the chain that has one, else the dynamic type name without package path
// or pointer marker.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var k kinded
	if errors.As(err, &k) {
		if kind := k.Kind(); kind != "" {
			return kind
		}
	}
	t := reflect.TypeOf(err)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}

// asObject views v as a JSON object, or returns nil when it is not one.
func asObject(v any) map[string]any {
	switch val := v.(type) {
	case nil:
		return nil
	case map[string]any:
		return val
	case json.RawMessage:
		return decodeObject(val)
	case []byte:
		return decodeObject(val)
	case string:
		return nil
	default:
		encoded, err := json.Marshal(val)
		if err != nil {
			return nil
		}
		return decodeObject(encoded)
	}
}

func decodeObject(data []byte) map[string]any {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil
	}
	return obj
}

// extractUsage reads response.usage, accepting either the prompt/completion
// or the input/output naming. A missing total is derived from the other two.
func extractUsage(response map[string]any) *Usage {
	raw, ok := response["usage"].(map[string]any)
	if !ok {
		return nil
	}
	usage := &Usage{
		PromptTokens:     firstInt(raw, "prompt_tokens", "input_tokens"),
		CompletionTokens: firstInt(raw, "completion_tokens", "output_tokens"),
		TotalTokens:      firstInt(raw, "total_tokens"),

		CacheCreationInputTokens: firstInt(raw, "cache_creation_input_tokens"),
		CacheReadInputTokens:     firstInt(raw, "cache_read_input_tokens"),
	}
	if usage.TotalTokens == nil && usage.PromptTokens != nil && usage.CompletionTokens != nil {
		total := *usage.PromptTokens + *usage.CompletionTokens
		usage.TotalTokens = &total
	}
	return usage
}

// extractModelProvider prefers the values the gateway reported and falls
// back to the requested model.
func extractModelProvider(response, request map[string]any) (model, provider string) {
	model, _ = response["model"].(string)
	provider, _ = response["provider"].(string)
	if model == "" {
		model, _ = request["model"].(string)
	}
	return model, provider
}

func firstInt(obj map[string]any, keys ...string) *int64 {
	for _, key := range keys {
		if n, ok := toInt64(obj[key]); ok {
			return &n
		}
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(math.Round(f)), true
		}
	case float64:
		return int64(math.Round(n)), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func flattenHeaders(h http.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}
	out := make(map[string]string, len(h))
	for key, values := range h {
		out[strings.ToLower(key)] = strings.Join(values, ", ")
	}
	return out
}
