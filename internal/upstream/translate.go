package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/odata-api/internal/platform/logger"
)

// NoMessage is reported when the downstream server sent no usable body.
const NoMessage = "No error message specified by the downstream server"

// messageSeparator joins multiple downstream error messages.
const messageSeparator = ", Another Error: "

type jsonAPIError struct {
	ID    *string `json:"Id"`
	Title *string `json:"Title"`
}

func (e jsonAPIError) valid() bool {
	return e.ID != nil && e.Title != nil
}

// TranslateBody extracts a human readable message from a downstream error
// body. status and url only feed the message for unrecognized bodies.
func TranslateBody(ctx context.Context, body []byte, status int, url string) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return NoMessage
	}

	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		logger.FromContext(ctx).Warn("downstream server returned a plain string; the url may be wrong",
			"url", url)
		return string(body)
	}

	switch v := value.(type) {
	case nil:
		return NoMessage
	case string:
		if v == "" {
			return NoMessage
		}
		logger.FromContext(ctx).Warn("downstream server returned a plain string; the url may be wrong",
			"url", url)
		return v
	case map[string]any:
		if msg, ok := translateObject(v, trimmed); ok {
			return msg
		}
	}

	logger.FromContext(ctx).Warn("unhandled downstream error structure",
		"status_code", status,
		"url", url,
		"body", string(trimmed))

	where := url
	if where == "" {
		where = "the server"
	}
	return fmt.Sprintf("Status code of %d but found unexpected error structure came back from %s --> %s",
		status, where, string(trimmed))
}

// translateObject tries each known error shape in turn.
func translateObject(obj map[string]any, raw []byte) (string, bool) {
	if s, ok := obj["error"].(string); ok && s != "" {
		return s, true
	}

	if messages, ok := obj["messages"].([]any); ok && len(messages) > 0 {
		switch messages[0].(type) {
		case string, map[string]any:
			return joinMessages(messages), true
		}
	}

	if message, ok := obj["Message"].(string); ok {
		detail, hasDetail := obj["MessageDetail"].(string)
		if !hasDetail || detail == "" {
			return message, true
		}
		return message + " with details: " + detail, true
	}

	if s, ok := obj["message"].(string); ok {
		return s, true
	}

	var document struct {
		Data *struct {
			Errors json.RawMessage `json:"errors"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &document); err != nil || document.Data == nil {
		return "", false
	}
	errs := bytes.TrimSpace(document.Data.Errors)
	if len(errs) == 0 {
		return "", false
	}

	switch errs[0] {
	case '{':
		var one jsonAPIError
		if err := json.Unmarshal(errs, &one); err == nil && one.valid() {
			return *one.Title, true
		}
	case '[':
		var many []jsonAPIError
		if err := json.Unmarshal(errs, &many); err == nil && len(many) > 0 && many[0].valid() {
			titles := make([]string, 0, len(many))
			for _, e := range many {
				if e.Title != nil {
					titles = append(titles, *e.Title)
				}
			}
			return strings.Join(titles, messageSeparator), true
		}
	}

	return "", false
}

func joinMessages(messages []any) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		if s, ok := m.(string); ok {
			parts = append(parts, s)
			continue
		}
		encoded, err := json.Marshal(m)
		if err != nil {
			parts = append(parts, fmt.Sprint(m))
			continue
		}
		parts = append(parts, string(encoded))
	}
	return strings.Join(parts, messageSeparator)
}
