package http

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// bodyParser reads a JSON request body once and serves individual fields as
// strings. Clients send amounts as either JSON numbers or strings; both are
// flattened here so the core sees one representation.
type bodyParser struct {
	data map[string]interface{}
	err  error
}

func parseBody(r *http.Request) *bodyParser {
	p := &bodyParser{}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		p.err = err
		return p
	}
	if len(body) == 0 {
		p.data = map[string]interface{}{}
		return p
	}

	p.data = make(map[string]interface{})
	if err := json.Unmarshal(body, &p.data); err != nil {
		p.err = err
	}
	return p
}

func (p *bodyParser) Err() error {
	return p.err
}

// Get returns the named field as a sanitized string, or "" if absent.
func (p *bodyParser) Get(key string) string {
	if p.data == nil {
		return ""
	}
	val, ok := p.data[key]
	if !ok {
		return ""
	}
	return strings.TrimSpace(sanitizeInput(stringValue(val)))
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
