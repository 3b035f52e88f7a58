package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strings"
)

// injectIdentity adds the caller identity to a mutating request payload
// unless the caller already supplied one. JSON bodies gain an extra
// property; multipart bodies gain an extra form field. Payloads this
// function cannot safely rewrite (arrays, unknown content types, malformed
// bodies) pass through untouched — identity stamping is a convenience for
// audit columns, not a correctness requirement.
func injectIdentity(r *http.Request, body []byte, field, id string) []byte {
	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return body
	}

	switch {
	case mediaType == "application/json":
		return injectJSON(body, field, id)
	case mediaType == "multipart/form-data" && params["boundary"] != "":
		return injectMultipart(body, params["boundary"], field, id)
	default:
		return body
	}
}

func injectJSON(body []byte, field, id string) []byte {
	payload := map[string]json.RawMessage{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return body
		}
	}
	if _, exists := payload[field]; exists {
		return body
	}

	encoded, err := json.Marshal(id)
	if err != nil {
		return body
	}
	payload[field] = encoded

	out, err := json.Marshal(payload)
	if err != nil {
		return body
	}
	return out
}

func injectMultipart(body []byte, boundary, field, id string) []byte {
	if bytes.Contains(body, []byte(`name="`+field+`"`)) {
		return body
	}

	closing := []byte("--" + boundary + "--")
	idx := bytes.LastIndex(body, closing)
	if idx < 0 {
		return body
	}

	part := fmt.Sprintf("--%s\r\nContent-Disposition: form-data; name=%q\r\n\r\n%s\r\n",
		boundary, field, id)

	var out bytes.Buffer
	out.Grow(len(body) + len(part))
	out.Write(body[:idx])
	out.WriteString(part)
	out.Write(body[idx:])
	return out.Bytes()
}

func isMutating(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
