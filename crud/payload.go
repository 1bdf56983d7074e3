package crud

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/blogem/crud-audit/models"
)

// maxPayloadBytes caps how much of a request body is read
const maxPayloadBytes = 1 << 20

// Payload is the raw data of a mutation request, kept verbatim so it can be
// quoted in audit messages.
type Payload struct {
	raw []byte
}

// NewPayload wraps raw request data
func NewPayload(raw []byte) Payload {
	return Payload{raw: bytes.TrimSpace(raw)}
}

// PayloadFromRequest reads the request data. JSON bodies are kept as sent;
// url-encoded forms are converted to a JSON object.
func PayloadFromRequest(r *http.Request) (Payload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return formPayload(r, mediaType)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes+1))
	if err != nil {
		return Payload{}, fmt.Errorf("failed to read request body: %w", err)
	}
	if len(body) > maxPayloadBytes {
		return Payload{}, fmt.Errorf("%w: request body too large", models.ErrValidation)
	}

	return NewPayload(body), nil
}

// formPayload captures form values as a JSON object. Uploaded files are not
// part of the payload.
func formPayload(r *http.Request, mediaType string) (Payload, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxPayloadBytes)

	var err error
	if mediaType == "multipart/form-data" {
		err = r.ParseMultipartForm(maxPayloadBytes)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return Payload{}, fmt.Errorf("%w: failed to parse form: %v", models.ErrValidation, err)
	}

	formMap := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) == 1 {
			formMap[key] = values[0]
		} else {
			formMap[key] = values
		}
	}

	data, err := json.Marshal(formMap)
	if err != nil {
		return Payload{}, fmt.Errorf("failed to encode form: %w", err)
	}
	return NewPayload(data), nil
}

// Decode unmarshals the payload into v
func (p Payload) Decode(v any) error {
	if len(p.raw) == 0 {
		return fmt.Errorf("%w: empty request body", models.ErrValidation)
	}
	if err := json.Unmarshal(p.raw, v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", models.ErrValidation, err)
	}
	return nil
}

// String renders the payload as text
func (p Payload) String() string {
	return string(p.raw)
}
