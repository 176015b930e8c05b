package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// MaxUploadBytes caps raw upload bodies and multipart attachments accepted
// by the bridge.
const MaxUploadBytes = 50 << 20

// DiscordPayload is the message shape Discord-compatible callers post,
// either directly as JSON or inside the multipart payload_json field.
type DiscordPayload struct {
	Content   string `json:"content"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
}

// File is one attachment extracted from a request, in the order the caller
// sent it.
type File struct {
	Filename string
	Data     []byte
}

/* NormalizeGeneric maps an inbound generic request to the opaque hookData
 * value: the query map for GET, otherwise the body parsed per its declared
 * content type. No transformation beyond parsing; the consumer interprets
 * the shape.
 */
func NormalizeGeneric(r *http.Request) (any, error) {
	if r.Method == http.MethodGet {
		return flattenValues(r.URL.Query()), nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if len(body) == 0 {
			return map[string]any{}, nil
		}
		var data any
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, fmt.Errorf("parsing JSON body: %w", err)
		}
		return data, nil
	case "application/x-www-form-urlencoded":
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("parsing form body: %w", err)
		}
		return flattenValues(form), nil
	default:
		// text/* and anything undeclared pass through as raw text.
		return string(body), nil
	}
}

// flattenValues keeps single-valued parameters as plain strings so the
// consumer sees {"key":"value"} rather than {"key":["value"]}.
func flattenValues(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k, v := range values {
		if len(v) == 1 {
			out[k] = v[0]
			continue
		}
		out[k] = v
	}
	return out
}

/* NormalizeDiscord extracts the message payload and ordered attachments from
 * a Discord-compatible request: either a plain JSON body or a multipart form
 * carrying a payload_json field plus zero or more file parts.
 */
func NormalizeDiscord(r *http.Request) (DiscordPayload, []File, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return normalizeDiscordForm(r)
	}

	var payload DiscordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return DiscordPayload{}, nil, fmt.Errorf("parsing JSON body: %w", err)
	}
	return payload, nil, nil
}

// normalizeDiscordForm reads the multipart parts sequentially so attachments
// keep the caller's order.
func normalizeDiscordForm(r *http.Request) (DiscordPayload, []File, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return DiscordPayload{}, nil, fmt.Errorf("reading multipart form: %w", err)
	}

	var payload DiscordPayload
	var files []File
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return DiscordPayload{}, nil, fmt.Errorf("reading multipart part: %w", err)
		}

		data, err := io.ReadAll(io.LimitReader(part, MaxUploadBytes+1))
		if err != nil {
			return DiscordPayload{}, nil, fmt.Errorf("reading multipart part %q: %w", part.FormName(), err)
		}
		if len(data) > MaxUploadBytes {
			return DiscordPayload{}, nil, fmt.Errorf("attachment %q exceeds %d bytes", part.FileName(), MaxUploadBytes)
		}

		if part.FileName() != "" {
			files = append(files, File{Filename: part.FileName(), Data: data})
			continue
		}
		if part.FormName() == "payload_json" {
			if err := json.Unmarshal(data, &payload); err != nil {
				return DiscordPayload{}, nil, fmt.Errorf("parsing payload_json: %w", err)
			}
		}
	}
	return payload, files, nil
}
