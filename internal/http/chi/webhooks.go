package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-bridge/bridge"
	"github.com/marcelsud/webhook-bridge/routes"
	"github.com/rs/zerolog"
)

/* HTTP layer DTOs and the per-source entry points.
 * Every terminal state here is an HTTP status: structural errors answer
 * before any bus interaction, tri-state results map to 200/500/202, and
 * bus transport failures are the only catch-all 500.
 */

// hookResponse is the uniform response body for every webhook route.
type hookResponse struct {
	OK    bool   `json:"ok"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

/* ClaimFunc attempts to handle a request, reporting whether it produced a
 * response. Returning false passes control to the next handler in a chain;
 * the handler must not have written anything in that case.
 */
type ClaimFunc func(w http.ResponseWriter, r *http.Request) bool

// Chain tries each handler in order; the first claimant wins. An unclaimed
// request gets the default 404.
func Chain(handlers ...ClaimFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, h := range handlers {
			if h(w, r) {
				return
			}
		}
		http.NotFound(w, r)
	}
}

// WebhookHandlers owns the per-source HTTP entry points.
type WebhookHandlers struct {
	client   *bridge.Client
	uploader *bridge.Uploader
	log      zerolog.Logger
}

// NewWebhookHandlers creates the webhook entry points over the correlation client.
func NewWebhookHandlers(client *bridge.Client, log zerolog.Logger) *WebhookHandlers {
	return &WebhookHandlers{
		client:   client,
		uploader: bridge.NewUploader(client),
		log:      log,
	}
}

/* Mount attaches a source's routes to the router. Deprecated sources pass
 * unknown hooks to the given fallbacks in order, supporting phased route
 * migration without breaking existing integrations.
 */
func (h *WebhookHandlers) Mount(r chi.Router, src *routes.Source, fallbacks ...ClaimFunc) {
	switch src.Type {
	case routes.Discord:
		r.Post(src.Prefix+"/{hookId}", h.discordWebhook)
	default:
		webhook := append([]ClaimFunc{h.genericWebhook(src.Deprecated)}, fallbacks...)
		upload := append([]ClaimFunc{h.genericUpload(src.Deprecated)}, fallbacks...)
		r.HandleFunc(src.Prefix+"/{hookId}", Chain(webhook...))
		r.Put(src.Prefix+"/{hookId}/upload/{filename}", Chain(upload...))
	}
}

// genericWebhook handles ALL {prefix}/{hookId}
func (h *WebhookHandlers) genericWebhook(deprecated bool) ClaimFunc {
	return func(w http.ResponseWriter, r *http.Request) bool {
		switch r.Method {
		case http.MethodPut, http.MethodGet, http.MethodPost:
		default:
			respond(w, http.StatusMethodNotAllowed, hookResponse{OK: false, Error: "Wrong METHOD. Expecting PUT, GET or POST"})
			return true
		}

		hookID := chi.URLParam(r, "hookId")
		hookData, err := bridge.NormalizeGeneric(r)
		if err != nil {
			respond(w, http.StatusBadRequest, hookResponse{OK: false, Error: "invalid request"})
			return true
		}

		res, err := h.client.SendWebhookDefault(r.Context(), bridge.WebhookEvent{
			HookData: hookData,
			HookID:   hookID,
		})
		if err != nil {
			h.log.Error().Err(err).Str("hook_id", hookID).Msg("failed to emit payload")
			respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to handle webhook"})
			return true
		}

		if res.NotFound {
			if deprecated {
				// Unknown hook on a deprecated path: let the next handler try.
				return false
			}
			respond(w, http.StatusNotFound, hookResponse{OK: false, Error: "Webhook not found"})
			return true
		}

		switch res.Outcome() {
		case bridge.Confirmed:
			respond(w, http.StatusOK, hookResponse{OK: true})
		case bridge.Failed:
			respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to process webhook"})
		default:
			respond(w, http.StatusAccepted, hookResponse{OK: true})
		}
		return true
	}
}

// genericUpload handles PUT {prefix}/{hookId}/upload/{filename}?send=
func (h *WebhookHandlers) genericUpload(deprecated bool) ClaimFunc {
	return func(w http.ResponseWriter, r *http.Request) bool {
		hookID := chi.URLParam(r, "hookId")
		filename := chi.URLParam(r, "filename")

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, bridge.MaxUploadBytes))
		if err != nil || len(body) == 0 {
			respond(w, http.StatusBadRequest, hookResponse{OK: false, Error: "invalid request"})
			return true
		}
		send := r.URL.Query().Get("send") != ""

		url, err := h.uploader.Upload(r.Context(), hookID, bridge.File{Filename: filename, Data: body})
		switch {
		case errors.Is(err, bridge.ErrHookNotFound):
			if deprecated {
				return false
			}
			respond(w, http.StatusNotFound, hookResponse{OK: false, Error: "Webhook not found"})
			return true
		case errors.Is(err, bridge.ErrUploadFailed):
			respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to upload file"})
			return true
		case err != nil:
			h.log.Error().Err(err).Str("hook_id", hookID).Msg("failed to emit payload")
			respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to handle upload"})
			return true
		}

		if !send {
			respond(w, http.StatusOK, hookResponse{OK: true, URL: url})
			return true
		}

		res, err := h.client.SendWebhookDefault(r.Context(), bridge.WebhookEvent{
			HookData: bridge.FileMessage(filename, url),
			HookID:   hookID,
		})
		if err != nil {
			h.log.Error().Err(err).Str("hook_id", hookID).Msg("failed to emit payload")
			respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to handle upload"})
			return true
		}

		switch res.Outcome() {
		case bridge.Confirmed:
			respond(w, http.StatusOK, hookResponse{OK: true, URL: url})
		case bridge.Failed:
			respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to process webhook"})
		default:
			respond(w, http.StatusAccepted, hookResponse{OK: true, URL: url})
		}
		return true
	}
}

// discordWebhook handles POST {prefix}/{hookId}
func (h *WebhookHandlers) discordWebhook(w http.ResponseWriter, r *http.Request) {
	hookID := chi.URLParam(r, "hookId")

	payload, files, err := bridge.NormalizeDiscord(r)
	if err != nil {
		respond(w, http.StatusBadRequest, hookResponse{OK: false, Error: "invalid payload"})
		return
	}
	if payload.Content == "" && len(files) == 0 {
		respond(w, http.StatusBadRequest, hookResponse{OK: false, Error: "invalid payload"})
		return
	}

	if len(files) > 0 {
		if _, err := h.uploader.UploadAndSend(r.Context(), hookID, files); err != nil {
			switch {
			case errors.Is(err, bridge.ErrHookNotFound):
				respond(w, http.StatusNotFound, hookResponse{OK: false, Error: "Webhook not found"})
			case errors.Is(err, bridge.ErrUploadFailed):
				respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to upload file"})
			case errors.Is(err, bridge.ErrSendFailed):
				respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "failed to send file"})
			default:
				h.log.Error().Err(err).Str("hook_id", hookID).Msg("failed to emit payload")
				respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to handle webhook"})
			}
			return
		}
	}

	if payload.Content == "" {
		// Attachments only: every file above was confirmed sent.
		respond(w, http.StatusAccepted, hookResponse{OK: true})
		return
	}

	res, err := h.client.SendWebhookDefault(r.Context(), bridge.WebhookEvent{
		HookData: bridge.TextMessage(payload.Content, payload.Username),
		HookID:   hookID,
	})
	if err != nil {
		h.log.Error().Err(err).Str("hook_id", hookID).Msg("failed to emit payload")
		respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "Failed to handle webhook"})
		return
	}
	if res.NotFound {
		respond(w, http.StatusNotFound, hookResponse{OK: false, Error: "Webhook not found"})
		return
	}
	if res.Outcome() != bridge.Confirmed {
		respond(w, http.StatusInternalServerError, hookResponse{OK: false, Error: "error sending webhook"})
		return
	}
	respond(w, http.StatusAccepted, hookResponse{OK: true})
}

func respond(w http.ResponseWriter, status int, body hookResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
