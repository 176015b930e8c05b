package bridge

import (
	"context"
	"errors"
)

// Stage errors for the upload-then-send sequence. The HTTP layer maps each
// to its status and message.
var (
	ErrHookNotFound = errors.New("webhook not found")
	ErrUploadFailed = errors.New("failed to upload file")
	ErrSendFailed   = errors.New("failed to send file")
)

/* Uploader sequences "upload bytes, obtain a reference, send a message
 * referencing it". Files are processed strictly in request order and the
 * sequence stops at the first failure; files already sent stay delivered.
 */
type Uploader struct {
	client *Client
}

// NewUploader creates an uploader over the correlation client.
func NewUploader(client *Client) *Uploader {
	return &Uploader{client: client}
}

// Upload stores one file through the bus and returns its content reference.
func (u *Uploader) Upload(ctx context.Context, hookID string, file File) (string, error) {
	res, err := u.client.UploadFile(ctx, UploadEvent{
		Data:     file.Data,
		Filename: file.Filename,
		HookID:   hookID,
	}, u.client.Timeout())
	if err != nil {
		return "", err
	}
	if res.NotFound {
		return "", ErrHookNotFound
	}
	if res.MXC == "" {
		return "", ErrUploadFailed
	}
	return res.MXC, nil
}

// Send delivers the follow-up message for an uploaded file. Anything short
// of a confirmed success aborts the sequence.
func (u *Uploader) Send(ctx context.Context, hookID, filename, url string) error {
	res, err := u.client.SendWebhookDefault(ctx, WebhookEvent{
		HookData: FileMessage(filename, url),
		HookID:   hookID,
	})
	if err != nil {
		return err
	}
	if res.Outcome() != Confirmed {
		return ErrSendFailed
	}
	return nil
}

// UploadAndSend runs the full sequence for each file in order and returns
// the reference of the last uploaded file.
func (u *Uploader) UploadAndSend(ctx context.Context, hookID string, files []File) (string, error) {
	var last string
	for _, f := range files {
		url, err := u.Upload(ctx, hookID, f)
		if err != nil {
			return "", err
		}
		if err := u.Send(ctx, hookID, f.Filename, url); err != nil {
			return "", err
		}
		last = url
	}
	return last, nil
}

// FileMessage is the generic payload announcing an uploaded file.
func FileMessage(filename, url string) any {
	return map[string]any{
		"raw": map[string]any{
			"body":     filename,
			"filename": filename,
			"msgtype":  "m.file",
			"url":      url,
		},
	}
}

// TextMessage is the generic payload for a plain chat message with an
// optional caller-supplied display name.
func TextMessage(text, username string) any {
	data := map[string]any{"text": text}
	if username != "" {
		data["username"] = username
	}
	return data
}
