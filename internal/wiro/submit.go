package wiro

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"wirotask/internal/task"
)

// runResponse is the acknowledgement of POST /Run/{tool}.
type runResponse struct {
	Result            task.Truthy     `json:"result"`
	TaskID            task.FlexString `json:"taskid"`
	SocketAccessToken string          `json:"socketaccesstoken"`
	Errors            errorList       `json:"errors"`
}

// errorList accepts the shapes the API uses for "errors": a list of
// strings, a list of {code, message} objects, or a single string.
type errorList []string

func (e *errorList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = nil
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = errorList{s}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	out := make(errorList, 0, len(items))
	for _, item := range items {
		if msg := errorText(item); msg != "" {
			out = append(out, msg)
		}
	}
	*e = out
	return nil
}

func errorText(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	var obj struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(item, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}
	return string(bytes.TrimSpace(item))
}

// Submit posts params to the tool's Run endpoint and returns the handle of
// the queued task. Missing identifiers in an accepted response are passed
// through empty.
func (c *Client) Submit(ctx context.Context, params map[string]any) (task.Handle, error) {
	return c.submit(ctx, params, c.submitLog)
}

func (c *Client) submit(ctx context.Context, params map[string]any, log *zap.Logger) (task.Handle, error) {
	if params == nil {
		params = map[string]any{}
	}

	raw, err := c.poster.Post(ctx, c.runURL(), params, c.signer.Headers().HTTPHeader())
	if err != nil {
		return task.Handle{}, fmt.Errorf("task submission failed: %w", err)
	}

	var resp runResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return task.Handle{}, fmt.Errorf("task submission failed: failed to parse response: %w", err)
	}

	if !resp.Result {
		serr := &SubmissionError{Errors: resp.Errors}
		if len(serr.Errors) == 0 {
			serr.Errors = []string{UnknownError}
		}
		log.Warn("task rejected", zap.String("tool", c.cfg.ToolSlug), zap.Strings("errors", serr.Errors))
		return task.Handle{}, fmt.Errorf("task submission failed: %w", serr)
	}

	h := task.Handle{
		TaskID:            resp.TaskID.String(),
		SocketAccessToken: resp.SocketAccessToken,
	}
	log.Info("task submitted", zap.String("tool", c.cfg.ToolSlug), zap.String("task_id", h.TaskID))
	return h, nil
}
