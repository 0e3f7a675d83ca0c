package wiro

import (
	"context"
	"encoding/json"
	"fmt"

	"wirotask/internal/task"
)

type detailRequest struct {
	TaskID            string `json:"taskid,omitempty"`
	SocketAccessToken string `json:"socketaccesstoken,omitempty"`
}

type detailResponse struct {
	Result   task.Truthy   `json:"result"`
	TaskList []task.Record `json:"tasklist"`
}

// Detail fetches the current record of a task. The socket access token is
// used when present, otherwise the task id.
func (c *Client) Detail(ctx context.Context, h task.Handle) (task.Record, error) {
	if h.IsZero() {
		return task.Record{}, fmt.Errorf("failed to get task detail: %w", ErrMissingTaskRef)
	}

	var body detailRequest
	if h.SocketAccessToken != "" {
		body.SocketAccessToken = h.SocketAccessToken
	} else {
		body.TaskID = h.TaskID
	}

	raw, err := c.poster.Post(ctx, c.detailURL(), body, c.signer.Headers().HTTPHeader())
	if err != nil {
		return task.Record{}, fmt.Errorf("failed to get task detail: %w", err)
	}

	var resp detailResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return task.Record{}, fmt.Errorf("failed to get task detail: failed to parse response: %w", err)
	}
	if !resp.Result || len(resp.TaskList) == 0 {
		return task.Record{}, fmt.Errorf("failed to get task detail: %w", ErrTaskNotFound)
	}

	return resp.TaskList[0], nil
}
