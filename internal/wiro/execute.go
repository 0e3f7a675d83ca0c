package wiro

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wirotask/internal/task"
)

// Result is the outcome of one Run.
type Result struct {
	RunID  string
	Handle task.Handle
	Record task.Record
	Value  string
}

// Execute submits params, polls until the task finishes and returns the
// extracted result.
func (c *Client) Execute(ctx context.Context, params map[string]any) (string, error) {
	res, err := c.Run(ctx, params)
	if err != nil {
		return "", err
	}
	return res.Value, nil
}

// Run is Execute returning the handle and final record alongside the value.
// Each call gets its own run id, attached to every log line it produces.
func (c *Client) Run(ctx context.Context, params map[string]any) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	runField := zap.String("run_id", res.RunID)
	submitLog := c.submitLog.With(runField)
	pollLog := c.pollLog.With(runField)

	submitLog.Info("submitting task",
		zap.String("tool", c.cfg.ToolSlug),
		zap.Strings("params", paramNames(params)))

	h, err := c.submit(ctx, params, submitLog)
	if err != nil {
		return nil, fmt.Errorf("API execution failed: %w", err)
	}
	res.Handle = h

	pollLog.Info("polling for result", zap.String("task_id", h.TaskID))
	rec, err := c.poll(ctx, h, c.Policy(), pollLog)
	if err != nil {
		return nil, fmt.Errorf("API execution failed: %w", err)
	}
	res.Record = rec

	value, err := task.Extract(rec)
	if err != nil {
		c.extractLog.Warn("no result in completed task",
			runField,
			zap.String("task_id", h.TaskID),
			zap.Int("outputs", len(rec.Outputs)))
		return nil, fmt.Errorf("API execution failed: %w", err)
	}
	res.Value = value

	pollLog.Info("task completed", zap.String("task_id", h.TaskID), zap.Int("result_len", len(value)))
	return res, nil
}

// paramNames lists parameter keys for logging without their values.
func paramNames(params map[string]any) []string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
