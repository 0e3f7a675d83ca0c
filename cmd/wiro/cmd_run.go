package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wirotask/internal/logging"
	"wirotask/internal/wiro"
)

var (
	// Parameter flags shared by run and submit
	paramPairs []string
	paramsFile string

	// Run flags
	maxAttempts  int
	pollInterval time.Duration
	render       bool
)

// runCmd submits a task and waits for its result
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Submit a task, poll until it finishes and print the result",
	Long: `Submits the given parameters to the configured tool, polls the task until
it reaches a terminal status and prints the extracted result: the text
answer for raw outputs, otherwise the first output URL.

Example:
  wiro run --param prompt="a red fox in snow"
  wiro run --tool wiro/chat --params-file prompt.json --render`,
	Args: cobra.NoArgs,
	RunE: runTask,
}

// submitCmd submits a task without waiting
var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a task and print its handle",
	Args:  cobra.NoArgs,
	RunE:  submitTask,
}

func init() {
	for _, c := range []*cobra.Command{runCmd, submitCmd} {
		c.Flags().StringArrayVarP(&paramPairs, "param", "p", nil, "Tool parameter as key=value (repeatable)")
		c.Flags().StringVar(&paramsFile, "params-file", "", "JSON file with a parameter object")
	}
	runCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Maximum status checks (default from config)")
	runCmd.Flags().DurationVar(&pollInterval, "interval", 0, "Delay between status checks (default from config)")
	runCmd.Flags().BoolVar(&render, "render", false, "Render a text result as markdown")
}

func runTask(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	params, err := loadParams(paramsFile, paramPairs)
	if err != nil {
		return err
	}
	if maxAttempts > 0 {
		cfg.Poll.MaxAttempts = maxAttempts
	}
	if pollInterval > 0 {
		cfg.Poll.Interval = pollInterval.String()
	}

	client, err := newClient(wiro.WithStatusHook(newProgress(cmd.ErrOrStderr(), "").hook))
	if err != nil {
		return err
	}

	res, err := client.Run(ctx, params)
	if err != nil {
		return err
	}
	logging.Get(logging.CategoryCLI).Debug("run finished",
		zap.String("run_id", res.RunID),
		zap.String("task_id", res.Handle.TaskID))

	out := res.Value
	if render {
		if out, err = renderMarkdown(res.Value); err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

func submitTask(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	params, err := loadParams(paramsFile, paramPairs)
	if err != nil {
		return err
	}
	client, err := newClient()
	if err != nil {
		return err
	}

	h, err := client.Submit(ctx, params)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	field(w, "task_id", h.TaskID)
	field(w, "socket_access_token", h.SocketAccessToken)
	return nil
}

// loadParams reads the optional JSON object in file, then applies key=value
// pairs on top. A value that parses as JSON keeps its JSON type; anything
// else is sent as a string.
func loadParams(file string, pairs []string) (map[string]any, error) {
	params := make(map[string]any)

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}
		if err := json.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("failed to parse params file %s: %w", file, err)
		}
		if params == nil {
			params = make(map[string]any)
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --param %q: expected key=value", pair)
		}
		params[key] = paramValue(value)
	}

	return params, nil
}

func paramValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
