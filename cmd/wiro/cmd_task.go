package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wirotask/internal/task"
	"wirotask/internal/wiro"
)

var (
	taskID      string
	socketToken string
)

// statusCmd fetches one task record
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current status of a task",
	Long: `Fetches the task record once and prints its status, phase and outputs.
When both identifiers are given the socket access token is used.`,
	Args: cobra.NoArgs,
	RunE: showStatus,
}

// pollCmd waits on an already submitted task
var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Poll an existing task until it finishes and print the result",
	Args:  cobra.NoArgs,
	RunE:  pollTask,
}

func init() {
	for _, c := range []*cobra.Command{statusCmd, pollCmd} {
		c.Flags().StringVar(&taskID, "task-id", "", "Task id returned on submission")
		c.Flags().StringVar(&socketToken, "token", "", "Socket access token returned on submission")
	}
	pollCmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "Maximum status checks (default from config)")
	pollCmd.Flags().DurationVar(&pollInterval, "interval", 0, "Delay between status checks (default from config)")
}

func handleFromFlags() task.Handle {
	return task.Handle{TaskID: taskID, SocketAccessToken: socketToken}
}

func showStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	client, err := newClient()
	if err != nil {
		return err
	}
	rec, err := client.Detail(ctx, handleFromFlags())
	if err != nil {
		return err
	}

	printRecord(cmd, rec)
	return nil
}

func printRecord(cmd *cobra.Command, rec task.Record) {
	w := cmd.OutOrStdout()
	phase := rec.Phase()

	if id := rec.ID.String(); id != "" {
		field(w, "Task", id)
	}
	field(w, "Status", phaseStyle(phase).Render(rec.Status))
	field(w, "Phase", phase.String())
	if elapsed := rec.ElapsedSeconds.String(); elapsed != "" {
		field(w, "Elapsed", elapsed+"s")
	}

	for i, out := range rec.Outputs {
		desc := out.ContentType
		if out.Name != "" {
			desc = out.Name + " (" + out.ContentType + ")"
		}
		if out.URL != "" {
			desc += " " + out.URL
		}
		field(w, fmt.Sprintf("Output %d", i), desc)
	}

	if phase == task.PhaseSucceeded {
		if value, err := task.Extract(rec); err == nil {
			field(w, "Result", value)
		}
	}
}

func pollTask(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

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

	rec, err := client.Poll(ctx, handleFromFlags())
	if err != nil {
		if errors.Is(err, wiro.ErrTaskCancelled) {
			fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render("task cancelled"))
		}
		return err
	}

	value, err := task.Extract(rec)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}
