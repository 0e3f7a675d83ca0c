package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wirotask/internal/logging"
	"wirotask/internal/wiro"
)

var batchParallel int

// batchCmd runs one task per params file
var batchCmd = &cobra.Command{
	Use:   "batch FILE...",
	Short: "Run one task per JSON params file",
	Long: `Each file holds a JSON parameter object and becomes an independent run.
Runs proceed concurrently up to --parallel; a failed run does not stop
the others. Results are printed in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVar(&batchParallel, "parallel", 4, "Maximum concurrent runs")
}

type batchResult struct {
	file  string
	value string
	err   error
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	if batchParallel < 1 {
		return fmt.Errorf("--parallel must be at least 1, got %d", batchParallel)
	}
	if _, err := newClient(); err != nil {
		return err
	}

	log := logging.Get(logging.CategoryCLI)
	results := make([]batchResult, len(args))

	var g errgroup.Group
	g.SetLimit(batchParallel)
	for i, file := range args {
		results[i].file = file
		g.Go(func() error {
			params, err := loadParams(file, nil)
			if err != nil {
				results[i].err = err
				return err
			}

			label := filepath.Base(file)
			client, err := newClient(wiro.WithStatusHook(newProgress(cmd.ErrOrStderr(), label).hook))
			if err != nil {
				results[i].err = err
				return err
			}

			res, err := client.Run(ctx, params)
			if err != nil {
				log.Warn("batch run failed", zap.String("file", file), zap.Error(err))
				results[i].err = err
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i].value = res.Value
			return nil
		})
	}
	waitErr := g.Wait()

	w := cmd.OutOrStdout()
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(w, "%s %s: %v\n", errorStyle.Render("✗"), r.file, r.err)
			continue
		}
		fmt.Fprintf(w, "%s %s\n%s\n", successStyle.Render("✓"), r.file, r.value)
	}

	if waitErr != nil {
		return fmt.Errorf("%d of %d runs failed, first: %w", failed, len(results), waitErr)
	}
	return nil
}
