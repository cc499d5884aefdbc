package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quill-lang/quill/formatter"
	"github.com/quill-lang/quill/pattern"
)

var (
	checkJsonOutput bool
	outPath         string
	watchMode       bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Lower every pattern case found in the given fixture files",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: Please provide fixture file or directory paths")
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		checker := pattern.New()

		if watchMode {
			runWatch(checker, args)
			return
		}
		runCheck(ctx, logger, checker, args, checkJsonOutput, outPath)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkJsonOutput, "json", false, "Output results in JSON format")
	checkCmd.Flags().StringVarP(&outPath, "output", "o", "", "Output path (when using JSON)")
	checkCmd.Flags().BoolVar(&watchMode, "watch", false, "Re-run whenever a fixture file changes")
}

func runCheck(ctx context.Context, logger *zap.Logger, checker pattern.Checker, paths []string, isJson bool, jsonOutput string) {
	results, err := pattern.ProcessFiles(ctx, logger, checker, paths)
	if err != nil {
		logger.Error("Error processing files", zap.Error(err))
		os.Exit(1)
	}

	failed := printResults(logger, results, isJson, jsonOutput)
	if failed {
		os.Exit(1)
	}
}

func runWatch(checker pattern.Checker, paths []string) {
	watcher, err := pattern.NewWatcher(checker, logger, func(results []pattern.Result) {
		printResults(logger, results, false, "")
	})
	if err != nil {
		logger.Fatal("Failed to create watcher", zap.Error(err))
	}
	if err := watcher.Start(paths); err != nil {
		logger.Fatal("Failed to start watching", zap.Error(err))
	}
	defer watcher.Stop()

	// block until interrupted
	select {}
}

// printResults reports lowered cases grouped by fixture and returns whether
// any case produced a diagnostic.
func printResults(logger *zap.Logger, results []pattern.Result, isJson bool, jsonOutput string) bool {
	byFixture := make(map[string][]pattern.Result)
	for _, r := range results {
		byFixture[r.Fixture] = append(byFixture[r.Fixture], r)
	}

	sortedFixtures := make([]string, 0, len(byFixture))
	for name := range byFixture {
		sortedFixtures = append(sortedFixtures, name)
	}
	sort.Strings(sortedFixtures)

	failed := false
	if !isJson {
		for _, name := range sortedFixtures {
			fmt.Printf("%s:\n", name)
			for _, r := range byFixture[name] {
				fmt.Printf("  %s: %s\n", r.Case, r.Render)
				if len(r.Diags) > 0 {
					failed = true
					fmt.Println(formatter.Format(r.Diags))
				}
			}
		}
	} else {
		for _, rs := range byFixture {
			for _, r := range rs {
				if len(r.Diags) > 0 {
					failed = true
				}
			}
		}
		d, err := json.Marshal(byFixture)
		if err != nil {
			logger.Error("Error marshalling results to JSON", zap.Error(err))
			return failed
		}
		if jsonOutput == "" {
			fmt.Println(string(d))
		} else {
			f, err := os.Create(jsonOutput)
			if err != nil {
				logger.Error("Error creating JSON output file", zap.Error(err))
				return failed
			}
			defer f.Close()
			if _, err := f.Write(d); err != nil {
				logger.Error("Error writing JSON output file", zap.Error(err))
			}
		}
	}
	return failed
}
