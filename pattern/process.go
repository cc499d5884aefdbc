package pattern

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// ProcessSources lowers in-memory fixture documents in order.
func ProcessSources(
	ctx context.Context,
	logger *zap.Logger,
	checker Checker,
	sources [][]byte,
) ([]Result, error) {
	var all []Result
	for i, src := range sources {
		results, err := checker.RunSource(src)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing source", zap.Int("source", i), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

// ProcessFiles lowers every fixture reachable from the given paths.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	checker Checker,
	paths []string,
) ([]Result, error) {
	var all []Result
	for _, path := range paths {
		results, err := ProcessPath(ctx, logger, checker, path)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			return nil, err
		}
		all = append(all, results...)
	}
	return all, nil
}

// ProcessPath lowers one fixture file, or every fixture under a directory.
// Directory runs fan out across a bounded worker pool with a progress bar.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	checker Checker,
	path string,
) ([]Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}
	if !info.IsDir() {
		return checker.Run(path)
	}

	var files []string
	filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err == nil && !fileInfo.IsDir() && hasFixtureExtension(filePath) {
			files = append(files, filePath)
		}
		return nil
	})

	type outcome struct {
		index   int
		results []Result
		err     error
	}
	outcomes := make(chan outcome, len(files))

	// limit the number of workers
	maxWorkers := runtime.NumCPU()
	sem := make(chan struct{}, maxWorkers)

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetDescription(path),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))

	for i, filePath := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
			sem <- struct{}{}
			go func(index int, fp string) {
				defer func() { <-sem }()

				results, err := checker.Run(fp)
				if err != nil && logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
				bar.Add(1)
				outcomes <- outcome{index: index, results: results, err: err}
			}(i, filePath)
		}
	}

	// collect in file order so output stays stable across runs
	collected := make([][]Result, len(files))
	for range files {
		out := <-outcomes
		if out.err != nil {
			return nil, out.err
		}
		collected[out.index] = out.results
	}
	fmt.Println()

	var all []Result
	for _, results := range collected {
		all = append(all, results...)
	}
	return all, nil
}

func hasFixtureExtension(path string) bool {
	return strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")
}
