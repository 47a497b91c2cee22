// Package main provides a performance benchmarking tool for the docscope CLI.
// It measures execution times across source trees, commands and worker counts,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - docscope binary installed and available in PATH
// - Source trees cloned to the specified base directory
// - Trees: clhep, root, geant4
//
// Usage: go run benchmark/main.go [tree-base-dir]
//
//	tree-base-dir: Directory containing the source trees
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark suite (cold run and average of warm runs).
type BenchmarkResult struct {
	Tree        string
	Command     string
	Workers     int
	ColdTime    string
	WarmTime    string
	HistoryTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	TreeBase   string
	Timeout    time.Duration
	Workers    []int
	Runs       int
	Trees      []string
	SourceDirs map[string]string
	Commands   []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [tree-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		TreeBase: os.Args[1],
		Timeout:  10 * time.Minute,
		Workers:  []int{1, 4, runtime.NumCPU()},
		Runs:     4,
		Trees:    []string{"clhep", "root", "geant4"},
		SourceDirs: map[string]string{
			"geant4": "source",
		},
		Commands: []string{"analyze", "modules", "check"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	historyDB := filepath.Join(os.TempDir(), "docscope_benchmark_history.db")
	defer func() { _ = os.Remove(historyDB) }()

	results := runBenchmarks(config, historyDB)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the docscope binary and source trees exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("docscope"); err != nil {
		return fmt.Errorf("docscope binary not found in PATH")
	}
	for _, tree := range config.Trees {
		treePath := filepath.Join(config.TreeBase, tree)
		if _, err := os.Stat(treePath); os.IsNotExist(err) {
			return fmt.Errorf("source tree %s not found at %s", tree, treePath)
		}
	}
	return nil
}

// runBenchmarks executes all benchmark suites across configured trees
func runBenchmarks(config BenchmarkConfig, historyDB string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d trees, %v timeout, workers %v, %d runs per suite\n",
		len(config.Trees), config.Timeout, config.Workers, config.Runs)

	for _, tree := range config.Trees {
		fmt.Printf("Benchmarking %s\n", tree)
		treePath := filepath.Join(config.TreeBase, tree)

		for _, command := range config.Commands {
			for _, workers := range config.Workers {
				results = append(results, runBenchmarkSuite(config, tree, treePath, command, workers, historyDB))
			}
		}
	}

	return results
}

// runBenchmarkSuite runs the plain and history-recording phases for one command
func runBenchmarkSuite(config BenchmarkConfig, tree, treePath, command string, workers int, historyDB string) BenchmarkResult {
	fmt.Printf("Running %s on %s with %d workers\n", command, tree, workers)

	args := []string{command, "--output", "text", "--color", "no", "--progress", "no", "--workers", strconv.Itoa(workers)}
	if dir, ok := config.SourceDirs[tree]; ok {
		args = append(args, "--source-dir", dir)
	}
	if command == "check" {
		// Keep gates off so the exit code reflects only the run itself
		args = append(args, "--thresholds-override", "well:-1,poor:-1,class:-1,function:-1,failed:-1")
	}

	cold, warm := runBenchmark(config, treePath, command, args, config.Runs)
	_, history := runBenchmark(config, treePath, command,
		append(args, "--history-backend", "sqlite", "--history-db-connect", historyDB), 2)

	result := BenchmarkResult{
		Tree:        tree,
		Command:     command,
		Workers:     workers,
		ColdTime:    formatSeconds(cold),
		WarmTime:    formatAverage(warm),
		HistoryTime: formatAverage(history),
	}
	fmt.Printf("  Cold: %s, Warm average: %s, With history: %s\n", result.ColdTime, result.WarmTime, result.HistoryTime)
	return result
}

// runBenchmark executes a docscope command multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, treePath, command string, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()

		cmd := exec.CommandContext(ctx, "docscope", args...)
		cmd.Dir = treePath
		output, err := cmd.CombinedOutput()
		elapsed := time.Since(start).Seconds()
		timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
		cancel()

		if err == nil && !timedOut && isSuccess(output, command) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)
	if command == "check" {
		return strings.Contains(outputStr, "All documentation gates passed")
	}
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "workers")
}

func formatSeconds(v float64) string {
	if v <= 0 {
		return "TIMEOUT"
	}
	return fmt.Sprintf("%.3fs", v)
}

func formatAverage(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("docscope_benchmark_%s.csv", timestamp))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"tree", "cmd", "workers", "cold_time", "warm_avg", "history_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Tree, r.Command, strconv.Itoa(r.Workers), r.ColdTime, r.WarmTime, r.HistoryTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range config.Commands {
		fmt.Printf("%s:\n", command)
		for _, r := range results {
			if r.Command == command {
				fmt.Printf("  %-8s %3d workers: Cold: %s, Warm: %s, History: %s\n", r.Tree, r.Workers, r.ColdTime, r.WarmTime, r.HistoryTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
