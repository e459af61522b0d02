// Package main provides a performance benchmarking tool for the aeroindex CLI.
// It times each command against YAML tables and against an imported SQLite table database,
// treating the first successful database run as cold and averaging the rest as warm,
// and writes the results to CSV.
//
// Prerequisites:
// - aeroindex binary installed and available in PATH
// - Example tables and answers in the given directory
//
// Usage: go run benchmark/main.go [examples-dir]
//
//	examples-dir: Directory containing scores.yaml, adjusted_ifr.yaml, adjusted_vfr.yaml and answers.yaml
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (YAML average, database cold run and average of warm runs).
type BenchmarkResult struct {
	Command  string
	Format   string
	YAMLTime string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	ExamplesDir string
	DBPath      string
	OutDir      string
	Timeout     time.Duration
	YAMLRuns    int
	DBRuns      int
	Formats     []string
}

// benchmarkCase is one command line to time.
type benchmarkCase struct {
	command string
	format  string
	args    []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [examples-dir]\n", os.Args[0])
		os.Exit(1)
	}

	outDir, err := os.MkdirTemp("", "aeroindex-benchmark-*")
	if err != nil {
		fmt.Printf("Failed to create work dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	config := BenchmarkConfig{
		ExamplesDir: os.Args[1],
		DBPath:      filepath.Join(outDir, "tables.db"),
		OutDir:      outDir,
		Timeout:     time.Minute,
		YAMLRuns:    5,
		DBRuns:      6,
		Formats:     []string{"text", "json", "csv", "xlsx", "parquet"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Importing tables into %s...\n", config.DBPath)
	importArgs := append([]string{"tables", "import"}, tableArgs(config)...)
	importArgs = append(importArgs, backendArgs(config, "sqlite")...)
	if output, err := exec.Command("aeroindex", importArgs...).CombinedOutput(); err != nil {
		fmt.Printf("Failed to import tables: %v\nOutput: %s\n", err, string(output))
		os.Exit(1)
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the aeroindex binary and example files exist.
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("aeroindex"); err != nil {
		return fmt.Errorf("aeroindex binary not found in PATH")
	}
	for _, name := range []string{"scores.yaml", "adjusted_ifr.yaml", "adjusted_vfr.yaml", "answers.yaml"} {
		path := filepath.Join(config.ExamplesDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("%s not found at %s", name, path)
		}
	}
	return nil
}

func tableArgs(config BenchmarkConfig) []string {
	return []string{
		"--scores", filepath.Join(config.ExamplesDir, "scores.yaml"),
		"--adjusted-ifr", filepath.Join(config.ExamplesDir, "adjusted_ifr.yaml"),
		"--adjusted-vfr", filepath.Join(config.ExamplesDir, "adjusted_vfr.yaml"),
	}
}

func backendArgs(config BenchmarkConfig, backend string) []string {
	if backend == "none" {
		return []string{"--table-backend", "none"}
	}
	return []string{"--table-backend", backend, "--table-db-connect", config.DBPath}
}

// cases lists every command line to time.
func cases(config BenchmarkConfig) []benchmarkCase {
	answers := filepath.Join(config.ExamplesDir, "answers.yaml")
	out := []benchmarkCase{
		{command: "questionnaire", format: "text", args: []string{"questionnaire", "--color", "no"}},
	}
	for _, format := range config.Formats {
		args := []string{"assess", "--answers", answers, "--output", format, "--color", "no"}
		if format != "text" {
			args = append(args, "--output-file", filepath.Join(config.OutDir, "assessment."+format))
		}
		out = append(out, benchmarkCase{command: "assess", format: format, args: args})
	}
	return out
}

// runBenchmarks executes every case against both table sources.
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %v timeout, yaml: %d runs, sqlite: %d runs\n",
		config.Timeout, config.YAMLRuns, config.DBRuns)

	for _, c := range cases(config) {
		results = append(results, runBenchmarkSuite(config, c))
	}
	return results
}

// runBenchmarkSuite runs both the YAML and database phases for one case.
func runBenchmarkSuite(config BenchmarkConfig, c benchmarkCase) BenchmarkResult {
	fmt.Printf("Running %s (%s)\n", c.command, c.format)

	runPhase := func(backend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		args := append(append([]string{}, c.args...), tableArgs(config)...)
		args = append(args, backendArgs(config, backend)...)
		cold, times := runBenchmark(config, args, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, yamlAvg := runPhase("none", config.YAMLRuns, "YAML")
	coldTime, warmAvg := runPhase("sqlite", config.DBRuns, "SQLite")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  YAML average: %s, Cold time: %s, Warm average: %s\n", yamlAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Command:  c.command,
		Format:   c.format,
		YAMLTime: yamlAvg,
		ColdTime: coldTimeStr,
		WarmTime: warmAvg,
	}
}

// runBenchmark executes aeroindex numRuns times and returns the cold time and warm times.
func runBenchmark(config BenchmarkConfig, args []string, numRuns int) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("aeroindex", args...)

		done := make(chan error, 1)
		go func() {
			_, err := cmd.CombinedOutput()
			done <- err
		}()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("aeroindex_benchmark_%s.csv", timestamp))

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
	defer writer.Flush()

	if err := writer.Write([]string{"cmd", "format", "yaml_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.Format, result.YAMLTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary.
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-14s %-8s: YAML: %s, Cold: %s, Warm: %s\n",
			result.Command, result.Format, result.YAMLTime, result.ColdTime, result.WarmTime)
	}
}
