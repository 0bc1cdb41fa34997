// Package main fails when any function outside main packages falls below the
// required coverage in a go test cover profile.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

const required = 100.0

// exclusions lowers the bar for functions with branches tests cannot reach
// portably, keyed by the file:line that go tool cover reports.
var exclusions = map[string]float64{
	// permission failures are not observable when tests run as root
	"github.com/andyballingall/cargo-fmt-all/internal/runner/exec_runner.go": 85.0,
	// fsnotify error channel delivery depends on the platform backend
	"github.com/andyballingall/cargo-fmt-all/internal/batch/watcher.go": 85.0,
}

func main() {
	profile := "coverage.out"
	if len(os.Args) > 1 {
		profile = os.Args[1]
	}

	output, err := exec.Command("go", "tool", "cover", "-func", profile).Output()
	if err != nil {
		fmt.Printf("❌ Error running go tool cover: %v\n", err)
		os.Exit(1)
	}

	failures, total := check(output)
	if len(failures) > 0 {
		fmt.Printf("❌ Coverage check failed! Functions below %.0f%%:\n", required)
		for _, f := range failures {
			fmt.Printf("  %s\n", f)
		}
		os.Exit(1)
	}

	fmt.Println("✅ Coverage check passed")
	if total != "" {
		fmt.Printf("📊 %s\n", total)
	}
}

func check(output []byte) (failures []string, total string) {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		if fields[0] == "total:" {
			total = line
			continue
		}
		if strings.Contains(fields[0], "/cmd/") || strings.Contains(fields[0], "/scripts/") {
			continue
		}

		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[len(fields)-1], "%"), 64)
		if err != nil {
			continue
		}
		if pct < threshold(fields[0]) {
			failures = append(failures, line)
		}
	}
	return failures, total
}

func threshold(location string) float64 {
	for file, floor := range exclusions {
		if strings.HasPrefix(location, file+":") {
			return floor
		}
	}
	return required
}
