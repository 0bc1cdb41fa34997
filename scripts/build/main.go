// Package main builds cargo-fmt-all into bin/, stamping the version from git.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const versionVar = "github.com/andyballingall/cargo-fmt-all/internal/app.Version"

func main() {
	binaryName := "cargo-fmt-all"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}

	version := gitVersion()
	ldflags := fmt.Sprintf("-X %s=%s", versionVar, version)

	if err := os.MkdirAll("bin", 0o755); err != nil {
		fmt.Printf("❌ Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	outputPath := filepath.Join("bin", binaryName)
	fmt.Printf("Building %s %s...\n", binaryName, version)

	cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", outputPath, "./cmd/cargo-fmt-all")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Build failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Build complete: %s\n", outputPath)
}

// gitVersion describes HEAD, or returns "dev" outside a git checkout.
func gitVersion() string {
	var out bytes.Buffer
	cmd := exec.Command("git", "describe", "--tags", "--always", "--dirty")
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "dev"
	}
	return strings.TrimSpace(out.String())
}
