// Package kilocode adapts the Vibe CLI (KiloCode/Mistral) into the
// orchestrator's CallModel boundary.
package kilocode

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Host runs prompts through the Vibe CLI.
type Host struct {
	BinaryPath string
	APIKey     string
	Model      string
}

// New builds a Host, resolving binaryPath against PATH and a few common
// install locations if it is not already absolute.
func New(binaryPath, apiKey, model string) *Host {
	if binaryPath == "" {
		binaryPath = "vibe"
	}
	return &Host{
		BinaryPath: resolveBinaryPath(binaryPath),
		APIKey:     apiKey,
		Model:      model,
	}
}

func resolveBinaryPath(binaryPath string) string {
	if filepath.IsAbs(binaryPath) {
		return binaryPath
	}
	if path, err := exec.LookPath(binaryPath); err == nil {
		return path
	}

	home, _ := os.UserHomeDir()
	commonPaths := []string{
		filepath.Join(home, ".vibe", "local", "vibe"),
		"/usr/local/bin/vibe",
		"/opt/homebrew/bin/vibe",
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return binaryPath
}

func notFoundError() error {
	return fmt.Errorf(`vibe not found in PATH

To fix, add to your ~/.zshrc or ~/.bashrc:
  export PATH="$HOME/.vibe/local:$PATH"

Then restart your terminal, or run:
  source ~/.zshrc

Alternatively, set the full path in .converge/config.yaml:
  kilocode:
    binary: /path/to/vibe`)
}

// CallModel runs prompt through the Vibe CLI and returns its stdout as the
// response text. It satisfies orchestrator.CallModel.
func (h *Host) CallModel(ctx context.Context, prompt string) (string, error) {
	args := h.buildArgs(prompt)

	cmd := exec.CommandContext(ctx, h.BinaryPath, args...)
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), fmt.Sprintf("MISTRAL_API_KEY=%s", h.APIKey))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if strings.Contains(err.Error(), "executable file not found") {
			return "", notFoundError()
		}
		return "", fmt.Errorf("failed to start vibe: %w", err)
	}

	var sb strings.Builder
	scanner := bufio.NewScanner(stdout)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	scanErr := scanner.Err()

	if err := cmd.Wait(); err != nil {
		return "", fmt.Errorf("vibe exited with error: %w", err)
	}
	if scanErr != nil {
		return "", fmt.Errorf("failed to read vibe output: %w", scanErr)
	}

	return sb.String(), nil
}

func (h *Host) buildArgs(prompt string) []string {
	var args []string
	if h.Model != "" {
		args = append(args, "--model", h.Model)
	}
	args = append(args, "--prompt", prompt)
	return args
}
