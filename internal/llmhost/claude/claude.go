// Package claude adapts the Claude Code CLI into the orchestrator's
// CallModel boundary: run the binary non-interactively, collect its
// stream-json assistant text, and return it as one string.
package claude

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Host runs prompts through the Claude Code CLI.
type Host struct {
	BinaryPath   string
	Model        string
	AllowedTools []string
}

// New builds a Host, resolving binaryPath against PATH and a few common
// install locations if it is not already absolute.
func New(binaryPath, model string, allowedTools []string) *Host {
	if binaryPath == "" {
		binaryPath = "claude"
	}
	return &Host{
		BinaryPath:   resolveBinaryPath(binaryPath),
		Model:        model,
		AllowedTools: allowedTools,
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
		filepath.Join(home, ".claude", "local", "claude"),
		"/usr/local/bin/claude",
		"/opt/homebrew/bin/claude",
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return binaryPath
}

func notFoundError() error {
	return fmt.Errorf(`claude not found in PATH

To fix, add to your ~/.zshrc or ~/.bashrc:
  export PATH="$HOME/.claude/local:$PATH"

Then restart your terminal, or run:
  source ~/.zshrc

Alternatively, set the full path in .converge/config.yaml:
  claude:
    binary: /path/to/claude`)
}

// CallModel runs prompt through Claude Code and returns its assembled
// response text. It satisfies orchestrator.CallModel.
func (h *Host) CallModel(ctx context.Context, prompt string) (string, error) {
	args := h.buildArgs(prompt)

	cmd := exec.CommandContext(ctx, h.BinaryPath, args...)
	cmd.Stderr = os.Stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		if strings.Contains(err.Error(), "executable file not found") {
			return "", notFoundError()
		}
		return "", fmt.Errorf("failed to start claude: %w", err)
	}

	text, parseErr := collectText(stdout)

	if err := cmd.Wait(); err != nil {
		return "", fmt.Errorf("claude exited with error: %w", err)
	}
	if parseErr != nil {
		return "", parseErr
	}

	return text, nil
}

func (h *Host) buildArgs(prompt string) []string {
	var args []string
	if h.Model != "" {
		args = append(args, "--model", h.Model)
	}
	args = append(args, "-p", prompt)
	if len(h.AllowedTools) > 0 {
		args = append(args, "--allowedTools", strings.Join(h.AllowedTools, ","))
	}
	args = append(args, "--output-format", "stream-json", "--verbose")
	return args
}

// streamEvent mirrors the shape of one line of Claude Code's stream-json
// output; only the fields needed to recover assistant text are kept.
type streamEvent struct {
	Type    string `json:"type"`
	Message *struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
	Result string `json:"result"`
}

// collectText reads stream-json lines from r and concatenates every
// assistant text block into a single response, falling back to the
// terminal "result" event if no assistant text was seen.
func collectText(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var sb strings.Builder
	var result string

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var event streamEvent
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			continue
		}
		switch event.Type {
		case "assistant":
			if event.Message != nil {
				for _, c := range event.Message.Content {
					if c.Type == "text" {
						sb.WriteString(c.Text)
					}
				}
			}
		case "result":
			result = event.Result
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read claude output: %w", err)
	}

	if sb.Len() > 0 {
		return sb.String(), nil
	}
	return result, nil
}
