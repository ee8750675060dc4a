package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ocrText runs tesseract on an image and returns the recognized text.
// Stdout carries the text ("stdout" output target); stderr is captured
// silently and only surfaces in the error when the process fails.
func (e *Extractor) ocrText(ctx context.Context, path string) (string, error) {
	cmd := exec.CommandContext(ctx, "tesseract", path, "stdout", "-l", e.Lang)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := lastStderrLine(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("tesseract: %s: %w", msg, err)
		}
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return stdout.String(), nil
}

// lastStderrLine returns the final non-blank stderr line, which is where
// tesseract puts its actual error message.
func lastStderrLine(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
