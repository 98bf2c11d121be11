package streamdl

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"talkcut/internal/textutil"
)

var commandContext = exec.CommandContext

// Client defines stream download behaviour. The downloader is invoked once
// per room with the room's stream URL; talks never trigger downloads.
type Client interface {
	Download(ctx context.Context, streamURL, outputDir, room string) (string, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithExtraArgs appends operator-supplied arguments before the URL.
func WithExtraArgs(args []string) Option {
	return func(c *CLI) {
		c.extraArgs = append([]string(nil), args...)
	}
}

// WithExtension overrides the container extension requested from the
// downloader.
func WithExtension(ext string) Option {
	return func(c *CLI) {
		if ext != "" {
			c.ext = ext
		}
	}
}

// CLI wraps the yt-dlp command-line downloader.
type CLI struct {
	binary    string
	ext       string
	extraArgs []string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "yt-dlp", ext: "mp4"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Download fetches the room's stream into outputDir as <room>.<ext> and
// returns the file path. An already-downloaded stream is returned without
// invoking the downloader, which is what makes re-runs cheap.
func (c *CLI) Download(ctx context.Context, streamURL, outputDir, room string) (string, error) {
	if streamURL == "" {
		return "", errors.New("stream url required")
	}
	if outputDir == "" {
		return "", errors.New("output directory required")
	}
	if room == "" {
		return "", errors.New("room name required")
	}

	// The file name must match what config.StreamPath derives from the
	// same room, so the spreadsheet name gets the same sanitization.
	name := textutil.SanitizeFileName(room)
	outputPath := filepath.Join(outputDir, name+"."+c.ext)
	if _, err := os.Stat(outputPath); err == nil {
		return outputPath, nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	args := make([]string, 0, len(c.extraArgs)+4)
	args = append(args, c.extraArgs...)
	args = append(args, "--output", filepath.Join(outputDir, name+".%(ext)s"))
	args = append(args, "--merge-output-format", c.ext)
	args = append(args, streamURL)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("download %s: %w: %s", room, err, string(output))
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", fmt.Errorf("download %s: expected %s after downloader exit: %w", room, outputPath, err)
	}
	return outputPath, nil
}

var _ Client = (*CLI)(nil)
