package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"talkcut/internal/plan"
)

var commandContext = exec.CommandContext

// Client defines clip extraction behaviour.
type Client interface {
	Extract(ctx context.Context, req plan.Request) (string, error)
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

// WithArgsTemplate replaces the default argument template.
func WithArgsTemplate(template string) Option {
	return func(c *CLI) {
		if template != "" {
			c.template = template
		}
	}
}

// DefaultArgsTemplate cuts the talk window out of the stream and fades the
// final second to black.
const DefaultArgsTemplate = "-y -i {input} -ss {start} -to {end} -vf fade=t=out:st={fadeOutStart}:d=1 {output}"

// CLI wraps the ffmpeg command-line encoder. Arguments come from a template
// whose placeholders are filled per talk; tokens are substituted after the
// template is split, so values containing spaces never change the argument
// count.
type CLI struct {
	binary   string
	template string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", template: DefaultArgsTemplate}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Extract runs ffmpeg for one extraction request and returns the clip path.
// An existing clip short-circuits the call so interrupted runs resume where
// they stopped.
func (c *CLI) Extract(ctx context.Context, req plan.Request) (string, error) {
	if req.InputPath == "" {
		return "", errors.New("input path required")
	}
	if req.OutputPath == "" {
		return "", errors.New("output path required")
	}

	if _, err := os.Stat(req.OutputPath); err == nil {
		return req.OutputPath, nil
	}

	args := BuildArgs(c.template, req)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("extract %s: %w: %s", req.OutputPath, err, string(output))
	}
	return req.OutputPath, nil
}

// BuildArgs renders the argument template for one request. The template is
// split on whitespace first and placeholders are replaced inside each token.
func BuildArgs(template string, req plan.Request) []string {
	replacer := strings.NewReplacer(
		"{input}", req.InputPath,
		"{start}", req.StartTimecode,
		"{end}", req.EndTimecode,
		"{duration}", strconv.Itoa(req.DurationSeconds),
		"{fadeOutStart}", strconv.Itoa(req.FadeOutStartSeconds),
		"{intro}", req.IntroPath,
		"{outro}", req.OutroPath,
		"{output}", req.OutputPath,
	)
	tokens := strings.Fields(template)
	args := make([]string, 0, len(tokens))
	for _, token := range tokens {
		args = append(args, replacer.Replace(token))
	}
	return args
}

var _ Client = (*CLI)(nil)
