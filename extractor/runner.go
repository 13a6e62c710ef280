package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"github.com/nijaru/ytsum/logger"
	"github.com/pkg/errors"
)

type Config struct {
	BinaryPath string
	Timeout    time.Duration
}

// Runner runs yt-dlp to read a video's metadata without downloading media.
type Runner struct {
	config Config
}

func NewRunner(cfg Config) (*Runner, error) {
	if cfg.BinaryPath == "" {
		return nil, errors.New("extractor binary path is required")
	}
	if _, err := exec.LookPath(cfg.BinaryPath); err != nil {
		return nil, errors.Wrapf(err, "extractor binary %q not found", cfg.BinaryPath)
	}
	return &Runner{config: cfg}, nil
}

func buildArgs(ref string) []string {
	return []string{
		"--dump-json",
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--",
		ref,
	}
}

func (r *Runner) Extract(ctx context.Context, ref string) (*VideoInfo, error) {
	const op = "Runner.Extract"
	log := logger.FromContext(ctx)

	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	log.WithField("video", ref).Debug("Extracting video metadata")

	cmd := exec.CommandContext(ctx, r.config.BinaryPath, buildArgs(ref)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		stderrOutput := strings.TrimSpace(stderr.String())
		log.WithError(err).
			WithField("stderr", stderrOutput).
			Warn("Extractor failed")

		extractErr := newExtractError(op, err, "extractor failed")
		extractErr.Stderr = stderrOutput
		return nil, extractErr
	}

	var info VideoInfo
	if err := json.Unmarshal(stdout.Bytes(), &info); err != nil {
		log.WithError(err).Warn("Invalid extractor output")
		return nil, newExtractError(op, err, "invalid JSON output")
	}

	return &info, nil
}
