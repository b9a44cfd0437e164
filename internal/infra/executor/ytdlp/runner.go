package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBinary = "yt-dlp"

// Runner downloads audio with the yt-dlp command line tool.
type Runner struct {
	Binary string
	// Format is the yt-dlp format selector.
	Format string
	Log    zerolog.Logger
}

func NewRunner(binary string, log zerolog.Logger) *Runner {
	if binary == "" {
		binary = defaultBinary
	}
	return &Runner{Binary: binary, Format: "bestaudio/best", Log: log}
}

// Download saves the best audio track of videoURL into dir and returns its path.
func (r *Runner) Download(ctx context.Context, videoURL, dir string) (string, error) {
	start := time.Now()
	format := r.Format
	if format == "" {
		format = "bestaudio/best"
	}

	// jalankan sekali, tanpa retry
	cmd := exec.CommandContext(ctx, r.Binary,
		"--format", format,
		"--no-playlist",
		"--no-progress",
		"--quiet",
		"--output", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--print", "after_move:filepath",
		videoURL,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return "", fmt.Errorf("yt-dlp exited with code %d: %s", ee.ExitCode(), strings.TrimSpace(stderr.String()))
		}
		return "", fmt.Errorf("run yt-dlp: %w", err)
	}

	path := lastLine(stdout.String())
	if path == "" || !fileExists(path) {
		// versi lama yt-dlp tidak support --print after_move
		if path, err = firstFile(dir); err != nil {
			return "", err
		}
	}

	r.Log.Debug().Str("path", path).Dur("duration", duration).Msg("audio downloaded")
	return path, nil
}

func lastLine(s string) string {
	var last string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			last = line
		}
	}
	return last
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func firstFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if !e.IsDir() && !strings.HasSuffix(e.Name(), ".part") {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("yt-dlp produced no audio file in %s", dir)
}
