package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"voicegen/internal/runner"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

func renderJobLine(res runner.Result, colorize bool) string {
	label := res.Job.Label()
	var line string
	switch res.Status {
	case runner.StatusGenerated:
		line = fmt.Sprintf("[OK] %s -> %s", label, res.Path)
		if res.Duration > 0 {
			line += fmt.Sprintf(" (%.2fs)", res.Duration.Seconds())
		}
	case runner.StatusSkipped:
		line = fmt.Sprintf("[SKIP] %s (exists: %s)", label, filepath.Base(res.Path))
	case runner.StatusPlanned:
		line = fmt.Sprintf("[DRY] %s -> %s", label, res.Path)
	default:
		line = fmt.Sprintf("[ERR] %s: %v", label, res.Err)
	}
	if colorize {
		if color := statusColor(res.Status); color != "" {
			return color + line + ansiReset
		}
	}
	return line
}

func statusColor(status runner.Status) string {
	switch status {
	case runner.StatusGenerated:
		return ansiGreen
	case runner.StatusSkipped:
		return ansiYellow
	case runner.StatusPlanned:
		return ansiBlue
	case runner.StatusFailed:
		return ansiRed
	default:
		return ""
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
