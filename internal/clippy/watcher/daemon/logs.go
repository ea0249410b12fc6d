package daemon

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tail "github.com/hpcloud/tail"

	"github.com/dimasma0305/evilclippy/internal/log"
)

// recentLines is how many trailing lines ShowRecentLogs prints
const recentLines = 5

// LastLines returns up to n trailing non-blank lines of path
func LastLines(path string, n int) ([]string, error) {
	//nolint:gosec // G304: log file path is constructed by application
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, line)
	}
	return ring, scanner.Err()
}

// ShowRecentLogs displays recent log entries if the log file exists
func ShowRecentLogs(logFile string) {
	lines, err := LastLines(logFile, recentLines)
	if err != nil || len(lines) == 0 {
		return
	}

	log.Info("")
	log.Info("📋 Recent Activity (last %d lines from log):", len(lines))
	for _, line := range lines {
		log.Info("   %s", line)
	}
}

// FollowLogs streams new lines of logFile to out until ctx is done
func FollowLogs(ctx context.Context, logFile string, out io.Writer) error {
	t, err := tail.TailFile(logFile, tail.Config{
		ReOpen:    true,
		Follow:    true,
		MustExist: false,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return fmt.Errorf("failed to tail log file: %w", err)
	}
	defer t.Cleanup()
	defer func() {
		_ = t.Stop()
	}()

	ShowRecentLogs(logFile)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return fmt.Errorf("log tail channel closed")
			}
			if line == nil {
				continue
			}
			if line.Err != nil {
				return fmt.Errorf("failed to read log file: %w", line.Err)
			}
			if strings.TrimSpace(line.Text) == "" {
				continue
			}
			fmt.Fprintln(out, line.Text)
		}
	}
}
