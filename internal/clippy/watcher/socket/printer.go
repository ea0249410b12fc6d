package socket

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
)

var (
	highStyle   = color.New(color.FgRed, color.Bold)
	mediumStyle = color.New(color.FgYellow)
	lowStyle    = color.New(color.FgGreen)
)

func severityLabel(severity string) string {
	label := strings.ToUpper(severity)
	switch severity {
	case "high":
		return highStyle.Sprint(label)
	case "medium":
		return mediumStyle.Sprint(label)
	default:
		return lowStyle.Sprint(label)
	}
}

// decodeData re-decodes response.Data[key] into out
func decodeData(response *types.WatcherResponse, key string, out any) error {
	raw, ok := response.Data[key]
	if !ok {
		return fmt.Errorf("response is missing %q", key)
	}
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func checkResponse(response *types.WatcherResponse, err error, what string) error {
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", what, err)
	}
	if !response.Success {
		return fmt.Errorf("%s request failed: %s", what, response.Error)
	}
	return nil
}

// PrintStatus prints a formatted status report
func (c *Client) PrintStatus() error {
	response, err := c.Status()
	if err := checkResponse(response, err, "status"); err != nil {
		return err
	}
	writeStatus(os.Stdout, response.Data)
	return nil
}

func writeStatus(w io.Writer, data map[string]interface{}) {
	fmt.Fprintln(w, "🔍 Evil Clippy Watcher Status")
	fmt.Fprintln(w, "==========================================")

	if status, ok := data["status"].(string); ok && status == "running" {
		fmt.Fprintln(w, "🟢 Status: RUNNING")
	} else {
		fmt.Fprintln(w, "🔴 Status: UNKNOWN")
	}

	if provider, ok := data["remote_provider"].(string); ok && provider != "" {
		fmt.Fprintf(w, "🧠 Remote: %s\n", provider)
	} else {
		fmt.Fprintln(w, "🧠 Remote: disabled (local heuristics only)")
	}
	if analyzed, ok := data["analyzed"].(float64); ok {
		fmt.Fprintf(w, "📊 Analyzed: %.0f\n", analyzed)
	}
	if dropped, ok := data["dropped"].(float64); ok {
		fmt.Fprintf(w, "🚫 Dropped while busy: %.0f\n", dropped)
	}
	if cached, ok := data["cache_entries"].(float64); ok {
		fmt.Fprintf(w, "💾 Cached verdicts: %.0f\n", cached)
	}
	if folders, ok := data["folders"].([]interface{}); ok && len(folders) > 0 {
		fmt.Fprintln(w, "📁 Folders:")
		for _, f := range folders {
			fmt.Fprintf(w, "   - %v\n", f)
		}
	}
	if sinks, ok := data["sinks"].([]interface{}); ok && len(sinks) > 0 {
		names := make([]string, 0, len(sinks))
		for _, s := range sinks {
			names = append(names, fmt.Sprint(s))
		}
		fmt.Fprintf(w, "📣 Sinks: %s\n", strings.Join(names, ", "))
	}
	if dbEnabled, ok := data["database_enabled"].(bool); ok {
		fmt.Fprintf(w, "🗄️  Database: %s\n", enabledLabel(dbEnabled))
	}
}

func enabledLabel(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// PrintStatistics prints the analysis statistics summary
func (c *Client) PrintStatistics() error {
	stats, err := c.Statistics()
	if err != nil {
		return err
	}
	WriteStatistics(os.Stdout, stats)
	return nil
}

// WriteStatistics renders a statistics summary
func WriteStatistics(w io.Writer, stats *types.Statistics) {
	fmt.Fprintln(w, "📊 Evil Clippy Statistics")
	fmt.Fprintln(w, "==========================================")
	fmt.Fprintf(w, "Roasts delivered: %d\n", stats.RoastsDelivered)
	fmt.Fprintf(w, "Critical issues:  %d\n", stats.CriticalIssues)
	fmt.Fprintf(w, "Angry moments:    %d\n", stats.AngryMoments)
	fmt.Fprintf(w, "Distribution:     %s %d  %s %d  %s %d\n",
		severityLabel("low"), stats.SeverityDistribution.Low,
		severityLabel("medium"), stats.SeverityDistribution.Medium,
		severityLabel("high"), stats.SeverityDistribution.High)

	if len(stats.ProblemFiles) > 0 {
		fmt.Fprintln(w, "\n🔥 Problem files:")
		for i, pf := range stats.ProblemFiles {
			fmt.Fprintf(w, "%d. %s (%d)\n", i+1, pf.FilePath, pf.IssueCount)
		}
	}

	if len(stats.RecentAnalyses) > 0 {
		fmt.Fprintln(w, "\n🕒 Recent analyses:")
		for i := len(stats.RecentAnalyses) - 1; i >= 0; i-- {
			rec := stats.RecentAnalyses[i]
			fmt.Fprintf(w, "[%s] %s %s: %s\n",
				rec.Timestamp.Local().Format("15:04:05"),
				severityLabel(rec.Severity), filepath.Base(rec.FilePath), rec.Message)
		}
	}
}

// PrintLogs prints formatted recent logs
func (c *Client) PrintLogs(limit int) error {
	response, err := c.GetLogs(limit)
	if err := checkResponse(response, err, "logs"); err != nil {
		return err
	}

	var logs []types.WatcherLog
	if err := decodeData(response, "logs", &logs); err != nil {
		return fmt.Errorf("failed to decode logs: %w", err)
	}

	fmt.Printf("📋 Recent Logs (last %d entries)\n", limit)
	fmt.Println("==========================================")
	if len(logs) == 0 {
		fmt.Println("No log entries found.")
		return nil
	}
	for i := len(logs) - 1; i >= 0; i-- {
		writeLogEntry(os.Stdout, logs[i])
	}
	return nil
}

// StreamLiveLogs polls the daemon and prints entries newer than the last seen id
func (c *Client) StreamLiveLogs(limit int, interval time.Duration) error {
	fmt.Printf("📡 Live Database Logs (refreshing every %v)\n", interval)
	fmt.Println("==========================================")
	fmt.Println("Press Ctrl+C to stop streaming")
	fmt.Println()

	var lastLogID int64
	for {
		response, err := c.GetLogs(limit)
		if err := checkResponse(response, err, "logs"); err != nil {
			fmt.Printf("❌ %v\n", err)
			time.Sleep(interval)
			continue
		}

		var logs []types.WatcherLog
		if err := decodeData(response, "logs", &logs); err == nil {
			lastLogID = writeNewLogs(os.Stdout, logs, lastLogID)
		}

		time.Sleep(interval)
	}
}

// writeNewLogs prints entries with id above lastID, oldest first, and returns the new high mark
func writeNewLogs(w io.Writer, logs []types.WatcherLog, lastID int64) int64 {
	high := lastID
	for i := len(logs) - 1; i >= 0; i-- {
		if logs[i].ID <= lastID {
			continue
		}
		writeLogEntry(w, logs[i])
		if logs[i].ID > high {
			high = logs[i].ID
		}
	}
	return high
}

func writeLogEntry(w io.Writer, entry types.WatcherLog) {
	target := ""
	if entry.FilePath != "" {
		target = fmt.Sprintf(" [%s]", filepath.Base(entry.FilePath))
	}
	line := fmt.Sprintf("[%s] %s %s%s %s", entry.Timestamp.Local().Format("15:04:05"),
		getLevelIcon(entry.Level), entry.Component, target, entry.Message)
	if entry.Error != "" {
		line += ": " + entry.Error
	}
	fmt.Fprintln(w, line)
}

// getLevelIcon returns the appropriate icon for a log level
func getLevelIcon(level string) string {
	switch level {
	case "ERROR":
		return "❌"
	case "WARN":
		return "⚠️"
	case "DEBUG":
		return "🔍"
	default:
		return "ℹ️"
	}
}
