package socket

import (
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/dimasma0305/evilclippy/internal/clippy/verdict"
	"github.com/dimasma0305/evilclippy/internal/clippy/watcher/types"
)

// Client provides a client interface to communicate with the watcher daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new watcher client
func NewClient(socketPath string) *Client {
	if socketPath == "" {
		socketPath = types.DefaultWatcherConfig.SocketPath
	}
	return &Client{
		socketPath: socketPath,
		timeout:    45 * time.Second, // covers one remote analysis
	}
}

// SetTimeout sets the connection timeout for the client
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

// SendCommand sends a command to the watcher and returns the response
func (c *Client) SendCommand(action string, data map[string]interface{}) (*types.WatcherResponse, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to watcher socket %s: %w", c.socketPath, err)
	}
	defer func() {
		_ = conn.Close()
	}()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	cmd := types.WatcherCommand{
		Action: action,
		Data:   data,
	}

	if err := json.NewEncoder(conn).Encode(cmd); err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	var response types.WatcherResponse
	if err := json.NewDecoder(conn).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &response, nil
}

// Status gets the current watcher status
func (c *Client) Status() (*types.WatcherResponse, error) {
	return c.SendCommand(types.ActionStatus, nil)
}

// GetStatistics gets the analysis statistics summary
func (c *Client) GetStatistics() (*types.WatcherResponse, error) {
	return c.SendCommand(types.ActionGetStatistics, nil)
}

// GetLogs gets recent logs from the database
func (c *Client) GetLogs(limit int) (*types.WatcherResponse, error) {
	data := map[string]interface{}{
		"limit": limit,
	}
	return c.SendCommand(types.ActionGetLogs, data)
}

// ResetStatistics clears recorded analyses
func (c *Client) ResetStatistics() (*types.WatcherResponse, error) {
	return c.SendCommand(types.ActionResetStatistics, nil)
}

// ClearCache empties the verdict cache of the running watcher
func (c *Client) ClearCache() (*types.WatcherResponse, error) {
	return c.SendCommand(types.ActionClearCache, nil)
}

// Analyze asks the running watcher to classify one file
func (c *Client) Analyze(path string) (*types.WatcherResponse, error) {
	return c.SendCommand(types.ActionAnalyze, map[string]interface{}{"path": path})
}

// IsWatcherRunning checks if the watcher daemon is running
func (c *Client) IsWatcherRunning() bool {
	response, err := c.Status()
	return err == nil && response.Success
}

// WaitForWatcher waits for the watcher to become available
func (c *Client) WaitForWatcher(maxWait time.Duration) error {
	deadline := time.Now().Add(maxWait)
	for time.Now().Before(deadline) {
		if c.IsWatcherRunning() {
			return nil
		}
		time.Sleep(250 * time.Millisecond)
	}
	return fmt.Errorf("watcher did not become available within %v", maxWait)
}

// Statistics fetches the statistics summary from the running watcher
func (c *Client) Statistics() (*types.Statistics, error) {
	response, err := c.GetStatistics()
	if err := checkResponse(response, err, "statistics"); err != nil {
		return nil, err
	}
	var stats types.Statistics
	if err := decodeData(response, "statistics", &stats); err != nil {
		return nil, fmt.Errorf("failed to decode statistics: %w", err)
	}
	return &stats, nil
}

// AnalyzeFile has the running watcher classify path and returns its verdict
func (c *Client) AnalyzeFile(path string) (verdict.Verdict, error) {
	response, err := c.Analyze(path)
	if err := checkResponse(response, err, "analysis"); err != nil {
		return verdict.Verdict{}, err
	}
	var v verdict.Verdict
	if err := decodeData(response, "verdict", &v); err != nil {
		return verdict.Verdict{}, fmt.Errorf("failed to decode verdict: %w", err)
	}
	return v, nil
}
