// Package main provides a notification hook.
// It posts a desktop notification via AppleScript on macOS and notify-send elsewhere.
//
// Build it next to its manifest:
//
//	go build -o hooks/notify/notify ./hooks/notify
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Request represents the input from the hook executor.
type Request struct {
	Event     string          `json:"event"`
	SessionID string          `json:"session_id"`
	Tick      uint64          `json:"tick"`
	Score     int             `json:"score"`
	Kind      string          `json:"kind"`
	Cause     string          `json:"cause"`
	Config    json.RawMessage `json:"config"`
}

// Response represents the output to the hook executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type notifyConfig struct {
	Title string `json:"title"`
}

// messageBuilders maps event names to the notification body they produce.
var messageBuilders = map[string]func(Request) string{
	"combo": func(r Request) string {
		return fmt.Sprintf("Combo! Score %d", r.Score)
	},
	"game_over": func(r Request) string {
		if r.Cause == "hazard" {
			return fmt.Sprintf("Boom. Final score %d", r.Score)
		}
		return fmt.Sprintf("Game over. Final score %d", r.Score)
	},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	build, ok := messageBuilders[req.Event]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unsupported event: %s", req.Event))
		return
	}

	cfg := notifyConfig{Title: "Katana"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	message := build(req)
	if err := notify(cfg.Title, message); err != nil {
		writeErrorResponse(fmt.Sprintf("notify failed: %v", err))
		return
	}

	data, _ := json.Marshal(map[string]string{"message": message})
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func notify(title, message string) error {
	var cmd *exec.Cmd
	if runtime.GOOS == "darwin" {
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(message), strconv.Quote(title))
		cmd = exec.Command("osascript", "-e", script)
	} else {
		cmd = exec.Command("notify-send", title, message)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
