package main

import (
	"fmt"
	"os"

	"toolshed/internal/app"
	"toolshed/internal/config"
	"toolshed/internal/logging"
	"toolshed/internal/logging/events"

	"golang.org/x/term"
)

func main() {
	runtimeCfg := config.MustLoad()
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	traceStartup(runtimeCfg)

	if err := app.Run(runtimeCfg); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	payload := map[string]interface{}{
		"argv":  cfg.Args,
		"flags": flags,
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Probes []ttyProbeResult `json:"probes"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails records which standard descriptors are terminals.
// The dashboard itself sizes from Bubble Tea resize messages; this
// only feeds the startup trace.
func collectTTYDetails() ttyDetails {
	names := []string{"stdin", "stdout", "stderr"}
	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	details := ttyDetails{Probes: make([]ttyProbeResult, len(names))}
	for i, f := range files {
		entry := ttyProbeResult{Name: names[i]}
		fd := int(f.Fd())
		if term.IsTerminal(fd) {
			entry.IsTerminal = true
			w, h, err := term.GetSize(fd)
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Width, entry.Height = w, h
			}
		}
		details.Probes[i] = entry
	}
	return details
}
