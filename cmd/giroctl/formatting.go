package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/GriffinCanCode/giroscopio/internal/client"
	"github.com/GriffinCanCode/giroscopio/internal/domain/stats"
)

var (
	success   = color.New(color.FgGreen).SprintFunc()
	failure   = color.New(color.FgRed).SprintFunc()
	highlight = color.New(color.FgCyan).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printStatus(w io.Writer, st client.ConnectionStatus) {
	if !st.Connected {
		fmt.Fprintf(w, "%s %s is offline: %s\n", failure("✗"), highlight(st.BackendURL), st.Error)
		return
	}
	fmt.Fprintf(w, "%s %s is online (%s)\n", success("✓"), highlight(st.BackendURL), st.Timestamp.Sub(st.LastPing).Round(time.Millisecond))
	if st.InstanceID != "" {
		fmt.Fprintf(w, "  instance %s\n", faint(st.InstanceID))
	}
}

func printResult(w io.Writer, res *client.Result) {
	mark := success("✓")
	if !res.Success {
		mark = failure("✗")
	}
	fmt.Fprintf(w, "%s %s\n", mark, res.Message)
	fmt.Fprintf(w, "  %s\n", faint(statsLine(res.Stats)))
}

func printStats(w io.Writer, snap stats.Snapshot) {
	fmt.Fprintf(w, "Requests: %s\n", highlight(snap.TotalRequests))
	fmt.Fprintf(w, "Actions:  %s\n", highlight(snap.TotalActions))
	for _, tag := range sortedTags(snap.ActionsByType) {
		fmt.Fprintf(w, "  %-8s %d\n", tag, snap.ActionsByType[tag])
	}
	fmt.Fprintf(w, "Devices:  %d\n", len(snap.ConnectedDevices))
	for _, d := range snap.ConnectedDevices {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

func printStatsLine(w io.Writer, snap stats.Snapshot) {
	fmt.Fprintln(w, statsLine(snap))
}

func statsLine(snap stats.Snapshot) string {
	parts := make([]string, 0, len(snap.ActionsByType))
	for _, tag := range sortedTags(snap.ActionsByType) {
		parts = append(parts, fmt.Sprintf("%s=%d", tag, snap.ActionsByType[tag]))
	}
	return fmt.Sprintf("requests=%d actions=%d [%s] devices=%d",
		snap.TotalRequests, snap.TotalActions, strings.Join(parts, " "), len(snap.ConnectedDevices))
}

func sortedTags(m map[string]int64) []string {
	tags := make([]string, 0, len(m))
	for tag := range m {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
