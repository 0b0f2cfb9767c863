// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"taskdash/internal/dashboard"
	"taskdash/internal/service"
)

// Format selects how a view is printed.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case Text, JSON, YAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (want text, json or yaml)", s)
	}
}

// FormatTask formats a task line.
// Format: "[x] {#ID:>6}  {TITLE}" with a trailing "  [new]" for local tasks.
func FormatTask(w io.Writer, task service.Task) {
	mark := "[ ]"
	if task.Completed {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %6s  %s", mark, "#"+strconv.FormatInt(task.ID, 10), normalizeTitle(task.Title))
	if task.IsLocal {
		line += "  [new]"
	}
	fmt.Fprintln(w, line)
}

// FormatFooter formats the pagination line.
func FormatFooter(w io.Writer, v dashboard.View) {
	fmt.Fprintf(w, "page %d / %d  (%d tasks total)\n", v.Page, v.TotalPages, v.TotalCount)
}

// FormatView prints v in the requested format.
func FormatView(w io.Writer, v dashboard.View, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(v.Tasks) == 0 {
		fmt.Fprintln(w, "no tasks found")
	}
	for _, task := range v.Tasks {
		FormatTask(w, task)
	}
	FormatFooter(w, v)
	return nil
}

// FormatState writes a store snapshot as YAML.
func FormatState(w io.Writer, st dashboard.State) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(st); err != nil {
		return err
	}
	return enc.Close()
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
