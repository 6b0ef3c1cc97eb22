package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager is implemented by zerr errors: the message of one link without its causes.
type messager interface {
	Message() string
}

// metadataer is implemented by errors carrying key/value context.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of err. Joined errors contribute the entries of
// each of their branches, wrappers that only repeat their cause are skipped, and links
// with an empty message pass their metadata on to the next link.
func collectErrorEntries(err error) []ErrorEntry {
	var (
		entries []ErrorEntry
		carried map[string]any
	)
	for current := err; current != nil; {
		switch e := current.(type) {
		case interface{ Unwrap() []error }:
			for _, branch := range e.Unwrap() {
				entries = append(entries, collectErrorEntries(branch)...)
			}
			return entries
		case messager:
			md := carried
			if m, ok := current.(metadataer); ok {
				md = mergeMetadata(carried, m.Metadata())
			}
			if e.Message() == "" {
				carried = md
			} else {
				entries = append(entries, ErrorEntry{Message: e.Message(), Metadata: md})
				carried = nil
			}
			current = errors.Unwrap(current)
		default:
			if inner := errors.Unwrap(current); inner != nil && inner.Error() == current.Error() {
				current = inner
				continue
			}
			return append(entries, ErrorEntry{Message: current.Error(), Metadata: carried})
		}
	}
	return entries
}

func mergeMetadata(a, b map[string]any) map[string]any {
	if len(a) == 0 {
		return b
	}
	out := maps.Clone(a)
	maps.Copy(out, b)
	return out
}

// formatErrorEntries renders entries as "Error: ..." followed by an indented cause list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		prefix, indent := "    → ", "      "
		if i == 0 {
			prefix, indent = "Error: ", "       "
		} else if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}

		lines = append(lines, prefix+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}
	return strings.Join(lines, "\n")
}
