// Package logtail reads the last lines of a log file with a bounded
// memory footprint.
package logtail

import (
	"bufio"
	"os"
	"strings"
)

// MaxLines caps how many lines a single Tail call may return.
const MaxLines = 4000

// Tail returns the last n lines of the file at path, joined with
// newlines and trimmed of trailing whitespace. n is clamped to
// [1, MaxLines]. Only the requested number of lines is kept in memory
// while scanning.
func Tail(path string, n int) (string, error) {
	if n < 1 {
		n = 1
	}
	if n > MaxLines {
		n = MaxLines
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.Join(ring, "\n")), nil
}

// Grep returns the lines among the last n of the file that contain
// needle, case-insensitively. At most limit matching lines are
// returned, keeping the most recent ones.
func Grep(path, needle string, n, limit int) ([]string, error) {
	block, err := Tail(path, n)
	if err != nil {
		return nil, err
	}

	needle = strings.ToLower(needle)
	var hits []string
	for _, line := range strings.Split(block, "\n") {
		if strings.Contains(strings.ToLower(line), needle) {
			hits = append(hits, line)
		}
	}
	if limit > 0 && len(hits) > limit {
		hits = hits[len(hits)-limit:]
	}
	return hits, nil
}
