package captions

import (
	"regexp"
	"strings"

	"github.com/asticode/go-astisub"
	"github.com/pkg/errors"
)

const cueTimingSeparator = "-->"

// cueTagRe matches inline cue markup: voice, class and styling tags as well
// as the <hh:mm:ss.mmm> word timestamps of automatic captions.
var cueTagRe = regexp.MustCompile(`<[^>]+>`)

// Normalize flattens a WebVTT document into plain text: every cue line in
// order with markup removed, duplicates dropped after their first
// appearance, joined by single spaces. Timing is discarded.
func Normalize(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	subs, err := astisub.ReadFromWebVTT(strings.NewReader(stripCueMarkup(raw)))
	if err != nil {
		return "", errors.Wrap(err, "failed to parse webvtt")
	}

	var lines []string
	for _, item := range subs.Items {
		for _, line := range item.Lines {
			parts := make([]string, 0, len(line.Items))
			for _, lineItem := range line.Items {
				parts = append(parts, lineItem.Text)
			}
			text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
			if text != "" {
				lines = append(lines, text)
			}
		}
	}

	return strings.Join(DedupeLines(lines), " "), nil
}

// stripCueMarkup removes inline tags from cue payload lines and drops
// whitespace-only lines, which automatic captions place inside cues.
func stripCueMarkup(raw string) string {
	src := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(src))
	for _, line := range src {
		if line == "" {
			out = append(out, line)
			continue
		}
		if !strings.Contains(line, cueTimingSeparator) {
			line = cueTagRe.ReplaceAllString(line, "")
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// DedupeLines keeps the first occurrence of every line.
func DedupeLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
