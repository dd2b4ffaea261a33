package voice

import "strings"

// The model enumerates tasks as "1. Buy milk" lines. A line is accepted only
// when splitting on the first period yields a non-empty index token and a
// non-empty name; everything else is rejected with a reason so the loss is
// visible in logs and tests instead of silent.
//
// Known fragility, kept as the binding contract with the prompt: lines
// enumerated as "1) Buy milk" or "- Buy milk" are rejected.

type RejectReason string

const (
	RejectNone        RejectReason = ""
	RejectBlank       RejectReason = "blank"
	RejectNoSeparator RejectReason = "no_separator"
	RejectEmptyIndex  RejectReason = "empty_index"
	RejectEmptyName   RejectReason = "empty_name"
)

type Line struct {
	Raw    string
	Name   string
	Reject RejectReason
}

func (l Line) Accepted() bool {
	return l.Reject == RejectNone
}

func ClassifyLine(raw string) Line {
	if strings.TrimSpace(raw) == "" {
		return Line{Raw: raw, Reject: RejectBlank}
	}

	parts := strings.SplitN(raw, ".", 2)
	if len(parts) != 2 {
		return Line{Raw: raw, Reject: RejectNoSeparator}
	}

	index := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	if index == "" {
		return Line{Raw: raw, Reject: RejectEmptyIndex}
	}
	if name == "" {
		return Line{Raw: raw, Reject: RejectEmptyName}
	}

	return Line{Raw: raw, Name: name}
}

// ClassifyLines splits a completion into lines and classifies each one,
// preserving order.
func ClassifyLines(completion string) []Line {
	raw := strings.Split(strings.TrimSpace(completion), "\n")
	lines := make([]Line, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, ClassifyLine(strings.TrimSuffix(l, "\r")))
	}
	return lines
}

// ParseTaskList returns the accepted task names of a completion, in original
// line order. A completion with no valid lines yields an empty result, not
// an error.
func ParseTaskList(completion string) []string {
	var names []string
	for _, l := range ClassifyLines(completion) {
		if l.Accepted() {
			names = append(names, l.Name)
		}
	}
	return names
}
