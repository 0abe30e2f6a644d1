// Package notes multiplexes structured academic metadata into an event's
// free-text notes field. The storage model has no columns for course, type,
// semester or weight, so they ride along as a fixed block after a separator
// line and are recovered by Decode when editing.
package notes

import (
	"strings"

	"github.com/SK-Enting-Zhu/mcgill-agenda/internal/model"
)

// Separator marks the boundary between user text and the metadata block:
// a line whose trimmed content is exactly one em-dash.
const Separator = "—"

// Placeholder renders an unset metadata field.
const Placeholder = "-"

var labels = [4]string{"Course", "Type", "Semester", "Weight"}

// Encode joins trimmed user notes and the metadata block into one string.
// The block is always emitted: separator line first, then the four labeled
// lines in fixed order, empty values as the placeholder.
func Encode(userNotes string, meta model.EventMetadata) string {
	blocks := make([]string, 0, 6)
	if u := strings.TrimSpace(userNotes); u != "" {
		blocks = append(blocks, u)
	}
	blocks = append(blocks, Separator)
	for i, value := range [4]string{meta.Course, meta.Type, meta.Semester, meta.Weight} {
		if value == "" {
			value = Placeholder
		}
		blocks = append(blocks, labels[i]+": "+value)
	}
	return strings.Join(blocks, "\n")
}

// Decode splits raw notes into user text and metadata. It never fails:
// absent separators, missing labels and malformed lines all degrade to empty
// fields. When user text itself contains a bare separator line, the first
// occurrence wins and everything after it is treated as the block.
func Decode(raw string) (string, model.EventMetadata) {
	if raw == "" {
		return "", model.EventMetadata{}
	}

	lines := strings.Split(raw, "\n")
	sep := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == Separator {
			sep = i
			break
		}
	}
	if sep == -1 {
		return strings.TrimSpace(raw), model.EventMetadata{}
	}

	userNotes := strings.TrimSpace(strings.Join(lines[:sep], "\n"))
	block := lines[sep+1:]

	return userNotes, model.EventMetadata{
		Course:   fieldValue(block, "Course"),
		Type:     fieldValue(block, "Type"),
		Semester: fieldValue(block, "Semester"),
		Weight:   fieldValue(block, "Weight"),
	}
}

// fieldValue scans block lines for the first one starting with "<label>:"
// (case-insensitive) and returns the trimmed remainder after the first colon.
func fieldValue(block []string, label string) string {
	prefix := strings.ToLower(label) + ":"
	for _, line := range block {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(trimmed), prefix) {
			continue
		}
		idx := strings.Index(trimmed, ":")
		value := strings.TrimSpace(trimmed[idx+1:])
		if value == Placeholder {
			return ""
		}
		return value
	}
	return ""
}
