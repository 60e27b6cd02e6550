package model

import "strings"

// Marker prefixes a checked-off line.
const Marker = "✅"

// Separator splits a line into title and description.
const Separator = " - "

// Entry is one line of a todo file.
// The raw text is kept as-is so untouched lines survive a rewrite unchanged.
type Entry struct {
	Line string
	// EOL is the line terminator read from disk; empty means "\n".
	EOL string
}

// New builds an unchecked entry in the "<title> - <description>" form.
func New(title, description string) Entry {
	return Entry{Line: title + Separator + description}
}

// Done reports whether the line carries the completion marker.
func (e Entry) Done() bool {
	return strings.HasPrefix(e.Line, Marker)
}

// Checked returns the entry with the marker prepended.
// Already-checked entries come back unchanged.
func (e Entry) Checked() Entry {
	if e.Done() {
		return e
	}
	return Entry{Line: Marker + " " + e.Line, EOL: e.EOL}
}

// Body is the line without its completion marker.
func (e Entry) Body() string {
	if !e.Done() {
		return e.Line
	}
	return strings.TrimPrefix(strings.TrimPrefix(e.Line, Marker), " ")
}

func (e Entry) Title() string {
	title, _, _ := strings.Cut(e.Body(), Separator)
	return title
}

// Description is empty for lines that were not written by add.
func (e Entry) Description() string {
	_, desc, _ := strings.Cut(e.Body(), Separator)
	return desc
}

func (e Entry) String() string { return e.Line }

// Terminator returns the line ending to write after the entry.
func (e Entry) Terminator() string {
	if e.EOL == "" {
		return "\n"
	}
	return e.EOL
}

// Stats counts checked and pending entries.
func Stats(entries []Entry) (done, pending int) {
	for _, e := range entries {
		if e.Done() {
			done++
		} else {
			pending++
		}
	}
	return
}
