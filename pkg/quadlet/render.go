package quadlet

import (
	"strings"

	"gopkg.in/ini.v1"
)

func init() {
	// Unit files are plain KEY=VALUE lines. Systemd does not understand
	// the alignment padding ini adds by default, and unit files always use
	// LF regardless of platform.
	ini.PrettyFormat = false
	ini.LineBreak = "\n"
}

// unit builds a systemd unit file. Sections and keys render in insertion
// order; writing the same key again appends another KEY=VALUE line, which is
// how unit files express list-valued settings such as Network= and Port=.
type unit struct {
	file *ini.File
}

func newUnit() *unit {
	return &unit{file: ini.Empty(ini.LoadOptions{
		AllowShadows:               true,
		AllowDuplicateShadowValues: true,
		IgnoreInlineComment:        true,
	})}
}

func (u *unit) set(section, key, value string) {
	// NewKey turns repeats into shadow values rather than overwriting
	_, _ = u.file.Section(section).NewKey(key, value)
}

// render serializes the unit with single blank lines between sections and no
// leading or trailing blank lines
func (u *unit) render() string {
	var b strings.Builder
	_, _ = u.file.WriteTo(&b)
	return strings.TrimSpace(b.String())
}
