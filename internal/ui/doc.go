// Package ui provides the lipgloss styles used by CLI command output.
//
// Commands render headings, success and failure markers, and secondary help
// text through a shared [Palette] so output stays consistent across commands.
package ui
