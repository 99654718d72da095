// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(s string) int {
	width := 0
	for _, line := range strings.Split(s, "\n") {
		if w := runewidth.StringWidth(line); w > width {
			width = w
		}
	}
	return width
}

// wordWrap wraps text to the given display width, breaking at word
// boundaries when possible. Width is measured with runewidth so CJK text
// wraps correctly.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	var lines []string
	var current strings.Builder
	currentWidth := 0

	for _, word := range strings.Split(line, " ") {
		wordWidth := runewidth.StringWidth(word)

		// Hard-break words wider than the line.
		for wordWidth > width {
			if currentWidth > 0 {
				lines = append(lines, current.String())
				current.Reset()
				currentWidth = 0
			}
			head := runewidth.Truncate(word, width, "")
			lines = append(lines, head)
			word = word[len(head):]
			wordWidth = runewidth.StringWidth(word)
		}

		sep := 0
		if currentWidth > 0 {
			sep = 1
		}
		if currentWidth+sep+wordWidth > width {
			lines = append(lines, current.String())
			current.Reset()
			currentWidth = 0
			sep = 0
		}
		if sep == 1 {
			current.WriteByte(' ')
			currentWidth++
		}
		current.WriteString(word)
		currentWidth += wordWidth
	}

	if current.Len() > 0 || len(lines) == 0 {
		lines = append(lines, current.String())
	}
	return lines
}
