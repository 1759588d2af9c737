package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders segments on a shared background. Lipgloss resets between
// styled segments leave unstyled gaps, so spaces are painted explicitly. See:
// https://github.com/charmbracelet/lipgloss/discussions/78
//
// A BgStyle built from an empty color paints nothing and passes text through
// the segment style alone.
type BgStyle struct {
	bg    lipgloss.Color
	plain bool
}

// NewBgStyle creates a background helper for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	return BgStyle{bg: lipgloss.Color(bgColor), plain: bgColor == ""}
}

func (b BgStyle) base() lipgloss.Style {
	if b.plain {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Background(b.bg)
}

// Render renders text with style so every cell, spaces included, carries the
// background.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	if b.plain {
		return style.Render(text)
	}
	wordStyle := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return wordStyle.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = wordStyle.Render(w)
		}
	}
	return strings.Join(words, b.Spaces(1))
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return b.base().Render(strings.Repeat(" ", n))
}

// Join joins parts with n styled spaces.
func (b BgStyle) Join(parts []string, n int) string {
	return strings.Join(parts, b.Spaces(n))
}

// FillLine pads rendered content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	if b.plain || width <= 0 {
		return content
	}
	return b.base().Width(width).Render(content)
}
