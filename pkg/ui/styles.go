// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui holds the terminal palette and message formatting shared by
// the CLI and the interactive view.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/transcript-summarizer/pkg/types"
)

var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}

	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style

	StyleTitle  lipgloss.Style
	StyleBanner lipgloss.Style
	StyleBold   lipgloss.Style

	IconSuccess = "✔"
	IconError   = "✘"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconFile    = "📄"
)

func init() {
	SetTheme("auto")
}

// SetTheme applies "auto", "dark", or "light".
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StylePrimary = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)

	StyleTitle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true).Underline(true)
	StyleBanner = lipgloss.NewStyle().
		Foreground(ColorError).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1)
	StyleBold = lipgloss.NewStyle().Bold(true)
}

func FormatSuccess(msg string) string {
	return StyleSuccess.Render(IconSuccess + " " + msg)
}

func FormatError(msg string) string {
	return StyleError.Render(IconError + " " + msg)
}

func FormatInfo(msg string) string {
	return StyleInfo.Render(IconInfo + " " + msg)
}

func FormatWarning(msg string) string {
	return StyleWarning.Render(IconWarning + " " + msg)
}

func FormatTitle(title string) string {
	return StyleTitle.Render(title)
}

func FormatMuted(text string) string {
	return StyleMuted.Render(text)
}

// FormatState renders a request state as a short colored label.
func FormatState(s types.RequestState) string {
	switch s {
	case types.StateInFlight:
		return StyleInfo.Render("summarizing")
	case types.StateSucceeded:
		return StyleSuccess.Render("done")
	case types.StateFailed:
		return StyleError.Render("failed")
	default:
		return StyleMuted.Render("idle")
	}
}

// FormatErrorInfo renders an error for display, prefixed by its kind.
func FormatErrorInfo(e *types.ErrorInfo) string {
	if e == nil {
		return ""
	}
	return FormatError(kindLabel(e.Kind) + ": " + e.Message)
}

func kindLabel(k types.ErrorKind) string {
	switch k {
	case types.ErrorValidation:
		return "Invalid file"
	case types.ErrorHTTP:
		return "Service error"
	case types.ErrorTimeout:
		return "Timed out"
	default:
		return "Network error"
	}
}
