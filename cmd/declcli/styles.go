// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/invowk/declcli/internal/config"
)

// Color palette shared by all CLI output. Tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple - titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray - subtitles and de-emphasized content.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorSuccess is green - success states and checkmarks.
	ColorSuccess = lipgloss.Color("#10B981")

	// ColorError is red - errors and failures.
	ColorError = lipgloss.Color("#EF4444")

	// ColorWarning is amber - warnings and labels in error cards.
	ColorWarning = lipgloss.Color("#F59E0B")

	// ColorHighlight is blue - command and option names.
	ColorHighlight = lipgloss.Color("#3B82F6")

	// ColorVerbose is light gray - verbose output and detail values.
	ColorVerbose = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for primary headers and section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and descriptions.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle is for success messages and positive indicators.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle is for error messages and failure indicators.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warning messages and caution indicators.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// CmdStyle is for command names and syntax strings.
	CmdStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// VerboseStyle is for verbose output and supplementary information.
	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)

	renderHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorError).
				MarginBottom(1)

	renderLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorWarning)

	renderValueStyle = lipgloss.NewStyle().
				Foreground(ColorVerbose)

	renderHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			MarginTop(1)
)

// colorProfile maps the ui.color setting to a terminal profile.
// ok is false for auto, which keeps lipgloss' own detection.
func colorProfile(mode config.ColorMode) (p termenv.Profile, ok bool) {
	switch mode {
	case config.ColorModeAlways:
		return termenv.TrueColor, true
	case config.ColorModeNever:
		return termenv.Ascii, true
	default:
		return termenv.Ascii, false
	}
}

// markdownStyle is the glamour style matching the ui.color setting.
func markdownStyle(mode config.ColorMode) string {
	switch mode {
	case config.ColorModeNever:
		return "notty"
	case config.ColorModeAlways:
		return "dark"
	default:
		return "auto"
	}
}
