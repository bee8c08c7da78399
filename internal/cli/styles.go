// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/networth/internal/model"
)

var (
	accentColor   = lipgloss.Color("#2E86AB")
	gainColor     = lipgloss.Color("#4ECDC4")
	cautionColor  = lipgloss.Color("#FFE66D")
	lossColor     = lipgloss.Color("#FF6B6B")
	noteColor     = lipgloss.Color("#95E1D3")
	borderColor   = lipgloss.Color("#333")
	mutedColor    = lipgloss.Color("#666666")
	positiveStyle = lipgloss.NewStyle().Foreground(gainColor)
	negativeStyle = lipgloss.NewStyle().Foreground(lossColor)

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	// HeaderStyle is used for table headers.
	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	// MutedStyle renders secondary details such as ids and timestamps.
	MutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	// WarningStyle renders prompts for destructive actions.
	WarningStyle = lipgloss.NewStyle().Bold(true).Foreground(cautionColor)

	successStyle = lipgloss.NewStyle().Foreground(gainColor)
	errorStyle   = lipgloss.NewStyle().Foreground(lossColor)
	infoStyle    = lipgloss.NewStyle().Foreground(noteColor)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	InfoIcon    = "•"
)

var bucketLabels = map[model.Bucket]string{
	model.BucketTaxFree:       "Tax-Free",
	model.BucketTaxDeferred:   "Tax-Deferred",
	model.BucketBrokerage:     "Brokerage",
	model.BucketESPP:          "ESPP",
	model.BucketHSA:           "HSA",
	model.BucketCash:          "Cash",
	model.BucketUncategorized: "Uncategorized",
}

// BucketLabel returns the display name of an aggregate bucket.
func BucketLabel(b model.Bucket) string {
	if label, ok := bucketLabels[b]; ok {
		return label
	}
	return string(b)
}

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return successStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return errorStyle.Render(ErrorIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return infoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a section title.
func FormatTitle(title string) string {
	return TitleStyle.Render(title)
}

// FormatSigned renders d as currency, colored by sign. Zero is left plain.
func FormatSigned(d decimal.Decimal) string {
	text := FormatDecimal(d, "")
	switch d.Sign() {
	case 1:
		return positiveStyle.Render(text)
	case -1:
		return negativeStyle.Render(text)
	default:
		return text
	}
}

// RenderBox renders content in a bordered box under a title.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}
