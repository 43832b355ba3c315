package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	colorModeAutoConstant        = "auto"
	colorModeAlwaysConstant      = "always"
	colorModeNeverConstant       = "never"
	unsupportedColorModeTemplate = "unsupported color mode: %s"
	noColorEnvironmentConstant   = "NO_COLOR"
	terminalEnvironmentConstant  = "TERM"
	dumbTerminalConstant         = "dumb"
	headingColorConstant         = "6"
	warningColorConstant         = "3"
	errorColorConstant           = "1"
	successColorConstant         = "2"
	hintColorConstant            = "8"
)

// ColorMode selects when report output is colorized.
type ColorMode string

// Supported color modes.
const (
	ColorModeAuto   ColorMode = ColorMode(colorModeAutoConstant)
	ColorModeAlways ColorMode = ColorMode(colorModeAlwaysConstant)
	ColorModeNever  ColorMode = ColorMode(colorModeNeverConstant)
)

// SupportedColorModes lists the accepted color mode values.
func SupportedColorModes() []string {
	return []string{colorModeAutoConstant, colorModeAlwaysConstant, colorModeNeverConstant}
}

// ParseColorMode converts configuration text into a ColorMode. Empty input means auto.
func ParseColorMode(raw string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", colorModeAutoConstant:
		return ColorModeAuto, nil
	case colorModeAlwaysConstant:
		return ColorModeAlways, nil
	case colorModeNeverConstant:
		return ColorModeNever, nil
	default:
		return "", fmt.Errorf(unsupportedColorModeTemplate, raw)
	}
}

// SectionStyler decorates report lines. With color disabled every method returns its input unchanged.
type SectionStyler struct {
	colorEnabled bool
	banner       lipgloss.Style
	heading      lipgloss.Style
	warning      lipgloss.Style
	failure      lipgloss.Style
	success      lipgloss.Style
	hint         lipgloss.Style
}

// NewSectionStyler builds a styler for output written to writer.
func NewSectionStyler(writer io.Writer, mode ColorMode) *SectionStyler {
	if writer == nil {
		writer = io.Discard
	}
	colorEnabled := resolveColorEnabled(writer, mode)

	profile := termenv.Ascii
	if colorEnabled {
		profile = termenv.ANSI
	}
	renderer := lipgloss.NewRenderer(writer, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)

	return &SectionStyler{
		colorEnabled: colorEnabled,
		banner:       renderer.NewStyle().Bold(true),
		heading:      renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(headingColorConstant)),
		warning:      renderer.NewStyle().Foreground(lipgloss.Color(warningColorConstant)),
		failure:      renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(errorColorConstant)),
		success:      renderer.NewStyle().Foreground(lipgloss.Color(successColorConstant)),
		hint:         renderer.NewStyle().Foreground(lipgloss.Color(hintColorConstant)),
	}
}

// ColorEnabled reports whether the styler emits escape sequences.
func (styler *SectionStyler) ColorEnabled() bool {
	return styler != nil && styler.colorEnabled
}

// Banner styles banner rules and titles.
func (styler *SectionStyler) Banner(text string) string {
	if !styler.ColorEnabled() {
		return text
	}
	return styler.banner.Render(text)
}

// Heading styles numbered section headings.
func (styler *SectionStyler) Heading(text string) string {
	if !styler.ColorEnabled() {
		return text
	}
	return styler.heading.Render(text)
}

// Warning styles degraded-result lines.
func (styler *SectionStyler) Warning(text string) string {
	if !styler.ColorEnabled() {
		return text
	}
	return styler.warning.Render(text)
}

// Error styles fatal precondition messages.
func (styler *SectionStyler) Error(text string) string {
	if !styler.ColorEnabled() {
		return text
	}
	return styler.failure.Render(text)
}

// Success styles positive outcome lines.
func (styler *SectionStyler) Success(text string) string {
	if !styler.ColorEnabled() {
		return text
	}
	return styler.success.Render(text)
}

// Hint styles closing hints.
func (styler *SectionStyler) Hint(text string) string {
	if !styler.ColorEnabled() {
		return text
	}
	return styler.hint.Render(text)
}

func resolveColorEnabled(writer io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorModeAlways:
		return true
	case ColorModeNever:
		return false
	}

	if len(os.Getenv(noColorEnvironmentConstant)) > 0 || os.Getenv(terminalEnvironmentConstant) == dumbTerminalConstant {
		return false
	}

	descriptorWriter, hasDescriptor := writer.(interface{ Fd() uintptr })
	if !hasDescriptor {
		return false
	}
	descriptor := descriptorWriter.Fd()
	return isatty.IsTerminal(descriptor) || isatty.IsCygwinTerminal(descriptor)
}
