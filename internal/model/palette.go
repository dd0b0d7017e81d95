package model

import "github.com/charmbracelet/lipgloss"

type Color struct {
	Name  string
	Value lipgloss.Color
}

// Palette is the fixed set of tab colors, assigned round-robin by creation order.
var Palette = [...]Color{
	{Name: "Ink", Value: lipgloss.Color("#334059")},
	{Name: "Sepia", Value: lipgloss.Color("#8C594D")},
	{Name: "Forest", Value: lipgloss.Color("#4D6659")},
	{Name: "Tobacco", Value: lipgloss.Color("#735940")},
	{Name: "Plum", Value: lipgloss.Color("#594D73")},
	{Name: "Olive", Value: lipgloss.Color("#80734D")},
	{Name: "Slate", Value: lipgloss.Color("#4D6673")},
	{Name: "Burgundy", Value: lipgloss.Color("#734D59")},
}

const PaletteSize = len(Palette)

// PaletteAt wraps i into the palette. Negative indexes wrap too.
func PaletteAt(i int) Color {
	i %= PaletteSize
	if i < 0 {
		i += PaletteSize
	}
	return Palette[i]
}
