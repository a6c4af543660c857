package model

import "strings"

type Theme struct {
	Name       string
	Background string
	Card       string
	Accent     string
	Secondary  string
}

var Themes = []Theme{
	{Name: "Verdan Meadow", Background: "#064e3b", Card: "#065f46", Accent: "#84cc16", Secondary: "#047857"},
	{Name: "Midnight Lavender", Background: "#1e1b4b", Card: "#312e81", Accent: "#a855f7", Secondary: "#3730a3"},
	{Name: "Oceanic Depths", Background: "#020617", Card: "#1e3a8a", Accent: "#06b6d4", Secondary: "#1e293b"},
	{Name: "Sunset Rose", Background: "#4c0519", Card: "#881337", Accent: "#f97316", Secondary: "#9f1239"},
	{Name: "Emerald Forest", Background: "#022c22", Card: "#064e3b", Accent: "#84cc16", Secondary: "#065f46"},
	{Name: "Solar Flare", Background: "#431407", Card: "#78350f", Accent: "#eab308", Secondary: "#9a3412"},
	{Name: "Cyberpunk Neon", Background: "#000000", Card: "#18181b", Accent: "#db2777", Secondary: "#27272a"},
}

func ThemeIndex(name string) int {
	for i, th := range Themes {
		if strings.EqualFold(th.Name, strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func ThemeByName(name string) (Theme, bool) {
	idx := ThemeIndex(name)
	if idx < 0 {
		return Theme{}, false
	}
	return Themes[idx], true
}

// NextTheme cycles to the theme after current; unknown names start over at
// the first theme.
func NextTheme(current string) Theme {
	idx := ThemeIndex(current)
	return Themes[(idx+1)%len(Themes)]
}
