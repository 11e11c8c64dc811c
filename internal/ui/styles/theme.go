package styles

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	// Tiered background colors (darkest → lightest) for visual depth.
	Background        lipgloss.Color // Root/base — fills the entire terminal
	BackgroundPanel   lipgloss.Color // Panels, expanded metadata areas
	BackgroundElement lipgloss.Color // Interactive elements, hover states

	Foreground    lipgloss.Color
	Subtext       lipgloss.Color
	Border        lipgloss.Color
	Selection     lipgloss.Color
	BranchMain    lipgloss.Color
	BranchFeature lipgloss.Color
	BranchHotfix  lipgloss.Color
	Tag           lipgloss.Color
	Head          lipgloss.Color
	DiffAdd       lipgloss.Color
	DiffRemove    lipgloss.Color
	DiffContext   lipgloss.Color
	DiffAddBg     lipgloss.Color
	DiffRemoveBg  lipgloss.Color
	CommitHash    lipgloss.Color
	Graph1        lipgloss.Color
	Graph2        lipgloss.Color
	Graph3        lipgloss.Color
	Graph4        lipgloss.Color
	Graph5        lipgloss.Color
}

func CatppuccinMocha() Theme {
	return Theme{
		Background:        lipgloss.Color("#1e1e2e"), // Catppuccin Base
		BackgroundPanel:   lipgloss.Color("#181825"), // Catppuccin Mantle (panels)
		BackgroundElement: lipgloss.Color("#11111b"), // Catppuccin Crust (deepest)

		Foreground:    lipgloss.Color("#cdd6f4"),
		Subtext:       lipgloss.Color("#a6adc8"),
		Border:        lipgloss.Color("#313244"),
		Selection:     lipgloss.Color("#45475a"),
		BranchMain:    lipgloss.Color("#a6e3a1"),
		BranchFeature: lipgloss.Color("#89b4fa"),
		BranchHotfix:  lipgloss.Color("#f38ba8"),
		Tag:           lipgloss.Color("#f9e2af"),
		Head:          lipgloss.Color("#cba6f7"),
		DiffAdd:       lipgloss.Color("#a6e3a1"),
		DiffRemove:    lipgloss.Color("#f38ba8"),
		DiffContext:   lipgloss.Color("#585b70"),
		DiffAddBg:     lipgloss.Color("#1a2e1a"),
		DiffRemoveBg:  lipgloss.Color("#2e1a1a"),
		CommitHash:    lipgloss.Color("#fab387"),
		Graph1:        lipgloss.Color("#89b4fa"),
		Graph2:        lipgloss.Color("#cba6f7"),
		Graph3:        lipgloss.Color("#94e2d5"),
		Graph4:        lipgloss.Color("#f9e2af"),
		Graph5:        lipgloss.Color("#a6e3a1"),
	}
}

// Classic reproduces the original engine's default named color set
// (helpers/palette.rs) as a full UI theme, rather than just the two
// commit-graph ramps palette.RampA/RampB already carry over from it.
func Classic() Theme {
	return Theme{
		Background:        lipgloss.Color("#1c1c1c"),
		BackgroundPanel:   lipgloss.Color("#121212"),
		BackgroundElement: lipgloss.Color("#262626"),

		Foreground:    lipgloss.Color("#d0d0d0"),
		Subtext:       lipgloss.Color("#808080"),
		Border:        lipgloss.Color("#444444"),
		Selection:     lipgloss.Color("#3a3a3a"),
		BranchMain:    lipgloss.Color("#9CCC65"),
		BranchFeature: lipgloss.Color("#5C6BC0"),
		BranchHotfix:  lipgloss.Color("#EF5350"),
		Tag:           lipgloss.Color("#FFCA28"),
		Head:          lipgloss.Color("#AB47BC"),
		DiffAdd:       lipgloss.Color("#9CCC65"),
		DiffRemove:    lipgloss.Color("#EF5350"),
		DiffContext:   lipgloss.Color("#707070"),
		DiffAddBg:     lipgloss.Color("#1a2a14"),
		DiffRemoveBg:  lipgloss.Color("#2a1414"),
		CommitHash:    lipgloss.Color("#FF7043"),
		Graph1:        lipgloss.Color("#5C6BC0"),
		Graph2:        lipgloss.Color("#AB47BC"),
		Graph3:        lipgloss.Color("#26C6DA"),
		Graph4:        lipgloss.Color("#FFCA28"),
		Graph5:        lipgloss.Color("#9CCC65"),
	}
}

// ANSI uses only the 16 standard ANSI color codes, for terminals without
// 256-color or true-color support.
func ANSI() Theme {
	return Theme{
		Background:        lipgloss.Color("0"),
		BackgroundPanel:   lipgloss.Color("0"),
		BackgroundElement: lipgloss.Color("8"),

		Foreground:    lipgloss.Color("7"),
		Subtext:       lipgloss.Color("8"),
		Border:        lipgloss.Color("8"),
		Selection:     lipgloss.Color("8"),
		BranchMain:    lipgloss.Color("2"),
		BranchFeature: lipgloss.Color("4"),
		BranchHotfix:  lipgloss.Color("1"),
		Tag:           lipgloss.Color("3"),
		Head:          lipgloss.Color("5"),
		DiffAdd:       lipgloss.Color("2"),
		DiffRemove:    lipgloss.Color("1"),
		DiffContext:   lipgloss.Color("8"),
		DiffAddBg:     lipgloss.Color("0"),
		DiffRemoveBg:  lipgloss.Color("0"),
		CommitHash:    lipgloss.Color("3"),
		Graph1:        lipgloss.Color("4"),
		Graph2:        lipgloss.Color("5"),
		Graph3:        lipgloss.Color("6"),
		Graph4:        lipgloss.Color("3"),
		Graph5:        lipgloss.Color("2"),
	}
}

// Monochrome drops color entirely, for terminals or users that want the
// graph and panels rendered in shades of grey only.
func Monochrome() Theme {
	return Theme{
		Background:        lipgloss.Color("0"),
		BackgroundPanel:   lipgloss.Color("0"),
		BackgroundElement: lipgloss.Color("8"),

		Foreground:    lipgloss.Color("7"),
		Subtext:       lipgloss.Color("8"),
		Border:        lipgloss.Color("7"),
		Selection:     lipgloss.Color("8"),
		BranchMain:    lipgloss.Color("15"),
		BranchFeature: lipgloss.Color("7"),
		BranchHotfix:  lipgloss.Color("15"),
		Tag:           lipgloss.Color("7"),
		Head:          lipgloss.Color("15"),
		DiffAdd:       lipgloss.Color("15"),
		DiffRemove:    lipgloss.Color("8"),
		DiffContext:   lipgloss.Color("7"),
		DiffAddBg:     lipgloss.Color("0"),
		DiffRemoveBg:  lipgloss.Color("0"),
		CommitHash:    lipgloss.Color("7"),
		Graph1:        lipgloss.Color("15"),
		Graph2:        lipgloss.Color("7"),
		Graph3:        lipgloss.Color("15"),
		Graph4:        lipgloss.Color("7"),
		Graph5:        lipgloss.Color("15"),
	}
}

// GetTheme resolves a configured theme name to a Theme, falling back to
// CatppuccinMocha for an unrecognized or empty name.
func GetTheme(name string) Theme {
	switch name {
	case "classic":
		return Classic()
	case "ansi":
		return ANSI()
	case "monochrome":
		return Monochrome()
	case "catppuccin-mocha":
		return CatppuccinMocha()
	default:
		return CatppuccinMocha()
	}
}
