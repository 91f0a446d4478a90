package ui

// Theme defines a complete color palette for the application.
type Theme struct {
	// Name is the display name of the theme
	Name string

	// Primary is the main accent color (used for focus, highlights, headers)
	Primary string
	// Secondary is the secondary accent color (used for keys, running jobs)
	Secondary string

	// Background colors
	Bg         string // Main background
	BgSelected string // Cursor row background (defaults to Primary if empty)

	// Text colors
	Text      string // Primary text
	TextMuted string // Secondary/muted text

	// Browser entry colors
	Directory string
	Link      string
	Marked    string // entries in the selection set

	// Semantic colors
	Warning string
	Error   string
	Success string
	Info    string

	// Border colors
	Border      string // Default borders
	BorderFocus string // Focused element borders (defaults to Primary if empty)
}

// GetBgSelected returns the selected background color, defaulting to Primary
func (t Theme) GetBgSelected() string {
	if t.BgSelected != "" {
		return t.BgSelected
	}
	return t.Primary
}

// GetBorderFocus returns the focused border color, defaulting to Primary
func (t Theme) GetBorderFocus() string {
	if t.BorderFocus != "" {
		return t.BorderFocus
	}
	return t.Primary
}

// ThemeName is a type for theme identifiers
type ThemeName string

// Available theme names
const (
	ThemeDarkPurple ThemeName = "dark-purple"
	ThemeNord       ThemeName = "nord"
	ThemeDracula    ThemeName = "dracula"
	ThemeGruvbox    ThemeName = "gruvbox"
	ThemeTokyoNight ThemeName = "tokyo-night"
	ThemeLight      ThemeName = "light"
)

// DefaultTheme is the default theme name
const DefaultTheme = ThemeDarkPurple

// BuiltinThemes contains all built-in themes
var BuiltinThemes = map[ThemeName]Theme{
	ThemeDarkPurple: {
		Name:      "Dark Purple",
		Primary:   "#7C3AED",
		Secondary: "#06B6D4",
		Bg:        "#1F2937",
		Text:      "#F9FAFB",
		TextMuted: "#9CA3AF",
		Directory: "#60A5FA",
		Link:      "#C084FC",
		Marked:    "#A78BFA",
		Warning:   "#F59E0B",
		Error:     "#EF4444",
		Success:   "#10B981",
		Info:      "#06B6D4",
		Border:    "#374151",
	},
	ThemeNord: {
		Name:      "Nord",
		Primary:   "#88C0D0",
		Secondary: "#81A1C1",
		Bg:        "#2E3440",
		Text:      "#ECEFF4",
		TextMuted: "#D8DEE9",
		Directory: "#81A1C1",
		Link:      "#B48EAD",
		Marked:    "#A3BE8C",
		Warning:   "#EBCB8B",
		Error:     "#BF616A",
		Success:   "#A3BE8C",
		Info:      "#81A1C1",
		Border:    "#4C566A",
	},
	ThemeDracula: {
		Name:      "Dracula",
		Primary:   "#BD93F9",
		Secondary: "#8BE9FD",
		Bg:        "#282A36",
		Text:      "#F8F8F2",
		TextMuted: "#6272A4",
		Directory: "#8BE9FD",
		Link:      "#BD93F9",
		Marked:    "#FF79C6",
		Warning:   "#FFB86C",
		Error:     "#FF5555",
		Success:   "#50FA7B",
		Info:      "#8BE9FD",
		Border:    "#44475A",
	},
	ThemeGruvbox: {
		Name:      "Gruvbox Dark",
		Primary:   "#FE8019",
		Secondary: "#83A598",
		Bg:        "#282828",
		Text:      "#EBDBB2",
		TextMuted: "#A89984",
		Directory: "#83A598",
		Link:      "#D3869B",
		Marked:    "#FABD2F",
		Warning:   "#FE8019",
		Error:     "#FB4934",
		Success:   "#B8BB26",
		Info:      "#83A598",
		Border:    "#504945",
	},
	ThemeTokyoNight: {
		Name:      "Tokyo Night",
		Primary:   "#7AA2F7",
		Secondary: "#BB9AF7",
		Bg:        "#1A1B26",
		Text:      "#C0CAF5",
		TextMuted: "#565F89",
		Directory: "#7AA2F7",
		Link:      "#BB9AF7",
		Marked:    "#9ECE6A",
		Warning:   "#E0AF68",
		Error:     "#F7768E",
		Success:   "#9ECE6A",
		Info:      "#7DCFFF",
		Border:    "#3B4261",
	},
	ThemeLight: {
		Name:        "Light",
		Primary:     "#6366F1",
		Secondary:   "#0891B2",
		Bg:          "#FFFFFF",
		BgSelected:  "#E0E7FF",
		Text:        "#1F2937",
		TextMuted:   "#6B7280",
		Directory:   "#2563EB",
		Link:        "#7C3AED",
		Marked:      "#7C3AED",
		Warning:     "#D97706",
		Error:       "#DC2626",
		Success:     "#16A34A",
		Info:        "#0891B2",
		Border:      "#D1D5DB",
		BorderFocus: "#6366F1",
	},
}

// ThemeNames returns a list of all available theme names in display order
func ThemeNames() []ThemeName {
	return []ThemeName{
		ThemeDarkPurple,
		ThemeNord,
		ThemeDracula,
		ThemeGruvbox,
		ThemeTokyoNight,
		ThemeLight,
	}
}

// GetTheme returns a theme by name, defaulting to DarkPurple if not found
func GetTheme(name ThemeName) Theme {
	if theme, ok := BuiltinThemes[name]; ok {
		return theme
	}
	return BuiltinThemes[DefaultTheme]
}

// currentTheme holds the active theme
var currentTheme = BuiltinThemes[DefaultTheme]

// CurrentTheme returns the currently active theme
func CurrentTheme() Theme {
	return currentTheme
}

// SetTheme sets the active theme and regenerates all styles
func SetTheme(name ThemeName) {
	currentTheme = GetTheme(name)
	applyTheme(currentTheme)
	RefreshModalStyles()
}

// SetThemeByName sets the active theme by string name
func SetThemeByName(name string) {
	SetTheme(ThemeName(name))
}

// CurrentThemeName returns the name of the current theme
func CurrentThemeName() ThemeName {
	for name, theme := range BuiltinThemes {
		if theme.Name == currentTheme.Name {
			return name
		}
	}
	return DefaultTheme
}
