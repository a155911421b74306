package ui

func paint(code, s string) string {
	t := GetCurrentTheme()
	if code == "" {
		return s
	}
	return code + s + t.Reset
}

// Primary renders s in the theme's accent color.
func Primary(s string) string { return paint(GetCurrentTheme().Primary, s) }

// Secondary renders s in the theme's muted color.
func Secondary(s string) string { return paint(GetCurrentTheme().Secondary, s) }

// Success renders s in the theme's success color.
func Success(s string) string { return paint(GetCurrentTheme().Success, s) }

// Warning renders s in the theme's warning color.
func Warning(s string) string { return paint(GetCurrentTheme().Warning, s) }

// Error renders s in the theme's error color.
func Error(s string) string { return paint(GetCurrentTheme().Error, s) }

// Bold renders s in bold.
func Bold(s string) string { return paint(GetCurrentTheme().Bold, s) }

// Result titles shown by every surface.
const (
	TitleSuccess = "Assignments Generated Successfully"
	TitleMatches = "Matches Found with Last Year"
)

// OutcomeTitle returns the heading for a successful generation.
func OutcomeTitle(hasMatches bool) string {
	if hasMatches {
		return TitleMatches
	}
	return TitleSuccess
}
