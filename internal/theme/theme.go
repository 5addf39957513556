package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#8AA624", Light: "#5C7A12"}
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorGreen).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// BannerStyle renders transient success notifications.
var BannerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorGreen).
	Padding(0, 1)

// BannerErrorStyle renders transient failure notifications.
var BannerErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorRed).
	Padding(0, 1)

// TitleStyle is used for view headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	MarginBottom(1)

// SubtitleStyle is used for secondary lines under headings.
var SubtitleStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// PanelStyle wraps detail panels.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorGreen).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorGreen)

// BudgetStyle renders task budgets.
var BudgetStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorGreen)

// UrgentBadgeStyle renders the urgent badge on tasks with a future
// expiry.
var UrgentBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorOrange)

// AcceptedBadgeStyle marks the accepted bid in a bid list.
var AcceptedBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// OwnerPanelStyle wraps the owner-only panel on the task detail view.
var OwnerPanelStyle = lipgloss.NewStyle().
	Padding(0, 1).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorRed)

// ChatSentStyle renders the user's own chat messages.
var ChatSentStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorGreen).
	Padding(0, 1)

// ChatReceivedStyle renders the other participant's chat messages.
var ChatReceivedStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle grays out secondary content.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// StatusStyle returns a color-coded style for the given task status.
func StatusStyle(status string) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case "open":
		return base.Foreground(ColorGreen)
	case "assigned":
		return base.Foreground(ColorBlue)
	case "completed":
		return base.Foreground(ColorGray)
	default:
		return base.Foreground(ColorGray)
	}
}
