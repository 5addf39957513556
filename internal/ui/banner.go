package ui

import "github.com/bidbridge/bidbridge/internal/theme"

// Banner is a transient, auto-dismissing notification shown in the
// status bar. Success banners use the neutral style; failures use the
// alert style. Every caught error ends up here; none is retried.
type Banner struct {
	Text    string
	IsError bool
}

// EmptyState renders a centered placeholder for views with no data.
func EmptyState(title, body string) string {
	return "\n" +
		theme.TitleStyle.Render(title) + "\n" +
		theme.SubtitleStyle.Render(body) + "\n"
}
