package term

import "github.com/fatih/color"

var (
	GreenHighlight  = color.New(color.FgGreen).SprintFunc()
	RedHighlight    = color.New(color.FgRed).SprintFunc()
	YellowHighlight = color.New(color.FgYellow).SprintFunc()

	MagentaHighlight = color.New(color.FgMagenta).SprintFunc()

	Underline = color.New(color.Underline).SprintFunc()

	Highlight = MagentaHighlight
)

// ColoredVCSRevision returns the revision, a dirty revision is highlighted
// in yellow.
func ColoredVCSRevision(commitID string, isDirty bool) string {
	if commitID == "" {
		return "-"
	}

	if isDirty {
		return YellowHighlight(commitID + "-dirty")
	}

	return commitID
}
