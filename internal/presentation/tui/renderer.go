package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/ctxstore/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// RenderHistory formats a session's history entries as markdown and
// renders them for the terminal using glamour.
func RenderHistory(record *domain.SessionContext) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // detect light/dark background
	)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Session for %s\n\n", record.Directory)
	fmt.Fprintf(&b, "Created %s, last accessed %s.\n\n",
		record.Metadata.CreatedAt.Format("2006-01-02 15:04:05"),
		record.Metadata.LastAccessed.Format("2006-01-02 15:04:05"))

	if len(record.History) == 0 {
		b.WriteString("_No history entries._\n")
	}
	for _, entry := range record.History {
		fmt.Fprintf(&b, "## %s\n\n%s\n\n",
			entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Content)
	}

	return r.Render(b.String())
}
