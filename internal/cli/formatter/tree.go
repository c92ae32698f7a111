package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/bizdesk/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Title  string
	Level  int
	IsLast bool
	Status string
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders a list of TreeItems as an indented tree using
// box-drawing characters for connectors. Inactive items are dimmed and
// detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	type lineInfo struct {
		content string
		badge   string
	}

	lines := make([]lineInfo, len(items))
	maxContentWidth := 0

	// Pass 1: build each line's content and track max visible width.
	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			for i := 1; i < item.Level; i++ {
				prefix += treePipe
			}
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}

		title := item.Title
		if item.Status == string(domain.StatusInactive) {
			title = Dim(title + " (inactive)")
		}

		content := StyleDim.Render(prefix) + title
		lines[idx].content = content

		if item.Detail != "" {
			lines[idx].badge = StyleBlue.Render(fmt.Sprintf("[ %s ]", item.Detail))
		}

		if w := lipgloss.Width(content); w > maxContentWidth {
			maxContentWidth = w
		}
	}

	// Pass 2: render with right-aligned badges.
	var b strings.Builder
	for _, li := range lines {
		if li.badge != "" {
			pad := maxContentWidth - lipgloss.Width(li.content)
			if pad < 0 {
				pad = 0
			}
			b.WriteString(li.content + strings.Repeat(" ", pad) + "  " + li.badge + "\n")
		} else {
			b.WriteString(li.content + "\n")
		}
	}

	return b.String()
}

// CostCenterTree flattens the cost center hierarchy depth-first. Children
// keep the order of centers. Centers whose parent is missing from the slice
// are shown as roots.
func CostCenterTree(centers []domain.CostCenter) []TreeItem {
	known := make(map[string]bool, len(centers))
	for _, c := range centers {
		known[c.ID] = true
	}
	children := make(map[string][]domain.CostCenter)
	var roots []domain.CostCenter
	for _, c := range centers {
		parent := domain.ParentIDOf(c)
		if parent == "" || !known[parent] || parent == c.ID {
			roots = append(roots, c)
			continue
		}
		children[parent] = append(children[parent], c)
	}

	var items []TreeItem
	seen := make(map[string]bool, len(centers))
	var walk func(nodes []domain.CostCenter, level int)
	walk = func(nodes []domain.CostCenter, level int) {
		for i, c := range nodes {
			if seen[c.ID] {
				continue
			}
			seen[c.ID] = true
			items = append(items, TreeItem{
				Title:  c.Code + "  " + c.Name,
				Level:  level,
				IsLast: i == len(nodes)-1,
				Status: string(c.Status),
				Detail: domain.StringOrEmpty(c.Description),
			})
			walk(children[c.ID], level+1)
		}
	}
	walk(roots, 0)
	for _, c := range centers {
		if !seen[c.ID] {
			walk([]domain.CostCenter{c}, 0)
		}
	}
	return items
}
