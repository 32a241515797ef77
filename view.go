package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/LFroesch/rove/internal/nav"
	"github.com/LFroesch/rove/internal/utils"
)

var (
	panelHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("105"))
	borderStyle      = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240"))
	selectedStyle    = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("230")).Bold(true)
	normalStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dirStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	placeholderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Italic(true)
	modifiedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.nav.Snapshot()
	header := m.renderHeader(snap)

	var mainContent string
	if m.mode == modeHelp {
		mainContent = m.renderHelpView()
	} else {
		width := m.getSafeWidth()
		innerHeight := m.getSafeHeight() - 4 // header, status bar, panel border

		showTodo := m.mode == modeTodo || m.mode == modeTodoInput ||
			innerHeight >= todoPanelHeight+2+6
		showRight := m.cfg.Settings.Preview || showTodo

		if !showRight {
			mainContent = m.renderFileList(snap, width, innerHeight)
		} else {
			leftWidth := width / 2
			if !m.cfg.Settings.Preview {
				leftWidth = width * 2 / 3
			}
			rightWidth := width - leftWidth

			var right []string
			previewHeight := innerHeight
			if showTodo {
				todoHeight := todoPanelHeight
				if !m.cfg.Settings.Preview {
					todoHeight = innerHeight
				}
				previewHeight = innerHeight - todoHeight - 2
				if m.cfg.Settings.Preview {
					right = append(right, m.renderPreview(snap, rightWidth, previewHeight))
				}
				right = append(right, m.renderTodos(rightWidth, todoHeight))
			} else {
				right = append(right, m.renderPreview(snap, rightWidth, previewHeight))
			}

			mainContent = lipgloss.JoinHorizontal(lipgloss.Top,
				m.renderFileList(snap, leftWidth, innerHeight),
				lipgloss.JoinVertical(lipgloss.Left, right...),
			)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		mainContent,
		m.renderStatusBar(snap),
	)
}

func (m *model) renderHeader(snap nav.Snapshot) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(m.getSafeWidth())

	left := fmt.Sprintf("🧭 rove - %s", snap.Dir)
	if m.mode == modeSearch {
		left = m.searchInput.View()
	}

	var right string
	if m.gitBranch != "" {
		right = fmt.Sprintf(" %s", m.gitBranch)
		if n := len(m.gitModified); n > 0 {
			right += fmt.Sprintf(" [%d modified]", n)
		}
	}

	padding := m.getSafeWidth() - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	return titleStyle.Render(left + strings.Repeat(" ", padding) + right)
}

// renderFileList draws the listing panel. innerHeight counts rows inside
// the border, including the panel title.
func (m *model) renderFileList(snap nav.Snapshot, width, innerHeight int) string {
	contentWidth := width - 4 // border and padding
	maxItems := innerHeight - 1
	if maxItems < 1 {
		maxItems = 1
	}

	dirName := filepath.Base(snap.Dir)
	title := fmt.Sprintf("📁 %s", dirName)
	switch {
	case snap.Source == nav.Search:
		title += fmt.Sprintf(" [/%s]", snap.Query)
	case snap.ShowHidden:
		title += " [hidden]"
	}
	header := panelHeaderStyle.Render(utils.PadRight(firstCells(title, contentWidth), contentWidth))

	// Keep the cursor visible
	if snap.Cursor < m.scrollOffset {
		m.scrollOffset = snap.Cursor
	}
	if snap.Cursor >= m.scrollOffset+maxItems {
		m.scrollOffset = snap.Cursor - maxItems + 1
	}
	if m.scrollOffset > len(snap.Rows)-1 {
		m.scrollOffset = 0
	}

	end := m.scrollOffset + maxItems
	if end > len(snap.Rows) {
		end = len(snap.Rows)
	}

	lines := []string{header}
	for i := m.scrollOffset; i < end; i++ {
		lines = append(lines, m.renderRow(snap, i, contentWidth))
	}

	return borderStyle.
		Width(width-2).
		Height(innerHeight).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (m *model) renderRow(snap nav.Snapshot, i, width int) string {
	row := snap.Rows[i]
	selected := i == snap.Cursor

	if row.Placeholder {
		name, _ := utils.TruncateName(row.Name, width-2)
		if selected {
			return selectedStyle.Render(utils.PadRight("  "+name, width))
		}
		return placeholderStyle.Render("  " + name)
	}

	path := filepath.Join(snap.Dir, row.Name)
	marker := ""
	if m.gitModified[path] {
		marker = " [M]"
	}
	icon := utils.GetFileIcon(row.Name, row.IsDir)

	// prefix (2) + icon (2) + space (1)
	avail := width - 5 - len(marker)
	name, cut := utils.TruncateName(row.Name, avail)

	if selected {
		line := "▶ " + icon + " " + name + marker
		return selectedStyle.Render(utils.PadRight(line, width))
	}

	style := normalStyle
	switch {
	case row.IsDir:
		style = dirStyle
	case row.Color != nil:
		style = lipgloss.NewStyle().Foreground(row.Color)
	}

	rendered := style.Render(name)
	if !cut && len(row.Matches) > 0 {
		rendered = style.Render(utils.HighlightMatches(name, row.Matches))
	}
	if marker != "" {
		rendered += modifiedStyle.Render(marker)
	}
	return "  " + icon + " " + rendered
}

func (m *model) renderPreview(snap nav.Snapshot, width, innerHeight int) string {
	contentWidth := width - 4

	title := "👁 Preview"
	if snap.Selected != "" {
		title += " - " + filepath.Base(snap.Selected)
	}
	header := panelHeaderStyle.Render(utils.PadRight(firstCells(title, contentWidth), contentWidth))

	lineStyle := lipgloss.NewStyle().MaxWidth(contentWidth)
	lines := []string{header}
	for i, line := range snap.Preview {
		if i >= innerHeight-1 {
			break
		}
		line = strings.ReplaceAll(line, "\t", "  ")
		lines = append(lines, lineStyle.Render(line))
	}
	if len(snap.Preview) == 0 && !m.cfg.Settings.Preview {
		lines = append(lines, placeholderStyle.Render("preview disabled"))
	}

	return borderStyle.
		Width(width-2).
		Height(innerHeight).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (m *model) renderTodos(width, innerHeight int) string {
	contentWidth := width - 4
	focused := m.mode == modeTodo || m.mode == modeTodoInput

	title := fmt.Sprintf("✅ To-do (%d/%d)", m.todos.Pending(), len(m.todos.Items))
	header := panelHeaderStyle.Render(utils.PadRight(firstCells(title, contentWidth), contentWidth))
	lines := []string{header}

	rows := innerHeight - 1
	if m.mode == modeTodoInput {
		rows--
	}

	// Keep the todo cursor visible
	start := 0
	if focused && m.todoCursor >= rows {
		start = m.todoCursor - rows + 1
	}

	if len(m.todos.Items) == 0 && m.mode != modeTodoInput {
		hint := "Nothing to do"
		if !focused {
			hint += " (t to edit)"
		}
		lines = append(lines, placeholderStyle.Render(hint))
	}

	for i := start; i < len(m.todos.Items) && i < start+rows; i++ {
		item := m.todos.Items[i]
		box := "[ ]"
		if item.Completed {
			box = "[x]"
		}
		desc, _ := utils.TruncateName(item.Description, contentWidth-6)
		line := fmt.Sprintf("%s %s", box, desc)

		switch {
		case focused && i == m.todoCursor:
			lines = append(lines, selectedStyle.Render(utils.PadRight("▶ "+line, contentWidth)))
		case item.Completed:
			lines = append(lines, "  "+doneStyle.Render(line))
		default:
			lines = append(lines, "  "+normalStyle.Render(line))
		}
	}

	if m.mode == modeTodoInput {
		lines = append(lines, m.todoInput.View())
	}

	style := borderStyle
	if focused {
		style = style.BorderForeground(lipgloss.Color("105"))
	}
	return style.
		Width(width-2).
		Height(innerHeight).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

func (m *model) renderStatusBar(snap nav.Snapshot) string {
	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("240")).
		Padding(0, 1).
		Width(m.getSafeWidth())

	var parts []string
	if snap.Loading {
		parts = append(parts, m.spinner.View()+" loading")
	}
	if snap.Selected != "" {
		parts = append(parts, fmt.Sprintf("%d/%d", snap.Cursor+1, len(snap.Rows)))
		if !snap.SelectedIsDir {
			parts = append(parts, utils.FormatFileSize(m.meta.Size(snap.Selected)))
		}
	}
	if snap.Source == nav.Search {
		parts = append(parts, fmt.Sprintf("search: %s", snap.Query))
	}
	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	}
	statusText := strings.Join(parts, " | ")

	var rightSide string
	switch m.mode {
	case modeTodo, modeTodoInput:
		rightSide = m.help.ShortHelpView(m.todoKeys.ShortHelp())
	case modeSearch:
		rightSide = "enter: keep | esc: clear | ~: fuzzy"
	default:
		rightSide = "? for help"
	}

	totalWidth := m.getSafeWidth() - 2
	padding := totalWidth - lipgloss.Width(statusText) - lipgloss.Width(rightSide)
	if padding < 1 {
		padding = 1
	}
	return statusStyle.Render(statusText + strings.Repeat(" ", padding) + rightSide)
}

func (m *model) renderHelpView() string {
	width := m.getSafeWidth()
	innerHeight := m.getSafeHeight() - 4

	hm := m.help
	hm.ShowAll = true
	lines := []string{
		panelHeaderStyle.Render("Keys"),
		"",
		hm.View(m.keys),
		"",
		panelHeaderStyle.Render("To-do panel"),
		"",
		hm.View(m.todoKeys),
		"",
		placeholderStyle.Render(fmt.Sprintf("config: %s", m.cfg.Path)),
		placeholderStyle.Render(fmt.Sprintf("todos:  %s", m.todos.Path())),
		"",
		placeholderStyle.Render("press any key to return"),
	}

	return borderStyle.
		Width(width-2).
		Height(innerHeight).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// firstCells cuts s to width terminal cells.
func firstCells(s string, width int) string {
	out, _ := utils.TruncateName(s, width)
	return out
}
