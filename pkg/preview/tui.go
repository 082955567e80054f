package preview

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/arifsetiawan/blogfolio/internal/blog"
)

// ViewMode represents the current view mode
type ViewMode int

// View modes for the preview TUI
const (
	ListViewMode ViewMode = iota
	DetailViewMode
	JSONViewMode
)

// Model represents the Bubble Tea model for the preview TUI
type Model struct {
	posts         []blog.Post
	cursor        int
	viewMode      ViewMode
	title         string
	width         int
	height        int
	selectedIndex int // Index of the post currently being viewed in detail
}

// NewModel creates a new preview model
func NewModel(posts []blog.Post, title string) Model {
	return Model{
		posts:         posts,
		cursor:        0,
		viewMode:      ListViewMode,
		title:         title,
		selectedIndex: -1,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.viewMode {
		case ListViewMode:
			return m.updateListView(msg)
		case DetailViewMode, JSONViewMode:
			return m.updateDetailView(msg)
		}
	}

	return m, nil
}

// updateListView handles key presses in list view mode
func (m Model) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.posts)-1 {
			m.cursor++
		}

	case "enter":
		m.selectedIndex = m.cursor
		m.viewMode = DetailViewMode

	case "x":
		m.selectedIndex = m.cursor
		m.viewMode = JSONViewMode
	}

	return m, nil
}

// updateDetailView handles key presses in detail/JSON view modes
func (m Model) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.viewMode = ListViewMode

	case "x":
		// Toggle between detail and JSON views
		if m.viewMode == DetailViewMode {
			m.viewMode = JSONViewMode
		} else {
			m.viewMode = DetailViewMode
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	switch m.viewMode {
	case ListViewMode:
		return m.renderListView()
	case DetailViewMode:
		return m.renderDetailView()
	case JSONViewMode:
		return m.renderJSONView()
	}
	return ""
}

// renderListView renders the list view
func (m Model) renderListView() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	header := fmt.Sprintf("Blog Preview - %s (%d posts)", m.title, len(m.posts))
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	visibleStart := 0
	visibleEnd := len(m.posts)

	// Keep the cursor in the middle of the visible window when possible.
	if m.height > 0 {
		maxVisible := m.height - 6
		if maxVisible < len(m.posts) {
			visibleStart = m.cursor - maxVisible/2
			if visibleStart < 0 {
				visibleStart = 0
			}
			visibleEnd = visibleStart + maxVisible
			if visibleEnd > len(m.posts) {
				visibleEnd = len(m.posts)
				visibleStart = visibleEnd - maxVisible
				if visibleStart < 0 {
					visibleStart = 0
				}
			}
		}
	}

	for i := visibleStart; i < visibleEnd; i++ {
		line := FormatCompactListItem(i, m.posts[i])

		if i == m.cursor {
			selectedStyle := lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("12")).
				Bold(true)
			b.WriteString(selectedStyle.Render("→ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	footer := "↑/↓ or j/k: navigate • enter: view details • x: JSON view • q: quit"
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}

// renderDetailView renders the detail view
func (m Model) renderDetailView() string {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.posts) {
		return "No post selected"
	}

	var b strings.Builder
	b.WriteString(FormatDetailedPost(m.posts[m.selectedIndex]))
	b.WriteString("\n")

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	footer := "esc: back to list • x: toggle JSON view • q: quit"
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}

// renderJSONView renders the post as API JSON
func (m Model) renderJSONView() string {
	if m.selectedIndex < 0 || m.selectedIndex >= len(m.posts) {
		return "No post selected"
	}

	var b strings.Builder

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	b.WriteString(headerStyle.Render("JSON Preview"))
	b.WriteString("\n\n")
	b.WriteString(FormatJSONPost(m.posts[m.selectedIndex]))
	b.WriteString("\n")

	footerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	footer := "esc: back to list • x: toggle detail view • q: quit"
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}

// Run starts the Bubble Tea program
func Run(posts []blog.Post, title string) error {
	if len(posts) == 0 {
		fmt.Println("No posts to preview")
		return nil
	}

	p := tea.NewProgram(NewModel(posts, title), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
