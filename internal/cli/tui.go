package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/libretto/pkg/corpus"
)

// Pick item kinds.
const (
	kindCharacter = "character"
	kindTheme     = "theme"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// PickModel - Interactive character and theme selection
// =============================================================================

// PickItem is one selectable character or theme.
type PickItem struct {
	Kind    string
	ID      string
	Label   string
	Detail  string
	Checked bool
}

// PickModel is the bubbletea model for choosing characters and themes.
type PickModel struct {
	Items     []PickItem
	Cursor    int
	Offset    int
	Height    int
	Confirmed bool
}

// NewPickModel lists the visible characters, then the visible themes, in
// table order.
func NewPickModel(t *corpus.Tables) PickModel {
	var items []PickItem
	for p := t.Characters.Oldest(); p != nil; p = p.Next() {
		if !p.Value.Visible {
			continue
		}
		n := 0
		if ids, ok := t.Relations.Characters.Get(p.Key); ok {
			n = len(ids)
		}
		items = append(items, PickItem{
			Kind:   kindCharacter,
			ID:     p.Key,
			Label:  p.Value.Name,
			Detail: fmt.Sprintf("%d lines", n),
		})
	}
	for p := t.ThemeMeta.Oldest(); p != nil; p = p.Next() {
		if !p.Value.Visible {
			continue
		}
		items = append(items, PickItem{
			Kind:   kindTheme,
			ID:     p.Key,
			Label:  p.Value.Label,
			Detail: p.Value.Type,
		})
	}
	return PickModel{Items: items, Height: 15}
}

// Selected returns the checked ids of one kind, in list order.
func (m PickModel) Selected(kind string) []string {
	var ids []string
	for _, it := range m.Items {
		if it.Kind == kind && it.Checked {
			ids = append(ids, it.ID)
		}
	}
	return ids
}

func (m PickModel) Init() tea.Cmd {
	return nil
}

func (m PickModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "x":
			if len(m.Items) > 0 {
				items := append([]PickItem(nil), m.Items...)
				items[m.Cursor].Checked = !items[m.Cursor].Checked
				m.Items = items
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PickModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Characters and Themes"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ run layout  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Items) {
		end = len(m.Items)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if it.Checked {
			check = "[" + iconSuccess + "]"
		}
		rows = append(rows, []string{cursor, check, it.Kind, it.ID, it.Label, it.Detail})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "", "Kind", "ID", "Name", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Items) {
				return lipgloss.NewStyle()
			}
			base := lipgloss.NewStyle()
			if col == 5 {
				base = base.Foreground(colorDim)
			}
			switch {
			case idx == m.Cursor && m.Items[idx].Checked:
				return base.Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return base.Foreground(colorCyan).Bold(true)
			case m.Items[idx].Checked:
				return base.Foreground(colorGreen)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	chars, themes := len(m.Selected(kindCharacter)), len(m.Selected(kindTheme))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d characters · %d themes selected",
		min(m.Cursor+1, len(m.Items)), len(m.Items), chars, themes)))

	return b.String()
}
