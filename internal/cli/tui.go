package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/trombinoscope/pkg/directory"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listHeaderStyle   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// EmployeeListModel - Interactive employee selection
// =============================================================================

// EmployeeListModel is the bubbletea model for picking an employee to remove.
type EmployeeListModel struct {
	Employees []directory.Employee
	Cursor    int
	Selected  *directory.Employee
	Height    int
	Offset    int

	now time.Time
}

// NewEmployeeListModel creates a new employee list model.
func NewEmployeeListModel(employees []directory.Employee, now time.Time) EmployeeListModel {
	return EmployeeListModel{
		Employees: employees,
		Height:    15,
		now:       now,
	}
}

func (m EmployeeListModel) Init() tea.Cmd {
	return nil
}

func (m EmployeeListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Employees)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Employees) == 0 {
				return m, tea.Quit
			}
			e := m.Employees[m.Cursor]
			m.Selected = &e
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	return m, nil
}

func (m EmployeeListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Employee to Remove"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ remove  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Employees))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, append([]string{cursor}, employeeRow(m.Employees[i], m.now)...))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(append([]string{""}, employeeHeaders...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return listHeaderStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 0 || col == 5 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Employees))))

	return b.String()
}

// =============================================================================
// Table Rows
// =============================================================================

var employeeHeaders = []string{"ID", "Name", "Title", "Age", "Manager"}

// employeeRow formats e for the list and picker tables.
func employeeRow(e directory.Employee, now time.Time) []string {
	age := "—"
	if a := e.Age(now); a >= 0 {
		age = strconv.Itoa(a)
	}
	manager := "—"
	if e.ParentID != nil {
		manager = strconv.Itoa(*e.ParentID)
	}
	return []string{strconv.Itoa(e.ID), e.Name(), e.Title, age, manager}
}

// employeeTable renders employees as a bordered lipgloss table.
func employeeTable(employees []directory.Employee, now time.Time) string {
	rows := make([][]string, len(employees))
	for i, e := range employees {
		rows[i] = employeeRow(e, now)
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(employeeHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return listHeaderStyle
			case col == 0 || col == 4:
				return listDimStyle
			case col == 1 && employees[row].IsRoot():
				return StyleRoot
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
