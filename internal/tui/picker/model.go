// Package picker содержит экран выбора аудиофайлов на диске
package picker

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-stereo/internal/importer"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Margin(1, 0, 0, 2)
	pickedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff87")).MarginLeft(2)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).MarginLeft(2)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0, 0, 2)
)

// chromeHeight - строки вокруг списка файлов: заголовок, выбранное, ошибка, справка
const chromeHeight = 8

// PickedMsg отправляется при подтверждении выбора
type PickedMsg struct {
	Paths []string
}

// CancelMsg отправляется при закрытии экрана без выбора
type CancelMsg struct{}

type keyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// Model представляет экран выбора файлов.
// Выбранные файлы накапливаются, пока пользователь не подтвердит выбор.
type Model struct {
	fp     filepicker.Model
	picked []string
	err    string
	keys   keyMap
}

// NewModel создает экран выбора, открытый в папке dir
func NewModel(dir string) *Model {
	fp := filepicker.New()
	fp.AllowedTypes = importer.Extensions()
	fp.CurrentDirectory = dir
	fp.ShowPermissions = false
	fp.AutoHeight = false
	fp.SetHeight(10)

	return &Model{
		fp: fp,
		keys: keyMap{
			Confirm: key.NewBinding(key.WithKeys("tab", "ctrl+s"), key.WithHelp("tab", "добавить выбранное")),
			Cancel:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("esc", "отмена")),
		},
	}
}

// Init читает стартовую папку
func (m *Model) Init() tea.Cmd {
	return m.fp.Init()
}

// Picked возвращает накопленные пути
func (m *Model) Picked() []string {
	return m.picked
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.fp.SetHeight(max(3, msg.Height-chromeHeight))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			return m, func() tea.Msg { return CancelMsg{} }

		case key.Matches(msg, m.keys.Confirm):
			if len(m.picked) == 0 {
				m.err = "Ничего не выбрано"
				return m, nil
			}
			paths := slices.Clone(m.picked)
			return m, func() tea.Msg { return PickedMsg{Paths: paths} }
		}
	}

	var cmd tea.Cmd
	m.fp, cmd = m.fp.Update(msg)

	if ok, path := m.fp.DidSelectFile(msg); ok {
		m.err = ""
		if !slices.Contains(m.picked, path) {
			m.picked = append(m.picked, path)
		}
	}
	if ok, path := m.fp.DidSelectDisabledFile(msg); ok {
		m.err = fmt.Sprintf("%s: %v", filepath.Base(path), importer.ErrUnsupported)
	}

	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Добавить файлы: " + m.fp.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.fp.View())
	b.WriteString("\n")

	if len(m.picked) > 0 {
		names := make([]string, len(m.picked))
		for i, p := range m.picked {
			names[i] = filepath.Base(p)
		}
		b.WriteString(pickedStyle.Render(fmt.Sprintf("Выбрано (%d): %s", len(m.picked), strings.Join(names, ", "))))
		b.WriteString("\n")
	}
	if m.err != "" {
		b.WriteString(errorStyle.Render(m.err))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(fmt.Sprintf("Enter: выбрать файл • %s: %s • %s: %s • %s",
		m.keys.Confirm.Help().Key, m.keys.Confirm.Help().Desc,
		m.keys.Cancel.Help().Key, m.keys.Cancel.Help().Desc,
		strings.Join(importer.Extensions(), " "))))

	return b.String()
}
