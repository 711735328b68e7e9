// Package frame реализует кадровые циклы поверх tea.Tick
package frame

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultFPS - частота кадров по умолчанию
const DefaultFPS = 30

// TickMsg - сообщение очередного кадра конкретного цикла
type TickMsg struct {
	Loop       string
	Generation uint64
	Time       time.Time
}

// Loop - запланированный кадровый обратный вызов.
// Перед каждой новой регистрацией старая отменяется сменой поколения,
// поэтому повторный Start не порождает второй цикл.
type Loop struct {
	name       string
	interval   time.Duration
	generation uint64
	running    bool
}

// NewLoop создает цикл с именем и частотой кадров
func NewLoop(name string, fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		name:     name,
		interval: time.Second / time.Duration(fps),
	}
}

// Name возвращает имя цикла
func (l *Loop) Name() string {
	return l.name
}

// Interval возвращает длительность кадра
func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Running сообщает, запланирован ли кадр
func (l *Loop) Running() bool {
	return l.running
}

// Start отменяет запланированный кадр и регистрирует новый
func (l *Loop) Start() tea.Cmd {
	l.generation++
	l.running = true
	return l.schedule()
}

// Stop отменяет запланированный кадр. Пришедший позже TickMsg будет отброшен.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.generation++
	l.running = false
}

// Accept проверяет, принадлежит ли сообщение текущему поколению цикла
func (l *Loop) Accept(msg TickMsg) bool {
	return l.running && msg.Loop == l.name && msg.Generation == l.generation
}

// Next возвращает команду следующего кадра для принятого сообщения
func (l *Loop) Next(msg TickMsg) (tea.Cmd, bool) {
	if !l.Accept(msg) {
		return nil, false
	}
	return l.schedule(), true
}

func (l *Loop) schedule() tea.Cmd {
	name, gen := l.name, l.generation
	return tea.Tick(l.interval, func(t time.Time) tea.Msg {
		return TickMsg{Loop: name, Generation: gen, Time: t}
	})
}
