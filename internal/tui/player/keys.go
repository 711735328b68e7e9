package player

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Next       key.Binding
	Prev       key.Binding
	Shuffle    key.Binding
	Loop       key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Projection key.Binding
	Color      key.Binding
	Clear      key.Binding
	Open       key.Binding
	Prompt     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("пробел", "пауза/играть")),
		Next:       key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n/→", "следующий")),
		Prev:       key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p/←", "предыдущий")),
		Shuffle:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "перемешать")),
		Loop:       key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "повтор")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "громче")),
		VolumeDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "тише")),
		Projection: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "проекция")),
		Color:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "цвет")),
		Clear:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "очистить")),
		Open:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "открыть")),
		Prompt:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "путь/s3")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "справка")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "выход")),
	}
}

// ShortHelp реализует help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Next, k.Prev, k.Open, k.Help, k.Quit}
}

// FullHelp реализует help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Next, k.Prev, k.Clear},
		{k.Shuffle, k.Loop, k.VolumeUp, k.VolumeDown},
		{k.Projection, k.Color},
		{k.Open, k.Prompt, k.Help, k.Quit},
	}
}
