package visualizer

import (
	"fmt"
	"strings"
)

// Projection - способ превращения интенсивности в положение частицы
type Projection int

const (
	// Logarithmic - смещение по горизонтали ∝ log(1+I), вверх ∝ I
	Logarithmic Projection = iota
	// Linear - луч под углом -45°, радиус ∝ I
	Linear
	// Lissajous - фигуры Лиссажу с фазой на частицу, амплитуда ∝ I
	Lissajous
)

var projectionNames = []string{"logarithmic", "linear", "lissajous"}

// String возвращает название проекции
func (p Projection) String() string {
	if p < 0 || int(p) >= len(projectionNames) {
		return "unknown"
	}
	return projectionNames[p]
}

// Next возвращает следующую проекцию по кругу
func (p Projection) Next() Projection {
	return Projection((int(p) + 1) % len(projectionNames))
}

// ParseProjection разбирает название проекции из конфигурации
func ParseProjection(s string) (Projection, error) {
	for i, name := range projectionNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Projection(i), nil
		}
	}
	return Logarithmic, fmt.Errorf("неизвестная проекция визуализатора: %q", s)
}

// ColorMode - способ окраски частиц
type ColorMode int

const (
	// Static - зеленый канал ∝ интенсивности
	Static ColorMode = iota
	// RGB - оттенок от 0° до 120° ∝ интенсивности
	RGB
	// MultiBand - оттенок ∝ горизонтальному положению, светлота ∝ интенсивности
	MultiBand
)

var colorModeNames = []string{"static", "rgb", "multi-band"}

// String возвращает название режима окраски
func (c ColorMode) String() string {
	if c < 0 || int(c) >= len(colorModeNames) {
		return "unknown"
	}
	return colorModeNames[c]
}

// Next возвращает следующий режим окраски по кругу
func (c ColorMode) Next() ColorMode {
	return ColorMode((int(c) + 1) % len(colorModeNames))
}

// ParseColorMode разбирает название режима окраски из конфигурации
func ParseColorMode(s string) (ColorMode, error) {
	for i, name := range colorModeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return ColorMode(i), nil
		}
	}
	return RGB, fmt.Errorf("неизвестный режим окраски: %q", s)
}
