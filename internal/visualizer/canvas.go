package visualizer

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// halfBlock занимает верхнюю половину ячейки: цвет текста - верхний пиксель,
// цвет фона - нижний
const halfBlock = "▀"

var black = colorful.Color{}

// Canvas - растр RGB в пикселях, где одна ячейка терминала содержит два пикселя по вертикали
type Canvas struct {
	width  int
	height int
	pix    []colorful.Color
}

// NewCanvas создает черный холст размером width×height пикселей
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize меняет размер холста и очищает его
func (c *Canvas) Resize(width, height int) {
	c.width = max(width, 0)
	c.height = max(height, 0)
	c.pix = make([]colorful.Color, c.width*c.height)
}

// Width возвращает ширину в пикселях
func (c *Canvas) Width() int { return c.width }

// Height возвращает высоту в пикселях
func (c *Canvas) Height() int { return c.height }

// At возвращает цвет пикселя; за пределами холста - черный
func (c *Canvas) At(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return black
	}
	return c.pix[y*c.width+x]
}

// Clear заливает холст черным
func (c *Canvas) Clear() {
	clear(c.pix)
}

// Fill накладывает цвет на весь холст с прозрачностью alpha.
// Малая alpha вместо полной очистки оставляет шлейф от прошлых кадров.
func (c *Canvas) Fill(col colorful.Color, alpha float64) {
	for i := range c.pix {
		c.pix[i] = c.pix[i].BlendRgb(col, alpha)
	}
}

// FillCircle рисует закрашенный круг с прозрачностью alpha.
// Пиксель, содержащий центр, закрашивается всегда.
func (c *Canvas) FillCircle(cx, cy, r float64, col colorful.Color, alpha float64) {
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	centerX, centerY := int(math.Floor(cx)), int(math.Floor(cy))

	for y := y0; y <= y1; y++ {
		if y < 0 || y >= c.height {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < 0 || x >= c.width {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy > r*r && (x != centerX || y != centerY) {
				continue
			}
			i := y*c.width + x
			c.pix[i] = c.pix[i].BlendRgb(col, alpha)
		}
	}
}

// Render превращает холст в строки терминала из полублоков.
// Соседние ячейки одного цвета выводятся одним стилем.
func (c *Canvas) Render() string {
	rows := (c.height + 1) / 2
	lines := make([]string, 0, rows)

	for row := 0; row < rows; row++ {
		var b strings.Builder
		run := 0
		var top, bottom string

		flush := func() {
			if run == 0 {
				return
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom))
			b.WriteString(style.Render(strings.Repeat(halfBlock, run)))
			run = 0
		}

		for x := 0; x < c.width; x++ {
			t := c.At(x, row*2).Clamped().Hex()
			bt := c.At(x, row*2+1).Clamped().Hex()
			if run > 0 && (t != top || bt != bottom) {
				flush()
			}
			top, bottom = t, bt
			run++
		}
		flush()
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
