// Package visualizer рисует стереометр: частицы, движимые частотным спектром
package visualizer

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/hazadus/go-stereo/internal/analysis"
	"github.com/hazadus/go-stereo/internal/frame"
)

const (
	// DefaultParticles - число частиц по умолчанию
	DefaultParticles = 128
	// easing - доля пути к цели, проходимая за кадр
	easing = 0.2
	// trailAlpha - непрозрачность черной заливки перед каждым кадром
	trailAlpha = 0.1
	// haloAlpha - непрозрачность ореола частицы
	haloAlpha = 0.35
	// linearAngle - угол луча линейной проекции
	linearAngle = -math.Pi / 4
)

// Spectrum - источник байтовых амплитуд частотных полос
type Spectrum interface {
	Refresh()
	Reset()
	BinCount() int
	ByteFrequencyData(ch analysis.Channel, dst []uint8) int
}

// Particle - одна частица визуализатора
type Particle struct {
	X, Y             float64
	TargetX, TargetY float64
	Size             float64
	Intensity        float64
}

// Options задает параметры визуализатора
type Options struct {
	Particles  int
	Projection Projection
	Color      ColorMode
	FPS        int
}

// Engine обновляет и рисует частицы раз в кадр
type Engine struct {
	spectrum   Spectrum
	count      int
	projection Projection
	color      ColorMode

	canvas    *Canvas
	particles []Particle
	left      []uint8
	right     []uint8

	loop    *frame.Loop
	started time.Time
}

// New создает визуализатор поверх источника спектра
func New(spectrum Spectrum, opts Options) *Engine {
	if opts.Particles <= 0 {
		opts.Particles = DefaultParticles
	}
	e := &Engine{
		spectrum:   spectrum,
		count:      opts.Particles,
		projection: opts.Projection,
		color:      opts.Color,
		canvas:     NewCanvas(0, 0),
		left:       make([]uint8, spectrum.BinCount()),
		right:      make([]uint8, spectrum.BinCount()),
		loop:       frame.NewLoop("visualizer", opts.FPS),
	}
	e.resetParticles()
	return e
}

// SetSize задает размер области в ячейках терминала и пересоздает частицы
func (e *Engine) SetSize(cols, rows int) {
	e.canvas.Resize(cols, rows*2)
	e.resetParticles()
}

// Projection возвращает активную проекцию
func (e *Engine) Projection() Projection { return e.projection }

// ColorMode возвращает активный режим окраски
func (e *Engine) ColorMode() ColorMode { return e.color }

// SetProjection меняет проекцию со следующего кадра и возвращает частицы в центр
func (e *Engine) SetProjection(p Projection) {
	e.projection = p
	e.resetParticles()
}

// SetColorMode меняет окраску со следующего кадра
func (e *Engine) SetColorMode(c ColorMode) {
	e.color = c
}

// Running сообщает, запущен ли кадровый цикл
func (e *Engine) Running() bool {
	return e.loop.Running()
}

// Start запускает кадровый цикл. Повторный вызов ничего не делает.
func (e *Engine) Start() tea.Cmd {
	if e.loop.Running() {
		return nil
	}
	e.started = time.Now()
	return e.loop.Start()
}

// Stop останавливает цикл и очищает холст. Повторный вызов ничего не делает.
func (e *Engine) Stop() {
	if !e.loop.Running() {
		return
	}
	e.loop.Stop()
	e.canvas.Clear()
}

// ResetSpectrum сбрасывает сглаженный спектр при смене трека,
// чтобы частицы не тянули амплитуды прошлого трека
func (e *Engine) ResetSpectrum() {
	e.spectrum.Reset()
	clear(e.left)
	clear(e.right)
}

// Update обрабатывает кадры своего цикла
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(frame.TickMsg)
	if !ok {
		return nil
	}
	next, accepted := e.loop.Next(tick)
	if !accepted {
		return nil
	}
	e.Step(tick.Time)
	return next
}

// Step выполняет один кадр: читает спектр, двигает частицы и рисует их
func (e *Engine) Step(now time.Time) {
	e.spectrum.Refresh()
	e.spectrum.ByteFrequencyData(analysis.Left, e.left)
	e.spectrum.ByteFrequencyData(analysis.Right, e.right)

	t := now.Sub(e.started).Seconds()
	bins := len(e.left)
	for i := range e.particles {
		p := &e.particles[i]
		b := binIndex(i, e.count, bins)
		l, r := float64(e.left[b])/255, float64(e.right[b])/255

		p.Intensity = (l + r) / 2
		p.TargetX, p.TargetY = e.target(i, l, r, t)
		p.X += (p.TargetX - p.X) * easing
		p.Y += (p.TargetY - p.Y) * easing
		p.Size = 0.6 + p.Intensity*1.4
	}
	e.draw()
}

// Particles возвращает копию частиц
func (e *Engine) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

// View возвращает кадр для терминала
func (e *Engine) View() string {
	return e.canvas.Render()
}

func (e *Engine) center() (float64, float64) {
	return float64(e.canvas.Width()) / 2, float64(e.canvas.Height()) / 2
}

func (e *Engine) resetParticles() {
	cx, cy := e.center()
	e.particles = make([]Particle, e.count)
	for i := range e.particles {
		e.particles[i] = Particle{X: cx, Y: cy, TargetX: cx, TargetY: cy, Size: 0.6}
	}
}

// target вычисляет целевую точку частицы i по интенсивностям каналов
func (e *Engine) target(i int, l, r, t float64) (float64, float64) {
	cx, cy := e.center()
	intensity := (l + r) / 2
	frac := float64(i) / float64(e.count)

	switch e.projection {
	case Linear:
		radius := intensity * frac * math.Min(cx, cy) * 2
		return cx + radius*math.Cos(linearAngle), cy + radius*math.Sin(linearAngle)
	case Lissajous:
		phase := frac * 2 * math.Pi
		return cx + math.Sin(t+phase)*l*cx*0.9, cy + math.Cos(t+phase)*r*cy*0.9
	default:
		// Смещение от центра по индексу: левые частицы уходят влево, правые вправо
		offset := (float64(i) - float64(e.count)/2) / (float64(e.count) / 2)
		return cx + offset*math.Log1p(intensity)/math.Ln2*cx, cy - intensity*cy
	}
}

func (e *Engine) draw() {
	e.canvas.Fill(black, trailAlpha)
	for _, p := range e.particles {
		col := e.colorOf(p)
		e.canvas.FillCircle(p.X, p.Y, p.Size*2, col, haloAlpha)
		e.canvas.FillCircle(p.X, p.Y, p.Size, col, 1)
	}
}

func (e *Engine) colorOf(p Particle) colorful.Color {
	switch e.color {
	case Static:
		return colorful.Color{G: p.Intensity}
	case MultiBand:
		hue := 0.0
		if w := float64(e.canvas.Width()); w > 0 {
			hue = math.Mod(math.Max(p.X, 0)/w*360, 360)
		}
		return colorful.Hsl(hue, 1, p.Intensity*0.6)
	default:
		return colorful.Hsl(p.Intensity*120, 1, 0.5)
	}
}

// binIndex выбирает полосу для частицы: используется только нижняя четверть спектра
func binIndex(i, count, bins int) int {
	if count <= 0 || bins <= 0 {
		return 0
	}
	b := int(math.Floor(float64(i) / float64(count) * float64(bins) / 4))
	return min(max(b, 0), bins-1)
}
