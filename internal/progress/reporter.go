// Package progress отвечает за отображение позиции воспроизведения
package progress

import (
	"fmt"
	"math"
	"time"
)

// FormatTime форматирует секунды в вид m:ss.
// Нулевая, отрицательная или нечисловая длительность дает "0:00".
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return "0:00"
	}
	minutes := int(math.Floor(seconds / 60))
	rest := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", minutes, rest)
}

// FormatDuration форматирует time.Duration в вид m:ss
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}

// Label собирает подпись "позиция / длительность"
func Label(pos, dur time.Duration) string {
	return FormatDuration(pos) + " / " + FormatDuration(dur)
}

// Snapshot - то, что показывается на полосе прогресса
type Snapshot struct {
	Percent float64 // 0..100
	Label   string
}

// Reporter хранит состояние полосы прогресса и перетаскивания
type Reporter struct {
	active   bool    // Идет воспроизведение
	dragging bool    // Пользователь тянет ползунок
	dragFrac float64 // Последнее значение при перетаскивании
	current  Snapshot
}

// NewReporter создает репортер в состоянии "0:00 / 0:00"
func NewReporter() *Reporter {
	r := &Reporter{}
	r.Reset()
	return r
}

// Snapshot возвращает последнее отображаемое состояние
func (r *Reporter) Snapshot() Snapshot {
	return r.current
}

// Active сообщает, должен ли кадровый цикл опрашивать позицию
func (r *Reporter) Active() bool {
	return r.active && !r.dragging
}

// Dragging сообщает, тянет ли пользователь ползунок
func (r *Reporter) Dragging() bool {
	return r.dragging
}

// Resume включает обновления при старте воспроизведения
func (r *Reporter) Resume() {
	r.active = true
}

// Suspend останавливает обновления при паузе
func (r *Reporter) Suspend() {
	r.active = false
}

// Reset возвращает полосу в начальное состояние
func (r *Reporter) Reset() {
	r.active = false
	r.dragging = false
	r.dragFrac = 0
	r.current = Snapshot{Percent: 0, Label: Label(0, 0)}
}

// Loaded вызывается, когда стала известна длительность нового трека
func (r *Reporter) Loaded(dur time.Duration) {
	r.current = Snapshot{Percent: 0, Label: Label(0, dur)}
}

// Sample пересчитывает прогресс по позиции и длительности.
// Во время перетаскивания или паузы ничего не меняется и возвращается false.
func (r *Reporter) Sample(pos, dur time.Duration) (Snapshot, bool) {
	if !r.Active() {
		return r.current, false
	}
	r.current = Snapshot{Percent: percent(pos, dur), Label: Label(pos, dur)}
	return r.current, true
}

// BeginDrag приостанавливает обновления на время перетаскивания
func (r *Reporter) BeginDrag(fraction float64) {
	r.dragging = true
	r.dragFrac = clamp01(fraction)
}

// DragTo обновляет только подпись и положение ползунка, без перемотки
func (r *Reporter) DragTo(fraction float64, dur time.Duration) Snapshot {
	if !r.dragging {
		return r.current
	}
	r.dragFrac = clamp01(fraction)
	pos := time.Duration(r.dragFrac * float64(dur))
	r.current = Snapshot{Percent: r.dragFrac * 100, Label: Label(pos, dur)}
	return r.current
}

// EndDrag завершает перетаскивание и возвращает долю для перемотки.
// Побеждает последнее значение, полученное до отпускания.
func (r *Reporter) EndDrag() (float64, bool) {
	if !r.dragging {
		return 0, false
	}
	r.dragging = false
	return r.dragFrac, true
}

// CancelDrag завершает перетаскивание без перемотки (указатель ушел с полосы)
func (r *Reporter) CancelDrag() {
	r.dragging = false
}

func percent(pos, dur time.Duration) float64 {
	if dur <= 0 {
		return 0
	}
	p := float64(pos) / float64(dur) * 100
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
