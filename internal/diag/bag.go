package diag

import "sort"

// Bag collects diagnostics for one file or one run. It is not safe for
// concurrent use; parallel producers keep one Bag each and Merge at the end.
type Bag struct {
	items []Diagnostic
	max   int
}

// NewBag creates a bag holding at most max diagnostics (max <= 0 means unlimited).
func NewBag(max int) *Bag {
	capHint := max
	if capHint <= 0 || capHint > 64 {
		capHint = 16
	}
	return &Bag{
		items: make([]Diagnostic, 0, capHint),
		max:   max,
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge объединяет диагностики из другого Bag.
// Увеличивает max, если нужно вместить все элементы.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if b.max > 0 && newTotal > b.max {
		b.max = newTotal
	}
	b.items = append(b.items, other.items...)
}

// Filter keeps only the diagnostics for which keep returns true.
func (b *Bag) Filter(keep func(Diagnostic) bool) {
	out := b.items[:0]
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	b.items = out
}

// Transform rewrites every diagnostic in place.
func (b *Bag) Transform(fn func(Diagnostic) Diagnostic) {
	for i := range b.items {
		b.items[i] = fn(b.items[i])
	}
}

// Sort сортирует диагностики по: file, start, end, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		// по severity по убыванию: Error > Warning > Weak
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		return di.Message < dj.Message
	})
}
