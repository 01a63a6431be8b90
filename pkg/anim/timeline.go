package anim

// Defaults fill in the duration and ease of tweens added to a Timeline
// without their own.
type Defaults struct {
	Duration float64
	Ease     Ease
}

type entry struct {
	start float64
	tween *Tween
}

// Timeline sequences tweens on a shared playhead. Insertion points are
// resolved to absolute offsets when a tween is added, so later additions
// never move earlier ones.
type Timeline struct {
	Defaults   Defaults
	OnComplete func()

	entries  []entry
	labels   map[string]float64
	playhead float64
	done     bool
	killed   bool
}

// NewTimeline creates an empty timeline.
func NewTimeline(defaults Defaults) *Timeline {
	return &Timeline{
		Defaults: defaults,
		labels:   make(map[string]float64),
	}
}

// Duration returns the end offset of the last-ending tween.
func (tl *Timeline) Duration() float64 {
	var end float64
	for _, e := range tl.entries {
		end = max(end, e.start+e.tween.Duration)
	}
	return end
}

// Add appends tw at the current end of the timeline.
func (tl *Timeline) Add(tw *Tween) *Timeline {
	return tl.insert(tl.Duration(), tw)
}

// AddAt schedules tw at the named label. A label that does not exist yet is
// created at the current end of the timeline.
func (tl *Timeline) AddAt(label string, tw *Tween) *Timeline {
	at, ok := tl.labels[label]
	if !ok {
		at = tl.Duration()
		tl.labels[label] = at
	}
	return tl.insert(at, tw)
}

// AddLabel places a label at the current end plus offset (negative values
// move it back into the timeline). Existing labels are moved.
func (tl *Timeline) AddLabel(name string, offset float64) *Timeline {
	tl.labels[name] = max(0, tl.Duration()+offset)
	return tl
}

// Label returns the absolute offset of a label.
func (tl *Timeline) Label(name string) (float64, bool) {
	at, ok := tl.labels[name]
	return at, ok
}

// Start returns the absolute start offset of the i-th scheduled tween.
func (tl *Timeline) Start(i int) float64 {
	return tl.entries[i].start
}

// Len returns the number of scheduled tweens.
func (tl *Timeline) Len() int {
	return len(tl.entries)
}

// Playhead returns the current time position.
func (tl *Timeline) Playhead() float64 {
	return tl.playhead
}

// Done reports whether the playhead passed the end or the timeline was killed.
func (tl *Timeline) Done() bool {
	return tl.done || tl.killed
}

func (tl *Timeline) insert(at float64, tw *Tween) *Timeline {
	if tw.Duration == 0 {
		tw.Duration = tl.Defaults.Duration
	}
	if tw.Ease == nil {
		tw.Ease = tl.Defaults.Ease
	}
	tl.entries = append(tl.entries, entry{start: at, tween: tw})
	return tl
}

func (tl *Timeline) step(dt float64) {
	if tl.Done() {
		return
	}
	tl.playhead += dt
	for _, e := range tl.entries {
		if tl.playhead >= e.start {
			e.tween.render(tl.playhead - e.start)
		}
	}
	if tl.playhead >= tl.Duration() {
		tl.done = true
		if tl.OnComplete != nil {
			tl.OnComplete()
		}
	}
}

func (tl *Timeline) kill(targets map[*float64]bool) {
	if tl.Done() {
		return
	}
	alive := false
	for _, e := range tl.entries {
		e.tween.kill(targets)
		if !e.tween.killed {
			alive = true
		}
	}
	if !alive {
		tl.killed = true
	}
}

func (tl *Timeline) finished() bool {
	return tl.Done()
}

func (tl *Timeline) writes(target *float64) bool {
	if tl.Done() {
		return false
	}
	for _, e := range tl.entries {
		if e.tween.writes(target) {
			return true
		}
	}
	return false
}
