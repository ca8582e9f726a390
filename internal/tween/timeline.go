package tween

type tween struct {
	spec      Spec
	elapsed   float64
	done      bool
	cancelled bool
}

func (t *tween) Cancel()    { t.cancelled = true }
func (t *tween) Done() bool { return t.done || t.cancelled }

// Timeline is a Scheduler advanced manually, once per frame. It belongs to
// the goroutine that advances it; Schedule, Advance and handle calls must
// not run concurrently.
type Timeline struct {
	tweens []*tween
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

func (tl *Timeline) Schedule(s Spec) Handle {
	if s.Ease == nil {
		s.Ease = Linear
	}
	t := &tween{spec: s}
	tl.tweens = append(tl.tweens, t)
	return t
}

// Advance moves every live tween forward by dt, firing updates and, on the
// frame a tween reaches its duration, its completion callback. Tweens
// scheduled from a callback start on the next Advance.
func (tl *Timeline) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}

	run := make([]*tween, 0, len(tl.tweens))
	for _, t := range tl.tweens {
		if !t.Done() {
			run = append(run, t)
		}
	}
	tl.tweens = run

	for _, t := range run {
		if t.cancelled {
			continue
		}
		t.elapsed += dt
		p := 1.0
		if t.spec.Duration > 0 {
			p = t.elapsed / t.spec.Duration
		}
		if p >= 1-1e-9 {
			p = 1
			t.done = true
		}
		if t.spec.OnUpdate != nil {
			t.spec.OnUpdate(t.spec.Ease(p))
		}
		if t.done && t.spec.OnComplete != nil {
			t.spec.OnComplete()
		}
	}
}
