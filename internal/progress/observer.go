package progress

// Observer receives coarse progress notifications from a stage.
type Observer interface {
	Init(total int64)
	Advance()
	Finish()
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Init(int64) {}

func (Nop) Advance() {}

func (Nop) Finish() {}

// OrNop returns obs, or a Nop observer when obs is nil.
func OrNop(obs Observer) Observer {
	if obs == nil {
		return Nop{}
	}
	return obs
}

type prescaled struct {
	inner   Observer
	every   int64
	counter int64
}

// Prescale forwards one Advance for every `every` Advance calls it receives
// and divides the announced total accordingly. every <= 1 returns obs as is.
func Prescale(obs Observer, every int64) Observer {
	obs = OrNop(obs)
	if every <= 1 {
		return obs
	}
	return &prescaled{inner: obs, every: every}
}

func (p *prescaled) Init(total int64) {
	p.counter = 0
	p.inner.Init(total / p.every)
}

func (p *prescaled) Advance() {
	p.counter++
	if p.counter >= p.every {
		p.counter = 0
		p.inner.Advance()
	}
}

func (p *prescaled) Finish() {
	p.inner.Finish()
}
