// Package system produces the simulated diagnostics shown on the System tab.
package system

import (
	"fmt"
	"math/rand/v2"
	"runtime"
)

const (
	DefaultMemoryGB = 8
	PowerScale      = 5000
	EngineLabel     = "GO_NATIVE_RUNTIME"
)

type Diagnostics struct {
	Cores           int
	MemoryGB        int
	ProcessingPower int
	Environment     string
	Engine          string
}

// Fraction is the processing power scaled onto [0, 1] for the power bar.
func (d Diagnostics) Fraction() float64 {
	f := float64(d.ProcessingPower) / PowerScale
	if f > 1 {
		return 1
	}
	if f < 0 {
		return 0
	}
	return f
}

func (d Diagnostics) PowerLabel() string {
	return fmt.Sprintf("%d MP/s", d.ProcessingPower)
}

type Probe struct {
	cores    func() int
	memoryGB int
	jitter   func(n int) int
	env      string
}

type Option func(*Probe)

func WithCores(fn func() int) Option {
	return func(p *Probe) {
		if fn != nil {
			p.cores = fn
		}
	}
}

func WithMemoryGB(gb int) Option {
	return func(p *Probe) {
		if gb > 0 {
			p.memoryGB = gb
		}
	}
}

func WithJitter(fn func(n int) int) Option {
	return func(p *Probe) {
		if fn != nil {
			p.jitter = fn
		}
	}
}

func WithEnvironment(env string) Option {
	return func(p *Probe) {
		if env != "" {
			p.env = env
		}
	}
}

func NewProbe(opts ...Option) *Probe {
	p := &Probe{
		cores:    runtime.NumCPU,
		memoryGB: DefaultMemoryGB,
		jitter:   rand.IntN,
		env:      fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Collect computes cores*250 + memoryGB*512 + a jitter in [0, 100).
func (p *Probe) Collect() Diagnostics {
	cores := p.cores()
	if cores < 1 {
		cores = 1
	}
	return Diagnostics{
		Cores:           cores,
		MemoryGB:        p.memoryGB,
		ProcessingPower: cores*250 + p.memoryGB*512 + p.jitter(100),
		Environment:     p.env,
		Engine:          EngineLabel,
	}
}
