package consent

import (
	"context"
	"sync"
)

// Prompter is the OS tracking-permission collaborator. Status reports
// the current authorization without prompting; Request shows the
// prompt (or resolves immediately when already determined).
type Prompter interface {
	Status(ctx context.Context) Status
	Request(ctx context.Context) Status
}

// StaticPrompter resolves every request to a fixed, configured
// outcome. It reports notDetermined until the first request, so the
// dialog-shown telemetry behaves like a real first launch.
type StaticPrompter struct {
	mu         sync.Mutex
	result     Status
	determined bool
}

func NewStaticPrompter(result Status) *StaticPrompter {
	if result == "" {
		result = StatusNotDetermined
	}
	return &StaticPrompter{result: result}
}

func (p *StaticPrompter) Status(context.Context) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.determined {
		return p.result
	}
	return StatusNotDetermined
}

func (p *StaticPrompter) Request(context.Context) Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.determined = true
	return p.result
}
