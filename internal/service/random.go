package service

import (
	"math/rand"
	"sync"
	"time"
)

// Chooser picks a uniform index in [0, n). Tests inject a seeded or scripted one.
type Chooser interface {
	Intn(n int) int
}

// lockedRand is a Chooser safe for concurrent turns
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewChooser returns a goroutine-safe Chooser. seed 0 seeds from the clock.
func NewChooser(seed int64) Chooser {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}
