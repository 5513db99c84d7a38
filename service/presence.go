package service

import "sync"

// presence tracks which users currently hold an open notification stream.
// A connected stream means the client is foregrounded, so push alerts are
// suppressed in favor of the in-app badge.
type presence struct {
	mu    sync.Mutex
	conns map[string]int
}

func (p *presence) connect(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conns == nil {
		p.conns = map[string]int{}
	}
	p.conns[userID]++
}

func (p *presence) disconnect(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conns[userID]--
	if p.conns[userID] <= 0 {
		delete(p.conns, userID)
	}
}

func (p *presence) active(userID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conns[userID] > 0
}
