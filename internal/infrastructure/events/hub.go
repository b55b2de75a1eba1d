// Package events distribuye avisos de cambio por dueño a los suscriptores en proceso.
package events

import (
	"sync"
)

// Hub implementa repository.ChangeNotifier y repository.ChangeSource.
// Cada suscriptor tiene un canal con buffer 1: los avisos que llegan mientras hay uno pendiente se fusionan.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

type subscriber struct {
	ch chan struct{}
}

// NewHub crea un hub vacío.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[*subscriber]struct{})}
}

// Notify avisa sin bloquear a todos los suscriptores del dueño.
func (h *Hub) Notify(ownerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs[ownerID] {
		select {
		case s.ch <- struct{}{}:
		default:
		}
	}
}

// NotifyAll avisa a todos los dueños con suscriptores; sirve para forzar un recálculo cuando pudieron
// perderse avisos.
func (h *Hub) NotifyAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.subs {
		for s := range set {
			select {
			case s.ch <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribe registra un suscriptor para ownerID. La función devuelta es idempotente.
func (h *Hub) Subscribe(ownerID string) (<-chan struct{}, func()) {
	s := &subscriber{ch: make(chan struct{}, 1)}
	h.mu.Lock()
	set, ok := h.subs[ownerID]
	if !ok {
		set = make(map[*subscriber]struct{})
		h.subs[ownerID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return s.ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if set, ok := h.subs[ownerID]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(h.subs, ownerID)
				}
			}
		})
	}
}

// Subscribers número de suscriptores activos del dueño.
func (h *Hub) Subscribers(ownerID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[ownerID])
}
