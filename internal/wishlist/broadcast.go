package wishlist

import (
	"sync"

	"github.com/angelmondragon/jhumka-storefront/internal/catalog"
	"github.com/angelmondragon/jhumka-storefront/pkg/metrics"
)

// DefaultBufferSize is the per-subscriber event buffer.
const DefaultBufferSize = 8

// Event carries the wishlist as it stood right after a mutation.
type Event struct {
	Items []catalog.Product `json:"items"`
	Count int               `json:"count"`
}

func newEvent(items []catalog.Product) Event {
	copied := make([]catalog.Product, len(items))
	copy(copied, items)
	return Event{Items: copied, Count: len(copied)}
}

type broadcaster struct {
	mu      sync.Mutex
	nextID  int
	subs    map[int]chan Event
	size    int
	metrics *metrics.StorefrontMetrics
}

func newBroadcaster(size int, m *metrics.StorefrontMetrics) *broadcaster {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &broadcaster{subs: map[int]chan Event{}, size: size, metrics: m}
}

func (b *broadcaster) subscribe(initial Event) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.size)
	ch <- initial
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(sub)
			}
		})
	}
	return ch, cancel
}

// publish never blocks. A full buffer loses its oldest pending event.
func (b *broadcaster) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
			continue
		default:
		}
		select {
		case <-ch:
			b.metrics.IncDroppedEvent()
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

func (b *broadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *broadcaster) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
