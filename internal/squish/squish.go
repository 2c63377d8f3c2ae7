package squish

import (
	"container/heap"
	"math"

	"github.com/matsaks/hysoc/internal/fixstream"
)

// Compressor runs SQUISH over fix sequences at a fixed default capacity.
type Compressor struct {
	cfg Config
}

// NewCompressor validates cfg and returns a ready-to-use Compressor.
func NewCompressor(cfg Config) (*Compressor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Compressor{cfg: cfg}, nil
}

// Compress simplifies points down to at most the instance's default
// capacity. If len(points) <= capacity, points is returned unchanged.
func (c *Compressor) Compress(points []fixstream.Fix) []fixstream.Fix {
	out, _ := c.CompressWithCapacity(points, c.cfg.Capacity)
	return out
}

// CompressWithCapacity simplifies points down to at most capacity points,
// overriding the instance default for this call only.
func (c *Compressor) CompressWithCapacity(points []fixstream.Fix, capacity int) ([]fixstream.Fix, error) {
	if err := (Config{Capacity: capacity}).Validate(); err != nil {
		return nil, err
	}
	return compress(points, capacity), nil
}

type node struct {
	fix        fixstream.Fix
	index      int
	prev, next *node
	priority   float64
	removed    bool
}

type pqItem struct {
	priority float64
	index    int
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].priority < pq[j].priority }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func compress(points []fixstream.Fix, capacity int) []fixstream.Fix {
	if len(points) == 0 {
		return nil
	}
	if len(points) <= capacity {
		return points
	}

	nodes := make([]*node, len(points))
	for i, p := range points {
		nodes[i] = &node{fix: p, index: i, priority: math.Inf(1)}
	}

	pq := &priorityQueue{}
	heap.Init(pq)

	var buffer []*node

	for _, n := range nodes {
		if len(buffer) < capacity {
			if len(buffer) > 0 {
				last := buffer[len(buffer)-1]
				last.next = n
				n.prev = last
				if last.prev != nil {
					last.priority = sed(last.prev.fix, last.fix, n.fix)
					heap.Push(pq, pqItem{priority: last.priority, index: last.index})
				}
			}
			buffer = append(buffer, n)
			continue
		}

		last := buffer[len(buffer)-1]
		last.next = n
		n.prev = last
		if last.prev != nil {
			last.priority = sed(last.prev.fix, last.fix, n.fix)
			heap.Push(pq, pqItem{priority: last.priority, index: last.index})
		}
		buffer = append(buffer, n)

		var victim *node
		for {
			item := heap.Pop(pq).(pqItem)
			candidate := nodes[item.index]
			if !candidate.removed && candidate.priority == item.priority {
				victim = candidate
				break
			}
		}
		removeNode(victim, pq)
		buffer = removeFromBuffer(buffer, victim)
	}

	var out []fixstream.Fix
	for cur := nodes[0]; cur != nil; cur = cur.next {
		out = append(out, cur.fix)
	}
	return out
}

func removeNode(n *node, pq *priorityQueue) {
	n.removed = true
	prev, next := n.prev, n.next

	if prev != nil {
		prev.next = next
	}
	if next != nil {
		next.prev = prev
	}

	if prev != nil && prev.prev != nil && next != nil {
		prev.priority = sed(prev.prev.fix, prev.fix, next.fix)
		heap.Push(pq, pqItem{priority: prev.priority, index: prev.index})
	}
	if next != nil && next.next != nil && prev != nil {
		next.priority = sed(prev.fix, next.fix, next.next.fix)
		heap.Push(pq, pqItem{priority: next.priority, index: next.index})
	}
}

func removeFromBuffer(buffer []*node, victim *node) []*node {
	for i, n := range buffer {
		if n == victim {
			return append(buffer[:i], buffer[i+1:]...)
		}
	}
	return buffer
}

// sed computes the degree-space Synchronised Euclidean Distance error of p2
// against the time-linear interpolation of (p1, p3). Degree-space, not
// metres: see the package doc for why.
func sed(p1, p2, p3 fixstream.Fix) float64 {
	t1 := p1.Timestamp.UnixNano()
	t2 := p2.Timestamp.UnixNano()
	t3 := p3.Timestamp.UnixNano()

	if t1 == t3 {
		return 0.0
	}

	ratio := float64(t2-t1) / float64(t3-t1)
	latPred := p1.Lat + (p3.Lat-p1.Lat)*ratio
	lonPred := p1.Lon + (p3.Lon-p1.Lon)*ratio

	dLat := p2.Lat - latPred
	dLon := p2.Lon - lonPred
	return math.Sqrt(dLat*dLat + dLon*dLon)
}
