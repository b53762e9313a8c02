package shell

import (
	"github.com/ItsNotGoodName/x-wmshell/internal/geom"
	"github.com/ItsNotGoodName/x-wmshell/internal/tile"
)

// configureRequest is a configure waiting for the client.
type configureRequest struct {
	serial       uint32
	frame        geom.Rect
	maximizeMode MaximizeMode
	fullScreen   bool
	quickTile    tile.Mode
}

// requestQueue holds configure requests in send order. Serials increase
// along the queue.
type requestQueue struct {
	items []configureRequest
}

func (q *requestQueue) push(r configureRequest) {
	q.items = append(q.items, r)
}

// resolve drops every request acknowledged by acked and returns the last of
// them. The earlier ones are superseded and never applied.
func (q *requestQueue) resolve(acked uint32) (configureRequest, bool) {
	n := 0
	for n < len(q.items) && q.items[n].serial <= acked {
		n++
	}
	if n == 0 {
		return configureRequest{}, false
	}
	last := q.items[n-1]
	q.items = append(q.items[:0], q.items[n:]...)
	return last, true
}

// back returns the most recently queued request.
func (q *requestQueue) back() (configureRequest, bool) {
	if len(q.items) == 0 {
		return configureRequest{}, false
	}
	return q.items[len(q.items)-1], true
}

// translate shifts the frame of every queued request.
func (q *requestQueue) translate(d geom.Point) {
	for i := range q.items {
		q.items[i].frame = q.items[i].frame.Translate(d)
	}
}

func (q *requestQueue) clear() {
	q.items = nil
}

func (q *requestQueue) len() int {
	return len(q.items)
}
