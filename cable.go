package tickdb

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// PointCable accumulates points and writes them to the server in the
// background, either when MaxPoints are buffered or on every
// BatchInterval. Each Send reports its outcome on dedicated channels, so
// callers can await durability per point or fire and forget.
type PointCable struct {
	c *Client

	config     BatchConfig
	sendPoints []*sendPoint
	sendCh     chan *sendPoint

	MaxPoints     int
	BatchInterval time.Duration
}

type sendPoint struct {
	point *Point

	err  chan error
	done chan struct{}
}

// PointCable creates a cable writing with the given batch parameters.
// Adjust MaxPoints and BatchInterval before calling Start.
func (c *Client) PointCable(config BatchConfig) *PointCable {
	return &PointCable{
		c:             c,
		config:        config,
		sendPoints:    make([]*sendPoint, 0),
		sendCh:        make(chan *sendPoint),
		MaxPoints:     5000,
		BatchInterval: time.Second,
	}
}

// Start launches the background flusher. The context bounds the lifetime
// of in-flight writes.
func (c *PointCable) Start(ctx context.Context) {
	go func() {
		ticker := time.Tick(c.BatchInterval)

		stop, tick := false, false
		for {
			if tick || len(c.sendPoints) >= c.MaxPoints {
				c.flush(ctx, c.sendPoints)
				tick = false
				c.sendPoints = make([]*sendPoint, 0, c.MaxPoints)
			}

			if stop {
				break
			}

			select {
			case <-ticker:
				if len(c.sendPoints) > 0 {
					tick = true
				}
			case sp, more := <-c.sendCh:
				if !more {
					if len(c.sendPoints) > 0 {
						c.flush(ctx, c.sendPoints)
						c.sendPoints = nil
					}
					stop = true
					continue
				}
				if sp.point == nil {
					continue
				}
				c.sendPoints = append(c.sendPoints, sp)
			}
		}
	}()
}

func (c *PointCable) flush(ctx context.Context, sendPoints []*sendPoint) {
	go func() {
		batch := NewBatch(c.config)
		for _, sp := range sendPoints {
			batch.AddPoint(sp.point)
		}

		err := c.c.Write(ctx, batch)
		if err != nil {
			c.c.logger().Warn("cable flush failed",
				zap.Int("points", batch.Len()),
				zap.Error(err))
			for _, sp := range sendPoints {
				sp.err <- err
				close(sp.done)
			}
			return
		}

		for _, sp := range sendPoints {
			close(sp.err)
			close(sp.done)
		}
	}()
}

// Send queues a point. The done channel closes when the point has been
// flushed; the err channel delivers the write error, if any, and is closed
// otherwise.
func (c *PointCable) Send(p *Point) (<-chan struct{}, <-chan error) {
	sp := &sendPoint{
		point: p,
		err:   make(chan error, 1),
		done:  make(chan struct{}, 1),
	}
	c.sendCh <- sp
	return sp.done, sp.err
}

// Close stops the cable. Points buffered at that moment are still flushed.
func (c *PointCable) Close() {
	close(c.sendCh)
}
