package tickdb

// Consistency is the write consistency level requested from the server.
type Consistency string

const (
	ConsistencyAny    Consistency = "any"
	ConsistencyOne    Consistency = "one"
	ConsistencyQuorum Consistency = "quorum"
	ConsistencyAll    Consistency = "all"
)

// BatchConfig defines the write parameters shared by the points of a Batch.
type BatchConfig struct {
	// Database is the database to write to. Falls back to the client's
	// configured database when empty.
	Database string
	// RetentionPolicy is the retention policy to write to. When empty the
	// database's default policy applies.
	RetentionPolicy string
	// Precision is the timestamp precision of the batch, defaults to
	// nanoseconds.
	Precision Precision
	// Consistency is the requested write consistency level, optional.
	Consistency Consistency
}

// Batch is a group of points written to the server together. A Batch is not
// safe for concurrent use; build a separate batch per goroutine.
type Batch struct {
	config BatchConfig
	points []*Point
}

// NewBatch creates an empty batch with the given config.
func NewBatch(config BatchConfig) *Batch {
	return &Batch{config: config}
}

// AddPoint adds a point to the batch.
func (b *Batch) AddPoint(p *Point) {
	b.points = append(b.points, p)
}

// AddPoints adds points to the batch.
func (b *Batch) AddPoints(points []*Point) {
	b.points = append(b.points, points...)
}

// Points returns the points of the batch.
func (b *Batch) Points() []*Point {
	return b.points
}

// Len returns the number of points in the batch.
func (b *Batch) Len() int {
	return len(b.points)
}

// Config returns the batch write parameters.
func (b *Batch) Config() BatchConfig {
	return b.config
}

// Lines serializes the batch into newline-delimited line protocol.
func (b *Batch) Lines() (string, error) {
	return encodeLines(b.points, b.config.Precision)
}
