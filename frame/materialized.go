package frame

// Materialized is an encoded image (BMP or PNG).
type Materialized struct {
	Data        []byte
	Transparent bool
}

func (*Materialized) isPayload() {}
