package store

// Index answers "is this artifact already materialized?" in O(1). It is
// rebuilt from the store at startup and updated after each successful
// write within a run. Only the single-threaded download loop touches
// it, so no locking is needed.
type Index struct {
	present map[string]struct{}
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{present: make(map[string]struct{})}
}

// Contains reports whether the identifier is already materialized.
func (i *Index) Contains(id string) bool {
	_, ok := i.present[id]
	return ok
}

// Record marks an identifier as materialized. Called immediately after
// a successful write, before the next dedup check.
func (i *Index) Record(id string) {
	i.present[id] = struct{}{}
}

// Len returns the number of known identifiers.
func (i *Index) Len() int {
	return len(i.present)
}
