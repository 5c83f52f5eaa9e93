package perflog

// Collection is an ordered set of datasets keyed by file name. Insertion
// order is significant: deltas always compare the last two entries.
type Collection struct {
	order []string
	sets  map[string]*Dataset
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{sets: make(map[string]*Dataset)}
}

// Add appends a dataset. A dataset with an already-present name replaces the
// earlier one in its original position.
func (c *Collection) Add(ds *Dataset) {
	if _, exists := c.sets[ds.Name()]; !exists {
		c.order = append(c.order, ds.Name())
	}
	c.sets[ds.Name()] = ds
}

// Len returns the number of datasets.
func (c *Collection) Len() int { return len(c.order) }

// Names returns the dataset names in insertion order.
func (c *Collection) Names() []string {
	return append([]string(nil), c.order...)
}

// Datasets returns the datasets in insertion order.
func (c *Collection) Datasets() []*Dataset {
	out := make([]*Dataset, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.sets[name])
	}
	return out
}

// Get looks up a dataset by file name.
func (c *Collection) Get(name string) (*Dataset, bool) {
	ds, ok := c.sets[name]
	return ds, ok
}

// LastTwo returns the previous and the last dataset in insertion order.
func (c *Collection) LastTwo() (previous, last *Dataset, ok bool) {
	if len(c.order) < 2 {
		return nil, nil, false
	}
	n := len(c.order)
	return c.sets[c.order[n-2]], c.sets[c.order[n-1]], true
}
