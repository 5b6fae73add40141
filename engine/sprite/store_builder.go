package sprite

// StoreBuilderOption is a functional option for configuring a Store during construction.
type StoreBuilderOption func(*storeImpl)

// WithGrowthIncrement sets how many slots are appended whenever the free queue runs dry.
// The initial growth also uses this increment. Values <= 0 make NewStore fail.
//
// Parameters:
//   - n: slots per growth
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithGrowthIncrement(n int) StoreBuilderOption {
	return func(s *storeImpl) {
		s.growthIncrement = n
	}
}

// WithMaxCapacity sets a hard ceiling on the slot count. Growth past it fails with ErrCapacityExceeded.
// 0 (the default) leaves growth unbounded.
//
// Parameters:
//   - n: the maximum number of slots
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithMaxCapacity(n int) StoreBuilderOption {
	return func(s *storeImpl) {
		s.maxCapacity = n
	}
}

// WithSink sets the downstream mesh that Flush replaces buffers on.
//
// Parameters:
//   - sink: the MeshSink to flush into
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithSink(sink MeshSink) StoreBuilderOption {
	return func(s *storeImpl) {
		s.sink = sink
	}
}

// WithTransformer sets the local-to-world transform used to place a sprite when it is allocated.
//
// Parameters:
//   - t: the host transform
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithTransformer(t Transformer) StoreBuilderOption {
	return func(s *storeImpl) {
		s.transformer = t
	}
}

// WithLabel sets the debug label used in log output.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - StoreBuilderOption: option function to apply
func WithLabel(label string) StoreBuilderOption {
	return func(s *storeImpl) {
		s.label = label
	}
}
