package pipeline

// BusResult is one result carried on the common data bus.
type BusResult struct {
	Station int   // Index of the producing station
	ROB     int   // Destination ROB index
	Value   int64 // Computed result
}

// CommonDataBus collects the results of every station finishing in a cycle
// and then delivers them together, so no waiting station sees a value before
// all finishing stations have computed theirs.
type CommonDataBus struct {
	pending []BusResult
}

// Put queues a result for delivery.
func (b *CommonDataBus) Put(r BusResult) {
	b.pending = append(b.pending, r)
}

// Pending returns the number of queued results.
func (b *CommonDataBus) Pending() int {
	return len(b.pending)
}

// Drain delivers every queued result to its ROB entry and to the stations
// waiting on that entry, frees the producing stations, and returns the
// delivered results in the order they were queued.
func (b *CommonDataBus) Drain(rob *ReorderBuffer, pool *StationPool) []BusResult {
	delivered := b.pending
	b.pending = nil

	for _, r := range delivered {
		entry := &rob.Entries[r.ROB]
		entry.Value = r.Value
		entry.Ready = true

		pool.Stations[r.Station].Clear()
		pool.Wakeup(r.ROB, r.Value)
	}

	return delivered
}

// Reset drops any queued result.
func (b *CommonDataBus) Reset() {
	b.pending = nil
}
