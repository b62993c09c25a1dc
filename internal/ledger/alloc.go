package ledger

// NextID allocates the next surrogate identifier: one past the largest
// existing value, or 1 when the relation is empty. The caller must hold a
// fresh snapshot; two allocations against the same stale snapshot collide.
func NextID(existing []int) int {
	max := 0
	for _, id := range existing {
		if id > max {
			max = id
		}
	}
	return max + 1
}
