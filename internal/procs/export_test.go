package procs

// PoolSize reports how many handles s has pooled.
func PoolSize(s *Snapshotter) int {
	return s.pool.size()
}
