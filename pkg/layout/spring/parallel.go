package spring

import "golang.org/x/sync/errgroup"

// chunkSize is the length of each contiguous chunk when n items are split
// into at most chunks pieces.
func chunkSize(n, chunks int) int {
	chunks = max(1, min(chunks, n))
	return (n + chunks - 1) / chunks
}

// parallelFor splits [0, n) into at most chunks contiguous ranges and calls
// fn for each, passing the chunk number. It returns after every call has
// finished, which makes it a barrier between passes.
func parallelFor(n, chunks int, fn func(chunk, lo, hi int)) {
	if n == 0 {
		return
	}
	if chunks <= 1 || n == 1 {
		fn(0, 0, n)
		return
	}

	size := chunkSize(n, chunks)
	var g errgroup.Group
	g.SetLimit(chunks)
	for chunk := 0; chunk*size < n; chunk++ {
		lo, hi := chunk*size, min(n, (chunk+1)*size)
		g.Go(func() error {
			fn(chunk, lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
