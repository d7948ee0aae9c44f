// Package buffer provides allocation-free queues for handing data between
// goroutines with real-time constraints.
//
// Queue is a bounded lock-free FIFO. Producers call TryPush and consumers
// call TryPop; both return immediately, so a consumer on an audio callback
// never waits on a producer.
//
// Example usage:
//
//	q := buffer.NewQueue[Request](256)
//
//	// any goroutine
//	if !q.TryPush(req) {
//	    // full: caller decides whether to drop or retry
//	}
//
//	// consumer goroutine
//	for req, ok := q.TryPop(); ok; req, ok = q.TryPop() {
//	    handle(req)
//	}
package buffer
