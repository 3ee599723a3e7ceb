package load

import "github.com/vitalbench/vitalbench/pkg/targets"

// duplexChannel pairs the batch channel to a worker with an ack channel
// back to the scanner, so the scanner can bound outstanding work.
type duplexChannel struct {
	toWorker  chan targets.Batch
	toScanner chan bool
}

func newDuplexChannel(queueLen int) *duplexChannel {
	return &duplexChannel{
		toWorker:  make(chan targets.Batch, queueLen),
		toScanner: make(chan bool, queueLen),
	}
}

func (dc *duplexChannel) sendToWorker(b targets.Batch) {
	dc.toWorker <- b
}

func (dc *duplexChannel) sendToScanner() {
	dc.toScanner <- true
}

func (dc *duplexChannel) close() {
	close(dc.toWorker)
	close(dc.toScanner)
}
