package dispatch

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/notargets/hexkernel/utils"
	"go.uber.org/multierr"
)

// Sequential runs indices in ascending order on the calling goroutine
type Sequential struct{}

func (Sequential) Name() string { return "sequential" }

func (Sequential) ParallelFor(length int, body func(i int)) {
	for i := 0; i < length; i++ {
		body(i)
	}
}

// ParallelForE stops at the first failing index
func (Sequential) ParallelForE(length int, body func(i int) error) error {
	for i := 0; i < length; i++ {
		if err := body(i); err != nil {
			return err
		}
	}
	return nil
}

// HostConcurrent splits the range into contiguous buckets, one goroutine each
type HostConcurrent struct {
	Workers int // 0 means runtime.NumCPU()
}

func (hc HostConcurrent) Name() string {
	return fmt.Sprintf("host(%d)", hc.degree(0))
}

func (hc HostConcurrent) degree(length int) (np int) {
	if np = hc.Workers; np <= 0 {
		np = runtime.NumCPU()
	}
	if length > 0 && np > length {
		np = length
	}
	return
}

func (hc HostConcurrent) ParallelFor(length int, body func(i int)) {
	if length <= 0 {
		return
	}
	var (
		pm       = utils.NewPartitionMap(hc.degree(length), length)
		wg       = sync.WaitGroup{}
		panicked = make([]any, pm.ParallelDegree)
	)
	for np := 0; np < pm.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			defer func() { panicked[np] = recover() }()
			kMin, kMax := pm.GetBucketRange(np)
			for i := kMin; i < kMax; i++ {
				body(i)
			}
		}(np)
	}
	wg.Wait()
	for _, p := range panicked {
		if p != nil {
			panic(p)
		}
	}
}

// ParallelForE stops each bucket at its first failing index and returns the
// errors of all buckets combined
func (hc HostConcurrent) ParallelForE(length int, body func(i int) error) error {
	if length <= 0 {
		return nil
	}
	var (
		pm   = utils.NewPartitionMap(hc.degree(length), length)
		errs = make([]error, pm.ParallelDegree)
	)
	hc.ParallelFor(pm.ParallelDegree, func(np int) {
		kMin, kMax := pm.GetBucketRange(np)
		for i := kMin; i < kMax; i++ {
			if err := body(i); err != nil {
				errs[np] = err
				return
			}
		}
	})
	return multierr.Combine(errs...)
}

const DefaultBlockSize = 32

// AcceleratorConcurrent strip-mines the range into blocks of BlockSize lanes.
// Blocks are scheduled concurrently over a fixed set of compute units and the
// lanes of a block run back to back, the way an @outer/@inner tiled kernel
// executes on a device. Bodies must capture only values and views; a panic in
// a body is not recovered.
type AcceleratorConcurrent struct {
	BlockSize int // 0 means DefaultBlockSize
	Units     int // 0 means runtime.NumCPU()
}

func (ac AcceleratorConcurrent) Name() string {
	return fmt.Sprintf("accelerator(%d)", ac.blockSize())
}

func (ac AcceleratorConcurrent) blockSize() int {
	if ac.BlockSize <= 0 {
		return DefaultBlockSize
	}
	return ac.BlockSize
}

// Blocks returns the number of outer blocks covering length indices
func (ac AcceleratorConcurrent) Blocks(length int) int {
	bs := ac.blockSize()
	return (length + bs - 1) / bs
}

func (ac AcceleratorConcurrent) ParallelFor(length int, body func(i int)) {
	if length <= 0 {
		return
	}
	var (
		bs      = ac.blockSize()
		nBlocks = ac.Blocks(length)
		units   = ac.Units
		blocks  = make(chan int, nBlocks)
		wg      = sync.WaitGroup{}
	)
	if units <= 0 {
		units = runtime.NumCPU()
	}
	if units > nBlocks {
		units = nBlocks
	}
	for b := 0; b < nBlocks; b++ {
		blocks <- b
	}
	close(blocks)
	for u := 0; u < units; u++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range blocks {
				iMax := min((b+1)*bs, length)
				for i := b * bs; i < iMax; i++ {
					body(i)
				}
			}
		}()
	}
	wg.Wait()
}
