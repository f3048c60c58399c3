//go:build occa

package hexelement

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"
)

// OCCAEvaluator runs the batch kernel on an OCCA device, e.g.
// `{"mode": "Serial"}`, `{"mode": "OpenMP"}` or `{"mode": "CUDA", "device_id": 0}`
type OCCAEvaluator struct {
	BlockSize int
	device    *gocca.OCCADevice
	kernel    *gocca.OCCAKernel
}

func NewOCCAEvaluator(deviceInfo string, blockSize int) (oe *OCCAEvaluator, err error) {
	oe = &OCCAEvaluator{BlockSize: blockSize}
	if oe.device, err = gocca.NewDevice(deviceInfo); err != nil {
		return nil, fmt.Errorf("creating OCCA device %s: %w", deviceInfo, err)
	}
	if oe.kernel, err = oe.device.BuildKernel(GenerateKernelSource(blockSize), DeviceKernelName); err != nil {
		oe.device.Free()
		return nil, fmt.Errorf("building %s: %w", DeviceKernelName, err)
	}
	if !oe.kernel.IsInitialized() {
		oe.device.Free()
		return nil, fmt.Errorf("building %s: kernel not initialized", DeviceKernelName)
	}
	return
}

func (oe *OCCAEvaluator) Name() string {
	return fmt.Sprintf("occa(%d)", oe.BlockSize)
}

// Evaluate copies the node coordinates to the device, runs the kernel over
// every slot and copies N, DetJ and DNDX back into the batch views
func (oe *OCCAEvaluator) Evaluate(eb *ElementBatch) (err error) {
	if eb.K == 0 {
		return
	}
	var (
		x    = eb.X.Data()
		n    = eb.N.Data()
		det  = eb.DetJ.Data()
		dndx = eb.DNDX.Data()
	)
	xMem := oe.device.Malloc(bytesOf(x), unsafe.Pointer(&x[0]))
	defer xMem.Free()
	nMem := oe.device.Malloc(bytesOf(n), nil)
	defer nMem.Free()
	detMem := oe.device.Malloc(bytesOf(det), nil)
	defer detMem.Free()
	dndxMem := oe.device.Malloc(bytesOf(dndx), nil)
	defer dndxMem.Free()

	if err = oe.kernel.RunWithArgs(eb.Slots(), xMem, nMem, detMem, dndxMem); err != nil {
		return fmt.Errorf("running %s: %w", DeviceKernelName, err)
	}
	nMem.CopyTo(unsafe.Pointer(&n[0]), bytesOf(n))
	detMem.CopyTo(unsafe.Pointer(&det[0]), bytesOf(det))
	dndxMem.CopyTo(unsafe.Pointer(&dndx[0]), bytesOf(dndx))
	return
}

func (oe *OCCAEvaluator) Free() {
	if oe.kernel != nil {
		oe.kernel.Free()
	}
	if oe.device != nil {
		oe.device.Free()
	}
}

func bytesOf(data []float64) int64 {
	return int64(len(data) * 8)
}
