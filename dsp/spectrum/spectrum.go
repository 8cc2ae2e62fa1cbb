package spectrum

import (
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// scratchBuf holds pooled complex input for Transform. Axes are transformed
// concurrently, so each call takes its own buffer.
type scratchBuf struct {
	data []complex128
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) *scratchBuf {
	buf := scratchPool.Get().(*scratchBuf)
	if cap(buf.data) < n {
		buf.data = make([]complex128, n)
	} else {
		buf.data = buf.data[:n]
	}
	return buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// Split returns the real and imaginary parts and the magnitude of bins.
func Split(bins []complex128) (re, im, mag []float64) {
	if len(bins) == 0 {
		return nil, nil, nil
	}
	re = make([]float64, len(bins))
	im = make([]float64, len(bins))
	mag = make([]float64, len(bins))
	for i, c := range bins {
		re[i] = real(c)
		im[i] = imag(c)
	}
	vecmath.Magnitude(mag, re, im)
	return re, im, mag
}
