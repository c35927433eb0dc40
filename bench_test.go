package pitch

import (
	"fmt"
	"testing"

	"github.com/tphakala/go-bitstream-pitch/internal/testutil"
)

func BenchmarkDetect(b *testing.B) {
	for _, size := range []int{512, 2048, 8192} {
		b.Run(fmt.Sprintf("float64/%d", size), func(b *testing.B) {
			benchmarkDetect[float64](b, size, false)
		})
		b.Run(fmt.Sprintf("float32/%d", size), func(b *testing.B) {
			benchmarkDetect[float32](b, size, false)
		})
	}
}

func BenchmarkDetectParallel(b *testing.B) {
	for _, size := range []int{2048, 8192, 32768} {
		b.Run(fmt.Sprintf("sequential/%d", size), func(b *testing.B) {
			benchmarkDetect[float32](b, size, false)
		})
		b.Run(fmt.Sprintf("parallel/%d", size), func(b *testing.B) {
			benchmarkDetect[float32](b, size, true)
		})
	}
}

func benchmarkDetect[F Float](b *testing.B, size int, parallel bool) {
	b.Helper()
	cfg := DefaultConfig()
	cfg.EnableParallel = parallel
	d, err := New[F](&cfg)
	if err != nil {
		b.Fatalf("New failed: %v", err)
	}
	samples := testutil.Sine[F](size, 220, testutil.SampleRate, 0.8, 0)

	b.SetBytes(int64(size))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := d.Detect(samples); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEstimate(b *testing.B) {
	samples := testutil.Sine[float32](testutil.WindowSize, 440, testutil.SampleRate, 0.8, 0)
	b.ReportAllocs()
	for b.Loop() {
		Estimate(samples)
	}
}
