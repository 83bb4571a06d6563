package encrust

import (
	"crypto/rand"
	"fmt"
	"testing"
)

var benchSizes = []int{
	16,          // 16 B
	1024,        // 1 KB
	64 * 1024,   // 64 KB
	1024 * 1024, // 1 MB
}

// Benchmark keystream generation throughput per suite
func BenchmarkKeystream(b *testing.B) {
	suites := []KeystreamSuite{KeystreamXoshiro256, KeystreamChaCha8, KeystreamChaCha20}

	for _, suite := range suites {
		for _, size := range benchSizes {
			b.Run(suite.String()+"/"+formatSize(size), func(b *testing.B) {
				ks, err := NewKeystream(suite, 1)
				if err != nil {
					b.Fatalf("failed to create keystream: %v", err)
				}
				defer ks.Wipe()

				buf := make([]byte, size)
				b.SetBytes(int64(size))
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					ks.Fill(buf)
				}
			})
		}
	}
}

// Benchmark a full decrust and release cycle
func BenchmarkDecrustRelease(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(formatSize(size), func(b *testing.B) {
			data := make([]byte, size)
			if _, err := rand.Read(data); err != nil {
				b.Fatalf("failed to generate test data: %v", err)
			}

			e := New(data, 42)
			defer e.Destroy()

			b.SetBytes(int64(size))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				g := e.Decrust()
				_ = g.Release()
			}
		})
	}
}

// Benchmark release with a fresh seed every time
func BenchmarkReseedOnRelease(b *testing.B) {
	sources := []struct {
		name string
		src  SeedSource
	}{
		{"crypto", CryptoSeedSource{}},
		{"pooled", NewPooledSeedSource()},
	}

	for _, s := range sources {
		b.Run(s.name, func(b *testing.B) {
			config := &Config{ReseedOnRelease: true, SeedSource: s.src}
			e, err := NewWithConfig(make([]byte, 1024), 1, config)
			if err != nil {
				b.Fatalf("failed to create container: %v", err)
			}
			defer e.Destroy()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				g := e.Decrust()
				if err := g.Release(); err != nil {
					b.Fatalf("failed to release: %v", err)
				}
			}
		})
	}
}

// Benchmark struct values through the reflection layout
func BenchmarkStructLayout(b *testing.B) {
	value := newRecord()
	e := New(value, 9)
	defer e.Destroy()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.With(func(*record) error { return nil })
	}
}

// Benchmark keyed digests
func BenchmarkDigest(b *testing.B) {
	for _, suite := range digestSuites {
		for _, size := range benchSizes {
			data := make([]byte, size)
			b.Run(fmt.Sprintf("%s/%s", suite, formatSize(size)), func(b *testing.B) {
				b.SetBytes(int64(size))
				for i := 0; i < b.N; i++ {
					suite.Sum(data, 1)
				}
			})
			b.Run(fmt.Sprintf("%s-ci/%s", suite, formatSize(size)), func(b *testing.B) {
				b.SetBytes(int64(size))
				for i := 0; i < b.N; i++ {
					suite.SumCaseInsensitive(data, 1)
				}
			})
		}
	}
}

// Helper to format sizes
func formatSize(size int) string {
	if size < 1024 {
		return fmt.Sprintf("%dB", size)
	}
	if size < 1024*1024 {
		return fmt.Sprintf("%dKB", size/1024)
	}
	return fmt.Sprintf("%dMB", size/(1024*1024))
}
