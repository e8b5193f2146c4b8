package compress

import (
	"fmt"
	"testing"

	"github.com/mightysai1997/sdjournal/format"
)

// generateBenchmarkData creates test data that mimics a journal entry's
// concatenated FIELD=value payload bytes, at varying compressibility.
func generateBenchmarkData(size int, compressibility string) []byte {
	data := make([]byte, size)

	switch compressibility {
	case "highly_compressible":
		// all zeros
	case "compressible":
		pattern := []byte("_SYSTEMD_UNIT=sample.service\nMESSAGE=request completed in 12ms\n")
		for i := range data {
			data[i] = pattern[i%len(pattern)]
		}
	case "semi_compressible":
		for i := range data {
			if i%100 < 50 {
				data[i] = byte(i % 256)
			} else {
				data[i] = byte((i*7 + i*i) % 256)
			}
		}
	default:
		for i := range data {
			data[i] = byte((i*31 + i*i*7 + i*i*i*3) % 256)
		}
	}

	return data
}

func BenchmarkAllCodecs_Compress(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 262144}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					testName := fmt.Sprintf("%dKB_%s", size/1024, comp)
					b.Run(testName, func(b *testing.B) {
						data := generateBenchmarkData(size, comp)

						b.ResetTimer()
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))

						for b.Loop() {
							_, err := codec.Compress(data)
							if err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

func BenchmarkAllCodecs_Decompress(b *testing.B) {
	sizes := []int{1024, 16384, 65536, 262144}
	compressibilities := []string{"highly_compressible", "compressible", "semi_compressible", "incompressible"}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				for _, comp := range compressibilities {
					testName := fmt.Sprintf("%dKB_%s", size/1024, comp)
					b.Run(testName, func(b *testing.B) {
						data := generateBenchmarkData(size, comp)

						compressed, err := codec.Compress(data)
						if err != nil {
							b.Fatal(err)
						}

						b.ResetTimer()
						b.ReportAllocs()
						b.SetBytes(int64(len(data)))

						for b.Loop() {
							_, err := codec.Decompress(compressed)
							if err != nil {
								b.Fatal(err)
							}
						}
					})
				}
			}
		})
	}
}

// BenchmarkAllCodecs_SmallPayloads exercises the entry-sized payloads a
// real journal spends most of its append-path time compressing.
func BenchmarkAllCodecs_SmallPayloads(b *testing.B) {
	sizes := []int{64, 128, 256, 512, 1024}

	codecs := getAllCodecs()

	for codecName, codec := range codecs {
		b.Run(codecName, func(b *testing.B) {
			for _, size := range sizes {
				testName := fmt.Sprintf("%d_bytes", size)
				b.Run(testName, func(b *testing.B) {
					data := generateBenchmarkData(size, "compressible")

					b.ResetTimer()
					b.ReportAllocs()
					b.SetBytes(int64(len(data)))

					for b.Loop() {
						compressed, err := codec.Compress(data)
						if err != nil {
							b.Fatal(err)
						}
						_, err = codec.Decompress(compressed)
						if err != nil {
							b.Fatal(err)
						}
					}
				})
			}
		})
	}
}

func BenchmarkCodecComparison_Compress(b *testing.B) {
	const size = 8 * 1024
	data := generateBenchmarkData(size, "compressible")

	kinds := []struct {
		name string
		kind format.CompressionKind
	}{
		{"NoOp", format.CompressionNone},
		{"LZ4", format.CompressionLZ4},
		{"S2", format.CompressionS2},
		{"Zstd", format.CompressionZstd},
	}

	for _, kv := range kinds {
		c, _ := CreateCodec(kv.kind, "bench")

		b.Run(kv.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(size))
			b.ResetTimer()

			for b.Loop() {
				_, _ = c.Compress(data)
			}
		})
	}
}

func BenchmarkZstdDecompress_Sequential(b *testing.B) {
	// A rotated file's reader decompressing many consecutive entries from
	// the same DataHashTable bucket chain, exercising decoder pool reuse.
	const payloadSize = 512
	data := generateBenchmarkData(payloadSize, "compressible")
	compressor := NewZstdCompressor()
	compressed, _ := compressor.Compress(data)

	b.Run("150entries", func(b *testing.B) {
		b.ReportAllocs()
		b.SetBytes(int64(len(compressed)))
		b.ResetTimer()

		for b.Loop() {
			for range 150 {
				_, _ = compressor.Decompress(compressed)
			}
		}
	})
}
