package brotli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
)

var benchSuites = []struct{ name, file string }{
	// Text is repetitive English prose, the friendly case.
	{"Text/q1", "text_q1.br"},
	{"Text/q5", "text_q5.br"},
	{"Text/q11", "text_q11.br"},
	// Random bytes are incompressible; the stream is mostly uncompressed
	// meta-blocks.
	{"Random/q5", "random_q5.br"},
}

func BenchmarkDecode(b *testing.B) {
	for _, suite := range benchSuites {
		compressed, err := os.ReadFile(filepath.Join("testdata", suite.file))
		if err != nil {
			b.Fatal(err)
		}
		raw, err := Decode(compressed)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(suite.name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(raw)))
			out := make([]byte, 64*1024)
			for i := 0; i < b.N; i++ {
				d := NewDecoder()
				d.Feed(compressed)
				for {
					_, result := d.Pull(out)
					if result == ResultDone {
						break
					}
					if result != ResultNeedsMoreOutput {
						b.Fatalf("unexpected result %v", result)
					}
				}
			}
		})
	}
}

func BenchmarkReader(b *testing.B) {
	compressed, err := os.ReadFile(filepath.Join("testdata", "text_q11.br"))
	if err != nil {
		b.Fatal(err)
	}
	raw, err := Decode(compressed)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.SetBytes(int64(len(raw)))
	for i := 0; i < b.N; i++ {
		r := NewReader(bytes.NewReader(compressed))
		if _, err := io.Copy(io.Discard, r); err != nil {
			b.Fatal(err)
		}
	}
}
