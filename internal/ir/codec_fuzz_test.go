package ir_test

import (
	"testing"
	"time"

	"kdart/internal/ir"
)

// decodeTimeout bounds a single decode; exceeding it means a loop on
// malformed input.
const decodeTimeout = 5 * time.Second

const maxFuzzInput = 64 << 10

func FuzzDecodeUnit(f *testing.F) {
	if seed, err := ir.EncodeUnit(sampleUnit()); err == nil {
		f.Add(seed)
		f.Add(seed[:len(seed)/2])
	}
	f.Add([]byte{})
	f.Add([]byte{0xc1})
	f.Add([]byte{0x95, 0x01, 0xa0, 0xa0, 0xa0, 0x90})

	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) > maxFuzzInput {
			input = input[:maxFuzzInput]
		}
		done := make(chan struct{})
		go func() {
			defer close(done)
			u, err := ir.DecodeUnit(input)
			if err != nil || u == nil {
				return
			}
			// encoding what was decoded must not panic
			_, _ = ir.EncodeUnit(u)
		}()
		select {
		case <-done:
		case <-time.After(decodeTimeout):
			t.Fatalf("decode did not finish within %v (input %d bytes)", decodeTimeout, len(input))
		}
	})
}
