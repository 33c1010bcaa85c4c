package method

import "testing"

func BenchmarkEMAStep(b *testing.B) {
	f, _ := NewEMA(30)
	f.Step(0, 0, 0)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		f.Step(50, 50, 1)
	}
}

func BenchmarkTimeSMAStep(b *testing.B) {
	f, _ := NewTimeSMA(60)
	f.Step(0, 0, 0)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		f.Step(50, 50, 1)
	}
}
