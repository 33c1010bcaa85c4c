package method_test

import (
	"fmt"

	"github.com/cwbudde/algo-smooth/filter/method"
)

// ExampleEMA demonstrates time-correct decay: the same total elapsed time
// yields the same output regardless of tick granularity.
func ExampleEMA() {
	f, err := method.NewEMA(30)
	if err != nil {
		panic(err)
	}

	f.Step(0, 0, 0)    // first sample initializes the output
	f.Step(0, 100, 30) // one time constant later

	fmt.Printf("after one tau: %.1f\n", f.Output())
	// Output:
	// after one tau: 63.2
}

// ExampleIntegrator demonstrates interval integration with reset-on-report.
func ExampleIntegrator() {
	f := method.NewIntegrator()

	// 50 W held for 60 s.
	f.Step(50, 50, 60)
	fmt.Printf("energy: %.0f Ws\n", f.Output())

	// The engine flushes after reporting; the next interval starts fresh.
	f.Flush()
	f.Step(50, 50, 12)
	fmt.Printf("next report: %.0f Ws\n", f.Output())
	// Output:
	// energy: 3000 Ws
	// next report: 600 Ws
}

// ExampleTimeSMA demonstrates duration weighting: a value that held twice
// as long counts twice as much, regardless of sample counts.
func ExampleTimeSMA() {
	f, err := method.NewTimeSMA(30)
	if err != nil {
		panic(err)
	}

	f.Step(0, 10, 0)   // 10 held from t=0
	f.Step(10, 40, 10) // 40 held from t=10
	f.Step(40, 40, 20) // evaluated at t=30

	fmt.Printf("weighted mean: %.0f\n", f.Output())
	// Output:
	// weighted mean: 30
}
