package signal_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tonelab/dsp/signal"
)

func ExampleGenerator_Periodic() {
	g, err := signal.NewGenerator(1000)
	if err != nil {
		panic(err)
	}
	x, err := g.Periodic(signal.ShapeSine, 250, 1, 5)
	if err != nil {
		panic(err)
	}
	for i := range x {
		if math.Abs(x[i]) < 1e-12 {
			x[i] = 0
		}
	}

	fmt.Printf("%.0f %.0f %.0f %.0f %.0f\n", x[0], x[1], x[2], x[3], x[4])

	// Output:
	// 0 1 0 -1 0
}
