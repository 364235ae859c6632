package window

import "fmt"

func ExampleBlackman() {
	w, _ := Blackman(4, WithPeriodic())
	fmt.Printf("%.2f %.2f %.2f %.2f\n", w[0], w[1], w[2], w[3])
	// Output:
	// 0.00 0.34 1.00 0.34
}
