package pcm_test

import (
	"fmt"

	"github.com/cwbudde/algo-ringtone/pcm"
)

func ExampleToInt16() {
	fmt.Println(pcm.ToInt16([]float64{0, 0.5, -1, 1.5}))

	// Output:
	// [0 16383 -32767 32767]
}
