package uncertainty_test

import (
	"fmt"

	"github.com/veslind/stratify/burden"
	"github.com/veslind/stratify/uncertainty"
)

// ExamplePropagate splits an aggregate standard error over a two-stratum
// pattern; the squared per-stratum errors recover the aggregate exactly.
func ExamplePropagate() {
	p := burden.NewPattern()
	p[burden.Stratum{Age: burden.Age1524, Sex: burden.SexFemale}] = 0.6
	p[burden.Stratum{Age: burden.Age1524, Sex: burden.SexMale}] = 0.8

	ses, err := uncertainty.Propagate(10, p)
	if err != nil {
		fmt.Println(err)
		return
	}
	f := ses[burden.Stratum{Age: burden.Age1524, Sex: burden.SexFemale}]
	m := ses[burden.Stratum{Age: burden.Age1524, Sex: burden.SexMale}]
	fmt.Printf("SE female: %.0f\n", f)
	fmt.Printf("SE male:   %.0f\n", m)
	fmt.Printf("recovered: %.0f\n", f*f+m*m)
	// Output:
	// SE female: 6
	// SE male:   8
	// recovered: 100
}
