// Package dijkstra_test provides examples demonstrating the minimum-product search.
// Each example is runnable via "go test -run Example".
package dijkstra_test

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/mensura/core"
	"github.com/katalvlaran/mensura/dijkstra"
)

// ExampleFactor shows a factor composed over two rules with path reconstruction.
func ExampleFactor() {
	// 1) Two rules: inch→foot and foot→yard. There is no inch↔yard rule.
	g := core.NewGraph(
		core.Rule{Src: "foot", Dest: "inch", Factor: 12},
		core.Rule{Src: "yard", Dest: "foot", Factor: 3},
	)

	// 2) Search from yard to inch and ask for the unit chain.
	res, err := dijkstra.Factor(g,
		dijkstra.Source("Yard"),
		dijkstra.Target("Inch"),
		dijkstra.WithReturnPath(),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Printf("1 yard = %g inch via %s\n", res.Factor, strings.Join(res.Path, " → "))
	// Output: 1 yard = 36 inch via yard → foot → inch
}
