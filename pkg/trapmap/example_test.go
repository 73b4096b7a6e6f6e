package trapmap_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/trapmap/pkg/geom"
	"github.com/matzehuels/trapmap/pkg/trapmap"
)

func Example() {
	m, err := trapmap.New(geom.R(0, 0, 10, 10))
	if err != nil {
		panic(err)
	}

	segs := []geom.Segment{geom.Seg(geom.Pt(2, 2), geom.Pt(8, 8))}
	if _, err := m.Insert(context.Background(), segs, -1); err != nil {
		panic(err)
	}

	fmt.Println("regions:", m.LeafCount())
	fmt.Println("below:", m.Locate(geom.Pt(5, 1)).Top)
	fmt.Println("left:", m.Locate(geom.Pt(1, 5)).RightP)
	// Output:
	// regions: 4
	// below: (2, 2)-(8, 8)
	// left: (2, 2)
}

func ExampleMap_Trace() {
	m, _ := trapmap.New(geom.R(0, 0, 10, 10))
	_, _ = m.Insert(context.Background(), []geom.Segment{geom.Seg(geom.Pt(2, 2), geom.Pt(8, 8))}, -1)

	for _, step := range m.Trace(geom.Pt(5, 1)) {
		if step.Kind == trapmap.KindLeaf {
			fmt.Println(step.Label)
			continue
		}
		fmt.Println(step.Label, step.Branch)
	}
	// Output:
	// P1 right/below
	// Q0 left/above
	// S0 right/below
	// T2
}

func ExampleMap_Insert_rejected() {
	m, _ := trapmap.New(geom.R(0, 0, 10, 10))
	_, err := m.Insert(context.Background(), []geom.Segment{geom.Seg(geom.Pt(3, 1), geom.Pt(3, 5))}, -1)
	fmt.Println(err)
	fmt.Println(trapmap.IsInvalidInput(err))
	// Output:
	// segment 0 (3, 1)-(3, 5): vertical segment
	// true
}
