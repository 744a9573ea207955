package stepsort_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/stepsort"
)

func ExampleSort() {
	res, err := stepsort.Sort(context.Background(), "Quick Sort", []int{5, 3, 1, 4, 2})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Numbers, res.Frame.Algorithm, res.Frame.Status)
	// Output: [1 2 3 4 5] quick finished
}

func ExampleFrames() {
	r, err := stepsort.New("gnome", []int{3, 1, 2})
	if err != nil {
		log.Fatal(err)
	}

	var last []int
	for f, numbers := range stepsort.Frames(context.Background(), r) {
		if f.Finished() {
			last = numbers
		}
	}
	fmt.Println(last)
	// Output: [1 2 3]
}
