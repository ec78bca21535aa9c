package mines

import "fmt"

// Point is a cell coordinate. X grows to the right, Y grows downwards.
type Point struct {
	X int `json:"x" schema:"x,required"`
	Y int `json:"y" schema:"y,required"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.X, p.Y)
}
