package model

import (
	"fmt"
	"io"
	"strconv"
)

type Tray struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Columns     int      `json:"columns"`
	Rows        int      `json:"rows"`
	MaxPosition int      `json:"maxPosition"`
	Depth       float64  `json:"depth"`
	Volume      float64  `json:"volume"`
	Members     []string `json:"members"`
}

type Run struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	StartedAt  string  `json:"startedAt"`
	FinishedAt *string `json:"finishedAt,omitempty"`
}

type Direction string

const (
	DirectionColumns Direction = "COLUMNS"
	DirectionRows    Direction = "ROWS"
)

var AllDirection = []Direction{
	DirectionColumns,
	DirectionRows,
}

func (e Direction) IsValid() bool {
	switch e {
	case DirectionColumns, DirectionRows:
		return true
	}
	return false
}

func (e Direction) String() string {
	return string(e)
}

func (e *Direction) UnmarshalGQL(v interface{}) error {
	str, ok := v.(string)
	if !ok {
		return fmt.Errorf("enums must be strings")
	}

	*e = Direction(str)
	if !e.IsValid() {
		return fmt.Errorf("%s is not a valid Direction", str)
	}
	return nil
}

func (e Direction) MarshalGQL(w io.Writer) {
	fmt.Fprint(w, strconv.Quote(e.String()))
}
