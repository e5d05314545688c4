package tilegrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdok/globetiles/globe"
)

var (
	masks = [...]uint64{
		0b0101010101010101010101010101010101010101010101010101010101010101,
		0b0011001100110011001100110011001100110011001100110011001100110011,
		0b0000111100001111000011110000111100001111000011110000111100001111,
		0b0000000011111111000000001111111100000000111111110000000011111111,
		0b0000000000000000111111111111111100000000000000001111111111111111,
		0b0000000000000000000000000000000011111111111111111111111111111111,
	}
	powersOfTwo = [...]uint64{0, 1, 2, 4, 8, 16}
)

// Morton interleaves column (even bits) and row (odd bits) into a Z-order code.
func (g Grid) Morton() uint64 {
	x, y := uint64(g.Column), uint64(g.Row)
	for i := 4; i >= 0; i-- {
		x = (x | (x << powersOfTwo[i+1])) & masks[i]
		y = (y | (y << powersOfTwo[i+1])) & masks[i]
	}
	return x | (y << 1)
}

// FromMorton is the inverse of Grid.Morton.
func FromMorton(level int, z uint64) Grid {
	x := z
	y := z >> 1
	for i := 0; i <= 5; i++ {
		x = (x | (x >> powersOfTwo[i])) & masks[i]
		y = (y | (y >> powersOfTwo[i])) & masks[i]
	}
	return Grid{Level: level, Row: int(y), Column: int(x)}
}

// Quadkey is the base-4 Morton code with one digit per level; "" for level 0.
func (g Grid) Quadkey() string {
	if g.Level == 0 {
		return ""
	}
	digits := strconv.FormatUint(g.Morton(), 4)
	return strings.Repeat("0", g.Level-len(digits)) + digits
}

// ParseQuadkey is the inverse of Grid.Quadkey.
func ParseQuadkey(quadkey string) (Grid, error) {
	if len(quadkey) > MaxLevel {
		return Grid{}, globe.InvalidArgument("quadkey", quadkey, fmt.Sprintf("longer than %d", MaxLevel))
	}
	if quadkey == "" {
		return Grid{}, nil
	}
	z, err := strconv.ParseUint(quadkey, 4, 64)
	if err != nil {
		return Grid{}, globe.InvalidArgument("quadkey", quadkey, err.Error())
	}
	return FromMorton(len(quadkey), z), nil
}
