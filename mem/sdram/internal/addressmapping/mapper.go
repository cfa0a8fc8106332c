// Package addressmapping decomposes linear column addresses into bank, row,
// and column coordinates.
package addressmapping

import "math/bits"

// A Location is the position of a column inside the memory device.
type Location struct {
	Bank   uint64
	Row    uint64
	Column uint64
}

// A Mapper can convert a linear column address to a Location.
type Mapper interface {
	Map(columnAddr uint64) Location
}

// MakeBuilder returns a builder with default organization, matching a
// 4-bank, 8192-row, 512-column x16 device.
func MakeBuilder() Builder {
	return Builder{
		numBanks:   4,
		numRows:    8192,
		numColumns: 512,
	}
}

// A Builder can build mappers.
type Builder struct {
	numBanks   int
	numRows    int
	numColumns int
}

// WithNumBanks sets the number of banks.
func (b Builder) WithNumBanks(n int) Builder {
	b.numBanks = n
	return b
}

// WithNumRows sets the number of rows per bank.
func (b Builder) WithNumRows(n int) Builder {
	b.numRows = n
	return b
}

// WithNumColumns sets the number of columns per row.
func (b Builder) WithNumColumns(n int) Builder {
	b.numColumns = n
	return b
}

// Build creates the mapper. All organization parameters must be powers of
// two, so the decomposition is a fixed bit-width split.
func (b Builder) Build() Mapper {
	m := mapperImpl{
		columnBits: log2(b.numColumns),
		rowBits:    log2(b.numRows),
		bankBits:   log2(b.numBanks),
	}

	return m
}

func log2(n int) int {
	if n <= 0 || n&(n-1) != 0 {
		panic("organization parameters must be powers of two")
	}

	return bits.TrailingZeros(uint(n))
}

type mapperImpl struct {
	columnBits int
	rowBits    int
	bankBits   int
}

func (m mapperImpl) Map(columnAddr uint64) Location {
	loc := Location{}

	loc.Column = columnAddr & mask(m.columnBits)
	columnAddr >>= m.columnBits

	loc.Row = columnAddr & mask(m.rowBits)
	columnAddr >>= m.rowBits

	loc.Bank = columnAddr & mask(m.bankBits)

	return loc
}

func mask(bitCount int) uint64 {
	return (1 << bitCount) - 1
}
