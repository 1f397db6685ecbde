package sheet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var addrRE = regexp.MustCompile("^([A-Za-z]+)([0-9]+)$")

// CellAddress is the address of a cell in a sheet.
type CellAddress struct {
	col string
	row uint32
}

const maxColDigits = 2
const lastCol = "ZZ"

// CellAddr creates a new CellAddress by parsing an address string, addr. addr must be of the
// format [A-Za-z]+[0-9]+, where the alphabetic characters are the column and the number is the
// row. At most 2 alphabetic characters are allowed, for a maximum of 26^2 (676) columns. The
// number of rows is bounded to math.MaxUint32.
func CellAddr(addr string) (CellAddress, error) {
	matches := addrRE.FindStringSubmatch(addr)
	if len(matches) != 3 {
		return CellAddress{}, fmt.Errorf("invalid cell address '%s'", addr)
	}
	colstr := strings.ToUpper(matches[1])
	rowstr := matches[2]

	if len(colstr) > maxColDigits {
		return CellAddress{}, fmt.Errorf("invalid cell address '%s': column address too big", addr)
	}

	row, err := strconv.ParseUint(rowstr, 10, 32)
	if err != nil {
		return CellAddress{}, fmt.Errorf("invalid cell address '%s': %v", addr, err)
	}

	return CellAddress{colstr, uint32(row)}, nil
}

// LEQCol returns true if ca's column is less or equal to ca2's column.
func (ca CellAddress) LEQCol(ca2 CellAddress) bool {
	if ca.col == ca2.col {
		return true
	}
	return ca.LessCol(ca2)
}

// LessCol returns true if ca's column is strictly less than ca2's column.
func (ca CellAddress) LessCol(ca2 CellAddress) bool {
	if len(ca.col) != len(ca2.col) {
		return len(ca.col) < len(ca2.col)
	}
	return ca.col < ca2.col
}

// NextCol returns the address one column to the right of ca. It returns an error if ca is already
// in the last column.
func (ca CellAddress) NextCol() (CellAddress, error) {
	if ca.col == lastCol {
		return CellAddress{}, fmt.Errorf("no more columns")
	}
	runes := []rune(ca.col)
	i := len(runes) - 1
	for ; i >= 0 && runes[i] == 'Z'; i-- {
		runes[i] = 'A'
	}
	if i < 0 {
		runes = append([]rune{'A'}, runes...)
	} else {
		runes[i]++
	}
	return CellAddress{col: string(runes), row: ca.row}, nil
}

// Col returns the column letters of ca.
func (ca CellAddress) Col() string {
	return ca.col
}

// Row returns the row number of ca.
func (ca CellAddress) Row() uint32 {
	return ca.row
}

// String returns a human-readable representation of ca. This value can also be parsed by CellAddr.
func (ca CellAddress) String() string {
	return fmt.Sprintf("%s%d", ca.col, ca.row)
}
