package sheet

import (
	"fmt"
	"io"

	"github.com/knusbaum/sheep"
)

// Sheet represents a spreadsheet. Every cell holds a formula parsed by the sheep package, and the
// sheet supplies each formula with the values of the cells it references.
type Sheet struct {
	matrix map[string]map[uint32]*Cell
	parser *sheep.Parser
	// OnCellUpdated is a callback that will be called when a cell is updated during
	// recalculations. It may be set by the user.
	OnCellUpdated func(addr string, c *Cell)
}

// NewSheet creates a new, empty spreadsheet that parses formulas with the core operators.
func NewSheet() *Sheet {
	return NewSheetWithRegistry(sheep.CoreRegistry())
}

// NewSheetWithRegistry creates a new, empty spreadsheet whose formulas are built from r.
func NewSheetWithRegistry(r *sheep.Registry) *Sheet {
	return &Sheet{
		matrix: make(map[string]map[uint32]*Cell),
		parser: sheep.NewParser(r),
	}
}

// SetContent sets the content of the cell at address addr in the sheet.
// If the address is invalid, SetContent returns an error.
func (s *Sheet) SetContent(addr string, content string) error {
	a, err := CellAddr(addr)
	if err != nil {
		return err
	}

	if content == "" && s.cellAt(a) == nil {
		return nil
	}

	s.cellOrNewAt(a).SetContent(content)
	return nil
}

// cellOrNewAt returns the cell at addr, or puts a new cell into s at addr and returns that new
// cell.
func (s *Sheet) cellOrNewAt(addr CellAddress) *Cell {
	rows := s.matrix[addr.col]
	if rows == nil {
		rows = make(map[uint32]*Cell)
		s.matrix[addr.col] = rows
	}

	cell, ok := rows[addr.row]
	if !ok {
		cell = NewCell(addr, s)
		rows[addr.row] = cell
	}
	return cell
}

// cellAt returns a cell from addr in s if there is one, or nil if there is none.
func (s *Sheet) cellAt(addr CellAddress) *Cell {
	rows := s.matrix[addr.col]
	if rows != nil {
		return rows[addr.row]
	}
	return nil
}

// CellAt returns the cell at addr, or nil if there is none.
func (s *Sheet) CellAt(addr string) (*Cell, error) {
	a, err := CellAddr(addr)
	if err != nil {
		return nil, err
	}
	return s.cellAt(a), nil
}

// ValueAt returns the value at address addr in s: a sheep.Constant for a cell whose formula
// evaluated, or sheep.Empty for a blank cell. If the formula failed to parse or evaluate, ValueAt
// returns that error.
func (s *Sheet) ValueAt(addr string) (sheep.Expression, error) {
	a, err := CellAddr(addr)
	if err != nil {
		return nil, err
	}

	cell := s.cellAt(a)
	if cell == nil {
		return sheep.Empty{}, nil
	}
	return cell.Value()
}

// ContentAt will return a human-readable value for a given address, suitable for display. This will
// display the result of any formula.
func (s *Sheet) ContentAt(addr string) (string, error) {
	a, err := CellAddr(addr)
	if err != nil {
		return "", err
	}
	return s.contentAt(a), nil
}

func (s *Sheet) contentAt(addr CellAddress) string {
	cell := s.cellAt(addr)
	if cell == nil {
		return ""
	}
	return cell.Content()
}

// EditAt returns the formula text of the cell at address addr, suitable for editing.
func (s *Sheet) EditAt(addr string) (string, error) {
	a, err := CellAddr(addr)
	if err != nil {
		return "", err
	}
	return s.editAt(a), nil
}

func (s *Sheet) editAt(addr CellAddress) string {
	cell := s.cellAt(addr)
	if cell == nil {
		return ""
	}
	return cell.EditValue()
}

// Bindings returns a snapshot of the value of every cell that has one, keyed by its address.
// Cells whose formula failed are left out.
func (s *Sheet) Bindings() sheep.Bindings {
	b := make(sheep.Bindings)
	for _, rows := range s.matrix {
		for _, cell := range rows {
			if v, err := cell.Value(); err == nil && v != nil {
				b[cell.addr.String()] = v
			}
		}
	}
	return b
}

// Eval parses text and evaluates it against the current values in s, without storing it in any
// cell. References resolve the same way they do in a cell's formula.
func (s *Sheet) Eval(text string) (sheep.Expression, error) {
	e, err := s.parser.Parse(text)
	if err != nil {
		return nil, err
	}
	b, err := s.bindingsFor(e)
	if err != nil {
		return nil, err
	}
	return e.Eval(b)
}

// bindingsFor resolves every reference in e that names a cell to the current value of that cell,
// keyed by the name as written. Blank and missing cells bind sheep.Empty. A referenced cell in
// error fails the whole lookup with its error. Names that are not cell addresses are left unbound.
func (s *Sheet) bindingsFor(e sheep.Expression) (sheep.Bindings, error) {
	b := make(sheep.Bindings)
	for _, name := range sheep.References(e) {
		addr, err := CellAddr(name)
		if err != nil {
			continue
		}
		up := s.cellAt(addr)
		if up == nil {
			b[name] = sheep.Empty{}
			continue
		}
		v, err := up.Value()
		if err != nil {
			return nil, err
		}
		if v == nil {
			v = sheep.Empty{}
		}
		b[name] = v
	}
	return b, nil
}

func (s *Sheet) maxCol() CellAddress {
	max := CellAddress{col: "A", row: 1}
	for k, rows := range s.matrix {
		if len(rows) == 0 {
			continue
		}
		addr := CellAddress{col: k, row: 1}
		if max.LessCol(addr) {
			max = addr
		}
	}
	return max
}

func (s *Sheet) maxRow() uint32 {
	max := uint32(1)
	for _, col := range s.matrix {
		for k := range col {
			if k > max {
				max = k
			}
		}
	}
	return max
}

// MaxAddr returns the bottom right address of the smallest range starting at A1 that holds every
// cell in s.
func (s *Sheet) MaxAddr() CellAddress {
	return CellAddress{col: s.maxCol().col, row: s.maxRow()}
}

// Columns returns the column letters from start's column to end's column, inclusive.
func Columns(start, end CellAddress) []string {
	var cols []string
	col := CellAddress{col: start.col, row: start.row}
	for col.LEQCol(end) {
		cols = append(cols, col.col)
		next, err := col.NextCol()
		if err != nil {
			break
		}
		col = next
	}
	return cols
}

// Rows returns the cells between the upper left start and bottom right end cells as rows of
// strings. With edit set the formula text is returned, otherwise the displayed content.
func (s *Sheet) Rows(start, end CellAddress, edit bool) [][]string {
	cols := Columns(start, end)
	var out [][]string
	for row := start.row; row <= end.row; row++ {
		line := make([]string, len(cols))
		for i, col := range cols {
			addr := CellAddress{col: col, row: row}
			if edit {
				line[i] = s.editAt(addr)
			} else {
				line[i] = s.contentAt(addr)
			}
		}
		out = append(out, line)
	}
	return out
}

// WriteRange writes instructions to recreate the cells between the upper left start and bottom right end cells to w.
// The stream written is human-readable and suitable for reading with (*Sheet).Read
func (s *Sheet) WriteRange(start CellAddress, end CellAddress, w io.Writer) error {
	cols := Columns(start, end)
	for row := start.row; row <= end.row; row++ {
		for _, col := range cols {
			cell := s.cellAt(CellAddress{col: col, row: row})
			if cell == nil || cell.transient() {
				continue
			}
			if err := writeInstruction(w, cell.addr.String(), cell.EditValue()); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeInstruction(w io.Writer, addr, text string) error {
	_, err := fmt.Fprintf(w, "%s %d %s\n", addr, len(text), text)
	return err
}

// read parses an instruction (such as those written out by WriteRange) and returns the cell
// address, value, and an error if it could not be parsed.
func read(r io.Reader) (CellAddress, string, error) {
	var addr string
	var clen uint32
	n, err := fmt.Fscanf(r, "%50s %d ", &addr, &clen)
	if err != nil {
		return CellAddress{}, "", err
	}
	if n != 2 {
		return CellAddress{}, "", fmt.Errorf("expected address and length")
	}
	if clen > 4096 {
		return CellAddress{}, "", fmt.Errorf("bad length for content: must be less than 4096")
	}
	bs := make([]byte, clen)
	_, err = io.ReadFull(r, bs)
	if err != nil {
		return CellAddress{}, "", err
	}
	_, err = fmt.Fscanf(r, "\n")
	if err != nil {
		return CellAddress{}, "", err
	}
	a, err := CellAddr(addr)
	if err != nil {
		return CellAddress{}, "", err
	}
	return a, string(bs), nil
}

// Read reads one instruction (such as those written by WriteRange) and sets the value in the sheet.
// Instructions are in the form:
//
//	[address] [length] formula\n
//
// For example, you can set various fields in the sheet by doing the following:
//
//	A1 2 10
//	B1 2 20
//	C1 2 30
//	D1 8 A1+B1+C1
func (s *Sheet) Read(r io.Reader) error {
	a, c, err := read(r)
	if err != nil {
		return err
	}
	return s.SetContent(a.String(), c)
}
