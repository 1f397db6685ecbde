package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knusbaum/sheep"
)

// ErrCycle is set on every cell of a chain of references that leads back to itself.
var ErrCycle = errors.New("cyclical reference detected")

// Cell is the basic unit of storage and computation for a spreadsheet. A Cell holds formula text,
// the expression parsed from it, and the value that expression last evaluated to.
//
// A Cell with no text is transient: it is kept in the sheet only while other cells reference it,
// and it evaluates to sheep.Empty.
type Cell struct {
	addr  CellAddress
	sheet *Sheet

	// text is the formula as entered. exp is nil when text is blank or did not parse, in which case
	// err holds the parse error.
	text string
	exp  sheep.Expression
	val  sheep.Expression
	err  error

	// upstream is a list of cells that are used to calculate the result of this cell.
	// downstream is a list of cells that use the value of this cell to calculate their results.
	// Together, these lists form a graph of cells whose values depend on each other. This graph is
	// used to perform recalculations necessary when some value in the sheet changes.
	upstream   []*Cell
	downstream []*Cell

	// recalculating is used during graph traversal to detect cycles.
	recalculating bool
	// errCycle is set while cycle errors are being spread through the cycle.
	errCycle bool
}

// NewCell creates a new, transient cell at CellAddress a in Sheet s.
func NewCell(a CellAddress, s *Sheet) *Cell {
	return &Cell{addr: a, sheet: s, val: sheep.Empty{}}
}

func (c *Cell) transient() bool {
	return c.text == ""
}

// Add cell c2 to c's downstream dependents.
func (c *Cell) addDownstream(c2 *Cell) {
	c.downstream = append(c.downstream, c2)
}

// deleteSelfIfNecessary prunes a Cell from its Sheet if it is blank and no
// other cells depend on it.
func (c *Cell) deleteSelfIfNecessary() {
	if !c.transient() {
		return
	}
	if len(c.downstream) == 0 {
		delete(c.sheet.matrix[c.addr.col], c.addr.row)
	}
}

// Remove c2 from c's downstream dependents.
func (c *Cell) removeDownstream(c2 *Cell) {
	defer c.deleteSelfIfNecessary()
	for i := range c.downstream {
		if c.downstream[i] == c2 {
			c.downstream[i] = c.downstream[len(c.downstream)-1]
			c.downstream[len(c.downstream)-1] = nil
			c.downstream = c.downstream[:len(c.downstream)-1]
			return
		}
	}
}

// EditValue returns the formula text of the cell, as it was entered.
func (c *Cell) EditValue() string {
	return c.text
}

// Expression returns the parsed formula of the cell, or nil if it is blank or failed to parse.
func (c *Cell) Expression() sheep.Expression {
	return c.exp
}

// Value returns the value the cell's formula evaluated to. A blank cell has the value sheep.Empty.
// If the formula failed to parse or evaluate, Value returns that error.
func (c *Cell) Value() (sheep.Expression, error) {
	if c.err != nil {
		return nil, fmt.Errorf("%s: %w", c.addr, c.err)
	}
	return c.val, nil
}

// Content returns a string representation of the value of the cell, suitable for display. It is
// an error message if the formula could not be parsed or evaluated.
func (c *Cell) Content() string {
	if c.err != nil {
		return fmt.Sprintf("%s: %v", c.addr, c.err)
	}
	return c.val.Render()
}

// bindings resolves every reference in the cell's formula to the current value of the cell it
// names.
func (c *Cell) bindings() (sheep.Bindings, error) {
	return c.sheet.bindingsFor(c.exp)
}

// Recalculate recalculates the value of this cell and any downstream cells that would be affected
// by this cell's value. It will detect any dependency cycles present and set errors on the
// affected cells.
func (c *Cell) Recalculate() {
	if c.recalculating {
		// We've hit a cycle.
		if c.exp != nil {
			c.err = ErrCycle
			c.val = nil
		}
		if !c.errCycle {
			// If this is the first round through the cycle, continue and populate errors.
			c.errCycle = true
			defer func() { c.errCycle = false }()
			for i := range c.upstream {
				c.upstream[i].Recalculate()
			}
		}
		return
	}
	c.recalculating = true
	defer func() { c.recalculating = false }()
	if c.sheet.OnCellUpdated != nil {
		defer c.sheet.OnCellUpdated(c.addr.String(), c)
	}
	defer func() {
		for i := range c.downstream {
			c.downstream[i].Recalculate()
		}
	}()
	if c.exp == nil {
		return
	}

	b, err := c.bindings()
	if err == nil {
		c.val, err = c.exp.Eval(b)
	}
	if err != nil {
		c.err = err
		c.val = nil
		return
	}
	c.err = nil
}

// SetContent puts formula text into the Cell, c, parses it and recalculates the sheet
// accordingly. Blank text clears the cell. Text that does not parse is kept, and the cell
// reports the parse error as its value.
func (c *Cell) SetContent(content string) {
	defer c.deleteSelfIfNecessary()
	defer c.Recalculate()
	if len(c.upstream) > 0 {
		for i := range c.upstream {
			c.upstream[i].removeDownstream(c)
		}
		c.upstream = nil
	}
	if strings.TrimSpace(content) == "" {
		*c = Cell{sheet: c.sheet, addr: c.addr, val: sheep.Empty{}, downstream: c.downstream}
		return
	}

	c.text = content
	c.exp = nil
	c.val = sheep.Empty{}
	expr, err := c.sheet.parser.Parse(content)
	if err != nil {
		c.err = err
		return
	}
	c.err = nil
	c.exp = expr

	for _, name := range sheep.References(expr) {
		addr, err := CellAddr(name)
		if err != nil {
			continue
		}
		up := c.sheet.cellOrNewAt(addr)
		c.upstream = append(c.upstream, up)
		up.addDownstream(c)
	}
}
