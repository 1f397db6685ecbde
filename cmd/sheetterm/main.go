package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knusbaum/sheep"
	sheet "github.com/knusbaum/sheep/sheet"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type cfg struct {
	editMode bool
}

var rootCmd = &cobra.Command{
	Use:   "sheetterm",
	Short: "Terminal spreadsheet over sheep formulas",
	Long: `sheetterm is an interactive spreadsheet. Cells hold formulas built from integers,
cell references, the operators = < / * - + and the functions MEAN and MEDIAN.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize formula",
	Short: "Print the tokens of a formula",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

var parseCmd = &cobra.Command{
	Use:   "parse formula",
	Short: "Parse a formula, print its canonical form and evaluate it",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	rootCmd.Flags().Bool("edit", false, "start with formulas shown instead of values")
	rootCmd.Flags().StringArray("set", nil, "initial cell contents, as ADDR=FORMULA (repeatable)")
	parseCmd.Flags().StringArray("bind", nil, "bind a reference name to a formula, as NAME=FORMULA (repeatable)")
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// assignments reads a repeatable NAME=FORMULA flag. Only the first '=' separates the name, so
// formulas may themselves compare with '='.
func assignments(cmd *cobra.Command, flag string) ([][2]string, error) {
	vals, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s flag: %w", flag, err)
	}
	out := make([][2]string, 0, len(vals))
	for _, v := range vals {
		name, text, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("--%s %q: expected NAME=FORMULA", flag, v)
		}
		out = append(out, [2]string{strings.TrimSpace(name), text})
	}
	return out, nil
}

func runTokenize(cmd *cobra.Command, args []string) error {
	toks, err := sheep.Tokenize(args[0])
	if err != nil {
		return err
	}
	t := tablewriter.NewWriter(cmd.OutOrStdout())
	t.SetHeader([]string{"Type", "Name", "Contents"})
	for _, tok := range toks {
		t.Append([]string{tok.Kind.String(), tok.Name, tok.Contents})
	}
	t.Render()
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	binds, err := assignments(cmd, "bind")
	if err != nil {
		return err
	}
	b := make(sheep.Bindings, len(binds))
	for _, a := range binds {
		name, text := a[0], a[1]
		e, err := sheep.Parse(text)
		if err != nil {
			return fmt.Errorf("binding %s: %w", name, err)
		}
		b[name] = e
	}

	e, err := sheep.Parse(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, e.Render())
	v, err := e.Eval(b)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, v.Render())
	return nil
}

func runRepl(cmd *cobra.Command, args []string) error {
	var c cfg
	var err error
	c.editMode, err = cmd.Flags().GetBool("edit")
	if err != nil {
		return fmt.Errorf("failed to get edit flag: %w", err)
	}
	initial, err := assignments(cmd, "set")
	if err != nil {
		return err
	}

	st := sheet.NewSheet()
	for _, a := range initial {
		if err := st.SetContent(a[0], a[1]); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(cmd.InOrStdin())
	writeSheet(out, st, &c)
	for {
		fmt.Fprintf(out, "sheep > ")
		response, err := doCommand(st, &c, scanner)
		if err == io.EOF {
			return nil
		} else if err != nil {
			fmt.Fprintf(out, "%s\n", err)
			continue
		}
		writeSheet(out, st, &c)
		if response != "" {
			fmt.Fprintln(out, response)
		}
	}
}

func doCommand(st *sheet.Sheet, c *cfg, s *bufio.Scanner) (string, error) {
	if !s.Scan() {
		return "", io.EOF
	}

	cmd := strings.SplitN(strings.TrimSpace(s.Text()), " ", 3)
	switch strings.ToUpper(cmd[0]) {
	case "":
		return "", nil
	case "SET":
		if len(cmd) < 2 {
			return "", fmt.Errorf("SET expects 2 arguments - SET [address] [formula]")
		}
		text := ""
		if len(cmd) == 3 {
			text = cmd[2]
		}
		if err := st.SetContent(cmd[1], text); err != nil {
			return "", err
		}
	case "EVAL":
		if len(cmd) < 2 {
			return "", fmt.Errorf("EVAL expects a formula - EVAL [formula]")
		}
		v, err := st.Eval(strings.Join(cmd[1:], " "))
		if err != nil {
			return "", err
		}
		return v.Render(), nil
	case "EDIT":
		c.editMode = !c.editMode
		return fmt.Sprintf("EDITMODE = %t", c.editMode), nil
	case "DUMP":
		start, _ := sheet.CellAddr("A1")
		var b strings.Builder
		if err := st.WriteRange(start, st.MaxAddr(), &b); err != nil {
			return "", err
		}
		return strings.TrimSuffix(b.String(), "\n"), nil
	default:
		return "", fmt.Errorf("unknown command %s", cmd[0])
	}
	return "OK", nil
}

func writeSheet(w io.Writer, s *sheet.Sheet, c *cfg) {
	start, _ := sheet.CellAddr("A1")
	end := s.MaxAddr()

	t := tablewriter.NewWriter(w)
	t.SetHeader(append([]string{""}, sheet.Columns(start, end)...))
	t.SetAutoFormatHeaders(false)
	for i, row := range s.Rows(start, end, c.editMode) {
		t.Append(append([]string{fmt.Sprint(start.Row() + uint32(i))}, row...))
	}
	t.Render()
}
