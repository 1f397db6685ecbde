package main

import (
	"bufio"
	"fmt"
	"log"
	"os"

	"github.com/knusbaum/go9p"
	"github.com/knusbaum/go9p/fs"
	sheet "github.com/knusbaum/sheep/sheet"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sheetfs",
	Short: "Serve a spreadsheet over 9P",
	Long: `sheetfs serves a spreadsheet over 9P. Writing instructions of the form

	[address] [length] formula\n

to ctl sets cells. Every recalculated cell is written to updates in the same form, with the
displayed value in place of the formula.`,
	Args: cobra.NoArgs,
	Run:  serve,
}

func init() {
	rootCmd.Flags().String("srv", "sheetfs", "name to post the 9P service under")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serve(cmd *cobra.Command, args []string) {
	srv, err := cmd.Flags().GetString("srv")
	if err != nil {
		log.Fatalf("failed to get srv flag: %s", err)
	}

	sheetFS := fs.NewFS("glenda", "glenda", 0555)

	outputStream := fs.NewStream(100, false)
	updates := fs.NewStreamFile(sheetFS.NewStat("updates", "glenda", "glenda", 0444), outputStream)
	sheetFS.Root.AddChild(updates)

	inputStream := fs.NewStream(100, false)
	ctl := fs.NewStreamFile(sheetFS.NewStat("ctl", "glenda", "glenda", 0222), inputStream)
	sheetFS.Root.AddChild(ctl)

	s := sheet.NewSheet()
	s.OnCellUpdated = func(addr string, c *sheet.Cell) {
		content := c.Content()
		outputStream.Write([]byte(fmt.Sprintf("%s %d %s\n", addr, len(content), content)))
	}

	go func() {
		r := inputStream.AddReader()
		br := bufio.NewReader(r)
		for {
			if err := s.Read(br); err != nil {
				log.Printf("failed to read instruction: %s", err)
			}
		}
	}()

	go9p.PostSrv(srv, sheetFS.Server())
}
