package main

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/knusbaum/sheep"
	sheet "github.com/knusbaum/sheep/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoCommand(t *testing.T) {
	assert := assert.New(t)
	st := sheet.NewSheet()
	var c cfg
	s := bufio.NewScanner(strings.NewReader(strings.Join([]string{
		"SET A1 20",
		"SET A2 A1 - 15",
		"eval MEDIAN(A1, A2)",
		"EDIT",
		"DUMP",
		"SET A2",
		"BOGUS",
		"SET A1 (",
	}, "\n")))

	resp, err := doCommand(st, &c, s)
	assert.NoError(err)
	assert.Equal("OK", resp)

	resp, err = doCommand(st, &c, s)
	assert.NoError(err)
	assert.Equal("OK", resp)

	resp, err = doCommand(st, &c, s)
	assert.NoError(err)
	assert.Equal("12", resp)

	resp, err = doCommand(st, &c, s)
	assert.NoError(err)
	assert.Equal("EDITMODE = true", resp)
	assert.True(c.editMode)

	resp, err = doCommand(st, &c, s)
	assert.NoError(err)
	assert.Equal("A1 2 20\nA2 7 A1 - 15", resp)

	resp, err = doCommand(st, &c, s)
	assert.NoError(err)
	v, err := st.ValueAt("A2")
	assert.NoError(err)
	assert.Equal(sheep.Empty{}, v)

	_, err = doCommand(st, &c, s)
	assert.EqualError(err, "unknown command BOGUS")

	resp, err = doCommand(st, &c, s)
	assert.NoError(err)
	_, err = st.ValueAt("A1")
	assert.True(errors.Is(err, sheep.ErrUnbalanced))

	_, err = doCommand(st, &c, s)
	assert.Error(err)
}

func TestParseCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"parse", "--bind", "A1=MEAN(2,4)", "--bind", "B1=A1*2", "B1 + A1"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "B1 + A1\n9\n", out.String())
}

func TestTokenizeCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"tokenize", "5*MEAN(1,2)"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "MEAN")
	assert.Contains(t, out.String(), "FUNC")
}

func TestWriteSheet(t *testing.T) {
	st := sheet.NewSheet()
	require.NoError(t, st.SetContent("A1", "3"))
	require.NoError(t, st.SetContent("B1", "A1 * A1"))

	var out bytes.Buffer
	writeSheet(&out, st, &cfg{})
	assert.Contains(t, out.String(), "9")

	out.Reset()
	writeSheet(&out, st, &cfg{editMode: true})
	assert.Contains(t, out.String(), "A1 * A1")
}
