package gpr

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// WordsPerRow is the number of registers in one row of a grid.
const WordsPerRow = 16

var (
	executingColor    = color.New(color.FgGreen)
	notExecutingColor = color.New(color.FgYellow)
)

// WriteGrid renders registers as rows of eight-digit hex words. Each row is
// labelled with the index of its first register.
func WriteGrid(w io.Writer, words []uint32) error {
	for start := 0; start < len(words); start += WordsPerRow {
		end := start + WordsPerRow
		if end > len(words) {
			end = len(words)
		}

		_, err := fmt.Fprintf(w, "    [%04d]", start)
		if err != nil {
			return err
		}

		for _, word := range words[start:end] {
			_, err = fmt.Fprintf(w, " %08x", word)
			if err != nil {
				return err
			}
		}

		_, err = fmt.Fprintln(w)
		if err != nil {
			return err
		}
	}

	return nil
}

// Write renders the SGPR grid followed by one VGPR grid per thread.
func (b *Banks) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "SGPRS (%d):\n", len(b.SGPRs))
	if err != nil {
		return err
	}

	err = WriteGrid(w, b.SGPRs)
	if err != nil {
		return err
	}

	for thread, vgprs := range b.VGPRs {
		state := notExecutingColor.Sprint("Not Executing")
		if b.IsExecuting(thread) {
			state = executingColor.Sprint("Executing")
		}

		_, err = fmt.Fprintf(w, "VGPRS thread %d (%s):\n", thread, state)
		if err != nil {
			return err
		}

		err = WriteGrid(w, vgprs)
		if err != nil {
			return err
		}
	}

	return nil
}
