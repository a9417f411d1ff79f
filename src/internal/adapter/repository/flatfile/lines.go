package flatfile

import (
	"bufio"
	"errors"
	"io"
)

// maxLineBytes bounds a single record. Longer lines are skipped whole.
const maxLineBytes = 64 * 1024

// readLines calls visit for every line of r and overlong for every line longer
// than maxLineBytes. Line numbers start at 1. Only read errors abort.
func readLines(r io.Reader, visit func(lineNo int, line string), overlong func(lineNo int)) error {
	br := bufio.NewReaderSize(r, maxLineBytes)
	lineNo := 0
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		lineNo++
		if !isPrefix {
			visit(lineNo, string(chunk))
			continue
		}

		for isPrefix {
			_, isPrefix, err = br.ReadLine()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return err
			}
		}
		overlong(lineNo)
	}
}
