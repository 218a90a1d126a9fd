// The wordcount command counts the total words in a text file and the
// case-insensitive occurrences of one given word.
package main

import (
	"flag"
	"fmt"
	"os"

	"textmetrics/internal/analyze"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s FILE WORD\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(1)
	}

	path, word := flag.Arg(0), flag.Arg(1)

	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading file %s: %v\n", path, err)
		os.Exit(2)
	}

	total, count := analyze.Occurrences(analyze.DecodeText(content), word)

	fmt.Printf("Total words in file: %d\n", total)
	fmt.Printf("Occurrences of the word '%s': %d\n", word, count)
}
