// The multicount command analyzes several text files concurrently and
// prints the word and character count of each, plus the totals.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"textmetrics/internal/analyze"
)

type fileAnalysis struct {
	name  string
	words int
	chars int
}

func main() {
	maxConcurrent := flag.Int("c", 5, "maximum number of files to process concurrently")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-c N] FILE...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 || *maxConcurrent < 1 {
		flag.Usage()
		os.Exit(1)
	}

	slog.Info("starting analysis", "files", flag.NArg(), "max_concurrent", *maxConcurrent)

	var (
		mu         sync.Mutex
		results    []fileAnalysis
		totalWords int
		totalChars int
	)

	sem := make(chan struct{}, *maxConcurrent)

	var wg sync.WaitGroup
	for _, path := range flag.Args() {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			content, err := os.ReadFile(path)
			if err != nil {
				slog.Error("reading file failed", "path", path, "error", err)
				return
			}

			res := analyze.Analyze(analyze.DecodeText(content))

			mu.Lock()
			results = append(results, fileAnalysis{
				name:  filepath.Base(path),
				words: res.Words,
				chars: res.Chars,
			})
			totalWords += res.Words
			totalChars += res.Chars
			mu.Unlock()

			slog.Debug("file processed", "path", path, "words", res.Words, "chars", res.Chars)
		}(path)
	}
	wg.Wait()

	fmt.Println("\nAnalysis Results:")
	for i, res := range results {
		fmt.Printf("%d. %s: %d words, %d characters\n", i+1, res.name, res.words, res.chars)
	}
	fmt.Printf("Total: %d words, %d characters.\n", totalWords, totalChars)
}
