// Command analyze runs the analysis pipeline on a single filing document
// from disk and prints the result JSON. Useful for checking a document
// without the HTTP round trip.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tanshin_insight/pkg/core/eval"
	"tanshin_insight/pkg/core/pipeline"
)

func main() {
	godotenv.Load()

	thresholdsPath := flag.String("thresholds", "resources/thresholds.yaml", "evaluator threshold table")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: analyze [-thresholds file] <document.html>")
		os.Exit(2)
	}

	content, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read document: %v\n", err)
		os.Exit(1)
	}

	thresholds, err := eval.LoadThresholds(*thresholdsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARNING] %v, using defaults\n", err)
	}

	p := pipeline.New(thresholds, nil, nil)
	resp, err := p.AnalyzeContent(context.Background(), content)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
