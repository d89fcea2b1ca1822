// assess.go submits an answers file to the CloudAssess API and prints the rendered report.
//
// Usage:
//
//	go run scripts/assess.go -answers answers.yaml -api http://localhost:8700 -format markdown
//
// The answers file maps question ids to answers:
//
//	security-monitoring: true
//	backup-strategy: 3
//	cloud-provider: AWS
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/CloudAssess/internal/client"
	"github.com/MikeSquared-Agency/CloudAssess/internal/report"
)

func main() {
	answersPath := flag.String("answers", "answers.yaml", "path to answers YAML file")
	apiURL := flag.String("api", "http://localhost:8700", "CloudAssess API base URL")
	formatName := flag.String("format", "markdown", "report format: markdown, csv or json")
	out := flag.String("out", "", "write the report to this file instead of stdout")
	dryRun := flag.Bool("dry-run", false, "print the request body without posting")
	flag.Parse()

	format, err := report.ParseFormat(*formatName)
	if err != nil {
		log.Fatal(err)
	}

	data, err := os.ReadFile(*answersPath)
	if err != nil {
		log.Fatalf("read answers: %v", err)
	}
	var answers map[string]interface{}
	if err := yaml.Unmarshal(data, &answers); err != nil {
		log.Fatalf("parse answers: %v", err)
	}

	if *dryRun {
		body, _ := json.MarshalIndent(map[string]interface{}{"answers": answers}, "", "  ")
		fmt.Println(string(body))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.NewHTTPClient(*apiURL)
	rendered, err := c.Report(ctx, answers, format)
	if err != nil {
		var rejected *client.RejectedError
		if errors.As(err, &rejected) {
			for _, m := range rejected.Malformed {
				fmt.Fprintf(os.Stderr, "  %s (%s): %s\n", m.QuestionID, m.Expected, m.Reason)
			}
		}
		log.Fatalf("assessment failed: %v", err)
	}

	if *out == "" {
		os.Stdout.Write(rendered)
		return
	}
	if err := os.WriteFile(*out, rendered, 0o644); err != nil {
		log.Fatalf("write report: %v", err)
	}
	fmt.Printf("Report written to %s (%s)\n", *out, format)
}
