// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/mailextract/ai"
	"github.com/poiesic/mailextract/ai/openai"
	"github.com/poiesic/mailextract/extract"
	"github.com/poiesic/mailextract/mailfile"
	"github.com/poiesic/mailextract/timing"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "mailextract",
		Usage: "Structured entity extraction from emails via a local LLM",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract entities from a single email, streaming tokens live",
				ArgsUsage: "[email text]",
				Action:    extractCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Read the email text from a file instead of the argument",
					},
				),
			},
			{
				Name:   "batch",
				Usage:  "Extract entities from a file of emails in parallel",
				Action: batchCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a text file of emails separated by --- lines",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Usage:   "Maximum number of concurrent extractions",
						Value:   8,
					},
				),
			},
			{
				Name:   "measure",
				Usage:  "Measure sequential vs batched extraction times across a concurrency sweep",
				Action: measureCommand,
				Flags: append(connectionFlags(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to a text file of emails separated by --- lines",
						Required: true,
					},
					&cli.IntSliceFlag{
						Name:  "levels",
						Usage: "Concurrency levels to sweep",
						Value: cli.NewIntSlice(timing.DefaultLevels...),
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path for the timing report",
						Value:   "timing_results.txt",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// connectionFlags are shared by every command that talks to the model.
func connectionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "host",
			Usage: "Chat-completion service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "token",
			Usage: "API credential token (unvalidated by local servers)",
			Value: "ollama",
		},
		&cli.StringFlag{
			Name:  "model",
			Usage: "Model identifier",
			Value: "granite3.3:8b",
		},
		&cli.StringSliceFlag{
			Name:    "entities",
			Aliases: []string{"e"},
			Usage:   "Entity types to extract (empty extracts all)",
		},
		&cli.IntFlag{
			Name:  "max-tokens",
			Usage: "Per-request output token budget",
			Value: 512,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request deadline",
			Value: 120 * time.Second,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum attempts per extraction",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
	}
}

// newSession builds the shared model client and an extraction session from
// the command's connection flags.
func newSession(c *cli.Context) (*extract.Session, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithToken(c.String("token")),
		ai.WithModel(c.String("model")),
		ai.WithMaxTokens(c.Int("max-tokens")),
		ai.WithTimeout(c.Duration("timeout")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	client, err := openai.NewClient(aiConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	return extract.NewSession(client,
		extract.WithMaxRetries(c.Int("max-retries")),
		extract.WithRetryDelay(c.Duration("retry-delay")),
		extract.WithMaxTokens(c.Int("max-tokens")),
	)
}

func extractCommand(c *cli.Context) error {
	ctx := context.Background()

	mailText := c.Args().First()
	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read email file: %w", err)
		}
		mailText = string(data)
	}
	if strings.TrimSpace(mailText) == "" {
		return fmt.Errorf("no email text provided: pass it as an argument or use --file")
	}

	session, err := newSession(c)
	if err != nil {
		return err
	}

	req := extract.Request{
		MailText:    mailText,
		EntityTypes: c.StringSlice("entities"),
	}

	err = session.ExtractStream(ctx, req, func(_ context.Context, fragment string) error {
		fmt.Print(fragment)
		return nil
	})
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}
	fmt.Println()
	return nil
}

func batchCommand(c *cli.Context) error {
	ctx := context.Background()

	mails, err := mailfile.Load(c.String("file"))
	if err != nil {
		return err
	}
	if len(mails) == 0 {
		return fmt.Errorf("no emails found in %s", c.String("file"))
	}
	fmt.Fprintf(os.Stderr, "Loaded %d emails from %s\n", len(mails), c.String("file"))

	session, err := newSession(c)
	if err != nil {
		return err
	}

	entityTypes := c.StringSlice("entities")
	reqs := make([]extract.Request, len(mails))
	for i, mail := range mails {
		reqs[i] = extract.Request{MailText: mail, EntityTypes: entityTypes}
	}

	tracker := extract.NewProgressTracker(os.Stderr, len(reqs))
	tracker.Start()

	results, err := session.ExtractBatch(ctx, reqs, c.Int("workers"), tracker.Update)
	if err != nil {
		return fmt.Errorf("batch extraction failed: %w", err)
	}
	tracker.Finish()

	for _, result := range results {
		fmt.Printf("Email #%d\n", result.Index+1)
		fmt.Println(renderResult(result.Text))
		fmt.Println()
	}
	return nil
}

func measureCommand(c *cli.Context) error {
	ctx := context.Background()

	mails, err := mailfile.Load(c.String("file"))
	if err != nil {
		return err
	}
	if len(mails) == 0 {
		return fmt.Errorf("no emails found in %s", c.String("file"))
	}

	session, err := newSession(c)
	if err != nil {
		return err
	}

	entityTypes := c.StringSlice("entities")
	reqs := make([]extract.Request, len(mails))
	for i, mail := range mails {
		reqs[i] = extract.Request{MailText: mail, EntityTypes: entityTypes}
	}

	harness, err := timing.NewHarness(session, timing.WithLevels(c.IntSlice("levels")))
	if err != nil {
		return err
	}

	output := c.String("output")
	report, err := harness.WriteReport(ctx, reqs, output)
	if err != nil {
		return fmt.Errorf("measurement failed: %w", err)
	}

	fmt.Print(report)
	fmt.Fprintf(os.Stderr, "Timing results saved to %s\n", output)
	return nil
}

// renderResult pretty-prints model output that parses as JSON and falls
// back to the raw text otherwise. Parsing lives here in the display layer;
// the engine hands text off opaque.
func renderResult(raw string) string {
	if !json.Valid([]byte(raw)) {
		return raw
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return pretty.String()
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
