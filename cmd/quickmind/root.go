package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quickmind/internal/app"
	"quickmind/internal/config"
	"quickmind/internal/handler/http/requestid"
	"quickmind/internal/observability/logging"
	"quickmind/internal/usecase/assist"
)

// cli carries flag values and I/O for one invocation.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	configPath string
	output     string
	verbose    bool

	file     string
	url      string
	selector string
	target   string
	wait     time.Duration
}

// errResultFailed marks a run whose result is a failure message.
var errResultFailed = errors.New("no usable result")

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "quickmind",
		Short: "Summarize or translate long text with a language model",
		Long: `quickmind condenses documents of any length with map-reduce summarization
and translates them window by window.

The model and pipeline are configured through environment variables
(QUICKMIND_PROVIDER, OLLAMA_URL, CHUNK_WINDOW_SIZE, ...) and an optional
YAML file given with --config or QUICKMIND_CONFIG.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "YAML configuration file (overrides QUICKMIND_CONFIG)")
	root.PersistentFlags().StringVarP(&c.output, "output", "o", "text", "Output format: text or json")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	summarizeCmd := &cobra.Command{
		Use:   "summarize [text...]",
		Short: "Summarize text",
		Long: `Summarize text given as arguments, read from --file, fetched from --url,
or read from standard input.

Examples:
  quickmind summarize --file report.txt
  cat notes.md | quickmind summarize
  quickmind summarize --url https://example.com/post --selector "article p"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), args, false)
		},
	}
	c.inputFlags(summarizeCmd)

	translateCmd := &cobra.Command{
		Use:   "translate --to LANG [text...]",
		Short: "Translate text into another language",
		Long: `Translate text into the language given by --to (ISO 639-1 code).
Text that is already in the target language is returned unchanged.

Examples:
  quickmind translate --to fr "Good morning"
  quickmind translate --to ja --file letter.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), args, true)
		},
	}
	c.inputFlags(translateCmd)
	translateCmd.Flags().StringVar(&c.target, "to", "", "Target language code, e.g. en, fr, ja (required)")
	_ = translateCmd.MarkFlagRequired("to")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check whether the language model is ready",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.status(cmd.Context())
		},
	}
	statusCmd.Flags().DurationVar(&c.wait, "wait", 0, "Wait up to this long for the model to load")

	root.AddCommand(summarizeCmd, translateCmd, statusCmd)
	return root
}

func (c *cli) inputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.file, "file", "f", "", "Read text from a file")
	cmd.Flags().StringVar(&c.url, "url", "", "Fetch a web page and use its text")
	cmd.Flags().StringVar(&c.selector, "selector", "", "CSS selector for the part of the page to use (with --url)")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
}

// setup loads configuration and assembles the service.
func (c *cli) setup(ctx context.Context) (*app.App, error) {
	switch c.output {
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid output format %q (must be text or json)", c.output)
	}
	if c.configPath != "" {
		if err := os.Setenv("QUICKMIND_CONFIG", c.configPath); err != nil {
			return nil, err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if c.verbose {
		level = logging.ParseLevel(cfg.Log.Level)
		if level > slog.LevelInfo {
			level = slog.LevelInfo
		}
	}
	logger := logging.New(c.stderr, "text", level)
	slog.SetDefault(logger)

	return app.New(ctx, cfg, logger, app.Options{Version: version})
}

func (c *cli) run(ctx context.Context, args []string, translate bool) error {
	if c.selector != "" && c.url == "" {
		return errors.New("--selector requires --url")
	}

	a, err := c.setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()

	req := assist.Request{URL: c.url, Selector: c.selector, Target: c.target}
	if c.url == "" {
		text, err := readInput(args, c.file, c.stdin)
		if err != nil {
			return err
		}
		req.Text = text
	}

	ctx = requestid.WithRequestID(ctx, requestid.New())
	var resp *assist.Response
	if translate {
		resp, err = a.Service.Translate(ctx, req)
	} else {
		resp, err = a.Service.Summarize(ctx, req)
	}
	if err != nil {
		if msg := assist.UserMessage(err); msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	return c.printResult(resp)
}

func (c *cli) status(ctx context.Context) error {
	a, err := c.setup(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close(context.WithoutCancel(ctx)) }()

	if c.wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, c.wait)
		_, _ = a.Handle.Acquire(waitCtx)
		cancel()
	}
	return c.printStatus(a.Service.Status())
}

// readInput picks the text source: arguments, then --file ("-" is stdin),
// then standard input.
func readInput(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		if file != "" {
			return "", errors.New("give text as arguments or --file, not both")
		}
		return strings.Join(args, " "), nil
	}

	var r io.Reader = stdin
	if file != "" && file != "-" {
		f, err := os.Open(file) // #nosec G304 -- the user names the file to read
		if err != nil {
			return "", fmt.Errorf("open input: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}
