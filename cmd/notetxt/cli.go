package main

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/urfave/cli/v2"

	"github.com/notetxt/notetxt/internal/config"
	"github.com/notetxt/notetxt/internal/errors"
	"github.com/notetxt/notetxt/internal/note"
	"github.com/notetxt/notetxt/internal/ops"
	"github.com/notetxt/notetxt/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "notetxt",
		Usage:   "Plain text notes with live statistics",
		Version: Version,
		Commands: []*cli.Command{
			statsCmd(db, cfg),
			showCmd(db),
			setCmd(db, cfg),
			newCmd(db),
			openCmd(db, cfg),
			saveCmd(db, cfg),
			copyCmd(db),
			previewCmd(db, cfg),
			snippetCmd(db, cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func statsCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Print the Note Summary of stdin, a file, or the current note",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read text from a .txt or .md file"},
			&cli.BoolFlag{Name: "language", Aliases: []string{"l"}, Usage: "Also detect the language"},
			&cli.BoolFlag{Name: "table", Aliases: []string{"t"}, Usage: "Print labelled rows instead of JSON"},
		},
		Action: func(c *cli.Context) error {
			input := ops.SummaryInput{DetectLanguage: c.Bool("language")}

			switch {
			case c.String("file") != "":
				text, err := readTextFile(c.String("file"), cfg)
				if err != nil {
					return outputError(err)
				}
				input.Text = &text
			case stdinHasData():
				text, err := readStdin(stdinLimit(cfg))
				if err != nil {
					return outputError(err)
				}
				input.Text = &text
			}

			output, err := ops.Summary(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("table") {
				return outputTable(os.Stdout, output)
			}
			return outputJSON(output)
		},
	}
}

func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show the current note",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Aliases: []string{"r"}, Usage: "Print only the note text"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.LoadDraft(c.Context, db)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("raw") {
				_, err := io.WriteString(os.Stdout, output.Text)
				return err
			}
			return outputJSON(output)
		},
	}
}

func setCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Replace the current note (reads text from stdin)",
		Action: func(c *cli.Context) error {
			if !stdinHasData() {
				return outputError(errors.NewInvalidRequest("note text must be piped via stdin"))
			}

			text, err := readStdin(stdinLimit(cfg))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.SaveDraft(c.Context, db, cfg, ops.SaveDraftInput{Text: text})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func newCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "new",
		Usage: "Start a new note, discarding the current one",
		Action: func(c *cli.Context) error {
			output, err := ops.NewNote(c.Context, db)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func openCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Replace the current note with a .txt or .md file",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "File to open (must be in ~/.notetxt/notes or an allowed path)"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("path")
			if c.NArg() > 0 {
				path = c.Args().First()
			}

			output, err := ops.Open(c.Context, db, cfg, ops.OpenInput{Path: path})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func saveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Save the current note as a .txt file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "File name (default: front matter title, then \"note\")"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Target directory (default: ~/.notetxt/notes)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Save(c.Context, db, cfg, ops.SaveInput{
				FileName: c.String("name"),
				Dir:      c.String("dir"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func copyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "copy",
		Usage: "Print the current note for piping to a clipboard tool",
		Action: func(c *cli.Context) error {
			output, err := ops.Copy(c.Context, db)
			if err != nil {
				return outputError(err)
			}

			if _, err := io.WriteString(os.Stdout, output.Text); err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr, output.Notice)
			return nil
		},
	}
}

func previewCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "preview",
		Usage: "Store a markdown preview of stdin or the current note",
		Action: func(c *cli.Context) error {
			var input ops.CreatePreviewInput
			if stdinHasData() {
				text, err := readStdin(stdinLimit(cfg))
				if err != nil {
					return outputError(err)
				}
				input.Text = &text
			}

			output, err := ops.CreatePreview(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func snippetCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "snippet",
		Usage:     "List snippets, or append one to the current note",
		ArgsUsage: "[name]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputJSON(map[string]any{"snippets": ops.ListSnippets()})
			}

			output, err := ops.InsertSnippet(c.Context, db, cfg, ops.InsertSnippetInput{Name: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web editor",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Usage: "Interface to listen on (default from config, 127.0.0.1)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port to listen on (default from config, 8321)"},
		},
		Action: func(c *cli.Context) error {
			bind := cfg.WebBind
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			port := cfg.WebPort
			if c.IsSet("port") {
				port = c.Int("port")
			}
			if port < 1 || port > 65535 {
				return outputError(errors.NewInvalidRequest(fmt.Sprintf("invalid port: %d", port)))
			}

			srv := web.NewServer(db, cfg, Version, bind, port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputTable prints the summary items as aligned label/value rows.
func outputTable(w io.Writer, s *ops.SummaryOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, item := range s.Items {
		fmt.Fprintf(tw, "%s\t%s\n", item.Label, item.Display)
	}
	if s.Language != "" {
		fmt.Fprintf(tw, "Language\t%s\n", s.Language)
	}
	return tw.Flush()
}

// outputError formats error for CLI.
func outputError(err error) error {
	var nErr *errors.NoteError
	if stderrors.As(err, &nErr) {
		return cli.Exit(fmt.Sprintf("[%s] %s", nErr.Code, nErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// stdinLimit is the byte budget for piped text: the note size limit in
// worst-case UTF-8.
func stdinLimit(cfg *config.Config) int64 {
	limit := config.DefaultConfig().NoteMaxChars
	if cfg != nil && cfg.NoteMaxChars > 0 {
		limit = cfg.NoteMaxChars
	}
	return int64(limit) * utf8.UTFMax
}

// readStdin reads all content from stdin, failing if it exceeds maxBytes.
// Text is kept byte-for-byte; trailing newlines count as lines.
func readStdin(maxBytes int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, maxBytes+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > maxBytes {
		return "", errors.NewInvalidRequest(fmt.Sprintf("stdin exceeds %d bytes", maxBytes))
	}
	return note.DecodeFile(data)
}

// readTextFile reads a .txt or .md file for analysis without touching the note.
func readTextFile(path string, cfg *config.Config) (string, error) {
	if !note.IsSupportedFile(path) {
		return "", errors.NewUnsupportedFile(path)
	}
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return "", errors.NewFileNotFound(path)
		}
		return "", errors.NewInternal(err)
	}
	defer f.Close()

	limit := stdinLimit(cfg)
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	if int64(len(data)) > limit {
		return "", errors.NewInvalidRequest(fmt.Sprintf("file exceeds %d bytes", limit))
	}
	return note.DecodeFile(data)
}
