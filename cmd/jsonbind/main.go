package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/jsonbind"
	"github.com/reoring/jsonbind/i18n"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "jsonbind CLI\n\nUsage:\n  jsonbind bind [-config f.yaml] [-watch a,b] [-driver relaxed|json|gojson] [-lang en|ja] [-v] [file|-]\n\nExit status is 0 on success, 1 when binding fails and 2 on usage errors.")
}

// run executes the CLI and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}
	switch args[0] {
	case "bind":
		return bindCmd(args[1:], stdin, stdout, stderr)
	default:
		usage(stderr)
		return 2
	}
}

type bindOutput struct {
	Value    any               `json:"value"`
	Presence map[string]string `json:"presence"`
}

func bindCmd(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bind", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var configPath, watchCSV, driver, lang string
	var verbose bool
	fs.StringVar(&configPath, "config", "", "YAML configuration file")
	fs.StringVar(&watchCSV, "watch", "", "comma-separated field names to watch")
	fs.StringVar(&driver, "driver", "", "tokenizer driver")
	fs.StringVar(&lang, "lang", "", "message language")
	fs.BoolVar(&verbose, "v", false, "log to stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return 2
	}

	opt, err := loadOpt(configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	opt.Watch = append(opt.Watch, splitCSV(watchCSV)...)
	if driver != "" {
		d, err := jsonbind.DriverByName(driver)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		opt.Driver = d
	}
	if lang != "" {
		opt.Translator = i18n.Dict(lang)
	}
	if verbose {
		opt.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	data, err := readInput(fs.Arg(0), stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	dm, err := jsonbind.New[map[string]any](opt).Bind(context.Background(), data)
	if err != nil {
		if be, ok := jsonbind.AsBindError(err); ok {
			writeJSON(stdout, be)
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	out := bindOutput{Presence: make(map[string]string, len(dm.Presence))}
	if dm.Value != nil {
		out.Value = *dm.Value
	}
	for name, p := range dm.Presence {
		state := "present"
		if p&jsonbind.PresenceWasNull != 0 {
			state = "null"
		}
		out.Presence[name] = state
	}
	writeJSON(stdout, out)
	return 0
}

func loadOpt(path string) (jsonbind.BindOpt, error) {
	if path == "" {
		return jsonbind.BindOpt{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return jsonbind.BindOpt{}, err
	}
	defer f.Close()
	cfg, err := jsonbind.LoadConfig(f)
	if err != nil {
		return jsonbind.BindOpt{}, err
	}
	return cfg.BindOpt()
}

func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("input file %s does not exist", name)
	}
	return data, err
}

func writeJSON(w io.Writer, v any) {
	b, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "{\"error\": %q}\n", err.Error())
		return
	}
	fmt.Fprintln(w, string(b))
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
