package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tliron/commonlog"

	"github.com/mgomes/minipy/minipy"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("minipy")

var stderrErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("#EF4444")).
	Bold(true)

func main() {
	if err := runCLI(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, stderrErrorStyle.Render("error:")+" "+err.Error())
		os.Exit(1)
	}
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return replCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	checkOnly := fs.Bool("check", false, "only compile the script without executing")
	configPath := fs.String("config", "", "path to a minipy.toml (default: next to the script)")
	outputPath := fs.String("output", "", "write program output to a file instead of stdout")
	verbose := fs.Bool("verbose", false, "log compile and run phases")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("minipy run: script path required")
	}

	scriptPath, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve script path: %w", err)
	}
	input, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	cfg, err := resolveConfig(*configPath, scriptPath)
	if err != nil {
		return err
	}
	if *verbose || cfg.Run.Verbose {
		commonlog.Configure(1, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	out := os.Stdout
	target := *outputPath
	if target == "" {
		target = cfg.Run.Output
	}
	if target != "" {
		f, err := os.Create(target)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		defer f.Close()
		out = f
	}

	engine := minipy.NewEngine(minipy.Config{Output: out})

	start := time.Now()
	prog, err := engine.Compile(string(input))
	if err != nil {
		return fmt.Errorf("compile failed: %w", err)
	}
	log.Infof("compiled %s in %s", filepath.Base(scriptPath), time.Since(start))
	if *checkOnly {
		return nil
	}

	start = time.Now()
	if err := prog.Run(minipy.NewContext(out)); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	log.Infof("ran %s in %s", filepath.Base(scriptPath), time.Since(start))
	return nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [flags] <script>")
	fmt.Fprintln(os.Stderr, "    -check")
	fmt.Fprintln(os.Stderr, "      only compile the script without executing")
	fmt.Fprintln(os.Stderr, "    -config <file>")
	fmt.Fprintln(os.Stderr, "      path to a minipy.toml (default: next to the script)")
	fmt.Fprintln(os.Stderr, "    -output <file>")
	fmt.Fprintln(os.Stderr, "      write program output to a file instead of stdout")
	fmt.Fprintln(os.Stderr, "    -verbose")
	fmt.Fprintln(os.Stderr, "      log compile and run phases")
	fmt.Fprintln(os.Stderr, "  repl")
	fmt.Fprintln(os.Stderr, "    start an interactive session")
	fmt.Fprintln(os.Stderr, "  help")
}

// flagErrorSink suppresses the FlagSet's own output; errors are rendered by
// the caller.
type flagErrorSink struct{}

func (*flagErrorSink) Write(p []byte) (int, error) { return len(p), nil }
