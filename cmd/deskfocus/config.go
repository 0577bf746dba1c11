package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskfocus/internal/config"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskfocus config validate [--path PATH]")
	fmt.Fprintln(w, "  deskfocus config print [--path PATH] [--effective|--defaults]")
	fmt.Fprintln(w, "  deskfocus config explain [--path PATH] <yaml.path>")
	fmt.Fprintln(w, "  deskfocus config path")
	fmt.Fprintln(w, "  deskfocus config init [--force]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stdout)
		return 0
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "validate":
		return runConfigValidate(rest)
	case "print":
		return runConfigPrint(rest)
	case "explain":
		return runConfigExplain(rest)
	case "path":
		return runConfigPath()
	case "init":
		return runConfigInit(rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", sub)
		return 2
	}
}

func configFlags(name string) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/deskfocus/config.yaml)")
	return fs, path
}

func runConfigValidate(args []string) int {
	fs, path := configFlags("validate")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if res.File == "" {
		fmt.Println("config: ok (no file, defaults and environment only)")
		return 0
	}
	fmt.Printf("config: ok (%s)\n", res.File)
	return 0
}

func runConfigPrint(args []string) int {
	fs, path := configFlags("print")
	defaults := fs.Bool("defaults", false, "Print built-in defaults (no file, no environment)")
	fs.Bool("effective", true, "Print the effective config (default)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := config.DefaultConfig()
	if !*defaults {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg = res.Config
	}
	return printYAML(os.Stdout, cfg)
}

func runConfigExplain(args []string) int {
	fs, path := configFlags("explain")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "explain requires exactly one <yaml.path>")
		return 2
	}
	key := fs.Arg(0)

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	value, src, err := config.Explain(res, key)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("path: %s\n", key)
	fmt.Printf("source: %s\n", formatSource(src))
	fmt.Println("value:")
	return printYAML(os.Stdout, value)
}

func runConfigPath() int {
	path, err := config.DefaultConfigPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(path)
	return 0
}

func runConfigInit(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	force := fs.Bool("force", false, "Overwrite an existing config file")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path, err := config.DefaultConfigPath()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if _, err := os.Stat(path); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "%s already exists (use --force to overwrite)\n", path)
		return 1
	}
	if err := config.DefaultConfig().Save(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("wrote %s\n", path)
	return 0
}

func printYAML(w io.Writer, v any) int {
	data, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	w.Write(data)
	return 0
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceEnv:
		if src.Name != "" {
			return "env:" + src.Name
		}
		return "env"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
