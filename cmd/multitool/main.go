package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pavelkurin/multitool/pkg/engine"
	"github.com/pavelkurin/multitool/pkg/toolbox"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: multitool <command> [flags]\n\nCommands:\n  tools   List the registered tools\n  call    Invoke a tool with JSON arguments\n\nFlags:\n")
		flag.PrintDefaults()
	}

	if len(os.Args) < 2 {
		flag.Usage()
		os.Exit(2)
	}

	var err error

	switch os.Args[1] {
	case "tools":
		toolsCmd := flag.NewFlagSet("tools", flag.ExitOnError)
		toolsCmd.Usage = func() {
			fmt.Fprintf(os.Stderr, "Usage: multitool tools [flags]\n\nList the registered tools and their parameters.\n\nFlags:\n")
			toolsCmd.PrintDefaults()
		}
		configPath := toolsCmd.String("config", "multitool.yaml", "path to configuration file")
		envFile := toolsCmd.String("env", ".env", "path to .env file (ignored if missing)")
		_ = toolsCmd.Parse(os.Args[2:])

		err = runTools(*configPath, *envFile)
	case "call":
		callCmd := flag.NewFlagSet("call", flag.ExitOnError)
		callCmd.Usage = func() {
			fmt.Fprintf(os.Stderr, "Usage: multitool call [flags] <tool> [json-args]\n\nInvoke a tool and print its result envelope as JSON.\n\nFlags:\n")
			callCmd.PrintDefaults()
		}
		configPath := callCmd.String("config", "multitool.yaml", "path to configuration file")
		envFile := callCmd.String("env", ".env", "path to .env file (ignored if missing)")
		verbose := callCmd.Bool("verbose", false, "log every dispatch to stderr")
		_ = callCmd.Parse(os.Args[2:])

		err = runCall(*configPath, *envFile, *verbose, callCmd.Args())
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runTools(configPath, envFile string) error {
	eng, err := buildEngine(configPath, envFile, false)
	if err != nil {
		return err
	}

	for _, spec := range eng.Specs() {
		fmt.Printf("%s\t%s\n", spec.Name, spec.Description)

		for _, p := range spec.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}

			fmt.Printf("  %s (%s, %s)\t%s\n", p.Name, p.Type, req, p.Description)
		}
	}

	return nil
}

func runCall(configPath, envFile string, verbose bool, args []string) error {
	if len(args) < 1 {
		return errors.New("call: tool name is required")
	}

	toolArgs := map[string]any{}
	if len(args) > 1 {
		if err := json.Unmarshal([]byte(args[1]), &toolArgs); err != nil {
			return fmt.Errorf("call: parse arguments: %w", err)
		}
	}

	eng, err := buildEngine(configPath, envFile, verbose)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res := eng.Dispatch(ctx, toolbox.Request{Tool: args[0], Args: toolArgs})

	out, err := json.MarshalIndent(envelope(res), "", "  ")
	if err != nil {
		return fmt.Errorf("call: encode result: %w", err)
	}

	fmt.Println(string(out))

	if res.Status != toolbox.StatusOK {
		os.Exit(1)
	}

	return nil
}

func buildEngine(configPath, envFile string, verbose bool) (*engine.Engine, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	cfg, err := engine.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	return engine.New(cfg, log)
}

// envelope flattens a dispatch result for JSON output.
func envelope(res toolbox.Result) map[string]any {
	out := map[string]any{
		"id":     res.ID,
		"status": res.Status.String(),
	}

	if res.Err != "" {
		out["error"] = res.Err
	}

	if res.Payload != nil {
		out["payload"] = res.Payload
	}

	return out
}

// loadDotEnv loads environment variables from path. Missing files are ignored.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}
