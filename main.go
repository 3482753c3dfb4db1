package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/google/shlex"
	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vsenv [options] [command [args...]]\n\n")
		fmt.Fprintf(os.Stderr, "vsenv runs a command under the native Visual Studio toolchain environment.\n")
		fmt.Fprintf(os.Stderr, "On hosts that need no setup the command runs with the environment as-is.\n")
		fmt.Fprintf(os.Stderr, "Without a command, vsenv starts an interactive shell.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  vsenv cl /nologo main.c   # Compile with the discovered toolchain\n")
		fmt.Fprintf(os.Stderr, "  vsenv -a arm64 ninja      # Build for arm64 with ninja\n")
		fmt.Fprintf(os.Stderr, "  vsenv -p                  # Print the merged environment\n")
	}

	// Flags after the command belong to the command.
	pflag.CommandLine.SetInterspersed(false)

	archFlag := pflag.StringP("arch", "a", "", "Target architecture: x86, amd64, arm or arm64 (default: native)")
	forceFlag := pflag.BoolP("force", "f", false, "Run toolchain discovery even when a compiler is on PATH")
	commandFlag := pflag.StringP("command", "c", "", "Run a shell-style command string instead of an argument list")
	envFileFlag := pflag.StringP("env-file", "e", "", "Merge a dotenv file into the environment before launching")
	printFlag := pflag.BoolP("print", "p", false, "Print the merged environment instead of launching")
	configFlag := pflag.String("config", "", "Path to the configuration file (default: vsenv.yaml if present)")
	verboseFlag := pflag.BoolP("verbose", "v", false, "Enable debug logging")
	versionFlag := pflag.BoolP("version", "V", false, "Print version information")
	pflag.Parse()

	if *versionFlag {
		fmt.Printf("vsenv version %s\n", version)
		return
	}

	level := slog.LevelWarn
	if *verboseFlag {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := LoadConfig(*configFlag)
	if err != nil {
		fatal(err)
	}
	overlayFlags(cfg, pflag.CommandLine, *archFlag, *forceFlag, *envFileFlag)

	if err := run(cfg, logger, *commandFlag, *printFlag, pflag.Args()); err != nil {
		fatal(err)
	}
}

// overlayFlags applies command line flags on top of the loaded configuration.
// Unset flags leave the config values alone; an explicit --force=false wins
// over the file.
func overlayFlags(cfg *Config, flags *pflag.FlagSet, arch string, force bool, envFile string) {
	if arch != "" {
		cfg.Arch = arch
	}
	if flags.Changed("force") {
		cfg.Force = force
	}
	if envFile != "" {
		cfg.EnvFile = envFile
	}
}

// fatal prints a single error: line to stderr and exits non-zero.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func run(cfg *Config, logger *slog.Logger, command string, print bool, args []string) error {
	if cfg.Arch != "" {
		if err := validateArch(cfg.Arch); err != nil {
			return err
		}
	}

	argv := args
	if command != "" {
		if len(argv) > 0 {
			return fmt.Errorf("cannot combine --command with command arguments")
		}
		parts, err := parseCommand(command)
		if err != nil {
			return err
		}
		argv = parts
	}

	base := environFromOS()
	boot := NewBootstrap(cfg, logger, base)
	env, err := boot.CommandEnv(base)
	if err != nil {
		return err
	}

	if print {
		for _, kv := range env.Environ() {
			fmt.Println(kv)
		}
		return nil
	}

	if len(argv) == 0 {
		argv = interactiveShell(env)
		if argv == nil {
			pflag.Usage()
			return fmt.Errorf("no command given")
		}
		logger.Debug("starting interactive shell", "shell", argv[0])
	}

	env.Apply()
	return launch(argv, env)
}

// parseCommand splits a shell-style command string into an argument vector.
func parseCommand(command string) ([]string, error) {
	parts, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return parts, nil
}

// interactiveShell picks the shell to drop the user into when no command is
// given. Only a terminal gets one; with stdin piped the caller reports a
// usage error instead.
func interactiveShell(env Environment) []string {
	fd := os.Stdin.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return nil
	}
	if runtime.GOOS == "windows" {
		if comspec := env.Get("ComSpec"); comspec != "" {
			return []string{comspec}
		}
		return []string{"cmd.exe"}
	}
	if shell := env.Get("SHELL"); shell != "" {
		return []string{shell}
	}
	return []string{"/bin/sh"}
}
