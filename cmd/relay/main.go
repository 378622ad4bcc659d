// Command relay translates documents and answers prompts through a chain of model providers.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ZaguanLabs/relay"
	"github.com/ZaguanLabs/relay/cache"
	"github.com/ZaguanLabs/relay/config"
	"github.com/ZaguanLabs/relay/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the global flags and streams shared by every subcommand.
type app struct {
	configFile string
	debug      bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   relay.Name,
		Short: relay.Description,
		Long: `relay translates documents and answers single prompts through a chain of
model providers, falling back across credentials, providers and models.

Configuration is read from the environment (GROQ_API_KEY, OPENROUTER_API_KEY,
CACHE_BACKEND, ...) and optionally from a config file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (yaml, json or toml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(a),
		newTranslateCmd(a),
		newAskCmd(a),
		newCacheCmd(a),
		newVersionCmd(a),
	)

	return root
}

// logger writes structured logs to stderr; stdout is reserved for results.
func (a *app) logger() *zap.Logger {
	level := zapcore.InfoLevel
	encCfg := zap.NewProductionEncoderConfig()
	if a.debug {
		level = zapcore.DebugLevel
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(a.stderr), level)
	return zap.New(core)
}

func (a *app) loadConfig() (*config.Config, error) {
	var opts []config.Option
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	return config.Load(opts...)
}

// services loads configuration and wires every component. The caller must Close the result.
func (a *app) services(ctx context.Context) (*config.Config, *config.Services, *zap.Logger, error) {
	logger := a.logger()

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	svc, err := config.Build(ctx, cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing services: %w", err)
	}
	return cfg, svc, logger, nil
}

// ---------------------------------------------------------------------------
// serve
// ---------------------------------------------------------------------------

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API:

  POST /api/translate   translate a document
  POST /api/ai          answer a single prompt
  GET  /health          report configured providers`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, svc, logger, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()
			defer logger.Sync()

			if addr == "" {
				addr = cfg.HTTP.Addr
			}

			r := server.New(server.Options{
				Translator:     svc.Translator,
				Completer:      svc.Completer,
				Providers:      svc.Registry,
				Logger:         logger,
				RequestTimeout: cfg.HTTP.RequestTimeout,
			})
			return server.Serve(cmd.Context(), addr, r, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: HTTP_ADDR)")
	return cmd
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd(a *app) *cobra.Command {
	var (
		targetLang  string
		sourceLang  string
		contextType string
		inputFile   string
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate text or a file",
		Long: `Translate text given as arguments, read from --file, or read from stdin.

The translated text is written to stdout. Chunks that no provider could
translate are left in the source language and reported as degraded.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetLang == "" {
				return fmt.Errorf("--to is required")
			}

			text, err := a.readInput(args, inputFile)
			if err != nil {
				return err
			}

			_, svc, logger, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()
			defer logger.Sync()

			result, err := svc.Translator.Translate(cmd.Context(), relay.Request{
				Text:        text,
				TargetLang:  targetLang,
				SourceLang:  sourceLang,
				ContextType: relay.ContextType(contextType),
			})
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}

			if jsonOutput {
				return writeJSON(a.stdout, result)
			}
			fmt.Fprintln(a.stdout, result.TranslatedText)
			if result.Degraded {
				fmt.Fprintln(a.stderr, "warning: some chunks were left untranslated")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetLang, "to", "t", "", "Target language code (e.g., fr, pt_BR)")
	cmd.Flags().StringVarP(&sourceLang, "from", "s", relay.SourceAuto, "Source language code")
	cmd.Flags().StringVar(&contextType, "context", string(relay.ContextGeneral), "Content type: general, chat, summary, notes, quiz, html")
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "Read input from a file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	return cmd
}

// ---------------------------------------------------------------------------
// ask
// ---------------------------------------------------------------------------

func newAskCmd(a *app) *cobra.Command {
	var (
		model      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send a single prompt through the provider chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := a.readInput(args, "")
			if err != nil {
				return err
			}

			_, svc, logger, err := a.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()
			defer logger.Sync()

			completion, err := svc.Completer.Complete(cmd.Context(), prompt, model)
			if err != nil {
				return fmt.Errorf("%s: %w", relay.CodeOf(err), err)
			}

			if jsonOutput {
				return writeJSON(a.stdout, server.CompleteResponse{
					Message:  completion.Text,
					Provider: completion.Provider,
					Model:    completion.Model,
				})
			}
			fmt.Fprintln(a.stdout, completion.Text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "Provider name or model id to try first")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output result as JSON")
	return cmd
}

// ---------------------------------------------------------------------------
// cache
// ---------------------------------------------------------------------------

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the translation cache",
	}

	export := &cobra.Command{
		Use:   "export <file>",
		Short: "Write every cached translation to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			store, closer, err := config.OpenCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer()
			}

			n, err := cache.NewExporter(store).ExportToFile(cmd.Context(), args[0], map[string]string{
				"backend": cfg.Cache.Backend,
				"version": relay.FullVersion(),
			})
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			fmt.Fprintf(a.stdout, "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}

	imp := &cobra.Command{
		Use:   "import <file>",
		Short: "Load cached translations from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			store, closer, err := config.OpenCache(cmd.Context(), cfg.Cache)
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer()
			}

			res, err := cache.NewImporter(store).ImportFromFile(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}
			fmt.Fprintf(a.stdout, "Imported %d entries (%d failed) from %s\n", res.Imported, res.Failed, args[0])
			return nil
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd(a *app) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := relay.Info()
			if jsonOutput {
				return writeJSON(a.stdout, info)
			}
			fmt.Fprintf(a.stdout, "%s version %s\n", info.Name, info.Version)
			fmt.Fprintf(a.stdout, "  commit:    %s\n", info.Commit)
			fmt.Fprintf(a.stdout, "  built:     %s\n", info.BuildDate)
			fmt.Fprintf(a.stdout, "  go:        %s\n", info.GoVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// readInput joins args, or reads file, or falls back to stdin.
func (a *app) readInput(args []string, file string) (string, error) {
	switch {
	case len(args) > 0:
		return strings.Join(args, " "), nil
	case file != "":
		data, err := os.ReadFile(file) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
