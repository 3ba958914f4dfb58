// Package main provides the terminal client for the conversion API
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fxconvert/internal/client"
	"fxconvert/internal/controller"
	"fxconvert/internal/form"
	"fxconvert/internal/i18n"
	"fxconvert/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	serverURL string
	locale    string
	logFile   string
	verbose   bool
	timeout   time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert amounts between currencies",
	Long: `convert opens an interactive form that looks up conversions from the
conversion API. Amounts are typed and shown in the selected locale.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !i18n.DefaultRegistry().Supports(locale) {
			return fmt.Errorf("%w: %q (supported: %s)", i18n.ErrUnsupportedLocale, locale,
				strings.Join(i18n.DefaultRegistry().Locales(), ", "))
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		// The form owns the terminal; logs go to a file or nowhere
		if logFile == "" {
			logger = zap.NewNop()
			return nil
		}
		config.OutputPaths = []string{logFile}
		config.ErrorOutputPaths = []string{logFile}

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runForm,
}

var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single conversion and print the result",
	RunE:  runOnce,
}

var currenciesCmd = &cobra.Command{
	Use:   "currencies",
	Short: "List the currencies the server supports",
	RunE:  runCurrencies,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOrDefault("CONVERT_SERVER_URL", "http://localhost:8080"), "Conversion API base URL")
	rootCmd.PersistentFlags().StringVarP(&locale, "locale", "l", systemLocale(), "Locale for amounts and dates (BCP 47)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "HTTP client timeout")

	onceCmd.Flags().String("from", "", "Source currency code")
	onceCmd.Flags().String("to", "", "Target currency code")
	onceCmd.Flags().String("amount", "", "Amount in the selected locale")
	_ = onceCmd.MarkFlagRequired("from")
	_ = onceCmd.MarkFlagRequired("to")
	_ = onceCmd.MarkFlagRequired("amount")

	rootCmd.AddCommand(onceCmd, currenciesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newClient() *client.Client {
	return client.New(serverURL,
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
		client.WithLogger(logger.Named("client")),
	)
}

func runForm(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	normalizer := i18n.NewLocaleNormalizer(i18n.DefaultRegistry())
	ctrl := controller.New(newClient(), controller.WithLogger(logger.Named("controller")))
	model := tui.New(ctx, form.New(normalizer, locale), ctrl, normalizer)

	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("form exited: %w", err)
	}
	return nil
}

func runOnce(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	amount, _ := cmd.Flags().GetString("amount")

	normalizer := i18n.NewLocaleNormalizer(i18n.DefaultRegistry())
	f := form.New(normalizer, locale)
	f.Source.SetValue(from)
	f.Target.SetValue(to)
	f.Amount.SetRaw(amount)

	req, err := f.Request()
	if err != nil {
		return err
	}

	ctrl := controller.New(newClient(), controller.WithLogger(logger.Named("controller")))
	state, err := ctrl.Submit(cmd.Context(), req)
	if err != nil {
		return err
	}

	switch s := state.(type) {
	case controller.Succeeded:
		display, err := normalizer.FormatForDisplay(s.Result.ConvertedAmount, locale)
		if err != nil {
			display = s.Result.ConvertedAmount
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s (%s)\n",
			f.Amount.Raw(), req.SourceCurrency, display, req.TargetCurrency,
			normalizer.FormatDate(s.Result.Date, locale))
		return nil
	case controller.Failed:
		if len(s.Err.Fields) > 0 {
			return fmt.Errorf("%s (fields: %s)", s.Err.Message, strings.Join(s.Err.Fields, ", "))
		}
		return fmt.Errorf("%s", s.Err.Message)
	}
	return fmt.Errorf("unexpected state %T", state)
}

func runCurrencies(cmd *cobra.Command, args []string) error {
	codes, err := newClient().Currencies(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(codes, " "))
	return nil
}

// systemLocale reads the locale from LC_ALL or LANG, e.g. "fi_FI.UTF-8".
// Unsupported values are skipped.
func systemLocale() string {
	registry := i18n.DefaultRegistry()
	for _, key := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		v = strings.ReplaceAll(v, "_", "-")
		if registry.Supports(v) {
			return v
		}
	}
	return i18n.DefaultLocale
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
