package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/betconnect/betconnect-go/betconnect"
	"github.com/betconnect/betconnect-go/config"
	"github.com/betconnect/betconnect-go/filter"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *betconnect.Client

	// Command flags
	filterExpr string
	betStatus  string
	betSide    string
	withBets   bool
	pageLimit  int
	pageNumber int
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build metadata shown by --version.
func SetVersion(v, t string) {
	version = v
	buildTime = t
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "betconnect",
	Short: "A CLI for browsing BetConnect markets and bets",
	Long: `betconnect is a CLI for the BetConnect betting exchange API.
It can check connectivity, list active sports, show the account balance
and browse your bets with filter expressions.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(sportsCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(betsCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	opts := []betconnect.Option{
		betconnect.WithTokenValidity(cfg.Session.TokenValidity),
		betconnect.WithRefreshInterval(cfg.Session.RefreshInterval),
		betconnect.WithTimeout(cfg.Session.ReadTimeout),
		betconnect.WithPaging(cfg.Paging.FirstPage, cfg.Paging.MinLimit),
	}
	if strings.EqualFold(cfg.BetConnect.Environment, "production") {
		opts = append(opts,
			betconnect.WithEnvironment(betconnect.Production),
			betconnect.WithProductionURL(cfg.BetConnect.ProductionURL),
		)
	}

	client, err = betconnect.NewClient(
		cfg.BetConnect.Username,
		cfg.BetConnect.Password,
		cfg.BetConnect.APIKey,
		logger,
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to create BetConnect client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; colour only when writing to a terminal
	useColor := cfg.Color && isatty.IsTerminal(os.Stderr.Fd())
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !useColor,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection and credentials",
	Long:  `Log in to BetConnect and display the account summary.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to BetConnect (%s)...\n", client.BaseURL())

	ctx := context.Background()
	if _, err := client.Login(ctx); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Println("✓ Login successful!")

	if prefs, ok := client.CachedPreferences(); ok {
		fmt.Printf("\nAccount:\n")
		fmt.Printf("- Username: %s\n", prefs.Username)
		fmt.Printf("- User ID: %s\n", prefs.UserID)
	}
	if balance, at, ok := client.CachedBalance(); ok {
		fmt.Printf("- Balance: £%.2f (as of %s)\n", balance.Pounds(), at.Format(time.RFC3339))
	}

	return nil
}

// sportsCmd represents the sports command
var sportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "List active sports",
	Long:  `List the sports that currently have open markets on the exchange.`,
	RunE:  runSports,
}

func init() {
	sportsCmd.Flags().BoolVar(&withBets, "with-bets", false, "only sports with bets available")
}

func runSports(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sports, err := client.ActiveSports(ctx, withBets)
	if err != nil {
		return err
	}

	if len(sports) == 0 {
		fmt.Println("No active sports found.")
		return nil
	}

	fmt.Printf("\nFound %d active sports:\n", len(sports))
	fmt.Println(strings.Repeat("-", 60))
	for _, sport := range sports {
		fmt.Printf("• %s (ID: %d)", sport.DisplayName, sport.SportID)
		if sport.BetsAvailable > 0 {
			fmt.Printf(" [%d bets available]", sport.BetsAvailable)
		}
		fmt.Println()
	}

	return nil
}

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the account balance",
	RunE:  runBalance,
}

func runBalance(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	balance, err := client.AccountBalance(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Balance: £%.2f\n", balance.Pounds())
	return nil
}

// betsCmd represents the bets command
var betsCmd = &cobra.Command{
	Use:   "bets",
	Short: "List your bets, optionally narrowed by a filter expression",
	Long: `List your bets for a side and status. Results can be narrowed
client-side with a filter expression, e.g.:

  betconnect bets --filter 'Price > 2.0 && FillPercentage < 100'
  betconnect bets --status settled --filter 'CreatedAt > daysAgo(7)'`,
	RunE: runBets,
}

func init() {
	betsCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	betsCmd.Flags().StringVar(&betStatus, "status", "active", "bet status (active/settled)")
	betsCmd.Flags().StringVar(&betSide, "side", "back", "bet side (back/lay)")
	betsCmd.Flags().IntVar(&pageLimit, "limit", 0, "page size (0 uses server default)")
	betsCmd.Flags().IntVar(&pageNumber, "page", 0, "page number")
}

func runBets(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	page, err := client.MyBets(ctx,
		betconnect.BetSide(strings.ToLower(betSide)), "",
		betconnect.BetRequestStatus(betStatus),
		pageLimit, pageNumber)
	if err != nil {
		return err
	}

	rows := make([]filter.BetRow, 0, len(page.Bets))
	for _, bet := range page.Bets {
		rows = append(rows, filter.FromActiveBet(bet))
	}

	if filterExpr != "" {
		compiled, err := filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		rows = filter.Apply(compiled, rows)
	}

	if len(rows) == 0 {
		fmt.Println("No bets found matching the criteria.")
		return nil
	}

	fmt.Printf("\nFound %d bets (%d total on server):\n", len(rows), page.TotalBets)
	fmt.Println(strings.Repeat("-", 80))
	for _, row := range rows {
		fmt.Printf("• %s - %s @ %.2f", row.FixtureName, row.SelectionName, row.Price)
		fmt.Printf(" [%s, £%.2f staked, %.0f%% filled]\n", row.Status, row.Stake, row.FillPercentage)
	}

	return nil
}
