package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/yudhapratama/manpower/internal/config"
	"github.com/yudhapratama/manpower/pkg/clients/sheetsclient"
	"github.com/yudhapratama/manpower/pkg/core/allocator"
	"github.com/yudhapratama/manpower/pkg/core/services"
	"github.com/yudhapratama/manpower/pkg/postgres"
	"github.com/yudhapratama/manpower/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg          *config.Config
	database     *postgres.DB
	sheetsClient *sheetsclient.Client
	logger       *zap.Logger
	ctx          context.Context
}

var (
	env string
	app *App
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "manpower",
		Short: "Manpower CLI - Fulfill manpower requests",
		Long:  `A CLI tool for generating manpower requests and assigning employees to them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
			if app != nil && app.database != nil {
				app.database.Close()
			}
		},
	}

	// Add persistent environment flag
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")

	// Add all commands
	rootCmd.AddCommand(listRequestsCmd())
	rootCmd.AddCommand(listEmployeesCmd())
	rootCmd.AddCommand(fulfillCmd())
	rootCmd.AddCommand(bulkFulfillCmd())
	rootCmd.AddCommand(generateRequestsCmd())
	rootCmd.AddCommand(publishBoardCmd())
	rootCmd.AddCommand(interactiveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, and database
func initApp() error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Initialize logger
	app.logger, err = logging.InitLogger(env)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.logger.Info("Loading configuration")
	app.cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	// Connect to database and apply migrations
	app.logger.Info("Connecting to database")
	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := app.database.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	app.logger.Info("Database initialized successfully")

	return nil
}

// getSheetsClient lazily initializes the sheets client. Only publishBoard
// needs it, so the OAuth flow is deferred until then.
func getSheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	app.logger.Info("Loading sheets credentials")
	creds, err := config.LoadSheetsCredentialsWithEnv(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load sheets credentials: %w", err)
	}

	app.logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.ctx, creds, env)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	app.sheetsClient = client
	return client, nil
}

// resolveStrategy picks the strategy from the flag, falling back to the
// configured default, then to optimal.
func resolveStrategy(flagValue string) (allocator.Strategy, error) {
	raw := flagValue
	if raw == "" {
		raw = app.cfg.DefaultStrategy
	}
	if raw == "" {
		raw = string(allocator.StrategyOptimal)
	}
	return allocator.ParseStrategy(raw)
}

// Command definitions

func listRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listRequests <date>",
		Short: "List all manpower requests for a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]

			summaries, err := services.ViewRequests(app.ctx, app.database, date, app.logger)
			if err != nil {
				return err
			}

			if len(summaries) == 0 {
				fmt.Printf("\nNo requests found for %s.\n", date)
				return nil
			}

			fmt.Printf("\nFound %d requests for %s:\n\n", len(summaries), date)
			for _, s := range summaries {
				req := s.Request
				line := ""
				if req.LineManaged {
					line = " [line-managed]"
				}
				fmt.Printf("- %s  %s (section %s)  %d/%d assigned  M:%d F:%d  %s%s\n",
					req.ID,
					req.SubsectionID,
					req.SectionID,
					s.Assigned,
					req.RequestedAmount,
					req.MaleCount,
					req.FemaleCount,
					req.Status,
					line,
				)
			}
			fmt.Println()

			return nil
		},
	}
}

func listEmployeesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "listEmployees",
		Short: "List all employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			employees, err := app.database.GetEmployees(app.ctx)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}

			app.logger.Info("Employees fetched successfully", zap.Int("count", len(employees)))

			fmt.Printf("\nFound %d employees:\n\n", len(employees))
			for _, e := range employees {
				fmt.Printf("- %s %s (%s, %s) score %.1f - %s\n",
					e.ID,
					e.Name,
					e.Gender,
					e.EmploymentType,
					e.WorkloadPoints+e.BlindTestPoints+e.RatingPoints,
					e.Status,
				)
			}
			fmt.Println()

			return nil
		},
	}
}

func fulfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fulfill <request_id>",
		Short: "Assign the best available employees to one request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			requestID := args[0]
			strategyFlag, _ := cmd.Flags().GetString("strategy")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			strategy, err := resolveStrategy(strategyFlag)
			if err != nil {
				return err
			}

			record, err := app.database.GetRequest(app.ctx, requestID)
			if err != nil {
				return err
			}
			if record == nil {
				return fmt.Errorf("request %s not found", requestID)
			}
			lineManaged := app.cfg.IsLineManagedSubsection(record.SubsectionID)

			result, err := services.FulfillRequest(
				app.ctx,
				app.database,
				requestID,
				strategy,
				lineManaged,
				app.logger,
				dryRun,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\nRequest %s: %d assigned, shortfall %d\n",
				result.RequestID, len(result.Assigned), result.Shortfall)
			for i, id := range result.Assigned {
				fmt.Printf("  %2d. %s\n", i+1, id)
			}
			if result.Saved {
				fmt.Printf("\nSaved as batch %s\n\n", result.BatchID)
			} else if dryRun {
				fmt.Println("\nDry run - nothing saved")
			} else {
				fmt.Println("\nNot saved - request not fully covered")
			}

			return nil
		},
	}

	cmd.Flags().String("strategy", "", "Pool ordering strategy (optimal, same_section, balanced)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}

func bulkFulfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulkFulfill <date>",
		Short: "Assign employees to every pending request of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			strategyFlag, _ := cmd.Flags().GetString("strategy")
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			force, _ := cmd.Flags().GetBool("force")

			strategy, err := resolveStrategy(strategyFlag)
			if err != nil {
				return err
			}

			result, err := services.BulkFulfill(
				app.ctx,
				app.database,
				app.cfg,
				date,
				strategy,
				app.logger,
				dryRun,
				force,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\nBatch for %s: %d requests, %d complete, shortfall %d\n\n",
				result.Date, result.Requests, result.Complete, result.Shortfall)
			for requestID, assigned := range result.Assignments {
				fmt.Printf("- %s: %d assigned\n", requestID, len(assigned))
			}
			if result.Saved {
				fmt.Printf("\nSaved as batch %s\n\n", result.BatchID)
			} else if dryRun {
				fmt.Println("\nDry run - nothing saved")
			} else {
				fmt.Println("\nNot saved - batch incomplete (use --force to save complete requests)")
			}

			return nil
		},
	}

	cmd.Flags().String("strategy", "", "Pool ordering strategy (optimal, same_section, balanced)")
	cmd.Flags().Bool("dry-run", false, "Run without saving to database")
	cmd.Flags().Bool("force", false, "Save complete requests even when the batch is incomplete")

	return cmd
}

func generateRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generateRequests <start_date> <days>",
		Short: "Expand the configured request templates over a date window",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate := args[0]
			days, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("days must be a number: %w", err)
			}
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			result, err := services.GenerateRequests(
				app.ctx,
				app.database,
				app.cfg,
				startDate,
				days,
				app.logger,
				dryRun,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\nGenerated %d requests from %d templates (%s to %s)\n",
				result.Generated, result.Templates, result.Start, result.End)
			if result.Saved {
				fmt.Println("Saved to database")
			} else {
				fmt.Println("Dry run - nothing saved")
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without saving to database")

	return cmd
}

func publishBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publishBoard <date>",
		Short: "Publish the fulfilled assignment board to the configured sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date := args[0]
			includePrivate, _ := cmd.Flags().GetBool("include-private")
			appendOnly, _ := cmd.Flags().GetBool("append")

			client, err := getSheetsClient()
			if err != nil {
				return err
			}

			result, err := services.PublishBoard(
				app.ctx,
				app.database,
				client,
				app.cfg,
				date,
				includePrivate,
				appendOnly,
				app.logger,
			)
			if err != nil {
				return err
			}

			fmt.Printf("\nPublished %d rows (%d requests) to sheet %s tab %s\n\n",
				result.Rows, result.Requests, result.SheetID, result.Tab)

			return nil
		},
	}

	cmd.Flags().Bool("include-private", false, "Also publish privately visible schedules")
	cmd.Flags().Bool("append", false, "Append below the existing board instead of replacing it")

	return cmd
}

func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Start an interactive session (connect once, run multiple commands)",
		Long: `Start an interactive session where you can run multiple commands without reconnecting.
The session will keep running until you type 'exit' or 'quit'.

Type 'help' to see available commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("\nStarting interactive session...")
			fmt.Println("Type 'help' for available commands, 'exit' or 'quit' to leave")

			// Get all sibling commands (excluding interactive itself)
			rootCmd := cmd.Parent()
			commands := make(map[string]*cobra.Command)
			for _, subCmd := range rootCmd.Commands() {
				if subCmd.Name() != "interactive" && subCmd.Name() != "completion" && subCmd.Name() != "help" {
					commands[subCmd.Name()] = subCmd
				}
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				fmt.Print("> ")

				if !scanner.Scan() {
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				parts := strings.Fields(line)
				cmdName := parts[0]
				cmdArgs := parts[1:]

				if cmdName == "exit" || cmdName == "quit" {
					fmt.Println("Goodbye!")
					return nil
				}

				if cmdName == "help" {
					printInteractiveHelp(commands)
					continue
				}

				targetCmd, exists := commands[cmdName]
				if !exists {
					fmt.Printf("Unknown command: %s (type 'help' for available commands)\n\n", cmdName)
					continue
				}

				// Reset command flags and args
				targetCmd.Flags().VisitAll(func(flag *pflag.Flag) {
					flag.Changed = false
					flag.Value.Set(flag.DefValue)
				})

				// Execute the command's RunE directly, bypassing the full
				// Execute() flow so initApp() is not run again
				if err := targetCmd.ParseFlags(cmdArgs); err != nil {
					fmt.Printf("Error parsing flags: %v\n\n", err)
					continue
				}

				cmdArgs = targetCmd.Flags().Args()

				if err := targetCmd.Args(targetCmd, cmdArgs); err != nil {
					fmt.Printf("Error: %v\n\n", err)
					continue
				}

				if targetCmd.RunE != nil {
					if err := targetCmd.RunE(targetCmd, cmdArgs); err != nil {
						fmt.Printf("Error: %v\n\n", err)
					}
				} else if targetCmd.Run != nil {
					targetCmd.Run(targetCmd, cmdArgs)
				}
			}

			if err := scanner.Err(); err != nil {
				return fmt.Errorf("error reading input: %w", err)
			}

			return nil
		},
	}
}

func printInteractiveHelp(commands map[string]*cobra.Command) {
	fmt.Println("\nAvailable commands:")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cmd := commands[name]
		fmt.Printf("  %-40s %s\n", cmd.Use, cmd.Short)
	}

	fmt.Println("\n  help                                     Show this help message")
	fmt.Println("  exit, quit                               Exit the interactive session")
}
