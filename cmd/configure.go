package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	tele "gopkg.in/telebot.v3"

	"github.com/groovia/groovia/internal/config"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Configure the bot",
	Long: `Configure the bot interactively.

This command will guide you through setup:
1. You'll be prompted to enter your Telegram bot token
2. The token is verified against the Telegram API
3. Admin user IDs and the catalog URL are recorded in your config file

You can create a bot token by messaging @BotFather on Telegram.`,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Println("Groovia Setup")
	fmt.Println("=============")
	fmt.Println()
	fmt.Println("You can create a bot token by messaging @BotFather on Telegram.")
	fmt.Println()

	// Check if we already have a token
	if cfg.Telegram.Token != "" {
		fmt.Println("Found an existing bot token.")
		fmt.Print("\nUse existing token? [Y/n]: ")
		response, err := reader.ReadString('\n')
		if err != nil {
			response = "y"
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "" && response != "y" && response != "yes" {
			cfg.Telegram.Token = ""
		}
	}

	// Prompt for token if not set
	if cfg.Telegram.Token == "" {
		fmt.Print("Enter your Telegram bot token: ")
		botToken, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read bot token: %w", err)
		}
		cfg.Telegram.Token = strings.TrimSpace(botToken)
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("bot token is required")
	}

	// Verify the token against Telegram
	fmt.Println("\nVerifying bot token...")
	bot, err := tele.NewBot(tele.Settings{Token: cfg.Telegram.Token, Synchronous: true})
	if err != nil {
		return fmt.Errorf("token verification failed: %w", err)
	}
	fmt.Printf("✓ Authenticated as @%s\n", bot.Me.Username)

	// Prompt for admin IDs
	fmt.Print("\nEnter admin user IDs (comma-separated, empty to keep current): ")
	line, err := reader.ReadString('\n')
	if err == nil && strings.TrimSpace(line) != "" {
		var admins []int64
		for _, field := range strings.Split(line, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid admin ID %q: %w", strings.TrimSpace(field), err)
			}
			admins = append(admins, id)
		}
		cfg.Telegram.AdminIDs = admins
	}

	// Prompt for catalog base URL
	fmt.Print("Enter catalog API base URL (empty for default): ")
	line, err = reader.ReadString('\n')
	if err == nil {
		cfg.Catalog.BaseURL = strings.TrimSpace(line)
	}

	// Save config
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath := config.GetConfigDir()
	fmt.Printf("\n✓ Configuration saved to %s/config.yaml\n", configPath)
	fmt.Println("\nYou can now use 'groovia run' to start the bot.")

	return nil
}
