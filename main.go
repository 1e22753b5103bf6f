package main

import (
	"context"
	"flag"
	"log"

	"santa_hat_bot/databases/sqlite"
	"santa_hat_bot/discord_bot"
	"santa_hat_bot/hat_asset"
	"santa_hat_bot/hat_queue"
	"santa_hat_bot/image_fetcher"
	"santa_hat_bot/repositories/default_settings"
	"santa_hat_bot/repositories/hat_composites"
)

// Bot parameters
var (
	guildID            = flag.String("guild", "", "Guild ID. If not passed - bot registers commands globally")
	botToken           = flag.String("token", "", "Bot access token")
	hatPath            = flag.String("hat", "assets/santa_hat.png", "Path to the santa hat image")
	santifyCommand     = flag.String("santify", "santify", "Santify command name. Default is \"santify\"")
	removeCommandsFlag = flag.Bool("remove", false, "Delete all commands when bot exits")
	devModeFlag        = flag.Bool("dev", false, "Start in development mode, using \"dev_\" prefixed commands instead")
)

func main() {
	flag.Parse()

	if guildID == nil || *guildID == "" {
		log.Fatalf("Guild ID flag is required")
	}

	if botToken == nil || *botToken == "" {
		log.Fatalf("Bot token flag is required")
	}

	if hatPath == nil || *hatPath == "" {
		log.Fatalf("Hat path flag is required")
	}

	if santifyCommand == nil || *santifyCommand == "" {
		log.Fatalf("Santify command flag is required")
	}

	devMode := false

	if devModeFlag != nil && *devModeFlag {
		devMode = *devModeFlag

		log.Printf("Starting in development mode.. all commands prefixed with \"dev_\"")
	}

	removeCommands := false

	if removeCommandsFlag != nil && *removeCommandsFlag {
		removeCommands = *removeCommandsFlag
	}

	hatLoader, err := hat_asset.New(hat_asset.Config{
		Path: *hatPath,
	})
	if err != nil {
		log.Fatalf("Failed to create hat asset loader: %v", err)
	}

	if _, err := hatLoader.Load(); err != nil {
		log.Printf("Warning: could not load the hat asset: %v", err)
	}

	imageFetcher, err := image_fetcher.New(image_fetcher.Config{})
	if err != nil {
		log.Fatalf("Failed to create image fetcher: %v", err)
	}

	ctx := context.Background()

	sqliteDB, err := sqlite.New(ctx)
	if err != nil {
		log.Fatalf("Failed to create sqlite database: %v", err)
	}

	compositeRepo, err := hat_composites.NewRepository(&hat_composites.Config{DB: sqliteDB})
	if err != nil {
		log.Fatalf("Failed to create hat composite repository: %v", err)
	}

	defaultSettingsRepo, err := default_settings.NewRepository(&default_settings.Config{DB: sqliteDB})
	if err != nil {
		log.Fatalf("Failed to create default settings repository: %v", err)
	}

	hatQueue, err := hat_queue.New(hat_queue.Config{
		ImageFetcher:        imageFetcher,
		HatLoader:           hatLoader,
		HatCompositeRepo:    compositeRepo,
		DefaultSettingsRepo: defaultSettingsRepo,
	})
	if err != nil {
		log.Fatalf("Failed to create hat queue: %v", err)
	}

	bot, err := discord_bot.New(discord_bot.Config{
		DevelopmentMode: devMode,
		BotToken:        *botToken,
		GuildID:         *guildID,
		HatQueue:        hatQueue,
		SantifyCommand:  *santifyCommand,
		RemoveCommands:  removeCommands,
	})
	if err != nil {
		log.Fatalf("Error creating Discord bot: %v", err)
	}

	bot.Start()

	log.Println("Gracefully shutting down.")
}
