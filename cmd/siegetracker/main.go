package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/sirupsen/logrus"

	"siegetracker/internal/bot"
	"siegetracker/internal/config"
	"siegetracker/internal/tracker"
)

var log = logrus.New()

func main() {
	var err error

	var authToken string
	var guildID string
	flag.StringVar(&authToken, "auth", "", "Authentication token for the Discord bot (overrides DISCORD_TOKEN)")
	flag.StringVar(&guildID, "guild", "", "Guild ID to scope slash commands to (overrides GUILD_ID)")
	flag.Parse()

	cfg := config.Load()
	if authToken != "" {
		cfg.Token = authToken
	}
	if guildID != "" {
		cfg.GuildID = guildID
	}

	if cfg.Token == "" {
		flag.Usage()
		os.Exit(1)
	}
	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			log.Fatalln("Invalid log level:", cfg.LogLevel)
		}
		log.SetLevel(level)
	}

	// Construct session. No privileged intents required.
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		log.Fatalln("Error creating discordgo instance:", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds

	// Wire the tracker store into the interaction layer.
	manager := tracker.NewManager()
	b := bot.New(s, manager, log)
	b.Register()

	// Connect to Discord.
	err = s.Open()
	if err != nil {
		log.Fatalln("Error connecting to Discord:", err)
	}
	defer s.Close()

	err = b.RegisterCommands(cfg.GuildID)
	if err != nil {
		log.Fatalln("Error registering commands:", err)
	}
	log.Println("Bot started successfully")

	// Wait for interrupt.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("Terminating gracefully")

	// Guild commands are cheap to re-register on next start; clean them up
	// so a renamed command doesn't linger. Global commands stay.
	if cfg.GuildID != "" {
		if err := b.UnregisterCommands(cfg.GuildID); err != nil {
			log.Errorln("Error unregistering commands:", err)
		}
	}
}
