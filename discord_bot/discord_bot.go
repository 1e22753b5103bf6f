package discord_bot

import (
	"errors"
	"fmt"
	"log"

	"santa_hat_bot/hat_queue"

	"github.com/bwmarrin/discordgo"
)

type botImpl struct {
	botSession         *discordgo.Session
	guildID            string
	hatQueue           hat_queue.Queue
	santifyCommand     string
	settingsCommand    string
	removeCommands     bool
	registeredCommands []*discordgo.ApplicationCommand
}

type Config struct {
	DevelopmentMode bool
	BotToken        string
	GuildID         string
	HatQueue        hat_queue.Queue
	SantifyCommand  string
	RemoveCommands  bool
}

var adjustmentCustomIDs = map[string]hat_queue.Adjustment{
	"hat_bigger":     hat_queue.AdjustmentBigger,
	"hat_smaller":    hat_queue.AdjustmentSmaller,
	"hat_tilt_left":  hat_queue.AdjustmentTiltLeft,
	"hat_tilt_right": hat_queue.AdjustmentTiltRight,
	"hat_left":       hat_queue.AdjustmentMoveLeft,
	"hat_right":      hat_queue.AdjustmentMoveRight,
	"hat_up":         hat_queue.AdjustmentMoveUp,
	"hat_down":       hat_queue.AdjustmentMoveDown,
	"hat_reset":      hat_queue.AdjustmentReset,
}

func New(cfg Config) (Bot, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("missing bot token")
	}

	if cfg.GuildID == "" {
		return nil, errors.New("missing guild ID")
	}

	if cfg.HatQueue == nil {
		return nil, errors.New("missing hat queue")
	}

	if cfg.SantifyCommand == "" {
		return nil, errors.New("missing santify command name")
	}

	santifyCommand := cfg.SantifyCommand
	settingsCommand := cfg.SantifyCommand + "_settings"

	if cfg.DevelopmentMode {
		santifyCommand = "dev_" + santifyCommand
		settingsCommand = "dev_" + settingsCommand
	}

	botSession, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}

	botSession.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})

	err = botSession.Open()
	if err != nil {
		return nil, err
	}

	bot := &botImpl{
		botSession:         botSession,
		guildID:            cfg.GuildID,
		hatQueue:           cfg.HatQueue,
		santifyCommand:     santifyCommand,
		settingsCommand:    settingsCommand,
		removeCommands:     cfg.RemoveCommands,
		registeredCommands: make([]*discordgo.ApplicationCommand, 0),
	}

	err = bot.addSantifyCommand()
	if err != nil {
		return nil, err
	}

	err = bot.addSettingsCommand()
	if err != nil {
		return nil, err
	}

	botSession.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			switch i.ApplicationCommandData().Name {
			case bot.santifyCommand:
				bot.processSantifyCommand(s, i)
			case bot.settingsCommand:
				bot.processSettingsCommand(s, i)
			default:
				log.Printf("Unknown command '%v'", i.ApplicationCommandData().Name)
			}
		case discordgo.InteractionMessageComponent:
			customID := i.MessageComponentData().CustomID

			if adjustment, ok := adjustmentCustomIDs[customID]; ok {
				bot.processHatAdjustment(s, i, adjustment)

				return
			}

			switch customID {
			case "santa_default_size":
				bot.processDefaultSizeSelection(s, i)
			case "santa_default_tilt":
				bot.processDefaultTiltSelection(s, i)
			case "santa_default_height":
				bot.processDefaultHeightSelection(s, i)
			default:
				log.Printf("Unknown message component '%v'", customID)
			}
		}
	})

	return bot, nil
}

func (b *botImpl) Start() {
	b.hatQueue.StartPolling(b.botSession)

	err := b.teardown()
	if err != nil {
		log.Printf("Error tearing down bot: %v", err)
	}
}

func (b *botImpl) teardown() error {
	if b.removeCommands {
		for _, command := range b.registeredCommands {
			err := b.botSession.ApplicationCommandDelete(b.botSession.State.User.ID, b.guildID, command.ID)
			if err != nil {
				log.Printf("Error deleting '%s' command: %v", command.Name, err)
			}
		}
	}

	return b.botSession.Close()
}

func (b *botImpl) addSantifyCommand() error {
	log.Printf("Adding command '%s'...", b.santifyCommand)

	minSize := float64(hat_queue.MinScale)
	minRotation := float64(hat_queue.MinRotation)

	cmd, err := b.botSession.ApplicationCommandCreate(b.botSession.State.User.ID, b.guildID, &discordgo.ApplicationCommand{
		Name:        b.santifyCommand,
		Description: "Put a santa hat on a picture",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionAttachment,
				Name:        "image",
				Description: "The picture to decorate. Defaults to your avatar",
			},
			{
				Type:        discordgo.ApplicationCommandOptionUser,
				Name:        "user",
				Description: "Decorate this member's avatar instead",
			},
			{
				Type:        discordgo.ApplicationCommandOptionNumber,
				Name:        "size",
				Description: "Hat width as a fraction of the picture width",
				MinValue:    &minSize,
				MaxValue:    hat_queue.MaxScale,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "rotation",
				Description: "Hat tilt in degrees, positive tilts left",
				MinValue:    &minRotation,
				MaxValue:    hat_queue.MaxRotation,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "x",
				Description: "Horizontal nudge in pixels from the centered position",
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "y",
				Description: "Top edge of the hat in pixels, negative pokes above the picture",
			},
		},
	})
	if err != nil {
		log.Printf("Error creating '%s' command: %v", b.santifyCommand, err)

		return err
	}

	b.registeredCommands = append(b.registeredCommands, cmd)

	return nil
}

func (b *botImpl) addSettingsCommand() error {
	log.Printf("Adding command '%s'...", b.settingsCommand)

	cmd, err := b.botSession.ApplicationCommandCreate(b.botSession.State.User.ID, b.guildID, &discordgo.ApplicationCommand{
		Name:        b.settingsCommand,
		Description: "Change the default hat placement",
	})
	if err != nil {
		log.Printf("Error creating '%s' command: %v", b.settingsCommand, err)

		return err
	}

	b.registeredCommands = append(b.registeredCommands, cmd)

	return nil
}

func (b *botImpl) processSantifyCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	invoker := guildUser(i)
	if invoker == nil {
		log.Printf("Ignoring '%s' command invoked outside a guild", b.santifyCommand)

		return
	}

	options := i.ApplicationCommandData().Options

	optionMap := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}

	queueItem := &hat_queue.QueueItem{
		Type:               hat_queue.ItemTypeNewHat,
		SourceImageURL:     b.sourceImageURL(s, i, optionMap, invoker),
		DiscordInteraction: i.Interaction,
	}

	if option, ok := optionMap["size"]; ok {
		scale := option.FloatValue()
		queueItem.Options.Scale = &scale
	}

	if option, ok := optionMap["rotation"]; ok {
		rotation := int(option.IntValue())
		queueItem.Options.Rotation = &rotation
	}

	if option, ok := optionMap["x"]; ok {
		offsetX := int(option.IntValue())
		queueItem.Options.OffsetX = &offsetX
	}

	if option, ok := optionMap["y"]; ok {
		offsetY := int(option.IntValue())
		queueItem.Options.OffsetY = &offsetY
	}

	position, queueError := b.hatQueue.AddHat(queueItem)
	if queueError != nil {
		log.Printf("Error adding hat to queue: %v\n", queueError)
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf(
				"I'm looking for my santa hat. You are currently #%d in line.\n<@%s> asked me to santify a picture.",
				position,
				invoker.ID),
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

// sourceImageURL picks the picture to decorate: an uploaded attachment wins,
// then a mentioned member's avatar, then the invoker's own avatar.
func (b *botImpl) sourceImageURL(s *discordgo.Session, i *discordgo.InteractionCreate,
	optionMap map[string]*discordgo.ApplicationCommandInteractionDataOption, invoker *discordgo.User,
) string {
	if option, ok := optionMap["image"]; ok {
		attachmentID, _ := option.Value.(string)

		if attachment, ok := i.ApplicationCommandData().Resolved.Attachments[attachmentID]; ok {
			return attachment.URL
		}
	}

	if option, ok := optionMap["user"]; ok {
		if user := option.UserValue(s); user != nil {
			return user.AvatarURL("1024")
		}
	}

	return invoker.AvatarURL("1024")
}

// guildUser returns the user behind a guild interaction, nil when the
// interaction did not come from a guild member.
func guildUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member == nil || i.Member.User == nil {
		return nil
	}

	return i.Member.User
}

func (b *botImpl) processHatAdjustment(s *discordgo.Session, i *discordgo.InteractionCreate, adjustment hat_queue.Adjustment) {
	if guildUser(i) == nil {
		log.Printf("Ignoring hat adjustment invoked outside a guild")

		return
	}

	position, queueError := b.hatQueue.AddHat(&hat_queue.QueueItem{
		Type:               hat_queue.ItemTypeAdjustment,
		Adjustment:         adjustment,
		DiscordInteraction: i.Interaction,
	})
	if queueError != nil {
		log.Printf("Error adding hat to queue: %v\n", queueError)
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("I'm adjusting that hat for you... You are currently #%d in line.", position),
		},
	})
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}
