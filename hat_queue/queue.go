package hat_queue

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"time"

	"santa_hat_bot/compositor"
	"santa_hat_bot/entities"
	"santa_hat_bot/hat_asset"
	"santa_hat_bot/image_fetcher"
	"santa_hat_bot/repositories"
	"santa_hat_bot/repositories/default_settings"
	"santa_hat_bot/repositories/hat_composites"

	"github.com/bwmarrin/discordgo"
)

const (
	botID = "bot"

	initializedScale    = 0.6
	initializedOffsetX  = 0
	initializedOffsetY  = -10
	initializedRotation = 0
)

type queueImpl struct {
	botSession          *discordgo.Session
	imageFetcher        image_fetcher.Fetcher
	hatLoader           hat_asset.Loader
	hatCompositor       compositor.Compositor
	queue               chan *QueueItem
	currentItem         *QueueItem
	mu                  sync.Mutex
	hatCompositeRepo    hat_composites.Repository
	defaultSettingsRepo default_settings.Repository
	botDefaultSettings  *entities.DefaultSettings
}

type Config struct {
	ImageFetcher        image_fetcher.Fetcher
	HatLoader           hat_asset.Loader
	HatCompositeRepo    hat_composites.Repository
	DefaultSettingsRepo default_settings.Repository
}

func New(cfg Config) (Queue, error) {
	if cfg.ImageFetcher == nil {
		return nil, errors.New("missing image fetcher")
	}

	if cfg.HatLoader == nil {
		return nil, errors.New("missing hat asset loader")
	}

	if cfg.HatCompositeRepo == nil {
		return nil, errors.New("missing hat composite repository")
	}

	if cfg.DefaultSettingsRepo == nil {
		return nil, errors.New("missing default settings repository")
	}

	hatCompositor, err := compositor.New(compositor.Config{})
	if err != nil {
		return nil, err
	}

	return &queueImpl{
		imageFetcher:        cfg.ImageFetcher,
		hatLoader:           cfg.HatLoader,
		hatCompositor:       hatCompositor,
		queue:               make(chan *QueueItem, 100),
		hatCompositeRepo:    cfg.HatCompositeRepo,
		defaultSettingsRepo: cfg.DefaultSettingsRepo,
	}, nil
}

type ItemType int

const (
	ItemTypeNewHat ItemType = iota
	ItemTypeAdjustment
)

// QueueItemOptions carries the placement overrides given on the slash
// command. Nil fields fall back to the bot defaults.
type QueueItemOptions struct {
	Scale    *float64
	OffsetX  *int
	OffsetY  *int
	Rotation *int
}

type QueueItem struct {
	Type               ItemType
	SourceImageURL     string
	Options            QueueItemOptions
	Adjustment         Adjustment
	DiscordInteraction *discordgo.Interaction
}

func (q *queueImpl) AddHat(item *QueueItem) (int, error) {
	q.queue <- item

	linePosition := len(q.queue)

	return linePosition, nil
}

func (q *queueImpl) StartPolling(botSession *discordgo.Session) {
	q.botSession = botSession

	botDefaultSettings, err := q.initializeOrGetBotDefaults()
	if err != nil {
		log.Printf("Error getting/initializing bot default settings: %v", err)

		return
	}

	q.setBotDefaultSettings(botDefaultSettings)

	log.Println("Press Ctrl+C to exit")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	stopPolling := false

	for {
		select {
		case <-stop:
			stopPolling = true
		case <-time.After(1 * time.Second):
			if q.idle() {
				q.pullNextInQueue()
			}
		}

		if stopPolling {
			break
		}
	}

	log.Printf("Polling stopped...\n")
}

func (q *queueImpl) idle() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.currentItem == nil
}

func (q *queueImpl) pullNextInQueue() {
	if len(q.queue) > 0 {
		element := <-q.queue

		q.mu.Lock()
		defer q.mu.Unlock()

		q.currentItem = element

		q.processCurrentItem()
	}
}

func (q *queueImpl) initializeOrGetBotDefaults() (*entities.DefaultSettings, error) {
	botDefaultSettings, err := q.getBotDefaultSettings()
	if err != nil && !errors.Is(err, &repositories.NotFoundError{}) {
		return nil, err
	}

	if botDefaultSettings == nil {
		botDefaultSettings, err = q.defaultSettingsRepo.Upsert(context.Background(), &entities.DefaultSettings{
			MemberID: botID,
			Scale:    initializedScale,
			OffsetX:  initializedOffsetX,
			OffsetY:  initializedOffsetY,
			Rotation: initializedRotation,
		})
		if err != nil {
			return nil, err
		}

		log.Printf("Initialized bot default settings: %+v\n", botDefaultSettings)
	} else {
		log.Printf("Retrieved bot default settings: %+v\n", botDefaultSettings)
	}

	return botDefaultSettings, nil
}

func (q *queueImpl) getBotDefaultSettings() (*entities.DefaultSettings, error) {
	q.mu.Lock()
	cached := q.botDefaultSettings
	q.mu.Unlock()

	if cached != nil {
		return cached, nil
	}

	defaultSettings, err := q.defaultSettingsRepo.GetByMemberID(context.Background(), botID)
	if err != nil {
		return nil, err
	}

	q.setBotDefaultSettings(defaultSettings)

	return defaultSettings, nil
}

// setBotDefaultSettings publishes a settings snapshot. The cached value is
// replaced, never mutated in place.
func (q *queueImpl) setBotDefaultSettings(settings *entities.DefaultSettings) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.botDefaultSettings = settings
}

func (q *queueImpl) GetBotDefaultSettings() (*entities.DefaultSettings, error) {
	return q.getBotDefaultSettings()
}

func (q *queueImpl) UpdateDefaultScale(scale float64) error {
	defaultSettings, err := q.getBotDefaultSettings()
	if err != nil {
		return err
	}

	updated := *defaultSettings
	updated.Scale = scale

	newDefaultSettings, err := q.defaultSettingsRepo.Upsert(context.Background(), &updated)
	if err != nil {
		return err
	}

	q.setBotDefaultSettings(newDefaultSettings)

	log.Printf("Updated default hat size to: %.2f\n", scale)

	return nil
}

func (q *queueImpl) UpdateDefaultRotation(rotation int) error {
	defaultSettings, err := q.getBotDefaultSettings()
	if err != nil {
		return err
	}

	updated := *defaultSettings
	updated.Rotation = rotation

	newDefaultSettings, err := q.defaultSettingsRepo.Upsert(context.Background(), &updated)
	if err != nil {
		return err
	}

	q.setBotDefaultSettings(newDefaultSettings)

	log.Printf("Updated default hat tilt to: %d\n", rotation)

	return nil
}

func (q *queueImpl) UpdateDefaultOffsetY(offsetY int) error {
	defaultSettings, err := q.getBotDefaultSettings()
	if err != nil {
		return err
	}

	updated := *defaultSettings
	updated.OffsetY = offsetY

	newDefaultSettings, err := q.defaultSettingsRepo.Upsert(context.Background(), &updated)
	if err != nil {
		return err
	}

	q.setBotDefaultSettings(newDefaultSettings)

	log.Printf("Updated default hat height to: %d\n", offsetY)

	return nil
}

// processCurrentItem is called with q.mu held.
func (q *queueImpl) processCurrentItem() {
	item := q.currentItem

	go func() {
		defer func() {
			q.mu.Lock()
			defer q.mu.Unlock()

			q.currentItem = nil
		}()

		if item.Type == ItemTypeAdjustment {
			q.processAdjustment(item)

			return
		}

		q.processNewHat(item)
	}()
}

func (q *queueImpl) processNewHat(item *QueueItem) {
	log.Printf("Santifying picture for interaction #%s: %v\n", item.DiscordInteraction.ID, item.SourceImageURL)

	defaults, err := q.getBotDefaultSettings()
	if err != nil {
		log.Printf("Error getting bot default settings: %v", err)

		q.editErrorResponse(item.DiscordInteraction, friendlyRenderError(err))

		return
	}

	placement := resolvePlacement(item.Options, placementFromDefaults(defaults))

	q.renderAndRespond(item, item.SourceImageURL, placement)
}

func (q *queueImpl) processAdjustment(item *QueueItem) {
	interactionID := item.DiscordInteraction.ID
	messageID := ""

	if item.DiscordInteraction.Message != nil {
		messageID = item.DiscordInteraction.Message.ID
	}

	log.Printf("Adjusting hat: %v, Message: %v, Adjustment: %d", interactionID, messageID, item.Adjustment)

	previous, err := q.hatCompositeRepo.GetByMessage(context.Background(), messageID)
	if err != nil {
		log.Printf("Error getting hat composite: %v", err)

		q.editErrorResponse(item.DiscordInteraction,
			"I'm sorry, but I couldn't find the picture behind that button anymore.")

		return
	}

	defaults, err := q.getBotDefaultSettings()
	if err != nil {
		log.Printf("Error getting bot default settings: %v", err)

		q.editErrorResponse(item.DiscordInteraction, friendlyRenderError(err))

		return
	}

	placement := Placement{
		Scale:    previous.Scale,
		OffsetX:  previous.OffsetX,
		OffsetY:  previous.OffsetY,
		Rotation: previous.Rotation,
	}.Adjust(item.Adjustment, placementFromDefaults(defaults), previous.BaseWidth, previous.BaseHeight)

	q.renderAndRespond(item, previous.SourceImageURL, placement)
}

type renderResult struct {
	image      *bytes.Buffer
	placement  Placement
	baseWidth  int
	baseHeight int
}

func (q *queueImpl) renderHat(sourceImageURL string, placement Placement) (*renderResult, error) {
	sourceData, err := q.imageFetcher.FetchImage(sourceImageURL)
	if err != nil {
		return nil, fmt.Errorf("error fetching source image: %w", err)
	}

	baseImage, err := compositor.DecodeBytes(sourceData)
	if err != nil {
		return nil, err
	}

	baseBounds := baseImage.Bounds()
	placement = placement.Clamp(baseBounds.Dx(), baseBounds.Dy())

	hatImage, err := q.hatLoader.Load()
	if err != nil {
		return nil, err
	}

	composited, err := q.hatCompositor.Composite(baseImage, hatImage,
		placement.Scale, placement.OffsetX, placement.OffsetY, placement.Rotation)
	if err != nil {
		return nil, err
	}

	imageBuf, err := q.hatCompositor.EncodePNG(composited)
	if err != nil {
		return nil, err
	}

	return &renderResult{
		image:      imageBuf,
		placement:  placement,
		baseWidth:  baseBounds.Dx(),
		baseHeight: baseBounds.Dy(),
	}, nil
}

func (q *queueImpl) renderAndRespond(item *QueueItem, sourceImageURL string, placement Placement) {
	result, err := q.renderHat(sourceImageURL, placement)
	if err != nil {
		log.Printf("Error rendering hat for interaction %v: %v", item.DiscordInteraction.ID, err)

		q.editErrorResponse(item.DiscordInteraction, friendlyRenderError(err))

		return
	}

	finishedContent := hatMessageContent(item.DiscordInteraction.Member.User, result.placement)

	message, err := q.botSession.InteractionResponseEdit(item.DiscordInteraction, &discordgo.WebhookEdit{
		Content: &finishedContent,
		Files: []*discordgo.File{
			{
				ContentType: "image/png",
				Name:        "santa_hat.png",
				Reader:      result.image,
			},
		},
		Components: adjustmentButtons(),
	})
	if err != nil {
		log.Printf("Error editing interaction: %v\n", err)

		return
	}

	_, err = q.hatCompositeRepo.Create(context.Background(), &entities.HatComposite{
		InteractionID:  item.DiscordInteraction.ID,
		MessageID:      message.ID,
		MemberID:       item.DiscordInteraction.Member.User.ID,
		SourceImageURL: sourceImageURL,
		BaseWidth:      result.baseWidth,
		BaseHeight:     result.baseHeight,
		Scale:          result.placement.Scale,
		OffsetX:        result.placement.OffsetX,
		OffsetY:        result.placement.OffsetY,
		Rotation:       result.placement.Rotation,
	})
	if err != nil {
		log.Printf("Error creating hat composite record: %v\n", err)
	}
}

func (q *queueImpl) editErrorResponse(interaction *discordgo.Interaction, content string) {
	_, err := q.botSession.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
	if err != nil {
		log.Printf("Error editing interaction: %v", err)
	}
}

func friendlyRenderError(err error) string {
	switch {
	case errors.Is(err, &hat_asset.AssetMissingError{}):
		return "I'm sorry, but I seem to have misplaced my santa hat. Please let my operator know."
	case errors.Is(err, &compositor.DecodeError{}):
		return "I'm sorry, but I couldn't read that picture. I can only put hats on PNG and JPEG images."
	case errors.Is(err, &compositor.InvalidParameterError{}):
		return "I'm sorry, but that hat placement doesn't work. Try a different size."
	default:
		return "I'm sorry, but I had a problem putting a hat on that picture."
	}
}

func hatMessageContent(user *discordgo.User, placement Placement) string {
	return fmt.Sprintf("<@%s> asked me to santify a picture, here it is with the hat at size %.2f, offset (%+d, %+d), tilt %+d°.",
		user.ID, placement.Scale, placement.OffsetX, placement.OffsetY, placement.Rotation)
}

func adjustmentButtons() *[]discordgo.MessageComponent {
	return &[]discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Bigger",
					Style:    discordgo.SecondaryButton,
					Disabled: false,
					CustomID: "hat_bigger",
					Emoji: discordgo.ComponentEmoji{
						Name: "➕",
					},
				},
				discordgo.Button{
					Label:    "Smaller",
					Style:    discordgo.SecondaryButton,
					Disabled: false,
					CustomID: "hat_smaller",
					Emoji: discordgo.ComponentEmoji{
						Name: "➖",
					},
				},
				discordgo.Button{
					Label:    "Tilt left",
					Style:    discordgo.SecondaryButton,
					Disabled: false,
					CustomID: "hat_tilt_left",
					Emoji: discordgo.ComponentEmoji{
						Name: "↩️",
					},
				},
				discordgo.Button{
					Label:    "Tilt right",
					Style:    discordgo.SecondaryButton,
					Disabled: false,
					CustomID: "hat_tilt_right",
					Emoji: discordgo.ComponentEmoji{
						Name: "↪️",
					},
				},
				discordgo.Button{
					Label:    "Reset",
					Style:    discordgo.PrimaryButton,
					Disabled: false,
					CustomID: "hat_reset",
					Emoji: discordgo.ComponentEmoji{
						Name: "🔄",
					},
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Left",
					Style:    discordgo.SecondaryButton,
					Disabled: false,
					CustomID: "hat_left",
					Emoji: discordgo.ComponentEmoji{
						Name: "⬅️",
					},
				},
				discordgo.Button{
					Label:    "Right",
					Style:    discordgo.SecondaryButton,
					Disabled: false,
					CustomID: "hat_right",
					Emoji: discordgo.ComponentEmoji{
						Name: "➡️",
					},
				},
				discordgo.Button{
					Label:    "Up",
					Style:    discordgo.SecondaryButton,
					Disabled: false,
					CustomID: "hat_up",
					Emoji: discordgo.ComponentEmoji{
						Name: "⬆️",
					},
				},
				discordgo.Button{
					Label:    "Down",
					Style:    discordgo.SecondaryButton,
					Disabled: false,
					CustomID: "hat_down",
					Emoji: discordgo.ComponentEmoji{
						Name: "⬇️",
					},
				},
			},
		},
	}
}
