package discord_bot

import (
	"fmt"
	"log"
	"math"
	"strconv"

	"santa_hat_bot/entities"

	"github.com/bwmarrin/discordgo"
)

func (b *botImpl) processSettingsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	settings, err := b.hatQueue.GetBotDefaultSettings()
	if err != nil {
		log.Printf("Error getting bot default settings: %v", err)

		return
	}

	err = s.InteractionRespond(i.Interaction, ephemeralResponse(
		"Choose the default hat placement for new pictures.",
		settingsMessageComponents(settings)))
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}

func settingsMessageComponents(settings *entities.DefaultSettings) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "santa_default_size",
					Placeholder: "Default hat size",
					Options:     sizeSelectOptions(settings.Scale),
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "santa_default_tilt",
					Placeholder: "Default hat tilt",
					Options:     tiltSelectOptions(settings.Rotation),
				},
			},
		},
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.SelectMenu{
					CustomID:    "santa_default_height",
					Placeholder: "Default hat height",
					Options:     heightSelectOptions(settings.OffsetY),
				},
			},
		},
	}
}

func sizeSelectOptions(current float64) []discordgo.SelectMenuOption {
	options := make([]discordgo.SelectMenuOption, 0, 19)

	for percent := 10; percent <= 100; percent += 5 {
		scale := float64(percent) / 100

		options = append(options, discordgo.SelectMenuOption{
			Label:   fmt.Sprintf("%d%% of the picture width", percent),
			Value:   fmt.Sprintf("%.2f", scale),
			Default: math.Abs(scale-current) < 0.001,
		})
	}

	return options
}

func tiltSelectOptions(current int) []discordgo.SelectMenuOption {
	options := make([]discordgo.SelectMenuOption, 0, 13)

	for degrees := -90; degrees <= 90; degrees += 15 {
		options = append(options, discordgo.SelectMenuOption{
			Label:   fmt.Sprintf("%+d degrees", degrees),
			Value:   strconv.Itoa(degrees),
			Default: degrees == current,
		})
	}

	return options
}

func heightSelectOptions(current int) []discordgo.SelectMenuOption {
	options := make([]discordgo.SelectMenuOption, 0, 11)

	for offset := -50; offset <= 50; offset += 10 {
		options = append(options, discordgo.SelectMenuOption{
			Label:   fmt.Sprintf("%+d px from the top", offset),
			Value:   strconv.Itoa(offset),
			Default: offset == current,
		})
	}

	return options
}

func (b *botImpl) processDefaultSizeSelection(s *discordgo.Session, i *discordgo.InteractionCreate) {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}

	scale, err := strconv.ParseFloat(values[0], 64)
	if err != nil {
		log.Printf("Error parsing default size selection: %v", err)

		return
	}

	err = b.hatQueue.UpdateDefaultScale(scale)
	if err != nil {
		log.Printf("Error updating default hat size: %v", err)

		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("Default hat size set to %.0f%% of the picture width.", scale*100))
}

func (b *botImpl) processDefaultTiltSelection(s *discordgo.Session, i *discordgo.InteractionCreate) {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}

	rotation, err := strconv.Atoi(values[0])
	if err != nil {
		log.Printf("Error parsing default tilt selection: %v", err)

		return
	}

	err = b.hatQueue.UpdateDefaultRotation(rotation)
	if err != nil {
		log.Printf("Error updating default hat tilt: %v", err)

		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("Default hat tilt set to %+d degrees.", rotation))
}

func (b *botImpl) processDefaultHeightSelection(s *discordgo.Session, i *discordgo.InteractionCreate) {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return
	}

	offsetY, err := strconv.Atoi(values[0])
	if err != nil {
		log.Printf("Error parsing default height selection: %v", err)

		return
	}

	err = b.hatQueue.UpdateDefaultOffsetY(offsetY)
	if err != nil {
		log.Printf("Error updating default hat height: %v", err)

		return
	}

	b.respondEphemeral(s, i, fmt.Sprintf("Default hat height set to %+d px from the top.", offsetY))
}

// ephemeralResponse builds an interaction response only the invoking member
// can see.
func ephemeralResponse(content string, components []discordgo.MessageComponent) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Flags:      discordgo.MessageFlagsEphemeral,
			Components: components,
		},
	}
}

func (b *botImpl) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, ephemeralResponse(content, nil))
	if err != nil {
		log.Printf("Error responding to interaction: %v", err)
	}
}
