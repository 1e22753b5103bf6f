package hat_queue

import (
	"santa_hat_bot/entities"

	"github.com/bwmarrin/discordgo"
)

type Queue interface {
	AddHat(item *QueueItem) (int, error)
	StartPolling(botSession *discordgo.Session)
	GetBotDefaultSettings() (*entities.DefaultSettings, error)
	UpdateDefaultScale(scale float64) error
	UpdateDefaultRotation(rotation int) error
	UpdateDefaultOffsetY(offsetY int) error
}
