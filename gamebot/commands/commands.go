package commands

import (
	"github.com/disgoorg/disgo/discord"
)

var Commands = []discord.ApplicationCommandCreate{}

func init() {
	Commands = append(Commands,
		Profile,
		Leaderboard,
		Daily,
		Quests,
		Achievements,
		Coinflip,
		Gamify,
	)
}
