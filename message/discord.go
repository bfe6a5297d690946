package message

import "github.com/bwmarrin/discordgo"

// FromDiscord adapts a Discord message creation event.
func FromDiscord(ev *discordgo.MessageCreate) *Received {
	m := ev.Message
	r := Received{
		ID:        m.ID,
		Channel:   m.ChannelID,
		Guild:     m.GuildID,
		Text:      m.Content,
		Timestamp: m.Timestamp,
	}
	if m.Author != nil {
		r.AuthorID = m.Author.ID
		r.Author = m.Author.Username
	}
	return &r
}
