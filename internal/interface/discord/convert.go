package discord

import (
	"fmt"
	"io"
	"os"
	"regexp"

	"flightdesk-service/internal/domain/entity"

	"github.com/bwmarrin/discordgo"
)

var customEmoji = regexp.MustCompile(`^<(a?):([A-Za-z0-9_]+):(\d+)>$`)

// parseEmoji accepts a custom emoji in message syntax or a unicode emoji
func parseEmoji(s string) *discordgo.ComponentEmoji {
	if s == "" {
		return nil
	}
	if m := customEmoji.FindStringSubmatch(s); m != nil {
		return &discordgo.ComponentEmoji{Name: m[2], ID: m[3], Animated: m[1] == "a"}
	}
	return &discordgo.ComponentEmoji{Name: s}
}

func buttonStyle(s entity.ButtonStyle) discordgo.ButtonStyle {
	switch s {
	case entity.ButtonSecondary:
		return discordgo.SecondaryButton
	case entity.ButtonSuccess:
		return discordgo.SuccessButton
	case entity.ButtonDanger:
		return discordgo.DangerButton
	default:
		return discordgo.PrimaryButton
	}
}

func toEmbeds(in []entity.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(in))
	for _, e := range in {
		embed := &discordgo.MessageEmbed{
			Title:       e.Title,
			Description: e.Description,
			Color:       e.Color,
		}
		for _, f := range e.Fields {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
		}
		if e.ImageURL != "" {
			embed.Image = &discordgo.MessageEmbedImage{URL: e.ImageURL}
		}
		if e.Footer != "" {
			embed.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
		}
		out = append(out, embed)
	}
	return out
}

func toComponents(rows []entity.ActionRow) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		var comps []discordgo.MessageComponent
		if row.Select != nil {
			opts := make([]discordgo.SelectMenuOption, 0, len(row.Select.Options))
			for _, o := range row.Select.Options {
				opts = append(opts, discordgo.SelectMenuOption{
					Label:       o.Label,
					Value:       o.Value,
					Description: o.Description,
					Emoji:       parseEmoji(o.Emoji),
					Default:     o.Default,
				})
			}
			comps = append(comps, discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    row.Select.CustomID,
				Placeholder: row.Select.Placeholder,
				Options:     opts,
			})
		}
		for _, b := range row.Buttons {
			comps = append(comps, discordgo.Button{
				Label:    b.Label,
				CustomID: b.CustomID,
				Style:    buttonStyle(b.Style),
			})
		}
		out = append(out, discordgo.ActionsRow{Components: comps})
	}
	return out
}

func allowedMentions(msg entity.Message) *discordgo.MessageAllowedMentions {
	parse := []discordgo.AllowedMentionType{discordgo.AllowedMentionTypeUsers}
	if msg.MentionRoles {
		parse = append(parse, discordgo.AllowedMentionTypeRoles)
	}
	return &discordgo.MessageAllowedMentions{Parse: parse}
}

// openFiles opens every attachment. The returned closer releases them.
func openFiles(in []entity.Attachment) ([]*discordgo.File, func(), error) {
	var (
		files   []*discordgo.File
		closers []io.Closer
	)
	closeAll := func() {
		for _, c := range closers {
			c.Close()
		}
	}
	for _, a := range in {
		f, err := os.Open(a.Path)
		if err != nil {
			closeAll()
			return nil, func() {}, fmt.Errorf("failed to open attachment %s: %w", a.Path, err)
		}
		closers = append(closers, f)
		files = append(files, &discordgo.File{Name: a.Name, ContentType: "image/png", Reader: f})
	}
	return files, closeAll, nil
}

func toMessageSend(msg entity.Message) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content:         msg.Content,
		Embeds:          toEmbeds(msg.Embeds),
		Components:      toComponents(msg.Rows),
		AllowedMentions: allowedMentions(msg),
	}
}

// toMessageEdit replaces content and embeds. Components are only touched when
// the message sets Rows, so an empty non-nil slice clears them.
func toMessageEdit(channelID, messageID string, msg entity.Message) *discordgo.MessageEdit {
	content := msg.Content
	embeds := toEmbeds(msg.Embeds)
	edit := &discordgo.MessageEdit{
		ID:              messageID,
		Channel:         channelID,
		Content:         &content,
		Embeds:          &embeds,
		AllowedMentions: allowedMentions(msg),
	}
	if msg.Rows != nil {
		comps := toComponents(msg.Rows)
		edit.Components = &comps
	}
	return edit
}

func toModalResponse(m entity.Modal) *discordgo.InteractionResponse {
	rows := make([]discordgo.MessageComponent, 0, len(m.Fields))
	for _, f := range m.Fields {
		style := discordgo.TextInputShort
		if f.Long {
			style = discordgo.TextInputParagraph
		}
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    f.ID,
				Label:       f.Label,
				Style:       style,
				Placeholder: f.Placeholder,
				Required:    f.Required,
				MaxLength:   f.MaxLength,
			},
		}})
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   m.CustomID,
			Title:      m.Title,
			Components: rows,
		},
	}
}

func replyFlags(public bool) discordgo.MessageFlags {
	if public {
		return 0
	}
	return discordgo.MessageFlagsEphemeral
}

// modalFields flattens the text inputs of a modal submission
func modalFields(data discordgo.ModalSubmitInteractionData) map[string]string {
	out := make(map[string]string)
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok || row == nil {
			continue
		}
		for _, c := range row.Components {
			if ti, ok := c.(*discordgo.TextInput); ok {
				out[ti.CustomID] = ti.Value
			}
		}
	}
	return out
}
