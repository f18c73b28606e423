package discord

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"flightdesk-service/internal/domain/apperror"
	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/usecase"
	"flightdesk-service/pkg/logger"
	"flightdesk-service/pkg/utils"

	"github.com/bwmarrin/discordgo"
)

// interactionTimeout bounds one interaction, including the follow-up edit
const interactionTimeout = 2 * time.Minute

// Dispatcher runs a decoded command
type Dispatcher interface {
	Dispatch(ctx context.Context, actor entity.Actor, cmd entity.Command) (entity.Reply, error)
}

// Commands are the slash commands registered in the guild
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        entity.SlashCreateFlight,
		Description: "Create a new flight",
	},
	{
		Name:        entity.SlashPublishFlight,
		Description: "Publish a flight to the schedule and admin channels",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Flight code",
				Required:    true,
			},
		},
	},
}

// Bot is the Discord runtime: it receives interactions and answers them
type Bot struct {
	session    *discordgo.Session
	dispatcher Dispatcher
	reporter   *usecase.Reporter
	actions    *usecase.ActionLogger
	guildID    string
	logger     logger.Logger
	ctx        context.Context
}

// NewSession creates a discordgo session for a bot token
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	return s, nil
}

// NewBot creates a new bot
func NewBot(session *discordgo.Session, dispatcher Dispatcher, reporter *usecase.Reporter, actions *usecase.ActionLogger, guildID string, logger logger.Logger) *Bot {
	return &Bot{
		session:    session,
		dispatcher: dispatcher,
		reporter:   reporter,
		actions:    actions,
		guildID:    guildID,
		logger:     logger,
		ctx:        context.Background(),
	}
}

// Start registers the handlers and opens the gateway connection
func (b *Bot) Start(ctx context.Context) error {
	b.ctx = ctx
	b.session.AddHandler(b.onReady)
	b.session.AddHandler(b.onInteraction)
	if err := b.session.Open(); err != nil {
		return err
	}
	return nil
}

// Stop closes the gateway connection
func (b *Bot) Stop() error {
	return b.session.Close()
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Bot is ready", "user", r.User.Username, "guilds", len(r.Guilds))
	if _, err := s.ApplicationCommandBulkOverwrite(r.User.ID, b.guildID, Commands); err != nil {
		b.logger.Error("Failed to register slash commands", "guild_id", b.guildID, "error", err)
		return
	}
	b.logger.Info("Slash commands registered", "count", len(Commands))
}

// actorOf identifies who triggered the interaction
func actorOf(i *discordgo.InteractionCreate) entity.Actor {
	var (
		user  *discordgo.User
		roles []string
		nick  string
	)
	if i.Member != nil {
		user = i.Member.User
		roles = i.Member.Roles
		nick = i.Member.Nick
	}
	if user == nil {
		user = i.User
	}
	if user == nil {
		return entity.Actor{Roles: roles}
	}
	name := user.Username
	if user.GlobalName != "" {
		name = user.GlobalName
	}
	if nick != "" {
		name = nick
	}
	return entity.Actor{ID: user.ID, Name: name, Roles: roles}
}

// decodeInteraction turns an interaction into a command. label names it in the action log.
func decodeInteraction(i *discordgo.InteractionCreate) (cmd entity.Command, label string, err error) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		cmd = entity.Command{Action: entity.SlashAction(data.Name)}
		if cmd.Action == entity.ActionUnknown {
			return cmd, "/" + data.Name, entity.ErrUnknownCommand
		}
		for _, opt := range data.Options {
			if opt.Name == "code" {
				cmd.Code = strings.ToUpper(strings.TrimSpace(opt.StringValue()))
			}
		}
		return cmd, "/" + data.Name, nil

	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		cmd, err = entity.ParseCustomID(data.CustomID)
		cmd.Values = data.Values
		label = "Pressed " + data.CustomID
		if v := cmd.Value(); v != "" {
			label += " (" + v + ")"
		}
		return cmd, label, err

	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		cmd, err = entity.ParseCustomID(data.CustomID)
		cmd.Fields = modalFields(data)
		return cmd, "Submitted " + data.CustomID, err
	}
	return entity.Command{}, "", entity.ErrUnknownCommand
}

// mayOpenModal reports whether the reply can be a modal, which must be the
// first response to an interaction and so cannot be deferred
func mayOpenModal(cmd entity.Command) bool {
	switch cmd.Action {
	case entity.ActionWizardStart, entity.ActionWizardReject,
		entity.ActionOpenGates, entity.ActionOpenAlerts, entity.ActionOpenReminder, entity.ActionOpenStart:
		return true
	case entity.ActionWizardConfirm:
		return cmd.Step != entity.WizardStep3
	}
	return false
}

// errorText is what the actor sees for a classified failure
func errorText(err error) string {
	msg := apperror.PublicMessage(err)
	switch apperror.KindOf(err) {
	case apperror.KindNotFound, apperror.KindValidation, apperror.KindUnavailable:
		if !strings.HasPrefix(msg, "⚠️") {
			msg = "⚠️ " + msg
		}
	}
	return msg
}

func (b *Bot) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionPing {
		return
	}

	ctx, cancel := context.WithTimeout(usecase.WithSource(b.ctx, usecase.SourceBot), interactionTimeout)
	defer cancel()

	actor := actorOf(i)
	cmd, label, err := decodeInteraction(i)
	if errors.Is(err, entity.ErrUnknownCommand) {
		b.logger.Debug("Ignoring unknown interaction", "label", label, "error", err)
		return
	}
	if i.Type != discordgo.InteractionApplicationCommand {
		b.actions.Log(ctx, usecase.ActionEntry{Actor: actor, Action: label, Outcome: utils.LevelInfo})
	}

	deferred := !mayOpenModal(cmd)
	if deferred {
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
		})
		if err != nil {
			b.logger.Warn("Failed to defer interaction", "label", label, "error", err)
			return
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			ref := b.reporter.ReportPanic(ctx, actor, label, rec, debug.Stack())
			b.reply(s, i, deferred, entity.TextReply(usecase.UserMessage(ref)))
		}
	}()

	reply, err := b.dispatcher.Dispatch(ctx, actor, cmd)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			ref := b.reporter.Report(ctx, actor, label, err)
			reply = entity.TextReply(usecase.UserMessage(ref))
		} else {
			reply = entity.TextReply(errorText(err))
		}
	}
	b.reply(s, i, deferred, reply)
}

// reply answers the interaction, editing the deferred response when there is one
func (b *Bot) reply(s *discordgo.Session, i *discordgo.InteractionCreate, deferred bool, reply entity.Reply) {
	if reply.Modal != nil {
		if deferred {
			b.logger.Error("Cannot open a modal on a deferred interaction", "modal", reply.Modal.CustomID)
			reply = entity.TextReply("⚠️ Please try again.")
		} else {
			if err := s.InteractionRespond(i.Interaction, toModalResponse(*reply.Modal)); err != nil {
				b.logger.Warn("Failed to open modal", "modal", reply.Modal.CustomID, "error", err)
			}
			return
		}
	}
	if reply.Message == nil {
		reply = entity.TextReply("Done.")
	}
	msg := *reply.Message

	files, closeFiles, err := openFiles(msg.Files)
	if err != nil {
		b.logger.Warn("Could not attach files", "error", err)
	}
	defer closeFiles()

	embeds := toEmbeds(msg.Embeds)
	comps := toComponents(msg.Rows)

	if deferred {
		content := msg.Content
		_, err = s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
			Content:         &content,
			Embeds:          &embeds,
			Components:      &comps,
			Files:           files,
			AllowedMentions: allowedMentions(msg),
		})
	} else {
		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:         msg.Content,
				Embeds:          embeds,
				Components:      comps,
				Files:           files,
				Flags:           replyFlags(reply.Public),
				AllowedMentions: allowedMentions(msg),
			},
		})
	}
	if err != nil {
		b.logger.Warn("Failed to reply to interaction", "interaction", i.ID, "error", err)
	}
}
