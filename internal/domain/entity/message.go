package entity

// Messages, embeds and modals as the renderer produces them. The Discord
// adapter translates these into API payloads.

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

type Embed struct {
	Title       string
	Description string
	Color       int
	Fields      []EmbedField
	ImageURL    string
	Footer      string
}

type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

type Button struct {
	Label    string
	CustomID string
	Style    ButtonStyle
}

type SelectOption struct {
	Label       string
	Value       string
	Description string
	Emoji       string
	Default     bool
}

type Select struct {
	CustomID    string
	Placeholder string
	Options     []SelectOption
}

// ActionRow holds either buttons or a single select
type ActionRow struct {
	Buttons []Button
	Select  *Select
}

// Attachment is a local file sent alongside a message
type Attachment struct {
	Name string
	Path string
}

type Message struct {
	Content      string
	Embeds       []Embed
	Rows         []ActionRow
	MentionRoles bool
	Files        []Attachment
}

type ModalField struct {
	ID          string
	Label       string
	Placeholder string
	Long        bool
	MaxLength   int
	Required    bool
}

type Modal struct {
	CustomID string
	Title    string
	Fields   []ModalField
}

// Reply answers an interaction with a message or a modal. Messages are
// ephemeral unless Public is set.
type Reply struct {
	Message *Message
	Modal   *Modal
	Public  bool
}

// TextReply is an ephemeral plain-text reply
func TextReply(text string) Reply {
	return Reply{Message: &Message{Content: text}}
}

// ModalReply opens a modal
func ModalReply(m Modal) Reply {
	return Reply{Modal: &m}
}
