package model

type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatTurn is one prior message in a seeded conversation.
type ChatTurn struct {
	Role ChatRole
	Text string
}
