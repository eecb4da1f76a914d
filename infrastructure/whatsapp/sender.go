package whatsapp

import (
	"context"
	"fmt"
	"strings"

	"github.com/AzielCF/az-reply/config"
	pkgError "github.com/AzielCF/az-reply/pkg/error"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"google.golang.org/protobuf/proto"
)

// ParseRecipientJID accepts a full JID ("123@s.whatsapp.net") or a bare
// phone number and returns a sendable JID.
func ParseRecipientJID(raw string) (types.JID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return types.JID{}, pkgError.ValidationError("recipient: cannot be blank.")
	}
	if !strings.Contains(trimmed, "@") {
		trimmed = trimmed + config.WhatsappTypeUser
	}
	jid, err := types.ParseJID(trimmed)
	if err != nil {
		return types.JID{}, pkgError.ValidationError(fmt.Sprintf("recipient: invalid JID %q.", raw))
	}
	return jid, nil
}

// SendText delivers a plain text message. Readiness is re-checked here
// because the connection can drop between routing and sending.
func SendText(ctx context.Context, chatJID, text string) error {
	client := GetClient()
	if client == nil {
		return pkgError.ErrWaCLI
	}
	if !IsReady() {
		return pkgError.ErrNotConnected
	}

	recipient, err := ParseRecipientJID(chatJID)
	if err != nil {
		return err
	}

	_, err = client.SendMessage(ctx, recipient, &waE2E.Message{Conversation: proto.String(text)})
	if err != nil {
		return pkgError.InternalServerError(fmt.Sprintf("failed to send message to %s: %v", chatJID, err))
	}
	return nil
}

// ReplySender adapts the package-level send functions to the autoreply
// usecase boundary.
type ReplySender struct{}

func (ReplySender) SendReply(ctx context.Context, chatJID, text string) error {
	return SendText(ctx, chatJID, text)
}
