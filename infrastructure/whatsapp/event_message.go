package whatsapp

import (
	"context"
	"strings"

	"github.com/AzielCF/az-reply/config"
	"github.com/AzielCF/az-reply/pkg/msgworker"
	"github.com/sirupsen/logrus"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

func handleMessage(ctx context.Context, evt *events.Message) {
	log.Infof("Msg %s from %s: type=%s", evt.Info.ID, evt.Info.SourceString(), evt.Info.Type)

	if evt.Info.IsFromMe {
		return
	}

	chatJID := evt.Info.Chat.String()
	if strings.HasPrefix(chatJID, "status@") || strings.HasSuffix(chatJID, "@broadcast") || evt.Info.IsIncomingBroadcast() {
		return
	}
	if config.WhatsappIgnoreGroupChats && evt.Info.Chat.Server == types.GroupServer {
		return
	}

	text := extractMessageText(evt.Message)
	if strings.TrimSpace(text) == "" {
		return
	}

	fn := getIncomingHandler()
	if fn == nil {
		logrus.Warn("[WHATSAPP] Incoming message dropped, no handler registered yet")
		return
	}

	// Todo el procesamiento pasa por el pool: mantiene orden FIFO por chat.
	pool := msgworker.GetGlobalPool()
	capturedText := text
	pool.Dispatch(msgworker.MessageJob{
		ChatJID: chatJID,
		Handler: func(workerCtx context.Context) error {
			fn(workerCtx, chatJID, capturedText)
			forwardMessageToWebhooks(workerCtx, evt, capturedText)
			return nil
		},
	})
}

// extractMessageText unwraps wrapper messages (ephemeral, view-once, edits)
// and returns the inner text, empty for non-text content.
func extractMessageText(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}

	inner := msg
	unwrap := func(m *waE2E.Message) *waE2E.Message {
		if v := m.GetViewOnceMessage(); v != nil {
			return v.GetMessage()
		}
		if v := m.GetEphemeralMessage(); v != nil {
			return v.GetMessage()
		}
		if v := m.GetViewOnceMessageV2(); v != nil {
			return v.GetMessage()
		}
		if v := m.GetViewOnceMessageV2Extension(); v != nil {
			return v.GetMessage()
		}
		return nil
	}
	for i := 0; i < 3; i++ {
		if next := unwrap(inner); next != nil {
			inner = next
		} else {
			break
		}
	}

	if t := inner.GetConversation(); t != "" {
		return t
	}
	if ext := inner.GetExtendedTextMessage(); ext != nil && ext.GetText() != "" {
		return ext.GetText()
	}
	if pm := inner.GetProtocolMessage(); pm != nil && pm.GetEditedMessage() != nil {
		ed := pm.GetEditedMessage()
		if t := ed.GetConversation(); t != "" {
			return t
		}
		if ext := ed.GetExtendedTextMessage(); ext != nil {
			return ext.GetText()
		}
	}
	return ""
}
