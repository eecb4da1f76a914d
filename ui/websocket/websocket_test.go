package websocket

import (
	"encoding/json"
	"testing"
)

// drainBroadcast vacía el canal del hub para que cada test parta limpio.
func drainBroadcast() {
	for {
		select {
		case <-Broadcast:
		default:
			return
		}
	}
}

func TestHandleRemoteMessage_DeliversThroughHubChannel(t *testing.T) {
	drainBroadcast()
	localID = "server-a"

	payload, err := json.Marshal(BroadcastMessage{
		Code:     "CONNECTION_UP",
		Message:  "WhatsApp connection established",
		SenderID: "server-b",
	})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	handleRemoteMessage(payload)

	select {
	case msg := <-Broadcast:
		if msg.Code != "CONNECTION_UP" {
			t.Fatalf("expected relayed code CONNECTION_UP, got %q", msg.Code)
		}
		if msg.SenderID != "server-b" {
			t.Fatalf("relayed message must keep its sender id, got %q", msg.SenderID)
		}
	default:
		t.Fatalf("remote message must be queued on the hub channel, not delivered directly")
	}
}

func TestHandleRemoteMessage_SkipsOwnInstance(t *testing.T) {
	drainBroadcast()
	localID = "server-a"

	payload, err := json.Marshal(BroadcastMessage{Code: "CONNECTION_UP", SenderID: "server-a"})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}

	handleRemoteMessage(payload)

	select {
	case msg := <-Broadcast:
		t.Fatalf("own message must not loop back through the hub, got %+v", msg)
	default:
	}
}

func TestHandleRemoteMessage_IgnoresMalformedPayload(t *testing.T) {
	drainBroadcast()
	localID = "server-a"

	handleRemoteMessage([]byte("not json"))

	select {
	case msg := <-Broadcast:
		t.Fatalf("malformed payload must be dropped, got %+v", msg)
	default:
	}
}
