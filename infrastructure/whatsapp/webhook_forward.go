package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AzielCF/az-reply/config"
	pkgError "github.com/AzielCF/az-reply/pkg/error"
	pkgUtils "github.com/AzielCF/az-reply/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
	"go.mau.fi/whatsmeow/types/events"
)

var submitWebhookFn = submitWebhook

// forwardMessageToWebhooks pushes the raw inbound event to every configured
// webhook URL. Runs inside the worker job, delivery itself is async.
func forwardMessageToWebhooks(ctx context.Context, evt *events.Message, text string) {
	if len(config.WhatsappWebhook) == 0 {
		return
	}

	payload := map[string]any{
		"event":     "message",
		"id":        evt.Info.ID,
		"from":      evt.Info.Sender.String(),
		"chat":      evt.Info.Chat.String(),
		"push_name": evt.Info.PushName,
		"text":      text,
		"timestamp": evt.Info.Timestamp.UTC().Format(time.RFC3339),
	}

	go func() {
		if err := forwardPayloadToConfiguredWebhooks(context.WithoutCancel(ctx), payload, "message"); err != nil {
			logrus.Error("Webhook forward fail: ", err)
		}
	}()
}

// ForwardOutcomeToWebhooks notifies configured webhooks about a routing
// decision (reply sent, AI failure, no match).
func ForwardOutcomeToWebhooks(ctx context.Context, chatJID, message, outcome, reply string) {
	if len(config.WhatsappWebhook) == 0 {
		return
	}

	payload := map[string]any{
		"event":     "auto_reply_outcome",
		"chat":      chatJID,
		"message":   message,
		"outcome":   outcome,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if reply != "" {
		payload["reply"] = reply
	}

	go func() {
		if err := forwardPayloadToConfiguredWebhooks(context.WithoutCancel(ctx), payload, "auto_reply_outcome"); err != nil {
			logrus.Error("Webhook forward fail: ", err)
		}
	}()
}

// forwardPayloadToConfiguredWebhooks attempts delivery to every configured
// URL. It only returns an error when all deliveries fail, partial failures
// are logged and suppressed so successful targets still receive the event.
func forwardPayloadToConfiguredWebhooks(ctx context.Context, payload map[string]any, eventName string) error {
	total := len(config.WhatsappWebhook)
	if total == 0 {
		return nil
	}

	var (
		failed    []string
		successes int
	)
	for _, url := range config.WhatsappWebhook {
		if err := submitWebhookFn(ctx, payload, url); err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", url, err))
			logrus.Warnf("Failed forwarding %s to %s: %v", eventName, url, err)
			continue
		}
		successes++
	}

	if len(failed) == total {
		return pkgError.WebhookError(fmt.Sprintf("all webhook URLs failed for %s: %s", eventName, strings.Join(failed, "; ")))
	}

	if len(failed) > 0 {
		logrus.Warnf("Some webhook URLs failed for %s (succeeded: %d/%d): %s", eventName, successes, total, strings.Join(failed, "; "))
	} else {
		logrus.Infof("%s forwarded to all webhook(s)", eventName)
	}

	return nil
}

// submitWebhook delivers the payload to a single URL with exponential backoff.
func submitWebhook(ctx context.Context, payload map[string]any, url string) error {
	postBody, err := json.Marshal(payload)
	if err != nil {
		return pkgError.WebhookError(fmt.Sprintf("Failed to marshal body: %v", err))
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(postBody)

	if config.WhatsappWebhookSecret != "" {
		signature, err := pkgUtils.GetMessageDigestOrSignature(postBody, []byte(config.WhatsappWebhookSecret))
		if err != nil {
			return pkgError.WebhookError(fmt.Sprintf("error when create signature %v", err))
		}
		req.Header.Set("X-Hub-Signature-256", fmt.Sprintf("sha256=%s", signature))
	}

	var attempt int
	var maxAttempts = 5
	var sleepDuration = 1 * time.Second

	for attempt = 0; attempt < maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return pkgError.WebhookError(fmt.Sprintf("webhook delivery cancelled: %v", ctx.Err()))
		}
		err = fasthttp.DoTimeout(req, resp, 10*time.Second)
		if err == nil {
			status := resp.StatusCode()
			if status >= 200 && status < 300 {
				logrus.Infof("Successfully submitted webhook on attempt %d", attempt+1)
				return nil
			}
			err = fmt.Errorf("webhook returned status %d", status)
		}
		logrus.Warnf("Attempt %d to submit webhook failed: %v", attempt+1, err)
		if attempt < maxAttempts-1 {
			time.Sleep(sleepDuration)
			sleepDuration *= 2
		}
	}

	return pkgError.WebhookError(fmt.Sprintf("error when submit webhook after %d attempts: %v", attempt, err))
}
