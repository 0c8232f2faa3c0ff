package task

import (
	"SendBay/config"
	"SendBay/internal/mq"
	"SendBay/internal/service"
	"SendBay/model"
	"SendBay/utils"
	"context"
	"encoding/json"
	"log"
	"strings"
)

// ShareMailMessage is the payload sent to the mail worker. Shares are
// resolved again at delivery time so the mail reflects current state.
type ShareMailMessage struct {
	To      string   `json:"to"`
	Tokens  []string `json:"tokens"`
	Attempt int      `json:"attempt"`
}

// SendShareLinks queues a share-link mail for the given recipient. The
// recipient and tokens are validated up front so the caller gets an
// immediate error for bad input or missing SMTP config; delivery itself
// happens on the worker. When the broker is unreachable the mail is sent
// synchronously instead of being dropped.
func SendShareLinks(ctx context.Context, to string, tokens []string) error {
	settings, err := service.GetSettings()
	if err != nil {
		return err
	}
	if !settings.SMTPConfigured() {
		return service.ErrSMTPUnavailable
	}
	if _, err := service.GetSharesByTokens(tokens); err != nil {
		return err
	}

	msg := ShareMailMessage{To: to, Tokens: tokens, Attempt: 0}
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	publisher, err := mq.GetPublisher()
	if err != nil {
		log.Printf("mail: broker unavailable, sending synchronously: %v", err)
		return DeliverShareMail(ctx, msg)
	}
	if err := publisher.PublishMail(ctx, body); err != nil {
		log.Printf("mail: publish failed, sending synchronously: %v", err)
		return DeliverShareMail(ctx, msg)
	}
	return nil
}

// DeliverShareMail resolves the share tokens and sends the mail over SMTP.
func DeliverShareMail(ctx context.Context, msg ShareMailMessage) error {
	settings, err := service.GetSettings()
	if err != nil {
		return err
	}
	if !settings.SMTPConfigured() {
		return service.ErrSMTPUnavailable
	}
	shares, err := service.GetSharesByTokens(msg.Tokens)
	if err != nil {
		return err
	}
	items := buildMailItems(settings, shares)
	return utils.SendShareMail(settings, msg.To, items)
}

func buildMailItems(settings *model.AppSettings, shares []model.Share) []utils.ShareMailItem {
	baseURL := strings.TrimRight(settings.SiteURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost" + config.AppConfig.ListenAddr
	}
	items := make([]utils.ShareMailItem, 0, len(shares))
	for _, share := range shares {
		items = append(items, utils.ShareMailItem{
			FileName:  share.File.OriginalName,
			URL:       baseURL + "/s/" + share.Token,
			ExpiresAt: share.ExpiresAt,
		})
	}
	return items
}
