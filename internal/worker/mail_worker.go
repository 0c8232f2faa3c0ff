package worker

import (
	"SendBay/config"
	"SendBay/internal/mq"
	"SendBay/internal/service"
	"SendBay/internal/task"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/time/rate"
)

type dlqMessage struct {
	To       string    `json:"to"`
	Tokens   []string  `json:"tokens"`
	Attempt  int       `json:"attempt"`
	Error    string    `json:"error"`
	FailedAt time.Time `json:"failed_at"`
}

// RunMailWorker consumes share-mail messages from RabbitMQ.
func RunMailWorker(ctx context.Context) error {
	client, err := mq.Dial()
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.DeclareTopology(); err != nil {
		return err
	}

	prefetch := config.AppConfig.RabbitMQPrefetch
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := client.Channel.Qos(prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := client.Channel.Consume(
		mq.QueueMail,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	concurrency := config.AppConfig.MailWorkerConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	burst := config.AppConfig.MailBurst
	if burst <= 0 {
		burst = 1
	}
	rateLimit := config.AppConfig.MailRate
	var limiter *rate.Limiter
	if rateLimit <= 0 {
		limiter = rate.NewLimiter(rate.Inf, burst)
	} else {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), burst)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("mail worker: delivery channel closed")
			}
			sem <- struct{}{}
			go func(d amqp.Delivery) {
				defer func() { <-sem }()
				handleMailMessage(ctx, client, limiter, d)
			}(delivery)
		}
	}
}

func handleMailMessage(ctx context.Context, client *mq.Client, limiter *rate.Limiter, delivery amqp.Delivery) {
	var msg task.ShareMailMessage
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("mail worker: invalid message: %v", err)
		_ = delivery.Ack(false)
		return
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			_ = delivery.Nack(false, true)
			return
		}
	}

	if err := task.DeliverShareMail(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			_ = delivery.Nack(false, true)
			return
		}
		if shouldRetry(err) {
			if err := scheduleRetry(ctx, client, msg, err); err != nil {
				log.Printf("mail worker: retry schedule failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		} else {
			if err := sendToDLQ(ctx, client, msg, err); err != nil {
				log.Printf("mail worker: dlq publish failed: %v", err)
				_ = delivery.Nack(false, true)
				return
			}
		}
	}

	_ = delivery.Ack(false)
}

// shouldRetry keeps transient SMTP failures on the retry path. Shares that
// no longer exist or settings without SMTP will not heal on their own.
func shouldRetry(err error) bool {
	if errors.Is(err, service.ErrNotFound) {
		return false
	}
	if errors.Is(err, service.ErrSMTPUnavailable) {
		return false
	}
	return true
}

func scheduleRetry(ctx context.Context, client *mq.Client, msg task.ShareMailMessage, procErr error) error {
	maxRetry := config.AppConfig.MailRetryMax
	if maxRetry < 0 {
		maxRetry = 0
	}
	nextAttempt := msg.Attempt + 1
	if maxRetry == 0 || nextAttempt > maxRetry {
		return sendToDLQ(ctx, client, msg, procErr)
	}

	delay := pickRetryDelay(nextAttempt, config.AppConfig.MailRetryDelays)
	msg.Attempt = nextAttempt
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	log.Printf("mail worker: retrying send to %s in %s (attempt %d)", msg.To, delay, nextAttempt)
	return client.PublishRetry(ctx, body, delay)
}

func sendToDLQ(ctx context.Context, client *mq.Client, msg task.ShareMailMessage, procErr error) error {
	dlq := dlqMessage{
		To:       msg.To,
		Tokens:   msg.Tokens,
		Attempt:  msg.Attempt,
		Error:    procErr.Error(),
		FailedAt: time.Now(),
	}
	body, err := json.Marshal(dlq)
	if err != nil {
		return err
	}
	return client.PublishDLQ(ctx, body)
}

func pickRetryDelay(attempt int, delays []time.Duration) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	index := attempt - 1
	if index < 0 {
		index = 0
	}
	if index >= len(delays) {
		return delays[len(delays)-1]
	}
	return delays[index]
}
