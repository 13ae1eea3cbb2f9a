package userevents

import (
	"context"
	"encoding/json"
	"time"
	e "usuario/internal/core/domain/errors"
	"usuario/internal/core/domain/hook"
	"usuario/internal/core/domain/logging"
	"usuario/internal/rabbitmq"

	"github.com/rabbitmq/amqp091-go"
)

// RabbitMQ publishes user lifecycle events so other services can react
// to registrations and confirmations. The hook event name is the
// routing key.
type RabbitMQ struct {
	log      logging.Logger
	channel  *rabbitmq.Channel
	exchange string
	now      func() time.Time
}

func NewRabbitMQ(
	log logging.Logger,
	channel *rabbitmq.Channel,
	exchange string,
	now func() time.Time,
) *RabbitMQ {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &RabbitMQ{log: log, channel: channel, exchange: exchange, now: now}
}

func (p *RabbitMQ) Notify(ctx context.Context, event hook.Event, payload hook.Payload) error {
	message := eventMessage{Event: string(event), OccurredAt: p.now()}
	if payload.User.IsPresent {
		u := payload.User.Value
		message.User = &eventUser{
			ID:          int64(u.ID),
			Email:       string(u.Email),
			Username:    string(u.Username),
			IsConfirmed: u.IsConfirmed(),
		}
	}
	if payload.Account.IsPresent {
		a := payload.Account.Value
		message.Account = &eventAccount{
			ID:       int64(a.ID),
			Provider: string(a.Provider),
		}
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	err = p.channel.PublishWithContext(ctx, p.exchange, string(event), false, false, amqp091.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logging.Error(ctx, p.log, err)
		return err
	}
	p.log.Info(
		ctx,
		"AMQP message has been successfully published.",
		logging.Entry("exchange", p.exchange),
		logging.Entry("RK", event),
	)
	return nil
}

type eventMessage struct {
	Event      string        `json:"event"`
	OccurredAt time.Time     `json:"occurredAt"`
	User       *eventUser    `json:"user,omitempty"`
	Account    *eventAccount `json:"account,omitempty"`
}

type eventUser struct {
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	IsConfirmed bool   `json:"isConfirmed"`
}

type eventAccount struct {
	ID       int64  `json:"id"`
	Provider string `json:"provider"`
}
