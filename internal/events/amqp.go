package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/PavanMeka09/expense-server/internal/models"
)

// Routing keys for ledger events.
const (
	KeyExpenseRecorded = "expense.recorded"
	KeyGroupSettled    = "group.settled"
)

// AMQPPublisher publishes ledger events to a durable direct exchange.
type AMQPPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher connects to the broker and declares the exchange and one
// durable queue per routing key.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	p := &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
	}

	if err := p.setup(); err != nil {
		p.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}
	return p, nil
}

func (p *AMQPPublisher) setup() error {
	err := p.channel.ExchangeDeclare(
		p.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, key := range []string{KeyExpenseRecorded, KeyGroupSettled} {
		if _, err := p.channel.QueueDeclare(key, true, false, false, false, nil); err != nil {
			return fmt.Errorf("declare queue %s: %w", key, err)
		}
		if err := p.channel.QueueBind(key, key, p.exchange, false, nil); err != nil {
			return fmt.Errorf("bind queue %s: %w", key, err)
		}
	}
	return nil
}

// ExpenseRecorded publishes an expense.recorded event.
func (p *AMQPPublisher) ExpenseRecorded(ctx context.Context, expense *models.Expense) error {
	msg := NewExpenseRecordedMessage(expense)
	if err := p.publish(ctx, KeyExpenseRecorded, msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published expense event",
		"group_id", expense.GroupID,
		"expense_id", expense.ID,
		"exchange", p.exchange)
	return nil
}

// GroupSettled publishes a group.settled event.
func (p *AMQPPublisher) GroupSettled(ctx context.Context, settlement *models.Settlement) error {
	msg := NewGroupSettledMessage(settlement)
	if err := p.publish(ctx, KeyGroupSettled, msg); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Published settlement event",
		"group_id", settlement.GroupID,
		"settlement_id", settlement.ID,
		"exchange", p.exchange)
	return nil
}

func (p *AMQPPublisher) publish(ctx context.Context, key string, msg interface{ ToJSON() ([]byte, error) }) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange, // exchange
		key,        // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

// Close shuts down the channel and connection.
func (p *AMQPPublisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
