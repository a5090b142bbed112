// Package kafka contains the message export sink
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/Conte777/SupportFlow/config"
	"github.com/Conte777/SupportFlow/internal/domain/support/deps"
	"github.com/Conte777/SupportFlow/internal/domain/support/dto"
	"github.com/Conte777/SupportFlow/internal/domain/support/entities"
)

// exportRecord is the JSON document written per relayed message
type exportRecord struct {
	Direction string    `json:"direction"`
	UserID    int64     `json:"user_id"`
	ChatID    int64     `json:"chat_id"`
	MessageID int       `json:"message_id"`
	Text      string    `json:"text,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	Username  string    `json:"username,omitempty"`
	NewUser   bool      `json:"new_user,omitempty"`
	Date      time.Time `json:"date"`
}

// Exporter writes relayed messages to a Kafka topic for offline
// analysis. It is a fire-and-forget sink: callers log failures and
// move on.
type Exporter struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewExporter creates the Kafka exporter, or a no-op sink when no
// brokers are configured
func NewExporter(cfg *config.ExportConfig, logger zerolog.Logger) (deps.Exporter, error) {
	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("Message export disabled, no brokers configured")
		return NopExporter{}, nil
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka exporter initialized")

	return &Exporter{
		producer: producer,
		topic:    cfg.Topic,
		logger:   logger,
	}, nil
}

// ExportUserMessage records an inbound user message
func (e *Exporter) ExportUserMessage(ctx context.Context, msg dto.Message, newUser bool) error {
	return e.send(exportRecord{
		Direction: "user",
		UserID:    msg.From.ID,
		ChatID:    msg.ChatID,
		MessageID: msg.ID,
		Text:      msg.Text,
		Caption:   msg.Caption,
		FullName:  msg.From.FullName,
		Username:  msg.From.Username,
		NewUser:   newUser,
		Date:      msg.Date,
	})
}

// ExportAdminMessage records an admin message relayed to a user
func (e *Exporter) ExportAdminMessage(ctx context.Context, msg dto.Message, user entities.UserRecord) error {
	return e.send(exportRecord{
		Direction: "admin",
		UserID:    user.UserID,
		ChatID:    msg.ChatID,
		MessageID: msg.ID,
		Text:      msg.Text,
		Caption:   msg.Caption,
		FullName:  msg.From.FullName,
		Username:  msg.From.Username,
		Date:      msg.Date,
	})
}

func (e *Exporter) send(rec exportRecord) error {
	value, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, _, err = e.producer.SendMessage(&sarama.ProducerMessage{
		Topic: e.topic,
		Value: sarama.ByteEncoder(value),
	})
	return err
}

// Close releases the producer
func (e *Exporter) Close() error {
	return e.producer.Close()
}

// NopExporter drops every record. Used when export is not configured.
type NopExporter struct{}

func (NopExporter) ExportUserMessage(context.Context, dto.Message, bool) error {
	return nil
}

func (NopExporter) ExportAdminMessage(context.Context, dto.Message, entities.UserRecord) error {
	return nil
}
