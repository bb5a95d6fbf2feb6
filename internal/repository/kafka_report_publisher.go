package repository

import (
	"context"

	"SignalPulse/internal/domain/models"
	domrepo "SignalPulse/internal/domain/repository"
	pkgkafka "SignalPulse/pkg/kafka"
)

// KafkaReportPublisher pushes batch reports to the reports topic for
// downstream notification consumers.
type KafkaReportPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaReportPublisher(producer *pkgkafka.Producer, topic string) domrepo.ReportPublisher {
	return &KafkaReportPublisher{producer: producer, topic: topic}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, r *models.BatchReport) error {
	return p.producer.Publish(ctx, p.topic, []byte(r.Mode), r)
}

func (p *KafkaReportPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
