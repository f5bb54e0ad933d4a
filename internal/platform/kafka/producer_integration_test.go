//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"polis/internal/platform/config"
	"polis/internal/platform/kafka"
	"polis/internal/platform/logger"
	"polis/pkg/testutil/containers"
)

type ProducerSuite struct {
	suite.Suite
	broker   string
	topic    string
	producer *kafka.Producer
}

func TestProducerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerSuite))
}

func (s *ProducerSuite) SetupSuite() {
	s.broker = containers.GetManager().GetRedpanda(s.T()).Broker
	s.topic = "polis.alerts.test"

	p, err := kafka.NewProducer(config.KafkaConfig{Brokers: []string{s.broker}, AlertTopic: s.topic}, logger.New("error"))
	s.Require().NoError(err)
	s.producer = p

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(s.producer.EnsureTopic(ctx, 1))
}

func (s *ProducerSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close(context.Background())
	}
}

func (s *ProducerSuite) TestEnsureTopicIsIdempotent() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.NoError(s.producer.EnsureTopic(ctx, 1))
	s.NoError(s.producer.Health(ctx))
}

func (s *ProducerSuite) TestPublishIsConsumable() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.Require().NoError(s.producer.Publish(ctx, "actor-1", []byte(`{"severity":"high"}`)))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker),
		kgo.ConsumeTopics(s.topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	var got []*kgo.Record
	for len(got) == 0 {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err())
		fetches.EachRecord(func(r *kgo.Record) {
			if string(r.Key) == "actor-1" {
				got = append(got, r)
			}
		})
	}
	s.Equal(`{"severity":"high"}`, string(got[0].Value))
}
