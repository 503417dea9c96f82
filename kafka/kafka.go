package kafka

import (
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"go.uber.org/zap"

	"shyftcut/api/logger"
)

var (
	Producer *kafka.Producer

	// ChatMessageTopic carries user chat messages to the AI service.
	ChatMessageTopic = "user_message"
	// AIResponseTopic carries streamed AI response chunks back.
	AIResponseTopic = "ai_response"
	// UsageEventTopic carries engagement-analytics events.
	UsageEventTopic = "usage_events"

	GroupID = "shyftcut-api"
)

func configMap(extra map[string]kafka.ConfigValue) *kafka.ConfigMap {
	cm := kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BOOTSTRAP_SERVERS"),
		"security.protocol": "SASL_SSL",
		"sasl.mechanism":    "PLAIN",
		"sasl.username":     os.Getenv("KAFKA_API_KEY"),
		"sasl.password":     os.Getenv("KAFKA_API_SECRET"),
	}
	for k, v := range extra {
		cm[k] = v
	}
	return &cm
}

func InitProducer() error {
	var err error
	Producer, err = kafka.NewProducer(configMap(nil))
	if err != nil {
		logger.Get().Error("failed to initialize Kafka producer",
			zap.String("bootstrap_servers", os.Getenv("KAFKA_BOOTSTRAP_SERVERS")),
			zap.Error(err))
		return err
	}

	logger.Get().Info("Kafka producer initialized",
		zap.String("bootstrap_servers", os.Getenv("KAFKA_BOOTSTRAP_SERVERS")))
	return nil
}

func CloseProducer() {
	if Producer != nil {
		Producer.Flush(5000)
		Producer.Close()
	}
}

func ProduceMessage(topic string, message []byte) error {
	msg := &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          message,
	}

	if err := Producer.Produce(msg, nil); err != nil {
		logger.Get().Error("failed to produce message",
			zap.String("topic", topic),
			zap.Error(err))
		return err
	}

	logger.Get().Debug("message produced", zap.String("topic", topic))
	return nil
}

// StartAIResponseConsumer subscribes to the AI response topic and hands
// each chunk to the worker pool, which fans it out to SSE streams.
func StartAIResponseConsumer(submit func(job []byte, partition int32)) error {
	consumer, err := kafka.NewConsumer(configMap(map[string]kafka.ConfigValue{
		"session.timeout.ms": "45000",
		"group.id":           GroupID,
		"auto.offset.reset":  "latest",
	}))
	if err != nil {
		logger.Get().Error("failed to create consumer",
			zap.String("bootstrap_servers", os.Getenv("KAFKA_BOOTSTRAP_SERVERS")),
			zap.Error(err))
		return err
	}

	if err := consumer.Subscribe(AIResponseTopic, nil); err != nil {
		logger.Get().Error("failed to subscribe to topic",
			zap.String("topic", AIResponseTopic),
			zap.Error(err))
		return err
	}

	logger.Get().Info("Kafka consumer started",
		zap.String("topic", AIResponseTopic),
		zap.String("group_id", GroupID))

	go func() {
		for {
			msg, err := consumer.ReadMessage(-1)
			if err != nil {
				logger.Get().Error("consumer error",
					zap.String("topic", AIResponseTopic),
					zap.Error(err))
				continue
			}
			submit(msg.Value, msg.TopicPartition.Partition)
		}
	}()
	return nil
}
