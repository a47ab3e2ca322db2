package kafka

import (
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// Config describes the broker list shared by every kafka client in the service
type Config struct {
	Brokers []string `yaml:"brokers" env:"BROKERS" env-separator:","`
}

// NewWriter builds a synchronous writer for the given topic
func NewWriter(cfg Config, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.LeastBytes{},
		Async:        false,
	}
}

// CreateTopicIfNotExists dials the cluster controller and creates the topic,
// a no-op when the topic is already there
func CreateTopicIfNotExists(cfg Config, topic string, numPartitions, replicationFactor int) error {
	if topic == "" {
		return errors.New("topic name mustn't be empty")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers[0])
	if err != nil {
		return err
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return err
	}

	controllerConn, err := kafka.Dial("tcp",
		fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return err
	}
	defer controllerConn.Close()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	})
}
