package kafka

import (
	"time"

	"github.com/IBM/sarama"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

const CirculationTopic = "library.circulation"

const (
	ActionBorrow = "BORROW"
	ActionReturn = "RETURN"
)

// EventCirculation is the message published for every successful
// borrow or return, consumed by downstream statistics pipelines.
type EventCirculation struct {
	Username  string    `json:"username"`
	BookID    string    `json:"bookId"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}
