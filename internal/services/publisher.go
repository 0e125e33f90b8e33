package services

import (
	"github.com/aaronbrighton/chatime-ordering-helper/internal/models"
	"github.com/streadway/amqp"
)

// Header keys carrying a probe task on the queue. The body itself is unused
// but must be non-empty for the broker, so it travels as a single space.
const (
	headerTopicID     = "topic_id"
	headerOrderingURL = "ubereats_url"
)

// ProbePublisher enqueues probe tasks onto the monitoring queue.
type ProbePublisher struct {
	conn  *amqp.Connection
	queue string
}

// NewProbePublisher creates a new ProbePublisher.
func NewProbePublisher(conn *amqp.Connection, queue string) *ProbePublisher {
	return &ProbePublisher{conn: conn, queue: queue}
}

// Enqueue publishes one probe task. Task fields travel as message headers.
func (p *ProbePublisher) Enqueue(task models.ProbeTask) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.Publish(
		"",      // default exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        []byte(" "),
			Headers: amqp.Table{
				headerTopicID:     task.TopicID,
				headerOrderingURL: task.OrderingURL,
			},
		})
}
