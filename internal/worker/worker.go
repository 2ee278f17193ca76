package worker

import (
	"context"
	"database/sql"
	"time"

	"cnadmin/internal/loginlog"
	"cnadmin/internal/observability"
	"cnadmin/internal/queue"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const maxRetries = 3

func retryCount(headers amqp.Table) int32 {
	if headers == nil {
		return 0
	}
	if count, ok := headers["x-retry-count"].(int32); ok {
		return count
	}
	return 0
}

func republishWithRetry(ch *amqp.Channel, msg *amqp.Delivery, retryCount int32) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	headers := amqp.Table{}
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers["x-retry-count"] = retryCount

	return ch.PublishWithContext(
		ctx,
		"",             // exchange
		msg.RoutingKey, // routing key (queue name)
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			Body:         msg.Body,
			Headers:      headers,
		},
	)
}

// StartWorker consumes login log messages until the channel closes.
func StartWorker(conn *amqp.Connection, db *sql.DB, repo loginlog.LoginLogRepositoryInterface, id int) {
	ch, err := conn.Channel()
	if err != nil {
		logrus.Fatalf("Worker %d failed to open channel: %v", id, err)
	}
	defer ch.Close()

	if err := ch.Qos(1, 0, false); err != nil {
		logrus.Fatalf("Worker %d failed to set QoS: %v", id, err)
	}

	msgs, err := ch.Consume(
		queue.LoginLogQueue,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logrus.Fatalf("Worker %d failed to start consuming messages: %v", id, err)
		return
	}

	logrus.Infof("Worker %d started", id)

	for msg := range msgs {
		observability.MessageConsumed(queue.LoginLogQueue)
		handleDelivery(ch, &msg, db, repo, id)
	}

	logrus.Infof("Worker %d stopped", id)
}

func handleDelivery(ch *amqp.Channel, msg *amqp.Delivery, db *sql.DB, repo loginlog.LoginLogRepositoryInterface, id int) {
	entry, err := decodeLoginLog(msg.Body)
	if err != nil {
		logrus.WithError(err).Error("Dropping login log message")
		observability.LoginLogFailed("invalid_payload")
		msg.Nack(false, false)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	storeErr := storeLoginLog(ctx, db, repo, entry, id)
	if storeErr == nil {
		msg.Ack(false)
		return
	}

	retries := retryCount(msg.Headers)
	logrus.WithError(storeErr).Errorf("Worker %d failed to store login log (retry %d/%d)", id, retries, maxRetries)

	if retries >= maxRetries {
		observability.LoginLogFailed("max_retries")
		msg.Nack(false, false)
		return
	}

	if err := republishWithRetry(ch, msg, retries+1); err != nil {
		logrus.WithError(err).Error("Failed to republish message")
		observability.LoginLogFailed("republish_error")
		msg.Nack(false, true)
		return
	}

	observability.MessagePublished(queue.LoginLogQueue)
	msg.Ack(false)
}
