// The notifier consumes auth domain events from RabbitMQ and appends them
// to the audit log. It runs as a separate process so broker hiccups and log
// IO never sit on the request path.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/corpai/corp-agent-backend/internal/queue"
)

func main() {
	_ = godotenv.Load()

	log.Printf("notifier starting, consuming %s and %s",
		queue.UserRegisteredQueue, queue.SubscriptionActivatedQueue)
	if err := queue.StartAuthConsumer(); err != nil {
		log.Fatal(err)
	}
}
