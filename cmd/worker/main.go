package main // Entry point of the reservation event worker

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iliyamo/hotel-reservation/internal/config"
	"github.com/iliyamo/hotel-reservation/internal/queue"
)

// The worker drains the reservation event queue and appends one line per
// event to a journal file. It reconnects to the broker until stopped.
func main() {
	journalPath := flag.String("journal", "logs/reservation.log", "file receiving one line per reservation event")
	flag.Parse()

	config.LoadDotEnv()
	url := config.AMQPURL()
	queueName := config.ReservationQueue()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	journal := queue.NewJournal(*journalPath)
	log.Printf("worker: consuming %s into %s", queueName, *journalPath)
	if err := queue.StartReservationConsumer(ctx, url, queueName, journal.Handle); err != nil && ctx.Err() == nil {
		log.Fatalf("worker: %v", err)
	}
	log.Printf("worker: stopped")
}
