package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"avatar-trainer-be/pkg/events"
	pktNats "avatar-trainer-be/pkg/nats"
)

// Tails the session lifecycle stream. Useful when checking that terminations
// and completions actually reach the bus.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer sub.Close()

	started := color.New(color.FgGreen)
	terminated := color.New(color.FgRed, color.Bold)
	plain := color.New(color.FgWhite)

	err = sub.Subscribe("training.>", "events-tail", func(ctx context.Context, event events.Event) error {
		payload, _ := json.Marshal(event.Payload())
		switch event.EventType() {
		case "training." + events.TypeSessionStarted:
			started.Printf("%s %s\n", event.EventType(), payload)
		case "training." + events.TypeSessionTerminated:
			terminated.Printf("%s %s\n", event.EventType(), payload)
		default:
			plain.Printf("%s %s\n", event.EventType(), payload)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to subscribe: %v", err)
	}

	fmt.Println("Tailing training events, Ctrl+C to stop")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
