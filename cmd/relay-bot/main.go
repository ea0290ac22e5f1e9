// Command relay-bot drives a fleet of synthetic clients against a running
// relay server. Each bot connects, joins with a random name and position,
// then streams position reports with occasional pickup throws and score
// events. On exit it prints per-type counts of the frames it received,
// which makes it a quick smoke and soak tool for the wire protocol.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arcadelab/arena-relay/relay"
)

var (
	serverURL = flag.String("url", "ws://localhost:8080/ws", "relay websocket URL")
	clients   = flag.Int("clients", 4, "number of concurrent bot clients")
	duration  = flag.Duration("duration", 30*time.Second, "how long to run")
	rate      = flag.Duration("rate", 250*time.Millisecond, "delay between position reports")
)

var botNames = []string{"Scout", "Drifter", "Lobber", "Wanderer", "Slinger", "Rover"}

func main() {
	flag.Parse()

	var wg sync.WaitGroup
	for i := 0; i < *clients; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := runBot(n); err != nil {
				log.Printf("bot %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()
}

func runBot(n int) error {
	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	// Count everything the server sends until the connection drops.
	received := make(map[string]int)
	var mu sync.Mutex
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame relay.Frame
			if err := json.Unmarshal(data, &frame); err != nil {
				continue
			}
			mu.Lock()
			received[frame.T]++
			mu.Unlock()
		}
	}()

	name := fmt.Sprintf("%s-%d", botNames[n%len(botNames)], n)
	x := rand.Float64()*40 - 20
	z := rand.Float64()*40 - 20

	if err := writeFrame(conn, relay.ServerFrame{
		T: relay.TypeJoin,
		P: map[string]any{"x": x, "z": z, "name": name},
	}); err != nil {
		return fmt.Errorf("join: %w", err)
	}

	deadline := time.After(*duration)
	ticker := time.NewTicker(*rate)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-deadline:
			break loop
		case <-done:
			break loop
		case <-ticker.C:
			x += rand.Float64()*2 - 1
			z += rand.Float64()*2 - 1
			frame := relay.ServerFrame{T: relay.TypeState, P: relay.Position{X: x, Z: z}}
			switch rand.IntN(20) {
			case 0:
				idx := rand.IntN(8)
				frame = relay.ServerFrame{T: relay.TypePickup, ID2: &idx}
			case 1:
				frame = relay.ServerFrame{T: relay.TypeScore}
			}
			if err := writeFrame(conn, frame); err != nil {
				break loop
			}
		}
	}

	mu.Lock()
	defer mu.Unlock()
	types := make([]string, 0, len(received))
	for t := range received {
		types = append(types, t)
	}
	sort.Strings(types)
	summary := ""
	for _, t := range types {
		summary += fmt.Sprintf(" %s=%d", t, received[t])
	}
	log.Printf("bot %d (%s) received:%s", n, name, summary)
	return nil
}

func writeFrame(conn *websocket.Conn, frame relay.ServerFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
