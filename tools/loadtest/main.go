package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	url := flag.String("url", "ws://localhost:8080/ws", "WebSocket server URL")
	pairs := flag.Int("pairs", 10, "Number of concurrent customer/shop pairs")
	messages := flag.Int("messages", 10, "Messages per customer")
	flag.Parse()

	log.Printf("Load test: %d pairs, %d messages each", *pairs, *messages)

	var (
		connected int64
		sent      int64
		received  int64
		errors    int64
		latencies []time.Duration
		latencyMu sync.Mutex
		wg        sync.WaitGroup
	)

	start := time.Now()

	for i := 0; i < *pairs; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()

			shopID := int64(id + 1)
			customerID := int64(10000 + id)

			shop, _, err := websocket.DefaultDialer.Dial(*url, nil)
			if err != nil {
				atomic.AddInt64(&errors, 1)
				log.Printf("pair %d: shop dial error: %v", id, err)
				return
			}
			defer shop.Close()
			atomic.AddInt64(&connected, 1)

			customer, _, err := websocket.DefaultDialer.Dial(*url, nil)
			if err != nil {
				atomic.AddInt64(&errors, 1)
				log.Printf("pair %d: customer dial error: %v", id, err)
				return
			}
			defer customer.Close()
			atomic.AddInt64(&connected, 1)

			// Count deliveries on the shop side.
			done := make(chan struct{})
			go func() {
				defer close(done)
				for {
					_, data, err := shop.ReadMessage()
					if err != nil {
						return
					}
					var msg map[string]interface{}
					if json.Unmarshal(data, &msg) == nil && msg["type"] == "receive_message" {
						atomic.AddInt64(&received, 1)
					}
				}
			}()

			registerShop, _ := json.Marshal(map[string]interface{}{
				"type": "register_user", "user_id": customerID + 1, "role": "shopkeeper", "shop_id": shopID,
			})
			shop.WriteMessage(websocket.TextMessage, registerShop)

			registerCustomer, _ := json.Marshal(map[string]interface{}{
				"type": "register_user", "user_id": customerID, "role": "customer",
			})
			customer.WriteMessage(websocket.TextMessage, registerCustomer)
			time.Sleep(100 * time.Millisecond)

			for j := 0; j < *messages; j++ {
				sendTime := time.Now()
				sendMsg, _ := json.Marshal(map[string]interface{}{
					"type": "send_message", "shop_id": shopID,
					"message": fmt.Sprintf("msg %d from customer %d", j, customerID),
				})
				if err := customer.WriteMessage(websocket.TextMessage, sendMsg); err != nil {
					atomic.AddInt64(&errors, 1)
					return
				}
				atomic.AddInt64(&sent, 1)
				lat := time.Since(sendTime)
				latencyMu.Lock()
				latencies = append(latencies, lat)
				latencyMu.Unlock()
				time.Sleep(10 * time.Millisecond)
			}

			// Wait a bit for remaining deliveries.
			time.Sleep(500 * time.Millisecond)
			customer.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			shop.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		}(i)
	}

	wg.Wait()
	elapsed := time.Since(start)

	// Calculate percentiles.
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	fmt.Println("\n=== Load Test Results ===")
	fmt.Printf("Duration:    %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Connected:   %d sessions\n", connected)
	fmt.Printf("Sent:        %d messages\n", sent)
	fmt.Printf("Delivered:   %d messages\n", received)
	fmt.Printf("Errors:      %d\n", errors)
	if len(latencies) > 0 {
		fmt.Printf("Latency p50: %s\n", percentile(latencies, 50))
		fmt.Printf("Latency p95: %s\n", percentile(latencies, 95))
		fmt.Printf("Latency p99: %s\n", percentile(latencies, 99))
	}
	fmt.Printf("Throughput:  %.0f msgs/sec\n", float64(sent)/elapsed.Seconds())
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
