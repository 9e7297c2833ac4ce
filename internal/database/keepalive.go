package database

import (
	"log"
	"sync"
	"time"
)

// coldThreshold is how long a probe may take before the backend is assumed
// to have been asleep
const coldThreshold = 10 * time.Second

// Keepalive prevents hosted-database cold starts by performing a lightweight
// query at regular intervals, shorter than the provider's auto-pause delay
type Keepalive struct {
	db       *DB
	interval time.Duration

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewKeepalive creates a keepalive service pinging every interval
func NewKeepalive(db *DB, interval time.Duration) *Keepalive {
	return &Keepalive{db: db, interval: interval}
}

// Start performs an immediate warmup ping and begins the background schedule
func (k *Keepalive) Start() {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.running {
		return
	}
	k.running = true
	k.stop = make(chan struct{})
	k.done = make(chan struct{})

	log.Printf("Database keepalive started (pinging every %s)", k.interval)
	k.Ping()

	go k.run()
}

// Stop halts the background schedule and waits for the worker to exit
func (k *Keepalive) Stop() {
	k.mu.Lock()
	if !k.running {
		k.mu.Unlock()
		return
	}
	k.running = false
	close(k.stop)
	done := k.done
	k.mu.Unlock()

	<-done
	log.Println("Database keepalive stopped")
}

func (k *Keepalive) run() {
	defer close(k.done)
	ticker := time.NewTicker(k.interval)
	defer ticker.Stop()
	for {
		select {
		case <-k.stop:
			return
		case <-ticker.C:
			k.Ping()
		}
	}
}

// Ping performs one lightweight round trip and logs whether the backend
// answered warm or had to wake up first
func (k *Keepalive) Ping() bool {
	start := time.Now()

	var userCount int
	err := k.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount)
	elapsed := time.Since(start)

	if err != nil {
		log.Printf("Database keepalive ping failed after %s: %v", elapsed.Round(time.Millisecond), err)
		return false
	}

	if elapsed > coldThreshold {
		log.Printf("Database keepalive ping: cold start, responded in %s (%d users)", elapsed.Round(time.Millisecond), userCount)
	} else {
		log.Printf("Database keepalive ping: warm, responded in %s (%d users)", elapsed.Round(time.Millisecond), userCount)
	}
	return true
}
