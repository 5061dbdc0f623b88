// Command terrarium drives the simulation core headlessly, optionally
// broadcasting snapshots to websocket viewers.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/GoCodeAlone/terrarium/internal/config"
	"github.com/GoCodeAlone/terrarium/internal/driver"
	"github.com/GoCodeAlone/terrarium/internal/world"
)

func main() {
	var (
		population = flag.Int("population", 0, "Bootstrap population (0 keeps the default)")
		worldSize  = flag.Float64("world-size", 0, "World side length (0 keeps the default)")
		seed       = flag.Uint64("seed", 0, "Base RNG seed (0 keeps the default)")
		ticks      = flag.Uint64("ticks", 0, "Number of ticks to run (0 runs forever)")
		webMode    = flag.Bool("web", false, "Broadcast snapshots over a websocket at /ws")
		webPort    = flag.Int("web-port", 8080, "Port for the websocket broadcaster")
	)
	flag.Parse()

	cfg := config.DefaultConfig()
	if *population > 0 {
		cfg.InitialPopulation = *population
	}
	if *worldSize > 0 {
		cfg.WorldSize = *worldSize
	}
	if *seed > 0 {
		cfg.Seed = *seed
	}

	w, err := world.New(cfg)
	if err != nil {
		log.Fatalf("terrarium: invalid configuration: %v", err)
	}

	var broadcaster *driver.Broadcaster
	if *webMode {
		broadcaster = driver.NewBroadcaster()
		http.Handle("/ws", broadcaster.Handler())
		addr := fmt.Sprintf(":%d", *webPort)
		go func() {
			log.Printf("terrarium: broadcasting snapshots on ws://localhost%s/ws", addr)
			if err := http.ListenAndServe(addr, nil); err != nil {
				log.Fatalf("terrarium: websocket server failed: %v", err)
			}
		}()
	}

	var tick uint64
	for *ticks == 0 || tick < *ticks {
		m := w.Step(tick)
		log.Printf("tick=%d population=%d births=%d deaths=%d groups=%d avg_energy=%.2f avg_age=%.2f",
			m.Tick, m.Population, m.Births, m.Deaths, m.Groups, m.AverageEnergy, m.AverageAge)
		if broadcaster != nil {
			broadcaster.Publish(w.Snapshot(tick))
		}
		tick++
	}
}
