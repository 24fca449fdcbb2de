// asynclog-demo is a load generator for the logging pipeline. It runs a
// number of producer goroutines against one logger and prints the queue
// statistics when they finish, optionally serving Prometheus metrics
// while the run is in progress.
package main

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mbraunert/asynclog/config"
	"github.com/mbraunert/asynclog/core"
	"github.com/mbraunert/asynclog/metrics"
)

var (
	cfgPath     string
	producers   int
	count       int
	levelName   string
	filePath    string
	metricsAddr string
	capacity    int
	drop        bool
	syncMode    bool

	rootCmd = &cobra.Command{
		Use:   "asynclog-demo",
		Short: "Generate log load and report pipeline statistics",
		RunE:  run,
	}
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&cfgPath, "config", "c", "", "config file (json, yaml or toml)")
	f.IntVarP(&producers, "producers", "p", 4, "number of producer goroutines")
	f.IntVarP(&count, "count", "n", 10000, "messages per producer")
	f.StringVarP(&levelName, "level", "l", "", "minimum level (overrides config)")
	f.StringVarP(&filePath, "file", "f", "", "log file (overrides config; default console)")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.IntVar(&capacity, "capacity", 0, "queue capacity (overrides config)")
	f.BoolVar(&drop, "drop", false, "drop on overflow instead of waiting")
	f.BoolVar(&syncMode, "sync", false, "log synchronously, bypassing the queue")
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("level") {
		cfg.Level = levelName
	}
	if flags.Changed("file") {
		cfg.File = filePath
	}
	if flags.Changed("capacity") {
		cfg.Queue.Capacity = capacity
	}
	if flags.Changed("drop") {
		cfg.Queue.DropOnOverflow = drop
	}
	if flags.Changed("sync") {
		cfg.Synchronous = syncMode
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	defer l.Close()

	if metricsAddr != "" {
		if q := l.Queue(); q != nil {
			go func() {
				if err := http.ListenAndServe(metricsAddr, metrics.Handler(q)); err != nil {
					fmt.Fprintln(os.Stderr, "metrics server:", err)
				}
			}()
		}
	}

	start := time.Now()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			runID := uuid.NewString()
			for i := 0; i < count; i++ {
				switch i % 10 {
				case 0:
					l.Debugf("producer %d run %s message %d", id, runID, i)
				case 9:
					l.Warnf("producer %d run %s message %d", id, runID, i)
				default:
					l.Infof("producer %d run %s message %d", id, runID, i)
				}
			}
		}(p)
	}
	wg.Wait()

	if !l.Flush(30 * time.Second) {
		fmt.Fprintln(os.Stderr, "flush timed out; some entries may be unwritten")
	}
	elapsed := time.Since(start)

	st := l.Stats()
	total := producers * count
	fmt.Printf("producers:  %d x %d messages (level %s)\n", producers, count, mustLevel(cfg.Level))
	fmt.Printf("elapsed:    %s (%.0f msg/s)\n", elapsed.Round(time.Millisecond),
		float64(total)/elapsed.Seconds())
	fmt.Printf("enqueued:   %d\n", st.TotalEnqueued)
	fmt.Printf("processed:  %d\n", st.TotalProcessed)
	fmt.Printf("dropped:    %d\n", st.TotalDropped)
	fmt.Printf("pool:       %d created, %d cache hits of %d allocations\n",
		st.Pool.Created, st.Pool.CacheHits, st.Pool.Allocations)
	return nil
}

func mustLevel(s string) core.Level {
	level, err := core.ParseLevel(s)
	if err != nil {
		return core.InfoLevel
	}
	return level
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
