package kv

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/SherlockGy/linekv/client"
	"github.com/SherlockGy/linekv/cmd/util"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for linekv servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix  = "__test"
	perfNumThreads = 10
	perfKeySpread  = 100
	perfOpsPerConn = 1000
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of concurrent connections to use for the benchmark"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("How many operations each connection performs per test"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfKeySpread = viper.GetInt("keys")
	perfOpsPerConn = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for linekv servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Ops per thread: %d\n", perfOpsPerConn)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]metrics.Timer)

	setResult := runBenchmark("set", nil, func(c *client.Client, i int) error {
		return c.Set(perfKey("set", i), "test")
	})
	results["set"] = setResult
	printResult("set", setResult)

	getResult := runBenchmark("get",
		func(c *client.Client) error {
			// preload keys so every read is a hit
			for i := 0; i < perfKeySpread; i++ {
				if err := c.Set(perfKey("get", i), "test"); err != nil {
					return err
				}
			}
			return nil
		},
		func(c *client.Client, i int) error {
			_, _, err := c.Get(perfKey("get", i))
			return err
		})
	results["get"] = getResult
	printResult("get", getResult)

	getMissingResult := runBenchmark("get-missing", nil, func(c *client.Client, i int) error {
		_, _, err := c.Get(perfKey("get-missing", i))
		return err
	})
	results["get-missing"] = getMissingResult
	printResult("get-missing", getMissingResult)

	deleteResult := runBenchmark("delete",
		func(c *client.Client) error {
			for i := 0; i < perfKeySpread; i++ {
				if err := c.Set(perfKey("delete", i), "test"); err != nil {
					return err
				}
			}
			return nil
		},
		func(c *client.Client, i int) error {
			_, err := c.Del(perfKey("delete", i))
			return err
		})
	results["delete"] = deleteResult
	printResult("delete", deleteResult)

	mixedResult := runBenchmark("mixed", nil, func(c *client.Client, i int) error {
		key := perfKey("mixed", i)
		switch i % 3 {
		case 0: // set
			return c.Set(key, "test")
		case 1: // get
			_, _, err := c.Get(key)
			return err
		default: // delete
			_, err := c.Del(key)
			return err
		}
	})
	results["mixed"] = mixedResult
	printResult("mixed", mixedResult)

	// cleanup all test keys
	cleanupTestKeys()

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// perfKey returns a benchmark key by index (with wraparound)
func perfKey(prefix string, i int) string {
	return fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i%perfKeySpread)
}

// runBenchmark runs op perfOpsPerConn times on each of perfNumThreads
// connections and records the latency of every call. The client is not safe
// for concurrent use, so every thread dials its own connection. If setup is
// not nil it runs once on a dedicated connection before the threads start.
func runBenchmark(name string, setup func(*client.Client) error, op func(*client.Client, int) error) metrics.Timer {
	timer := metrics.NewTimer()

	if shouldSkip(name) {
		return timer
	}

	if setup != nil {
		c, err := client.Dial(util.GetClientConfig())
		if err != nil {
			log.Printf("(%s) - error connecting: %v\n", name, err)
			return timer
		}
		err = setup(c)
		_ = c.Close()
		if err != nil {
			log.Printf("(%s) - error preparing keys: %v\n", name, err)
			return timer
		}
	}

	var wg sync.WaitGroup
	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()

			c, err := client.Dial(util.GetClientConfig())
			if err != nil {
				log.Printf("(%s) - error connecting: %v\n", name, err)
				return
			}
			defer c.Close()

			for i := 0; i < perfOpsPerConn; i++ {
				start := time.Now()
				if err := op(c, thread*perfOpsPerConn+i); err != nil {
					log.Printf("(%s) - error performing operation: %v\n", name, err)
					return
				}
				timer.UpdateSince(start)
			}
		}(t)
	}
	wg.Wait()

	return timer
}

// cleanupTestKeys removes every key the benchmarks created
func cleanupTestKeys() {
	c, err := client.Dial(util.GetClientConfig())
	if err != nil {
		log.Printf("(cleanup) - error connecting: %v\n", err)
		return
	}
	defer c.Close()

	keys, err := c.Keys()
	if err != nil {
		log.Printf("(cleanup) - error listing keys: %v\n", err)
		return
	}

	for _, key := range keys {
		if !strings.HasPrefix(key, perfKeyPrefix) {
			continue
		}
		if _, err := c.Del(key); err != nil {
			log.Printf("(cleanup) - error deleting key: %v\n", err)
		}
	}
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer metrics.Timer) {
	if timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	fmt.Printf("%-20s%d ops\t%s/op (p95 %s, p99 %s)\t%.0f ops/sec\n",
		test,
		timer.Count(),
		time.Duration(timer.Mean()),
		time.Duration(timer.Percentile(0.95)),
		time.Duration(timer.Percentile(0.99)),
		timer.RateMean(),
	)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]metrics.Timer, config client.Config) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P95Ns", "P99Ns", "OpsPerSec", "Skipped",
		"Addr", "Proto", "TimeoutSec",
		"Threads", "OpsPerThread", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, timer := range results {
		skipped := "false"
		if timer.Count() == 0 {
			skipped = "true"
		}

		row := []string{
			test,
			strconv.FormatInt(timer.Count(), 10),
			fmt.Sprintf("%.0f", timer.Mean()),
			fmt.Sprintf("%.0f", timer.Percentile(0.95)),
			fmt.Sprintf("%.0f", timer.Percentile(0.99)),
			fmt.Sprintf("%.0f", timer.RateMean()),
			skipped,
			config.Addr,
			config.Proto,
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfOpsPerConn),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
