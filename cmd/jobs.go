package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/klarkurs/mpu-platform/app/service"
	"github.com/klarkurs/mpu-platform/config"
)

var (
	workerMode bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Run payment event related commands",
}

var eventsUnprocessedCmd = &cobra.Command{
	Use:   "unprocessed",
	Short: "Report acked payment events whose effects were never applied",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"events_unprocessed",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.UnprocessedEventsInterval },
			func(s *service.PaymentService, ctx context.Context) error {
				return s.RunUnprocessedEventsBatch(ctx)
			},
		)
	},
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Run order related commands",
}

var ordersExpireCmd = &cobra.Command{
	Use:   "expire",
	Short: "Report orders stuck pending past the configured cutoff",
	Run: func(_ *cobra.Command, _ []string) {
		runCommand(
			"orders_expire",
			func(cfg *config.Config) time.Duration { return cfg.Jobs.StaleOrdersInterval },
			func(s *service.PaymentService, ctx context.Context) error {
				return s.RunStaleOrdersBatch(ctx)
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(ordersCmd)
	eventsCmd.AddCommand(eventsUnprocessedCmd)
	ordersCmd.AddCommand(ordersExpireCmd)

	rootCmd.PersistentFlags().BoolVar(&workerMode, "worker", false, "Run continuously using configured interval")
}

func runCommand(
	name string,
	intervalResolver func(cfg *config.Config) time.Duration,
	fn func(s *service.PaymentService, ctx context.Context) error,
) {
	cfg, svcs, cleanup := mustCreateServices()
	defer cleanup()

	if workerMode {
		runWorker(name, intervalResolver(cfg), svcs.payment, fn)
		return
	}

	ctx := context.Background()
	runJob(name, func() error { return fn(svcs.payment, ctx) })
}

func runWorker(
	name string,
	interval time.Duration,
	paymentService *service.PaymentService,
	fn func(s *service.PaymentService, ctx context.Context) error,
) {
	if interval <= 0 {
		logrus.WithField("job", name).Fatal("invalid worker interval")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runJob(name, func() error { return fn(paymentService, ctx) })

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	for {
		select {
		case <-quit:
			logrus.WithField("job", name).Info("Worker shutdown requested")
			return
		case <-ticker.C:
			runJob(name, func() error { return fn(paymentService, ctx) })
		}
	}
}

func runJob(name string, fn func() error) {
	start := time.Now()
	err := fn()
	latency := time.Since(start)
	if err != nil {
		logrus.WithError(err).WithField("job", name).WithField("latency", latency.String()).Error("job_failed")
		return
	}
	logrus.WithField("job", name).WithField("latency", latency.String()).Info("job_completed")
}
