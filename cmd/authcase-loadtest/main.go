package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/MrEthical07/authcase"
	"github.com/MrEthical07/authcase/jwt"
	"github.com/MrEthical07/authcase/metrics/export/prometheus"
	"github.com/MrEthical07/authcase/notify"
	"github.com/MrEthical07/authcase/provider"
	"github.com/MrEthical07/authcase/registry"
	"github.com/alicebob/miniredis/v2"
	"github.com/caarlos0/env/v11"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type envConfig struct {
	RedisAddr string `env:"REDIS_ADDR"`
	Channel   string `env:"AUTHCASE_CHANNEL" envDefault:"authcase:auth-changed"`
	TokenKey  string `env:"AUTHCASE_TOKEN_KEY" envDefault:"authcase:loadtest:access"`
	LogLevel  string `env:"AUTHCASE_LOG_LEVEL" envDefault:"warn"`
}

func main() {
	var (
		useCases    = flag.Int("usecases", 1000, "number of continuous use cases to start")
		events      = flag.Int("events", 50, "auth change events to publish")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		showMetrics = flag.Bool("metrics", true, "print Prometheus metrics after the run")
		settle      = flag.Duration("settle", 10*time.Second, "maximum wait for outputs to settle")
	)
	flag.Parse()

	if *useCases <= 0 || *events <= 0 {
		fmt.Fprintln(os.Stderr, "usecases and events must be > 0")
		os.Exit(2)
	}

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "parse env: %v\n", err)
		os.Exit(2)
	}
	if *redisAddr != "" {
		cfg.RedisAddr = *redisAddr
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, cleanup, err := openRedis(cfg.RedisAddr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "redis: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	manager, err := newManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jwt: %v\n", err)
		os.Exit(1)
	}
	if err := seedToken(ctx, client, manager, cfg.TokenKey, 0); err != nil {
		fmt.Fprintf(os.Stderr, "seed token: %v\n", err)
		os.Exit(1)
	}

	source, err := provider.NewRedisTokenSource(client, cfg.TokenKey, manager)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token source: %v\n", err)
		os.Exit(1)
	}

	reg := registry.New(registry.WithLogger(logger))
	metrics := authcase.NewMetrics(authcase.MetricsConfig{Enabled: true, EnableLatencyHistograms: true})
	var transportErrors int64
	var errMu sync.Mutex

	cases := make([]*authcase.UseCase[*jwt.Claims, string], 0, *useCases)
	outputs := make([]*authcase.OutputStream[string], 0, *useCases)
	startUseCases := time.Now()
	for i := 0; i < *useCases; i++ {
		u, err := authcase.New[*jwt.Claims, string]().
			WithConfig(authcase.ContinuousConfig(false)).
			WithContext(ctx).
			WithRegistry(reg).
			WithLogger(logger).
			WithMetrics(metrics).
			WithAuth(source.Stream).
			WithExecute(func(c *jwt.Claims) authcase.Stream[string] {
				return authcase.Just(c.Subject + "/" + c.SessionID)
			}).
			WithErrorMapper(func(err authcase.AuthError) string { return "auth-error: " + err.Error() }).
			WithLifecycle(authcase.Lifecycle{ErrorSink: func(error) {
				errMu.Lock()
				transportErrors++
				errMu.Unlock()
			}}).
			Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "build use case: %v\n", err)
			os.Exit(1)
		}
		out, err := u.Start()
		if err != nil {
			fmt.Fprintf(os.Stderr, "start use case: %v\n", err)
			os.Exit(1)
		}
		cases = append(cases, u)
		outputs = append(outputs, out)
	}
	fmt.Printf("started %d use cases in %s\n", len(cases), time.Since(startUseCases).Round(time.Millisecond))

	var (
		latMu     sync.Mutex
		latencies = make([]time.Duration, 0, *events)
		received  = make(chan struct{}, *events)
	)
	listener := notify.NewListener(client, reg,
		notify.WithChannel(cfg.Channel),
		notify.WithLogger(logger),
		notify.WithEventHook(func(e notify.Event, _ int) {
			latMu.Lock()
			latencies = append(latencies, time.Since(e.At))
			latMu.Unlock()
			received <- struct{}{}
		}),
	)
	if err := listener.Listen(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "listen: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = listener.Close() }()

	publisher := notify.NewPublisher(client, cfg.Channel)
	reasons := []notify.Reason{notify.ReasonRefresh, notify.ReasonLogin}
	startEvents := time.Now()
	for i := 0; i < *events; i++ {
		if err := seedToken(ctx, client, manager, cfg.TokenKey, i+1); err != nil {
			fmt.Fprintf(os.Stderr, "rotate token: %v\n", err)
			os.Exit(1)
		}
		if _, _, err := publisher.Publish(ctx, reasons[i%len(reasons)]); err != nil {
			fmt.Fprintf(os.Stderr, "publish: %v\n", err)
			os.Exit(1)
		}
	}
	for i := 0; i < *events; i++ {
		select {
		case <-received:
		case <-time.After(*settle):
			fmt.Fprintf(os.Stderr, "only %d of %d events relayed\n", i, *events)
			os.Exit(1)
		}
	}
	broadcastTotal := time.Since(startEvents)

	values, settled := waitSettled(outputs, *settle)

	latMu.Lock()
	stats := computeStats(broadcastTotal, latencies)
	latMu.Unlock()

	fmt.Println("---- results ----")
	printStats("broadcast", stats)
	errMu.Lock()
	fmt.Printf("outputs: values=%d per_usecase=%.1f transport_errors=%d settled=%v\n",
		values, float64(values)/float64(len(outputs)), transportErrors, settled)
	errMu.Unlock()

	if *showMetrics {
		fmt.Println("---- metrics ----")
		fmt.Print(prometheus.NewPrometheusExporter(metrics, reg).Render())
	}

	for _, u := range cases {
		u.TearDown()
	}
	fmt.Printf("torn down, registry members=%d\n", reg.Len())
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func openRedis(addr string) (redis.UniversalClient, func(), error) {
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start miniredis: %w", err)
		}
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{mr.Addr()},
		})
		fmt.Printf("using miniredis at %s\n", mr.Addr())
		return client, func() {
			_ = client.Close()
			mr.Close()
		}, nil
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: []string{addr},
	})
	fmt.Printf("using redis at %s\n", addr)
	return client, func() { _ = client.Close() }, nil
}

func newManager() (*jwt.Manager, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return jwt.NewManager(jwt.Config{
		TTL:           time.Hour,
		SigningMethod: jwt.MethodHS256,
		PrivateKey:    secret,
		Issuer:        "authcase-loadtest",
	})
}

func seedToken(ctx context.Context, client redis.UniversalClient, manager *jwt.Manager, key string, generation int) error {
	token, err := manager.Issue("loadtest-user", fmt.Sprintf("sid-%d", generation))
	if err != nil {
		return err
	}
	return client.Set(ctx, key, token, time.Hour).Err()
}

// waitSettled polls until the total number of relayed values stops changing
// for a few consecutive intervals, or limit elapses.
func waitSettled(outputs []*authcase.OutputStream[string], limit time.Duration) (int, bool) {
	const quiet = 5
	deadline := time.Now().Add(limit)
	last, stable := -1, 0
	for time.Now().Before(deadline) {
		total := 0
		for _, out := range outputs {
			total += out.Len()
		}
		if total == last {
			stable++
			if stable >= quiet {
				return total, true
			}
		} else {
			last, stable = total, 0
		}
		time.Sleep(20 * time.Millisecond)
	}
	return last, false
}

type phaseStats struct {
	total   time.Duration
	ops     int
	p50     time.Duration
	p95     time.Duration
	p99     time.Duration
	opsPerS float64
}

func computeStats(total time.Duration, samples []time.Duration) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return phaseStats{
		total:   total,
		ops:     len(sorted),
		p50:     percentile(sorted, 50),
		p95:     percentile(sorted, 95),
		p99:     percentile(sorted, 99),
		opsPerS: float64(len(sorted)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: events=%d total=%s events/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
