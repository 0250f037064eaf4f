package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	ordersv1 "github.com/vladislavdragonenkov/orderdesk/proto/orders/v1"
)

type loadMode string

const (
	// modeSubmit отправляет заказы с уникальными кодами; каждый должен быть принят.
	modeSubmit loadMode = "submit"
	// modeSubmitGet после отправки читает заказ обратно и сверяет его.
	modeSubmitGet loadMode = "submit-get"
	// modeDuplicate шлёт один код параллельно несколько раз; принят должен быть ровно один.
	modeDuplicate loadMode = "duplicate"
)

var errDuplicateViolation = errors.New("client reference code accepted more than once")

type config struct {
	addr        string
	total       int
	totalSet    bool
	duration    time.Duration
	concurrency int
	connections int
	timeout     time.Duration
	mode        loadMode
	dupes       int
	items       int
	unitPrice   decimal.Decimal
	codePrefix  string
	outputPath  string
}

func parseConfig(args []string) (config, error) {
	var (
		cfg           config
		modeValue     string
		timeoutValue  string
		durationValue string
		priceValue    string
	)

	fs := flag.NewFlagSet("loadtest", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.addr, "addr", "localhost:50051", "gRPC target address")
	fs.IntVar(&cfg.total, "total", 400, "total scenarios to execute in count mode; in duration mode only used when explicitly set")
	fs.StringVar(&durationValue, "duration", "0s", "optional time-based run duration (e.g. 10m, 15m)")
	fs.IntVar(&cfg.concurrency, "concurrency", 40, "number of concurrent workers")
	fs.IntVar(&cfg.connections, "connections", 20, "number of gRPC client connections")
	fs.StringVar(&timeoutValue, "timeout", "5s", "per-RPC timeout")
	fs.StringVar(&modeValue, "mode", string(modeSubmit), "load mode: submit | submit-get | duplicate")
	fs.IntVar(&cfg.dupes, "dupes", 8, "parallel submissions per client reference code in duplicate mode")
	fs.IntVar(&cfg.items, "items", 2, "order lines per order")
	fs.StringVar(&priceValue, "unit-price", "9.99", "unit price of every order line")
	fs.StringVar(&cfg.codePrefix, "code-prefix", "load", "client reference code prefix")
	fs.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	timeout, err := time.ParseDuration(strings.TrimSpace(timeoutValue))
	if err != nil {
		return cfg, fmt.Errorf("parse timeout: %w", err)
	}
	cfg.timeout = timeout

	duration, err := time.ParseDuration(strings.TrimSpace(durationValue))
	if err != nil {
		return cfg, fmt.Errorf("parse duration: %w", err)
	}
	cfg.duration = duration

	price, err := decimal.NewFromString(strings.TrimSpace(priceValue))
	if err != nil {
		return cfg, fmt.Errorf("parse unit-price: %w", err)
	}
	cfg.unitPrice = price

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "total" {
			cfg.totalSet = true
		}
	})

	if cfg.mode, err = parseMode(modeValue); err != nil {
		return cfg, err
	}

	switch {
	case cfg.duration < 0:
		return cfg, errors.New("duration must be >= 0")
	case cfg.duration == 0 && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when duration is not set")
	case cfg.duration > 0 && cfg.totalSet && cfg.total <= 0:
		return cfg, errors.New("total must be > 0 when explicitly set with duration")
	case cfg.concurrency <= 0:
		return cfg, errors.New("concurrency must be > 0")
	case cfg.connections <= 0:
		return cfg, errors.New("connections must be > 0")
	case cfg.timeout <= 0:
		return cfg, errors.New("timeout must be > 0")
	case cfg.mode == modeDuplicate && cfg.dupes < 2:
		return cfg, errors.New("dupes must be >= 2 in duplicate mode")
	case cfg.items <= 0:
		return cfg, errors.New("items must be > 0")
	case cfg.unitPrice.IsNegative():
		return cfg, errors.New("unit-price must be >= 0")
	case !cfg.unitPrice.Equal(cfg.unitPrice.Truncate(4)):
		return cfg, errors.New("unit-price must have at most 4 fractional digits")
	case strings.TrimSpace(cfg.codePrefix) == "":
		return cfg, errors.New("code-prefix is required")
	}

	return cfg, nil
}

func parseMode(value string) (loadMode, error) {
	switch mode := loadMode(strings.TrimSpace(value)); mode {
	case modeSubmit, modeSubmitGet, modeDuplicate:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported mode: %s", value)
	}
}

// buildRequest собирает заказ с согласованными суммами.
func buildRequest(cfg config, code string) *ordersv1.SubmitOrderRequest {
	payload := &ordersv1.OrderPayload{
		Description: "load test order",
		Items:       make([]*ordersv1.OrderItem, 0, cfg.items),
	}

	total := decimal.Zero
	for i := 0; i < cfg.items; i++ {
		units := int32(i%3 + 1)
		lineTotal := cfg.unitPrice.Mul(decimal.NewFromInt32(units))
		payload.Items = append(payload.Items, &ordersv1.OrderItem{
			ItemId:     uuid.NewString(),
			UnitPrice:  cfg.unitPrice.String(),
			Units:      units,
			TotalPrice: lineTotal.String(),
		})
		payload.ItemCount += units
		total = total.Add(lineTotal)
	}
	payload.TotalAmount = total.String()

	return &ordersv1.SubmitOrderRequest{ClientReferenceCode: code, Order: payload}
}

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	conns := make([]*grpc.ClientConn, 0, cfg.connections)
	clients := make([]ordersv1.OrderServiceClient, 0, cfg.connections)
	for i := 0; i < cfg.connections; i++ {
		conn, dialErr := grpc.NewClient(cfg.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if dialErr != nil {
			log.WithError(dialErr).Fatal("failed to create grpc client connection")
		}
		conns = append(conns, conn)
		clients = append(clients, ordersv1.NewOrderServiceClient(conn))
	}

	result := runLoad(clients, cfg)
	for _, conn := range conns {
		_ = conn.Close()
	}

	printReport(os.Stdout, result, cfg)
	if cfg.outputPath != "" {
		if err := writeJSONReport(cfg.outputPath, result); err != nil {
			log.WithError(err).Fatal("failed to write report")
		}
	}

	if !result.passed() {
		log.WithFields(log.Fields{
			"failed":     result.FailedScenarios,
			"violations": result.Violations,
		}).Error("load test failed")
		os.Exit(1)
	}
}

// runLoad раздаёт сценарии воркерам и собирает отчёт.
func runLoad(clients []ordersv1.OrderServiceClient, cfg config) report {
	startedAt := time.Now()
	runID := fmt.Sprintf("%d-%d", startedAt.UnixNano(), os.Getpid())
	col := newCollector()

	jobs := make(chan int, cfg.concurrency*2)
	var wg sync.WaitGroup
	for workerID := 0; workerID < cfg.concurrency; workerID++ {
		wg.Add(1)
		go func(client ordersv1.OrderServiceClient) {
			defer wg.Done()
			for id := range jobs {
				_ = runScenario(client, cfg, id, runID, col)
			}
		}(clients[workerID%len(clients)])
	}

	dispatchJobs(jobs, cfg)
	wg.Wait()

	return col.buildReport(startedAt, time.Since(startedAt))
}

func dispatchJobs(jobs chan<- int, cfg config) {
	defer close(jobs)

	if cfg.duration <= 0 {
		for i := 0; i < cfg.total; i++ {
			jobs <- i
		}
		return
	}

	timer := time.NewTimer(cfg.duration)
	defer timer.Stop()

	for i := 0; ; i++ {
		if cfg.totalSet && i >= cfg.total {
			return
		}

		select {
		case <-timer.C:
			return
		case jobs <- i:
		}
	}
}

func runScenario(client ordersv1.OrderServiceClient, cfg config, index int, runID string, col *collector) (err error) {
	started := time.Now()
	defer func() {
		col.record(scenarioMethod, time.Since(started), grpcCode(err), err == nil)
	}()

	code := fmt.Sprintf("%s-%s-%d", cfg.codePrefix, runID, index)
	req := buildRequest(cfg, code)

	if cfg.mode == modeDuplicate {
		return submitDuplicates(client, cfg, req, col)
	}

	resp, err := callSubmitOrder(client, cfg.timeout, req, col)
	if err != nil {
		return err
	}
	col.recordOutcome(1, 0, false)

	orderID := resp.GetOrder().GetId()
	if orderID == "" {
		return status.Error(codes.Internal, "submit response returned empty order id")
	}
	if cfg.mode == modeSubmit {
		return nil
	}

	got, err := callGetOrder(client, cfg.timeout, orderID, col)
	if err != nil {
		return err
	}
	if got.GetOrder().GetClientReferenceCode() != code || len(got.GetOrder().GetItems()) != cfg.items {
		return status.Errorf(codes.DataLoss, "order %s read back with unexpected content", orderID)
	}
	return nil
}

// submitDuplicates отправляет один запрос cfg.dupes раз параллельно.
// Ровно одна отправка должна пройти, остальные получают AlreadyExists.
func submitDuplicates(client ordersv1.OrderServiceClient, cfg config, req *ordersv1.SubmitOrderRequest, col *collector) error {
	var (
		mu                   sync.Mutex
		accepted, duplicates int64
		firstErr             error
		wg                   sync.WaitGroup
	)

	for i := 0; i < cfg.dupes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := callSubmitOrder(client, cfg.timeout, req, col)

			mu.Lock()
			defer mu.Unlock()
			switch grpcCode(err) {
			case codes.OK:
				accepted++
			case codes.AlreadyExists:
				duplicates++
			default:
				if firstErr == nil {
					firstErr = err
				}
			}
		}()
	}
	wg.Wait()

	violation := accepted > 1
	col.recordOutcome(accepted, duplicates, violation)

	switch {
	case violation:
		return status.Errorf(codes.Aborted, "%v: %s accepted %d times", errDuplicateViolation, req.GetClientReferenceCode(), accepted)
	case firstErr != nil:
		return firstErr
	case accepted == 0:
		return status.Errorf(codes.FailedPrecondition, "%s was never accepted", req.GetClientReferenceCode())
	}
	return nil
}

func callSubmitOrder(client ordersv1.OrderServiceClient, timeout time.Duration, req *ordersv1.SubmitOrderRequest, col *collector) (*ordersv1.SubmitOrderResponse, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.SubmitOrder(ctx, req)
	code := grpcCode(err)
	col.record("SubmitOrder", time.Since(start), code, code == codes.OK || code == codes.AlreadyExists)
	return resp, err
}

func callGetOrder(client ordersv1.OrderServiceClient, timeout time.Duration, orderID string, col *collector) (*ordersv1.GetOrderResponse, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.GetOrder(ctx, &ordersv1.GetOrderRequest{OrderId: orderID})
	col.record("GetOrder", time.Since(start), grpcCode(err), err == nil)
	return resp, err
}

func grpcCode(err error) codes.Code {
	if err == nil {
		return codes.OK
	}
	return status.Code(err)
}
