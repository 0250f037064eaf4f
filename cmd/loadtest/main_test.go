package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	ordersv1 "github.com/vladislavdragonenkov/orderdesk/proto/orders/v1"
)

// fakeOrderServiceClient хранит заказы в памяти; acceptAll ломает уникальность кода.
type fakeOrderServiceClient struct {
	mu        sync.Mutex
	byCode    map[string]*ordersv1.Order
	byID      map[string]*ordersv1.Order
	acceptAll bool
	failWith  error
	seq       atomic.Int64
}

func newFakeClient() *fakeOrderServiceClient {
	return &fakeOrderServiceClient{
		byCode: make(map[string]*ordersv1.Order),
		byID:   make(map[string]*ordersv1.Order),
	}
}

func (f *fakeOrderServiceClient) SubmitOrder(_ context.Context, req *ordersv1.SubmitOrderRequest, _ ...grpc.CallOption) (*ordersv1.SubmitOrderResponse, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.byCode[req.GetClientReferenceCode()]; exists && !f.acceptAll {
		return nil, status.Error(codes.AlreadyExists, "duplicate")
	}

	order := &ordersv1.Order{
		Id:                  fmt.Sprintf("order-%d", f.seq.Add(1)),
		ClientReferenceCode: req.GetClientReferenceCode(),
		Status:              "SUBMITTED",
	}
	for _, item := range req.GetOrder().GetItems() {
		order.Items = append(order.Items, &ordersv1.OrderLine{ItemId: item.GetItemId()})
	}
	f.byCode[order.ClientReferenceCode] = order
	f.byID[order.Id] = order
	return &ordersv1.SubmitOrderResponse{Order: order}, nil
}

func (f *fakeOrderServiceClient) GetOrder(_ context.Context, req *ordersv1.GetOrderRequest, _ ...grpc.CallOption) (*ordersv1.GetOrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	order, ok := f.byID[req.GetOrderId()]
	if !ok {
		return nil, status.Error(codes.NotFound, "not found")
	}
	return &ordersv1.GetOrderResponse{Order: order}, nil
}

func (f *fakeOrderServiceClient) ListOrders(context.Context, *emptypb.Empty, ...grpc.CallOption) (*ordersv1.ListOrdersResponse, error) {
	return &ordersv1.ListOrdersResponse{}, nil
}

var _ ordersv1.OrderServiceClient = (*fakeOrderServiceClient)(nil)

func testConfig(mode loadMode) config {
	return config{
		total:       20,
		concurrency: 4,
		connections: 1,
		timeout:     time.Second,
		mode:        mode,
		dupes:       6,
		items:       3,
		unitPrice:   decimal.RequireFromString("2.50"),
		codePrefix:  "test",
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range []loadMode{modeSubmit, modeSubmitGet, modeDuplicate} {
		got, err := parseMode(" " + string(mode) + " ")
		require.NoError(t, err)
		require.Equal(t, mode, got)
	}

	_, err := parseMode("create-pay")
	require.Error(t, err)
}

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig(nil)
	require.NoError(t, err)
	require.Equal(t, modeSubmit, cfg.mode)
	require.Equal(t, 400, cfg.total)
	require.False(t, cfg.totalSet)
	require.True(t, cfg.unitPrice.Equal(decimal.RequireFromString("9.99")))

	cfg, err = parseConfig([]string{"-mode=duplicate", "-dupes=4", "-duration=1s", "-total=10", "-unit-price=0"})
	require.NoError(t, err)
	require.Equal(t, modeDuplicate, cfg.mode)
	require.True(t, cfg.totalSet)
	require.Equal(t, time.Second, cfg.duration)

	invalid := [][]string{
		{"-timeout=soon"},
		{"-duration=-1s"},
		{"-total=0"},
		{"-duration=1s", "-total=0"},
		{"-concurrency=0"},
		{"-connections=0"},
		{"-timeout=0s"},
		{"-mode=duplicate", "-dupes=1"},
		{"-items=0"},
		{"-unit-price=-1"},
		{"-unit-price=abc"},
		{"-unit-price=0.12345"},
		{"-code-prefix= "},
		{"-mode=refund"},
	}
	for _, args := range invalid {
		_, err := parseConfig(args)
		require.Error(t, err, args)
	}
}

func TestBuildRequest_ConsistentTotals(t *testing.T) {
	req := buildRequest(testConfig(modeSubmit), "CODE-1")

	require.Equal(t, "CODE-1", req.GetClientReferenceCode())
	require.Len(t, req.GetOrder().GetItems(), 3)

	sum := decimal.Zero
	var units int32
	for _, item := range req.GetOrder().GetItems() {
		price := decimal.RequireFromString(item.GetUnitPrice())
		total := decimal.RequireFromString(item.GetTotalPrice())
		require.True(t, price.Mul(decimal.NewFromInt32(item.GetUnits())).Equal(total))
		sum = sum.Add(total)
		units += item.GetUnits()
	}
	require.Equal(t, units, req.GetOrder().GetItemCount())
	require.True(t, sum.Equal(decimal.RequireFromString(req.GetOrder().GetTotalAmount())))
}

func TestDispatchJobs(t *testing.T) {
	jobs := make(chan int, 10)
	dispatchJobs(jobs, config{total: 5})

	var got []int
	for id := range jobs {
		got = append(got, id)
	}
	require.Equal(t, []int{0, 1, 2, 3, 4}, got)

	jobs = make(chan int, 100)
	dispatchJobs(jobs, config{total: 3, totalSet: true, duration: time.Second})
	require.Len(t, jobs, 3)
}

func TestRunLoad_Submit(t *testing.T) {
	cfg := testConfig(modeSubmitGet)
	result := runLoad([]ordersv1.OrderServiceClient{newFakeClient()}, cfg)

	require.True(t, result.passed())
	require.EqualValues(t, cfg.total, result.TotalScenarios)
	require.EqualValues(t, cfg.total, result.AcceptedOrders)
	require.EqualValues(t, cfg.total, result.Methods["GetOrder"].Calls)
}

func TestRunLoad_DuplicateModeHoldsUniqueness(t *testing.T) {
	cfg := testConfig(modeDuplicate)
	result := runLoad([]ordersv1.OrderServiceClient{newFakeClient()}, cfg)

	require.True(t, result.passed())
	require.EqualValues(t, cfg.total, result.AcceptedOrders)
	require.EqualValues(t, cfg.total*(cfg.dupes-1), result.RejectedDuplicate)
	require.Zero(t, result.Violations)
	require.EqualValues(t, cfg.total*(cfg.dupes-1), result.Methods["SubmitOrder"].Codes[codes.AlreadyExists.String()])
}

func TestRunLoad_DuplicateModeDetectsViolation(t *testing.T) {
	broken := newFakeClient()
	broken.acceptAll = true

	cfg := testConfig(modeDuplicate)
	result := runLoad([]ordersv1.OrderServiceClient{broken}, cfg)

	require.False(t, result.passed())
	require.EqualValues(t, cfg.total, result.Violations)
	require.EqualValues(t, cfg.total, result.FailedScenarios)
}

func TestRunLoad_ServerErrors(t *testing.T) {
	failing := newFakeClient()
	failing.failWith = status.Error(codes.Unavailable, "store unavailable")

	result := runLoad([]ordersv1.OrderServiceClient{failing}, testConfig(modeSubmit))

	require.False(t, result.passed())
	require.EqualValues(t, 20, result.FailedScenarios)
	require.EqualValues(t, 20, result.Methods[scenarioMethod].Codes[codes.Unavailable.String()])
}

func TestPercentileAndRatio(t *testing.T) {
	require.Zero(t, percentile(nil, 50))
	require.Equal(t, 7.0, percentile([]float64{7}, 99))
	require.InDelta(t, 2.5, percentile([]float64{1, 2, 3, 4}, 50), 1e-9)
	require.Zero(t, ratio(1, 0))
	require.InDelta(t, 0.25, ratio(1, 4), 1e-9)

	summary := buildLatencySummary([]float64{3, 1, 2})
	require.Equal(t, 1.0, summary.Min)
	require.Equal(t, 3.0, summary.Max)
	require.Equal(t, 2.0, summary.Avg)
}

func TestWriteJSONReport(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	result := report{TotalScenarios: 3, Violations: 1}
	require.NoError(t, writeJSONReport("report.json", result))

	raw, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.EqualValues(t, 1, decoded["violations"])

	require.Error(t, writeJSONReport(".", result))
	require.Error(t, writeJSONReport("../escape.json", result))
}

func TestPrintReport(t *testing.T) {
	cfg := testConfig(modeDuplicate)
	result := runLoad([]ordersv1.OrderServiceClient{newFakeClient()}, cfg)

	var out bytes.Buffer
	printReport(&out, result, cfg)

	require.Contains(t, out.String(), "mode=duplicate run=count:20")
	require.Contains(t, out.String(), "violations=0")
	require.Contains(t, out.String(), "SubmitOrder: calls=120")
}
