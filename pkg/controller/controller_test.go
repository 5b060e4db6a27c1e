package controller_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-priceform/pkg/client"
	"github.com/goliatone/go-priceform/pkg/controller"
	pkgmodel "github.com/goliatone/go-priceform/pkg/model"
	"github.com/goliatone/go-priceform/pkg/testsupport"
)

type result struct {
	prediction client.Prediction
	err        error
}

// gatedPredictor blocks every call until the test releases it with a result.
type gatedPredictor struct {
	mu      sync.Mutex
	calls   []pkgmodel.FeatureSet
	gates   []chan result
	started chan int
}

func newGatedPredictor() *gatedPredictor {
	return &gatedPredictor{started: make(chan int, 16)}
}

func (p *gatedPredictor) Predict(ctx context.Context, features pkgmodel.FeatureSet) (client.Prediction, error) {
	gate := make(chan result, 1)
	p.mu.Lock()
	p.calls = append(p.calls, features)
	p.gates = append(p.gates, gate)
	idx := len(p.gates) - 1
	p.mu.Unlock()
	p.started <- idx

	select {
	case res := <-gate:
		return res.prediction, res.err
	case <-ctx.Done():
		// Wait for the test to release the call so stale handling is
		// exercised after cancellation too.
		res := <-gate
		if res.err == nil && res.prediction.FormattedPrice == "" {
			return client.Prediction{}, ctx.Err()
		}
		return res.prediction, res.err
	}
}

func (p *gatedPredictor) release(t *testing.T, idx int, res result) {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	if idx >= len(p.gates) {
		t.Fatalf("call %d never started", idx)
	}
	p.gates[idx] <- res
}

type funcPredictor func(context.Context, pkgmodel.FeatureSet) (client.Prediction, error)

func (fn funcPredictor) Predict(ctx context.Context, features pkgmodel.FeatureSet) (client.Prediction, error) {
	return fn(ctx, features)
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) contains(fragment string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, fragment) {
			return true
		}
	}
	return false
}

func mustController(t *testing.T, predictor client.Predictor, options ...controller.Option) *controller.Controller {
	t.Helper()
	ctrl, err := controller.New(predictor, options...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

func waitDone(t *testing.T, sub controller.Submission) {
	t.Helper()
	select {
	case <-sub.Done:
	case <-time.After(2 * time.Second):
		t.Fatalf("submission %d did not finish", sub.Generation)
	}
}

func TestController_InitialState(t *testing.T) {
	ctrl := mustController(t, funcPredictor(nil))

	if diff := cmp.Diff(pkgmodel.DefaultFeatures(), ctrl.Features()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if ctrl.State() != pkgmodel.Idle() || ctrl.Pending() {
		t.Fatalf("expected idle state, got %+v", ctrl.State())
	}
	if diff := cmp.Diff(controller.View{Panel: pkgmodel.PanelNone}, ctrl.View()); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestController_RequiresPredictor(t *testing.T) {
	if _, err := controller.New(nil); !errors.Is(err, controller.ErrNoPredictor) {
		t.Fatalf("expected ErrNoPredictor, got %v", err)
	}
}

func TestController_UpdateField(t *testing.T) {
	var seen []pkgmodel.FeatureSet
	ctrl := mustController(t, funcPredictor(nil), controller.WithListener(func(s controller.Snapshot) {
		seen = append(seen, s.Features)
	}))

	value, err := ctrl.UpdateField(pkgmodel.FeatureRm, " 7.5 ")
	if err != nil || value != 7.5 {
		t.Fatalf("update rm: %v %v", value, err)
	}
	if got := ctrl.Features().Rm; got != 7.5 {
		t.Fatalf("rm: got %v", got)
	}

	value, err = ctrl.UpdateField(pkgmodel.FeatureTax, "abc")
	if err != nil || value != 0 {
		t.Fatalf("update tax: %v %v", value, err)
	}
	if got := ctrl.Features().Tax; got != 0 {
		t.Fatalf("invalid input should coerce to zero, got %v", got)
	}

	value, _ = ctrl.UpdateField(pkgmodel.FeaturePtratio, "18.5 students")
	if value != 18.5 || ctrl.Features().Ptratio != 18.5 {
		t.Fatalf("leading number should be kept, got %v", value)
	}

	value, _ = ctrl.UpdateField(pkgmodel.FeatureAge, "250")
	if value != 250 {
		t.Fatalf("out of range values are stored as-is, got %v", value)
	}

	before := ctrl.Features()
	if _, err := ctrl.UpdateField("medv", "24"); !errors.Is(err, pkgmodel.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if ctrl.Features() != before {
		t.Fatalf("unknown field must not change the features")
	}
	if len(seen) != 4 {
		t.Fatalf("expected 4 notifications, got %d", len(seen))
	}
}

func TestController_SubmitSuccess(t *testing.T) {
	predictor := newGatedPredictor()
	ctrl := mustController(t, predictor)

	sub := ctrl.Submit(testsupport.Context())
	if sub.Generation != 1 {
		t.Fatalf("generation: got %d", sub.Generation)
	}
	if !ctrl.Pending() {
		t.Fatalf("state must be pending right after Submit")
	}
	if diff := cmp.Diff(controller.View{Panel: pkgmodel.PanelNone, Pending: true}, ctrl.View()); diff != "" {
		t.Fatalf("pending view mismatch (-want +got):\n%s", diff)
	}

	idx := <-predictor.started
	predictor.release(t, idx, result{prediction: client.Prediction{Price: 245000, FormattedPrice: "$245,000"}})
	waitDone(t, sub)

	if got := ctrl.State(); got != pkgmodel.Succeeded(1, "$245,000") {
		t.Fatalf("state: got %+v", got)
	}
	if diff := cmp.Diff(controller.View{Panel: pkgmodel.PanelPrice, Price: "$245,000"}, ctrl.View()); diff != "" {
		t.Fatalf("view mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(pkgmodel.DefaultFeatures(), predictor.calls[0]); diff != "" {
		t.Fatalf("submitted features mismatch (-want +got):\n%s", diff)
	}
}

func TestController_SubmitErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		message string
	}{
		{"detail", &client.ServiceError{StatusCode: 503, Detail: "Service unavailable"}, "Service unavailable"},
		{"no detail", &client.ServiceError{StatusCode: 500}, client.GenericErrorMessage},
		{"transport", fmt.Errorf("%w: connection refused", client.ErrTransport), client.GenericErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := mustController(t, funcPredictor(func(context.Context, pkgmodel.FeatureSet) (client.Prediction, error) {
				return client.Prediction{}, tc.err
			}))
			sub := ctrl.Submit(testsupport.Context())
			waitDone(t, sub)

			if got := ctrl.State(); got != pkgmodel.Failed(1, tc.message) {
				t.Fatalf("state: got %+v", got)
			}
			if view := ctrl.View(); view.Panel != pkgmodel.PanelError || view.Price != "" {
				t.Fatalf("exactly the error panel should show, got %+v", view)
			}
		})
	}
}

func TestController_ResubmitClearsPreviousResult(t *testing.T) {
	predictor := newGatedPredictor()
	ctrl := mustController(t, predictor)

	first := ctrl.Submit(testsupport.Context())
	predictor.release(t, <-predictor.started, result{err: &client.ServiceError{StatusCode: 503, Detail: "Service unavailable"}})
	waitDone(t, first)

	second := ctrl.Submit(testsupport.Context())
	if got := ctrl.State(); got != pkgmodel.Pending(2) {
		t.Fatalf("previous error must be cleared on submit, got %+v", got)
	}
	predictor.release(t, <-predictor.started, result{prediction: client.Prediction{FormattedPrice: "$198,500"}})
	waitDone(t, second)

	if got := ctrl.State(); got != pkgmodel.Succeeded(2, "$198,500") {
		t.Fatalf("state: got %+v", got)
	}
}

func TestController_StaleResponseIgnored(t *testing.T) {
	predictor := newGatedPredictor()
	logger := &recordingLogger{}
	ctrl := mustController(t, predictor, controller.WithLogger(logger))

	first := ctrl.Submit(testsupport.Context())
	firstIdx := <-predictor.started

	if _, err := ctrl.UpdateField(pkgmodel.FeatureRm, "8"); err != nil {
		t.Fatalf("update: %v", err)
	}
	second := ctrl.Submit(testsupport.Context())
	secondIdx := <-predictor.started

	predictor.release(t, secondIdx, result{prediction: client.Prediction{FormattedPrice: "$310,000"}})
	waitDone(t, second)
	predictor.release(t, firstIdx, result{prediction: client.Prediction{FormattedPrice: "$245,000"}})
	waitDone(t, first)

	if got := ctrl.State(); got != pkgmodel.Succeeded(2, "$310,000") {
		t.Fatalf("stale response overwrote state: %+v", got)
	}
	if !logger.contains("discarding stale prediction 1") {
		t.Fatalf("expected stale discard to be logged, got %v", logger.lines)
	}
	if predictor.calls[1].Rm != 8 {
		t.Fatalf("second submission should snapshot the updated features")
	}
}

func TestController_SupersededRequestIsCancelled(t *testing.T) {
	started := make(chan struct{})
	cancelled := make(chan struct{})
	calls := 0
	var mu sync.Mutex
	ctrl := mustController(t, funcPredictor(func(ctx context.Context, _ pkgmodel.FeatureSet) (client.Prediction, error) {
		mu.Lock()
		calls++
		call := calls
		mu.Unlock()
		if call == 1 {
			close(started)
			<-ctx.Done()
			close(cancelled)
			return client.Prediction{}, ctx.Err()
		}
		return client.Prediction{FormattedPrice: "$1"}, nil
	}))

	first := ctrl.Submit(testsupport.Context())
	<-started
	second := ctrl.Submit(testsupport.Context())

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatalf("superseded request was not cancelled")
	}
	waitDone(t, first)
	waitDone(t, second)

	if got := ctrl.State(); got != pkgmodel.Succeeded(2, "$1") {
		t.Fatalf("state: got %+v", got)
	}
}

func TestController_SubscribeAndClose(t *testing.T) {
	ctrl := mustController(t, funcPredictor(func(ctx context.Context, _ pkgmodel.FeatureSet) (client.Prediction, error) {
		if err := ctx.Err(); err != nil {
			return client.Prediction{}, err
		}
		return client.Prediction{FormattedPrice: "$1"}, nil
	}))

	var mu sync.Mutex
	var statuses []pkgmodel.RequestStatus
	unsubscribe := ctrl.Subscribe(func(s controller.Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		statuses = append(statuses, s.State.Status)
	})

	waitDone(t, ctrl.Submit(testsupport.Context()))
	unsubscribe()
	unsubscribe()
	_, _ = ctrl.UpdateField(pkgmodel.FeatureZn, "1")

	mu.Lock()
	if diff := cmp.Diff([]pkgmodel.RequestStatus{pkgmodel.StatusPending, pkgmodel.StatusSucceeded}, statuses); diff != "" {
		mu.Unlock()
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	mu.Unlock()

	ctrl.Close()
	waitDone(t, ctrl.Submit(testsupport.Context()))
	if got := ctrl.State(); got != pkgmodel.Failed(2, client.GenericErrorMessage) {
		t.Fatalf("submit after close should fail, got %+v", got)
	}
}
