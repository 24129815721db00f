package messagemonitor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
)

// fakeSdk is a test double for SdkServices. It hashes messages by their Boc
// bytes, records every subscribe/unsubscribe call, and lets the test push
// result batches through whichever callback is currently installed.
type fakeSdk struct {
	mu            sync.Mutex
	subscribeLog  [][]string // hashes passed to each Subscribe call, in order
	unsubscribeLog []string
	callback      ResultCallback
	failHash      map[string]bool
	failSubscribe bool
}

func newFakeSdk() *fakeSdk {
	return &fakeSdk{failHash: make(map[string]bool)}
}

func (f *fakeSdk) MessageHash(_ context.Context, msg messaging.MonitoredMessage) (string, error) {
	hash := string(msg.Boc)
	f.mu.Lock()
	fail := f.failHash[hash]
	f.mu.Unlock()
	if fail {
		return "", fmt.Errorf("fake hashing failure for %q", hash)
	}
	return hash, nil
}

func (f *fakeSdk) SubscribeForRecentExtInMessageStatuses(_ context.Context, messages []messaging.MonitoredMessage, callback ResultCallback) (NetSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failSubscribe {
		return NetSubscription{}, fmt.Errorf("fake subscribe failure")
	}

	hashes := make([]string, 0, len(messages))
	for _, m := range messages {
		hashes = append(hashes, string(m.Boc))
	}
	f.subscribeLog = append(f.subscribeLog, hashes)
	f.callback = callback
	return NetSubscription{ID: uuid.NewString()}, nil
}

func (f *fakeSdk) Unsubscribe(_ context.Context, sub NetSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsubscribeLog = append(f.unsubscribeLog, sub.ID)
	return nil
}

// push delivers a result batch through whatever callback is currently
// installed, simulating an upstream push on its own goroutine.
func (f *fakeSdk) push(t *testing.T, results ...messaging.MonitoringResult) {
	t.Helper()
	f.mu.Lock()
	cb := f.callback
	f.mu.Unlock()
	require.NotNil(t, cb, "no subscription installed yet")
	cb(context.Background(), results, nil)
}

func msg(boc string) messaging.MonitoredMessage {
	return messaging.MonitoredMessage{Boc: []byte(boc)}
}

func ctxT(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestBasicResolve covers spec §8 scenario 1.
func TestBasicResolve(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	require.NoError(t, m.MonitorMessages(ctx, "q1", []messaging.MonitoredMessage{msg("a")}))

	sdk.push(t, messaging.MonitoringResult{Hash: "a", Status: messaging.StatusFinalized})

	results, err := m.FetchNextMonitorResults(ctx, "q1", AtLeastOne)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Hash)

	info := m.GetQueueInfo("q1")
	assert.Equal(t, QueueInfo{}, info)
}

// TestCrossQueueFanout covers spec §8 scenario 2.
func TestCrossQueueFanout(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	require.NoError(t, m.MonitorMessages(ctx, "q1", []messaging.MonitoredMessage{msg("a")}))
	require.NoError(t, m.MonitorMessages(ctx, "q2", []messaging.MonitoredMessage{msg("a")}))

	sdk.push(t, messaging.MonitoringResult{Hash: "a"})

	assert.Equal(t, QueueInfo{Unresolved: 0, Resolved: 1}, m.GetQueueInfo("q1"))
	assert.Equal(t, QueueInfo{Unresolved: 0, Resolved: 1}, m.GetQueueInfo("q2"))

	r1, err := m.FetchNextMonitorResults(ctx, "q1", AtLeastOne)
	require.NoError(t, err)
	assert.Len(t, r1, 1)

	r2, err := m.FetchNextMonitorResults(ctx, "q2", AtLeastOne)
	require.NoError(t, err)
	assert.Len(t, r2, 1)
}

// TestAllModeStrictness covers spec §8 scenario 3.
func TestAllModeStrictness(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	require.NoError(t, m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("a"), msg("b")}))

	fetchDone := make(chan []messaging.MonitoringResult, 1)
	fetchErr := make(chan error, 1)
	go func() {
		results, err := m.FetchNextMonitorResults(ctx, "q", All)
		fetchErr <- err
		fetchDone <- results
	}()

	sdk.push(t, messaging.MonitoringResult{Hash: "a"})

	select {
	case <-fetchDone:
		t.Fatal("All mode must not resolve while b is still unresolved")
	case <-time.After(100 * time.Millisecond):
	}

	sdk.push(t, messaging.MonitoringResult{Hash: "b"})

	require.NoError(t, <-fetchErr)
	results := <-fetchDone
	require.Len(t, results, 2)
	assert.Equal(t, []string{"a", "b"}, []string{results[0].Hash, results[1].Hash})
}

// TestNoWaitEmptiness covers spec §8 scenario 4.
func TestNoWaitEmptiness(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	require.NoError(t, m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("a")}))

	results, err := m.FetchNextMonitorResults(ctx, "q", NoWait)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, QueueInfo{Unresolved: 1, Resolved: 0}, m.GetQueueInfo("q"))
}

// TestNoWaitOnAbsentQueue covers the wait-mode boundary from spec §8.
func TestNoWaitOnAbsentQueue(t *testing.T) {
	m := New(newFakeSdk())
	results, err := m.FetchNextMonitorResults(ctxT(t), "never-created", NoWait)
	require.NoError(t, err)
	assert.Empty(t, results)
}

// TestResubscriptionOnGrowth covers spec §8 scenario 5.
func TestResubscriptionOnGrowth(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	require.NoError(t, m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("a")}))
	require.NoError(t, m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("b")}))

	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	require.Len(t, sdk.subscribeLog, 2)
	assert.ElementsMatch(t, []string{"a"}, sdk.subscribeLog[0])
	assert.ElementsMatch(t, []string{"a", "b"}, sdk.subscribeLog[1])
	require.Len(t, sdk.unsubscribeLog, 1, "first subscription must be released after the second is installed")
}

// TestCancelAbsorbsLateResults covers spec §8 scenario 6.
func TestCancelAbsorbsLateResults(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	require.NoError(t, m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("a")}))
	m.CancelMonitor("q")

	assert.NotPanics(t, func() {
		sdk.push(t, messaging.MonitoringResult{Hash: "a"})
	})
	assert.Equal(t, QueueInfo{}, m.GetQueueInfo("q"))
}

// TestDoubleSubmitIsIdempotentInSize covers the round-trip property in spec §8.
func TestDoubleSubmitIsIdempotentInSize(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	batch := []messaging.MonitoredMessage{msg("a"), msg("b")}
	require.NoError(t, m.MonitorMessages(ctx, "q", batch))
	require.NoError(t, m.MonitorMessages(ctx, "q", batch))

	assert.Equal(t, QueueInfo{Unresolved: 2, Resolved: 0}, m.GetQueueInfo("q"))
}

func TestDoubleCancelSucceeds(t *testing.T) {
	m := New(newFakeSdk())
	m.CancelMonitor("q")
	m.CancelMonitor("q")
}

// TestHashingFailureRejectsBatchButKeepsEarlierAdmissions covers spec §7.
func TestHashingFailureRejectsBatchButKeepsEarlierAdmissions(t *testing.T) {
	sdk := newFakeSdk()
	sdk.failHash["bad"] = true
	m := New(sdk)
	ctx := ctxT(t)

	err := m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("good"), msg("bad"), msg("never-reached")})
	require.Error(t, err)

	info := m.GetQueueInfo("q")
	assert.Equal(t, uint32(1), info.Unresolved, "only the message before the failing one was admitted")
}

// TestSubscriptionFailureKeepsAdmissionsAndOldSubscription covers spec §7.
func TestSubscriptionFailureKeepsAdmissionsAndOldSubscription(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	require.NoError(t, m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("a")}))

	sdk.mu.Lock()
	sdk.failSubscribe = true
	sdk.mu.Unlock()

	err := m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("b")})
	require.Error(t, err)

	assert.Equal(t, QueueInfo{Unresolved: 2, Resolved: 0}, m.GetQueueInfo("q"))

	sdk.mu.Lock()
	assert.Empty(t, sdk.unsubscribeLog, "old subscription must not be torn down when the new one failed")
	sdk.mu.Unlock()
}

func TestCloseReleasesActiveSubscription(t *testing.T) {
	sdk := newFakeSdk()
	m := New(sdk)
	ctx := ctxT(t)

	require.NoError(t, m.MonitorMessages(ctx, "q", []messaging.MonitoredMessage{msg("a")}))
	require.NoError(t, m.Close(ctx))

	sdk.mu.Lock()
	defer sdk.mu.Unlock()
	assert.Len(t, sdk.unsubscribeLog, 1)
}
