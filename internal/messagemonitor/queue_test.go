package messagemonitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonlabs/ever-sdk-go/pkg/messaging"
)

func TestQueueAddUnresolvedOverwritesSameHash(t *testing.T) {
	q := newQueue()
	q.addUnresolved("a", messaging.MonitoredMessage{UserData: 1})
	q.addUnresolved("a", messaging.MonitoredMessage{UserData: 2})

	require.Len(t, q.unresolved, 1)
	assert.Equal(t, 2, q.unresolved["a"].UserData)
}

func TestQueueResolveIgnoresUnknownHash(t *testing.T) {
	q := newQueue()
	q.addUnresolved("a", messaging.MonitoredMessage{})

	q.resolve([]messaging.MonitoringResult{
		{Hash: "a"},
		{Hash: "unknown-to-this-queue"},
	})

	assert.Empty(t, q.unresolved)
	require.Len(t, q.resolved, 1)
	assert.Equal(t, "a", q.resolved[0].Hash)
}

func TestQueueFetchNextNoWaitAlwaysReturns(t *testing.T) {
	q := newQueue()
	q.addUnresolved("a", messaging.MonitoredMessage{})

	results := q.fetchNext(NoWait)
	require.NotNil(t, results)
	assert.Empty(t, results)
	assert.Equal(t, 1, len(q.unresolved)) // unresolved untouched
}

func TestQueueFetchNextAtLeastOne(t *testing.T) {
	q := newQueue()
	q.addUnresolved("a", messaging.MonitoredMessage{})

	assert.Nil(t, q.fetchNext(AtLeastOne))

	q.resolve([]messaging.MonitoringResult{{Hash: "a"}})
	results := q.fetchNext(AtLeastOne)
	require.Len(t, results, 1)
	assert.Empty(t, q.resolved)
}

func TestQueueFetchNextAllRequiresUnresolvedEmpty(t *testing.T) {
	q := newQueue()
	q.addUnresolved("a", messaging.MonitoredMessage{})
	q.addUnresolved("b", messaging.MonitoredMessage{})

	q.resolve([]messaging.MonitoringResult{{Hash: "a"}})
	assert.Nil(t, q.fetchNext(All), "b is still unresolved")

	q.resolve([]messaging.MonitoringResult{{Hash: "b"}})
	results := q.fetchNext(All)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Hash)
	assert.Equal(t, "b", results[1].Hash)
}

func TestQueueFetchNextAllWithNothingAtAll(t *testing.T) {
	q := newQueue()
	assert.Nil(t, q.fetchNext(All))
}

func TestQueueIsEmpty(t *testing.T) {
	q := newQueue()
	assert.True(t, q.isEmpty())

	q.addUnresolved("a", messaging.MonitoredMessage{})
	assert.False(t, q.isEmpty())

	q.resolve([]messaging.MonitoringResult{{Hash: "a"}})
	assert.False(t, q.isEmpty())

	q.fetchNext(NoWait)
	assert.True(t, q.isEmpty())
}
