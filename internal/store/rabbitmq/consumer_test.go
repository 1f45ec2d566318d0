package rabbitmq

import (
	"context"
	"errors"
	"sync"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type fakeDelivery struct {
	body []byte

	mu     sync.Mutex
	acked  bool
	nacked bool
}

func (d *fakeDelivery) Body() []byte { return d.body }
func (d *fakeDelivery) Ack() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.acked = true
	return nil
}
func (d *fakeDelivery) Nack() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nacked = true
	return nil
}

func job(t *testing.T, id string) *fakeDelivery {
	b, err := EncodeJob(id)
	require.NoError(t, err)
	return &fakeDelivery{body: b}
}

func TestRunPool_AcksAndNacks(t *testing.T) {
	defer goleak.VerifyNone(t)

	good := job(t, "J1")
	failing := job(t, "J2")
	bad := &fakeDelivery{body: []byte(`{"job_id":""}`)}

	var mu sync.Mutex
	var seen []string
	h := func(ctx context.Context, id string) error {
		mu.Lock()
		seen = append(seen, id)
		mu.Unlock()
		if id == "J2" {
			return errors.New("boom")
		}
		return nil
	}

	in := make(chan Delivery, 3)
	in <- good
	in <- failing
	in <- bad
	close(in)

	RunPool(context.Background(), in, 2, h, zap.NewNop())

	assert.True(t, good.acked)
	assert.False(t, good.nacked)
	assert.True(t, failing.nacked)
	assert.True(t, bad.nacked)
	assert.ElementsMatch(t, []string{"J1", "J2"}, seen)
}

func TestDecodeJob(t *testing.T) {
	id, err := DecodeJob([]byte(`{"job_id":"01ABC"}`))
	require.NoError(t, err)
	assert.Equal(t, "01ABC", id)

	_, err = DecodeJob([]byte(`not json`))
	assert.Error(t, err)
}

type countingAcker struct {
	mu    sync.Mutex
	acks  int
	nacks int
}

func (a *countingAcker) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}

func (a *countingAcker) Nack(uint64, bool, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacks++
	return nil
}

func (a *countingAcker) Reject(uint64, bool) error { return nil }

func TestConsume_ClosedDeliveriesAreAnError(t *testing.T) {
	defer goleak.VerifyNone(t)

	acker := &countingAcker{}
	b, err := EncodeJob("J1")
	require.NoError(t, err)
	msgs := make(chan amqp.Delivery, 1)
	msgs <- amqp.Delivery{Acknowledger: acker, Body: b}
	close(msgs)

	var handled []string
	err = consume(context.Background(), msgs, 1, func(ctx context.Context, id string) error {
		handled = append(handled, id)
		return nil
	}, zap.NewNop())

	assert.ErrorIs(t, err, ErrDeliveriesClosed)
	assert.Equal(t, []string{"J1"}, handled)
	assert.Equal(t, 1, acker.acks)
}

func TestConsume_CancelledContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	msgs := make(chan amqp.Delivery)

	err := consume(ctx, msgs, 2, func(context.Context, string) error { return nil }, zap.NewNop())
	assert.ErrorIs(t, err, context.Canceled)
}
