package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSink struct {
	calls int
	err   error
}

func (s *stubSink) Notify(ctx context.Context, alert ExpiryAlert) error {
	s.calls++
	return s.err
}

func TestMultiNotifierTriesEverySink(t *testing.T) {
	broken := &stubSink{err: errors.New("smtp down")}
	working := &stubSink{}

	multi := NewMultiNotifier(broken, working)
	err := multi.Notify(context.Background(), ExpiryAlert{RecordID: uuid.New()})

	// First error is surfaced, but the remaining sinks still ran
	require.Error(t, err)
	assert.Equal(t, 1, broken.calls)
	assert.Equal(t, 1, working.calls)
}

func TestMultiNotifierAllHealthy(t *testing.T) {
	a, b := &stubSink{}, &stubSink{}
	multi := NewMultiNotifier(a, b)

	require.NoError(t, multi.Notify(context.Background(), ExpiryAlert{}))
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestLogNotifierNeverFails(t *testing.T) {
	n := NewLogNotifier()
	assert.NoError(t, n.Notify(context.Background(), ExpiryAlert{
		RecordID:          uuid.New(),
		CertificationName: "FCC Part 15",
		DaysLeft:          10,
		Severity:          "warning",
	}))
}
