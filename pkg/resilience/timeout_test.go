package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeoutConfig_CronOutlastsHandler(t *testing.T) {
	for name, config := range map[string]*TimeoutConfig{
		"default": DefaultTimeoutConfig(),
		"test":    TestTimeoutConfig(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Greater(t, config.CronJob, config.HTTPHandler)
		})
	}
}

func TestContextCreators(t *testing.T) {
	config := DefaultTimeoutConfig()

	tests := []struct {
		name     string
		create   func(context.Context) (context.Context, context.CancelFunc)
		expected time.Duration
	}{
		{"HandlerContext", config.HandlerContext, config.HTTPHandler},
		{"CronContext", config.CronContext, config.CronJob},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			ctx, cancel := tt.create(context.Background())
			defer cancel()

			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			assert.WithinDuration(t, start.Add(tt.expected), deadline, 100*time.Millisecond)
		})
	}
}

func TestHandlerContext_InheritsShorterParentDeadline(t *testing.T) {
	config := DefaultTimeoutConfig()

	parent, cancelParent := context.WithTimeout(context.Background(), time.Second)
	defer cancelParent()

	ctx, cancel := config.HandlerContext(parent)
	defer cancel()

	parentDeadline, _ := parent.Deadline()
	deadline, _ := ctx.Deadline()
	assert.Equal(t, parentDeadline, deadline)
}

func TestContextCancellationPropagation(t *testing.T) {
	config := TestTimeoutConfig()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := config.CronContext(parent)
	defer cancel()

	cancelParent()

	select {
	case <-ctx.Done():
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("child context was not cancelled")
	}
}
