package config

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/kevin07696/recurring-payment-service/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Key:         "na",
		Name:        "iATS NA",
		Mode:        domain.ProcessorModeLive,
		SiteURL:     "https://www.iatspayments.com/",
		AgentCode:   "NA01",
		AllowedDays: "1,15",
	}
}

func TestProcessorSettings_InlinePassword(t *testing.T) {
	cfg := testProcessorConfig()
	cfg.Password = "inline"

	settings, err := NewProcessorSettings(cfg, "10.0.0.1", nil)
	require.NoError(t, err)

	creds, err := settings.ProcessorCredentials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.Credentials{AgentCode: "NA01", Password: "inline"}, creds)

	days, err := settings.AllowedBillingDays(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 15}, days.AllowedDays)

	assert.Equal(t, "10.0.0.1", settings.FallbackIPAddress())
	assert.False(t, settings.SelfServiceBillingUpdateEnabled(context.Background()))

	proc, err := settings.Processor()
	require.NoError(t, err)
	assert.Equal(t, "www.iatspayments.com", proc.Domain)
}

func TestProcessorSettings_AllowedDaysIsACopy(t *testing.T) {
	cfg := testProcessorConfig()
	cfg.Password = "inline"
	settings, err := NewProcessorSettings(cfg, "", nil)
	require.NoError(t, err)

	days, _ := settings.AllowedBillingDays(context.Background())
	days.AllowedDays[0] = 28

	again, _ := settings.AllowedBillingDays(context.Background())
	assert.Equal(t, []int{1, 15}, again.AllowedDays)
}

func TestProcessorSettings_SecretPassword(t *testing.T) {
	cfg := testProcessorConfig()
	cfg.PasswordSecretPath = "iats/na/password"

	sm := new(mocks.MockSecretManager)
	sm.On("GetSecret", mock.Anything, "iats/na/password").
		Return(&ports.Secret{Value: "from-vault", Version: "3"}, nil).Once()

	settings, err := NewProcessorSettings(cfg, "", NewSecretCache(sm, zap.NewNop(), time.Minute))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		creds, err := settings.ProcessorCredentials(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "from-vault", creds.Password)
	}
	sm.AssertExpectations(t)
}

func TestProcessorSettings_SecretUnavailable(t *testing.T) {
	cfg := testProcessorConfig()
	cfg.PasswordSecretPath = "iats/na/password"

	sm := new(mocks.MockSecretManager)
	sm.On("GetSecret", mock.Anything, "iats/na/password").Return(nil, errors.New("access denied"))

	settings, err := NewProcessorSettings(cfg, "", NewSecretCache(sm, zap.NewNop(), time.Minute))
	require.NoError(t, err)

	_, err = settings.ProcessorCredentials(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeMissingConfiguration))
}

func TestNewProcessorSettings_Errors(t *testing.T) {
	cfg := testProcessorConfig()
	cfg.PasswordSecretPath = "iats/na/password"
	_, err := NewProcessorSettings(cfg, "", nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeMissingConfiguration))

	cfg.Password = "inline"
	cfg.AllowedDays = "first"
	_, err = NewProcessorSettings(cfg, "", nil)
	assert.True(t, domain.IsDomainError(err, domain.ErrorCodeSchedulingError))
}

func TestSecretCache_Expiry(t *testing.T) {
	sm := new(mocks.MockSecretManager)
	sm.On("GetSecret", mock.Anything, "p").Return(&ports.Secret{Value: "v1"}, nil).Once()
	sm.On("GetSecret", mock.Anything, "p").Return(&ports.Secret{Value: "v2"}, nil).Once()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewSecretCache(sm, zap.NewNop(), time.Minute)
	cache.now = func() time.Time { return now }

	v, err := cache.Get(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	now = now.Add(30 * time.Second)
	v, _ = cache.Get(context.Background(), "p")
	assert.Equal(t, "v1", v)

	now = now.Add(time.Minute)
	v, _ = cache.Get(context.Background(), "p")
	assert.Equal(t, "v2", v)

	sm.AssertExpectations(t)
}

func TestSecretCache_Invalidate(t *testing.T) {
	sm := new(mocks.MockSecretManager)
	sm.On("GetSecret", mock.Anything, "p").Return(&ports.Secret{Value: "v"}, nil).Twice()

	cache := NewSecretCache(sm, zap.NewNop(), time.Hour)
	_, _ = cache.Get(context.Background(), "p")
	cache.Invalidate("p")
	_, _ = cache.Get(context.Background(), "p")

	sm.AssertNumberOfCalls(t, "GetSecret", 2)
}

func TestSecretCache_ConcurrentGets(t *testing.T) {
	sm := new(mocks.MockSecretManager)
	sm.On("GetSecret", mock.Anything, "p").Return(&ports.Secret{Value: "v"}, nil)

	cache := NewSecretCache(sm, zap.NewNop(), time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.Get(context.Background(), "p")
			assert.NoError(t, err)
			assert.Equal(t, "v", v)
		}()
	}
	wg.Wait()
}

func TestSecretCache_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	sm := new(mocks.MockSecretManager)
	sm.On("GetSecret", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), "p").Run(func(args mock.Arguments) {
		close(started)
		<-release
		assert.NoError(t, args.Get(0).(context.Context).Err(), "shared fetch must outlive the first caller")
	}).Return(&ports.Secret{Value: "v"}, nil).Once()

	cache := NewSecretCache(sm, zap.NewNop(), time.Hour)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := cache.Get(firstCtx, "p")
		firstErr <- err
	}()
	<-started

	waiter := make(chan string, 1)
	go func() {
		v, err := cache.Get(context.Background(), "p")
		assert.NoError(t, err)
		waiter <- v
	}()

	cancelFirst()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.Equal(t, "v", <-waiter)
	sm.AssertExpectations(t)
}
