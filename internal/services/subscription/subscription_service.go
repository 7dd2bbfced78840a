package subscription

import (
	"context"
	"errors"
	"strings"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/kevin07696/recurring-payment-service/pkg/observability"
)

var _ ports.SubscriptionService = (*Service)(nil)

// Service implements ports.SubscriptionService.
// Cancel and ChangeAmount only acknowledge; the billing framework owns the schedule.
type Service struct {
	processor domain.Processor
	tokens    ports.CustomerTokenStore
	updater   ports.BillingInfoUpdater
	config    ports.ConfigurationProvider
	logger    ports.Logger
}

// NewService creates a new subscription service
func NewService(
	processor domain.Processor,
	tokens ports.CustomerTokenStore,
	updater ports.BillingInfoUpdater,
	config ports.ConfigurationProvider,
	logger ports.Logger,
) *Service {
	return &Service{
		processor: processor,
		tokens:    tokens,
		updater:   updater,
		config:    config,
		logger:    logger,
	}
}

// Cancel acknowledges the cancellation of a recurring contribution
func (s *Service) Cancel(ctx context.Context, subscriptionID string) (*domain.SubscriptionAck, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "subscription id is required")
	}

	s.logger.Info("recurring contribution cancelled",
		ports.String("subscription_id", subscriptionID))

	return &domain.SubscriptionAck{
		SubscriptionID: subscriptionID,
		Success:        true,
		Message:        "You have cancelled this recurring contribution.",
	}, nil
}

// ChangeAmount acknowledges a new amount after validating it
func (s *Service) ChangeAmount(ctx context.Context, subscriptionID, amount string) (*domain.SubscriptionAck, error) {
	if strings.TrimSpace(subscriptionID) == "" {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "subscription id is required")
	}

	total, err := domain.CleanMoney(amount)
	if err != nil {
		return nil, err
	}

	s.logger.Info("recurring contribution amount changed",
		ports.String("subscription_id", subscriptionID),
		ports.String("amount", domain.FormatTotal(total)))

	return &domain.SubscriptionAck{
		SubscriptionID: subscriptionID,
		Success:        true,
		Message:        "You have modified this recurring contribution.",
	}, nil
}

// UpdateBillingInfo replaces the card and address behind the stored customer code
func (s *Service) UpdateBillingInfo(ctx context.Context, req *ports.UpdateBillingInfoRequest) (*domain.SubscriptionAck, error) {
	if req == nil || req.RecurringContributionID <= 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "recurring contribution id is required")
	}

	if !s.IsBillingUpdateSupported(ctx, req.Privileged) {
		return nil, domain.NewDomainError(domain.ErrorCodeNotSupported, "self-service billing updates are disabled")
	}

	if !s.processor.IsConfigured() {
		return nil, domain.NewDomainError(domain.ErrorCodeMissingConfiguration, "missing processor profile")
	}
	creds, err := s.config.ProcessorCredentials(ctx)
	if err != nil {
		return nil, domain.WrapError(domain.ErrorCodeMissingConfiguration, "failed to load processor credentials", err)
	}
	if missing := creds.Missing(); len(missing) > 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeMissingConfiguration, "missing processor credentials").
			WithDetail("missing", missing)
	}

	token, err := s.tokens.FindByRecurringID(ctx, req.RecurringContributionID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerTokenNotFound) {
			return nil, domain.WrapError(domain.ErrorCodeTokenNotFound, "no customer code stored for recurring contribution", err).
				WithDetail("recur_id", req.RecurringContributionID)
		}
		return nil, domain.WrapError(domain.ErrorCodeTokenStoreUnavailable, "failed to look up customer code", err)
	}

	result, err := s.updater.Update(ctx, &ports.BillingInfoUpdate{
		CustomerCode: token.CustomerCode,
		Credentials:  creds,
		Domain:       s.processor.Domain,
		Billing:      req.Billing,
	})
	if err != nil {
		observability.RecordBillingInfoUpdate(s.processor.Name, "failed")
		s.logger.Error("billing info update failed",
			ports.Int64("recur_id", req.RecurringContributionID),
			ports.Err(err))
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrorCodeGatewayUnreachable, "billing info update request failed", err)
	}

	if !result.Success {
		observability.RecordBillingInfoUpdate(s.processor.Name, "failed")
		s.logger.Warn("billing info update rejected",
			ports.Int64("recur_id", req.RecurringContributionID),
			ports.String("failure_code", result.FailureCode),
			ports.String("message", result.Message))
		return nil, domain.NewDomainError(domain.ErrorCodeBillingUpdateFailed, result.Message).
			WithDetail("failure_code", result.FailureCode)
	}

	observability.RecordBillingInfoUpdate(s.processor.Name, "success")
	s.logger.Info("billing info updated",
		ports.Int64("recur_id", req.RecurringContributionID),
		ports.String("card_last_four", req.Billing.CardLastFour()))

	return &domain.SubscriptionAck{
		SubscriptionID: req.SubscriptionID,
		Success:        true,
		Message:        "Billing information updated.",
	}, nil
}

// IsBillingUpdateSupported reports whether the caller may update billing info.
// Privileged callers always may; everyone else depends on the processor setting.
func (s *Service) IsBillingUpdateSupported(ctx context.Context, privileged bool) bool {
	return privileged || s.config.SelfServiceBillingUpdateEnabled(ctx)
}

// EditableScheduleFields returns the schedule fields a back office may edit
func (s *Service) EditableScheduleFields() []string {
	fields := make([]string, len(domain.EditableScheduleFields))
	copy(fields, domain.EditableScheduleFields)
	return fields
}

// ScheduleUpdateHelpText returns the help text for the schedule editing form
func (s *Service) ScheduleUpdateHelpText() string {
	return domain.ScheduleUpdateHelpText
}
