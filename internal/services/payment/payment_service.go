package payment

import (
	"context"
	"errors"
	"time"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
	"github.com/kevin07696/recurring-payment-service/pkg/observability"
	"github.com/kevin07696/recurring-payment-service/pkg/timeutil"
)

const (
	flowOneTime   = "one_time"
	flowRecurring = "recurring"
	flowStored    = "stored"
)

var _ ports.PaymentService = (*Service)(nil)

// Service implements ports.PaymentService for one configured processor
type Service struct {
	processor domain.Processor
	gateway   ports.GatewayClient
	tokens    ports.CustomerTokenStore
	config    ports.ConfigurationProvider
	logger    ports.Logger
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces the clock used for scheduling and transaction ids
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new payment service
func NewService(
	processor domain.Processor,
	gateway ports.GatewayClient,
	tokens ports.CustomerTokenStore,
	config ports.ConfigurationProvider,
	logger ports.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		processor: processor,
		gateway:   gateway,
		tokens:    tokens,
		config:    config,
		logger:    logger,
		now:       timeutil.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DoDirectPayment runs the recurring setup for recurring records and a
// one-time charge for everything else
func (s *Service) DoDirectPayment(ctx context.Context, params *domain.BillingParameters) (*domain.PaymentOutcome, error) {
	if params == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "billing parameters are required")
	}
	if params.IsRecurring() {
		return s.SetupRecurring(ctx, params)
	}
	return s.Charge(ctx, params)
}

// Charge runs a one-time card charge
func (s *Service) Charge(ctx context.Context, params *domain.BillingParameters) (outcome *domain.PaymentOutcome, err error) {
	start := time.Now()
	defer func() { s.recordDuration(flowOneTime, start, outcome, err) }()

	if params == nil {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "billing parameters are required")
	}

	creds, err := s.credentials(ctx)
	if err != nil {
		return nil, err
	}

	req, err := TranslateRequest(params, ports.MethodCreditCard)
	if err != nil {
		return nil, err
	}
	req.Set(FieldCustomerIP, s.customerIP(ctx))

	result, err := s.execute(ctx, creds, params.CurrencyID, req)
	if err != nil {
		s.recordTransaction(req, "error", params.CurrencyID)
		s.logger.Error("one-time charge failed",
			ports.String("invoice_id", params.InvoiceID),
			ports.String("card_last_four", params.CardLastFour()),
			ports.Err(err))
		return nil, err
	}

	if !result.Success {
		s.recordTransaction(req, "declined", params.CurrencyID)
		s.logger.Warn("one-time charge declined",
			ports.String("invoice_id", params.InvoiceID),
			ports.String("card_last_four", params.CardLastFour()),
			ports.String("reason", result.ReasonMessage))
		return nil, domain.Declined(result.ReasonMessage)
	}

	s.recordTransaction(req, "success", params.CurrencyID)
	s.logger.Info("one-time charge approved",
		ports.String("invoice_id", params.InvoiceID),
		ports.String("transaction_id", result.TransactionID))

	return s.chargedOutcome(result, req), nil
}

// SetupRecurring creates a customer code for the recurring contribution, stores it,
// then either charges it right away or defers the first charge to an allowed day
func (s *Service) SetupRecurring(ctx context.Context, params *domain.BillingParameters) (outcome *domain.PaymentOutcome, err error) {
	start := time.Now()
	defer func() { s.recordDuration(flowRecurring, start, outcome, err) }()

	if params == nil || !params.IsRecurring() {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "recurring contribution id is required for recurring setup")
	}

	creds, err := s.credentials(ctx)
	if err != nil {
		return nil, err
	}

	recurID := *params.RecurringContributionID
	ip := s.customerIP(ctx)

	token, err := s.existingToken(ctx, recurID)
	if err != nil {
		return nil, err
	}

	if token == nil {
		token, err = s.createToken(ctx, creds, params, ip)
		if err != nil {
			s.recordRecurringSetup("failed")
			return nil, err
		}
	} else {
		// Validate the amount even though no token call is made
		if _, err := domain.CleanMoney(params.Amount); err != nil {
			return nil, err
		}
		s.logger.Warn("customer code already stored for recurring contribution, reusing it",
			ports.Int64("recur_id", recurID),
			ports.String("customer_code", token.CustomerCode))
	}

	cfg, err := s.config.AllowedBillingDays(ctx)
	if err != nil {
		s.recordRecurringSetup("failed")
		return nil, domain.WrapError(domain.ErrorCodeSchedulingError, "failed to read allowed billing days", err)
	}

	now := s.now()
	decision, err := domain.NextBillingDate(now, cfg)
	if err != nil {
		s.recordRecurringSetup("failed")
		return nil, err
	}

	if !decision.Immediate {
		at := decision.At
		s.recordRecurringSetup("deferred")
		s.logger.Info("first recurring charge deferred",
			ports.Int64("recur_id", recurID),
			ports.Time("receive_date", at))
		return &domain.PaymentOutcome{
			Status:          domain.OutcomePending,
			CustomerCode:    token.CustomerCode,
			NextScheduledAt: &at,
			ReceiveDate:     &at,
		}, nil
	}

	outcome, err = s.chargeToken(ctx, creds, token.CustomerCode, params.InvoiceID, params.Amount, params.CurrencyID, ip)
	if err != nil {
		s.recordRecurringSetup("failed")
		return nil, err
	}

	next := params.Interval.After(now)
	outcome.NextScheduledAt = &next
	s.recordRecurringSetup("charged")
	return outcome, nil
}

// ChargeStoredCustomer charges the customer code stored for a recurring contribution
func (s *Service) ChargeStoredCustomer(ctx context.Context, req *ports.StoredChargeRequest) (outcome *domain.PaymentOutcome, err error) {
	start := time.Now()
	defer func() { s.recordDuration(flowStored, start, outcome, err) }()

	if req == nil || req.RecurringContributionID <= 0 {
		return nil, domain.NewDomainError(domain.ErrorCodeValidationFailed, "recurring contribution id is required")
	}

	creds, err := s.credentials(ctx)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.FindByRecurringID(ctx, req.RecurringContributionID)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerTokenNotFound) {
			return nil, domain.WrapError(domain.ErrorCodeTokenNotFound, "no customer code stored for recurring contribution", err).
				WithDetail("recur_id", req.RecurringContributionID)
		}
		return nil, domain.WrapError(domain.ErrorCodeTokenStoreUnavailable, "failed to look up customer code", err)
	}

	ip := token.IPAddress
	if ip == "" {
		ip = s.config.FallbackIPAddress()
	}

	outcome, err = s.chargeToken(ctx, creds, token.CustomerCode, req.InvoiceID, req.Amount, req.CurrencyID, ip)
	if err != nil {
		return nil, err
	}

	next := req.Interval.After(s.now())
	outcome.NextScheduledAt = &next
	return outcome, nil
}

// CheckConfig reports missing processor settings
func (s *Service) CheckConfig(ctx context.Context) []string {
	var problems []string
	if s.processor.Domain == "" {
		problems = append(problems, "processor site url is not set")
	}
	if s.processor.Mode == "" {
		problems = append(problems, "processor mode is not set")
	}

	creds, err := s.config.ProcessorCredentials(ctx)
	if err != nil {
		return append(problems, "processor credentials could not be loaded: "+err.Error())
	}
	for _, field := range creds.Missing() {
		problems = append(problems, field+" is not set")
	}
	return problems
}

func (s *Service) existingToken(ctx context.Context, recurID int64) (*domain.CustomerToken, error) {
	token, err := s.tokens.FindByRecurringID(ctx, recurID)
	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, domain.ErrCustomerTokenNotFound):
		return nil, nil
	default:
		s.logger.Error("customer code lookup failed",
			ports.Int64("recur_id", recurID),
			ports.Err(err))
		return nil, domain.WrapError(domain.ErrorCodeTokenStoreUnavailable, "failed to look up customer code", err)
	}
}

func (s *Service) createToken(ctx context.Context, creds domain.Credentials, params *domain.BillingParameters, ip string) (*domain.CustomerToken, error) {
	req, err := TranslateRequest(params, ports.MethodCreateCreditCardCustomer)
	if err != nil {
		return nil, err
	}
	req.Set(FieldCustomerIP, ip)

	result, err := s.execute(ctx, creds, params.CurrencyID, req)
	if err != nil {
		s.logger.Error("customer code creation failed",
			ports.String("card_last_four", params.CardLastFour()),
			ports.Err(err))
		return nil, err
	}
	if !result.Success {
		s.logger.Warn("customer code creation declined",
			ports.String("card_last_four", params.CardLastFour()),
			ports.String("reason", result.ReasonMessage))
		return nil, domain.Declined(result.ReasonMessage)
	}

	token := &domain.CustomerToken{
		CustomerCode:            result.RemoteID,
		IPAddress:               ip,
		Expiry:                  domain.FormatExpiryMMYY(params.ExpiryMonth, params.ExpiryYear),
		ContactID:               params.ContactID,
		Email:                   params.ResolveEmail(),
		RecurringContributionID: *params.RecurringContributionID,
		CreatedAt:               s.now(),
	}

	if err := s.tokens.Save(ctx, token); err != nil {
		s.logger.Error("failed to store customer code",
			ports.Int64("recur_id", token.RecurringContributionID),
			ports.String("customer_code", token.CustomerCode),
			ports.Err(err))
		return nil, domain.WrapError(domain.ErrorCodeTokenPersistenceFailed, "failed to store customer code", err).
			WithDetail("customer_code", token.CustomerCode)
	}

	observability.RecordCustomerCodeCreated(s.processor.Name)
	s.logger.Info("customer code stored",
		ports.Int64("recur_id", token.RecurringContributionID),
		ports.Int64("contact_id", token.ContactID))

	return token, nil
}

func (s *Service) chargeToken(ctx context.Context, creds domain.Credentials, customerCode, invoiceID, amount, currencyID, ip string) (*domain.PaymentOutcome, error) {
	req, err := StoredChargeRequest(invoiceID, amount, customerCode)
	if err != nil {
		return nil, err
	}
	req.Set(FieldCustomerIP, ip)

	result, err := s.execute(ctx, creds, currencyID, req)
	if err != nil {
		s.recordTransaction(req, "error", currencyID)
		s.logger.Error("customer code charge failed",
			ports.String("invoice_id", invoiceID),
			ports.Err(err))
		return nil, err
	}
	if !result.Success {
		s.recordTransaction(req, "declined", currencyID)
		s.logger.Warn("customer code charge declined",
			ports.String("invoice_id", invoiceID),
			ports.String("reason", result.ReasonMessage))
		return nil, domain.Declined(result.ReasonMessage)
	}

	s.recordTransaction(req, "success", currencyID)
	s.logger.Info("customer code charge approved",
		ports.String("invoice_id", invoiceID),
		ports.String("transaction_id", result.TransactionID))

	outcome := s.chargedOutcome(result, req)
	outcome.CustomerCode = customerCode
	return outcome, nil
}

// execute performs one gateway call and interprets the response
func (s *Service) execute(ctx context.Context, creds domain.Credentials, currencyID string, req *ports.TransactionRequest) (*domain.TransactionResult, error) {
	call := &ports.GatewayCall{
		Credentials: creds,
		Domain:      s.processor.Domain,
		CurrencyID:  currencyID,
		Request:     req,
	}

	resp, err := s.gateway.Request(ctx, call)
	if err != nil {
		var domainErr *domain.DomainError
		switch {
		case errors.As(err, &domainErr):
			return nil, err
		case errors.Is(err, domain.ErrMalformedResponse):
			return nil, domain.WrapError(domain.ErrorCodeMalformedResponse, "could not parse gateway response", err)
		default:
			return nil, domain.WrapError(domain.ErrorCodeGatewayUnreachable, "gateway request failed", err).
				WithDetail("method", string(req.Method))
		}
	}

	return InterpretResponse(resp, req.Method, s.now())
}

func (s *Service) credentials(ctx context.Context) (domain.Credentials, error) {
	if !s.processor.IsConfigured() {
		return domain.Credentials{}, domain.NewDomainError(domain.ErrorCodeMissingConfiguration, "missing processor profile").
			WithDetail("processor", s.processor.Name)
	}

	creds, err := s.config.ProcessorCredentials(ctx)
	if err != nil {
		return domain.Credentials{}, domain.WrapError(domain.ErrorCodeMissingConfiguration, "failed to load processor credentials", err)
	}
	if missing := creds.Missing(); len(missing) > 0 {
		return domain.Credentials{}, domain.NewDomainError(domain.ErrorCodeMissingConfiguration, "missing processor credentials").
			WithDetail("missing", missing)
	}
	return creds, nil
}

func (s *Service) customerIP(ctx context.Context) string {
	if ip, ok := domain.CustomerIPFromContext(ctx); ok {
		return ip
	}
	return s.config.FallbackIPAddress()
}

func (s *Service) chargedOutcome(result *domain.TransactionResult, req *ports.TransactionRequest) *domain.PaymentOutcome {
	return &domain.PaymentOutcome{
		Status:        domain.OutcomeSuccess,
		TransactionID: result.TransactionID,
		GrossAmount:   req.Get(FieldTotal),
	}
}

func (s *Service) recordTransaction(req *ports.TransactionRequest, status, currencyID string) {
	var cents int64
	if total, err := domain.CleanMoney(req.Get(FieldTotal)); err == nil {
		cents = domain.AmountCents(total)
	}
	observability.RecordPaymentTransaction(s.processor.Name, string(req.Method), status, cents, currencyID)
}

func (s *Service) recordRecurringSetup(outcome string) {
	observability.RecordRecurringSetup(s.processor.Name, outcome)
}

func (s *Service) recordDuration(flow string, start time.Time, outcome *domain.PaymentOutcome, err error) {
	status := "error"
	if err == nil && outcome != nil {
		status = string(outcome.Status)
	}
	observability.RecordPaymentDuration(s.processor.Name, flow, status, time.Since(start).Seconds())
}
