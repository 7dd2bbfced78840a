package ports

import (
	"context"
	"net/url"
	"sort"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
)

// MethodType selects the gateway service a method belongs to
type MethodType string

const (
	MethodTypeProcess  MethodType = "process"
	MethodTypeCustomer MethodType = "customer"
)

// Method is a gateway method name
type Method string

const (
	MethodCreditCard               Method = "cc"
	MethodCreateCreditCardCustomer Method = "create_credit_card_customer"
	MethodChargeCustomerCode       Method = "cc_with_customer_code"
	MethodUpdateCreditCardCustomer Method = "update_credit_card_customer"
)

// Type returns the service the method is served by
func (m Method) Type() MethodType {
	switch m {
	case MethodCreateCreditCardCustomer, MethodUpdateCreditCardCustomer:
		return MethodTypeCustomer
	default:
		return MethodTypeProcess
	}
}

// IsTokenCreation reports whether a successful response carries a customer code
func (m Method) IsTokenCreation() bool {
	return m == MethodCreateCreditCardCustomer
}

// TransactionRequest maps gateway field names to formatted values for one call
type TransactionRequest struct {
	Method Method
	Fields map[string]string
}

// NewTransactionRequest creates an empty request for the given method
func NewTransactionRequest(method Method) *TransactionRequest {
	return &TransactionRequest{Method: method, Fields: make(map[string]string)}
}

// Set stores a field value
func (r *TransactionRequest) Set(key, value string) {
	r.Fields[key] = value
}

// Get returns a field value, or "" when absent
func (r *TransactionRequest) Get(key string) string {
	return r.Fields[key]
}

// Has reports whether the field is present
func (r *TransactionRequest) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// Delete removes a field
func (r *TransactionRequest) Delete(key string) {
	delete(r.Fields, key)
}

// Rename moves a field to a new key; absent fields are left alone
func (r *TransactionRequest) Rename(from, to string) {
	if v, ok := r.Fields[from]; ok {
		r.Fields[to] = v
		delete(r.Fields, from)
	}
}

// Keys returns the field names in ascending order
func (r *TransactionRequest) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Encode renders the fields as a key-sorted query string
func (r *TransactionRequest) Encode() string {
	values := url.Values{}
	for k, v := range r.Fields {
		values.Set(k, v)
	}
	return values.Encode()
}

// GatewayCall is everything the gateway adapter needs to perform one request
type GatewayCall struct {
	Credentials domain.Credentials
	Domain      string
	CurrencyID  string
	Request     *TransactionRequest
}

// MethodType returns the service type of the request's method
func (c *GatewayCall) MethodType() MethodType {
	return c.Request.Method.Type()
}

// GatewayResponse is the parsed gateway reply before interpretation
type GatewayResponse struct {
	// Status is the top level status of the response envelope
	Status string
	// Errors holds gateway error text outside the process result
	Errors string

	HasProcessResult    bool
	AuthorizationResult string
	TransactionID       string
	CustomerCode        string

	Raw string
}

// GatewayClient performs remote transaction requests.
// Transport failures return an error; a parsed response is returned as is,
// whether approved or declined.
type GatewayClient interface {
	Request(ctx context.Context, call *GatewayCall) (*GatewayResponse, error)
}
