package domain

import "context"

type contextKey string

const customerIPKey contextKey = "customer_ip"

// WithCustomerIP stores the paying customer's IP address on the context
func WithCustomerIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, customerIPKey, ip)
}

// CustomerIPFromContext returns the customer IP stored by WithCustomerIP
func CustomerIPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(customerIPKey).(string)
	return ip, ok && ip != ""
}
