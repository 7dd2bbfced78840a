package integration

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeGateway answers iATS SOAP calls by operation name
type fakeGateway struct {
	mu     sync.Mutex
	calls  map[string]int
	bodies map[string][]string
	reject map[string]int
	delay  time.Duration
}

func newFakeGateway(t *testing.T) (*fakeGateway, *httptest.Server) {
	g := &fakeGateway{calls: map[string]int{}, bodies: map[string][]string{}, reject: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(g.serve))
	t.Cleanup(srv.Close)
	return g, srv
}

func (g *fakeGateway) serve(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	op := ct[strings.LastIndex(ct, "/")+1:]
	op = strings.TrimSuffix(op, `"`)
	body, _ := io.ReadAll(r.Body)

	g.mu.Lock()
	g.calls[op]++
	g.bodies[op] = append(g.bodies[op], string(body))
	code, rejected := g.reject[op]
	delay := g.delay
	g.delay = 0
	g.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	var result string
	switch {
	case rejected:
		result = fmt.Sprintf("<AUTHORIZATIONRESULT>REJECT: %d</AUTHORIZATIONRESULT><TRANSACTIONID>R1</TRANSACTIONID>", code)
	case strings.HasPrefix(op, "Create"):
		result = "<AUTHORIZATIONRESULT>OK</AUTHORIZATIONRESULT><CUSTOMERCODE>A10000001</CUSTOMERCODE>"
	default:
		result = "<AUTHORIZATIONRESULT> OK: 555555:</AUTHORIZATIONRESULT><TRANSACTIONID>T7001</TRANSACTIONID>"
	}

	w.Header().Set("Content-Type", "application/soap+xml; charset=utf-8")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope"><soap:Body>
<%[1]sResponse xmlns="https://www.iatspayments.com/NetGate/"><%[1]sResult>
<IATSRESPONSE xmlns=""><STATUS>Success</STATUS><ERRORS /><PROCESSRESULT>%[2]s</PROCESSRESULT></IATSRESPONSE>
</%[1]sResult></%[1]sResponse></soap:Body></soap:Envelope>`, op, result)
}

func (g *fakeGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) lastBody(op string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	b := g.bodies[op]
	if len(b) == 0 {
		return ""
	}
	return b[len(b)-1]
}

func (g *fakeGateway) rejectWith(op string, code int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reject[op] = code
}

// delayFirst holds the next reply back after the request has been counted
func (g *fakeGateway) delayFirst(d time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.delay = d
}
