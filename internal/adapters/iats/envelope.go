package iats

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
)

const (
	netGateNamespace = "https://www.iatspayments.com/NetGate/"
	soap12Namespace  = "http://www.w3.org/2003/05/soap-envelope"
)

var operations = map[ports.Method]string{
	ports.MethodCreditCard:               "ProcessCreditCard",
	ports.MethodChargeCustomerCode:       "ProcessCreditCardWithCustomerCode",
	ports.MethodCreateCreditCardCustomer: "CreateCreditCardCustomerCode",
	ports.MethodUpdateCreditCardCustomer: "UpdateCreditCardCustomerCode",
}

// operationFor returns the SOAP operation name of a method
func operationFor(method ports.Method) (string, error) {
	op, ok := operations[method]
	if !ok {
		return "", fmt.Errorf("no gateway operation for method %q", method)
	}
	return op, nil
}

// servicePath returns the NetGate service a method type is served by
func servicePath(t ports.MethodType) string {
	if t == ports.MethodTypeCustomer {
		return "/NetGate/CustomerLinkv2.asmx"
	}
	return "/NetGate/ProcessLinkv2.asmx"
}

// buildEnvelope renders a SOAP 1.2 request. Credentials come first, then the
// request fields in key order.
func buildEnvelope(call *ports.GatewayCall) ([]byte, string, error) {
	op, err := operationFor(call.Request.Method)
	if err != nil {
		return nil, "", err
	}

	fields := call.Request
	if call.MethodType() == ports.MethodTypeCustomer && !fields.Has("recurring") {
		// customer codes are created without a gateway-side schedule
		fields = cloneWithDefault(fields, "recurring", "false")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)

	envelope := xml.StartElement{Name: xml.Name{Local: "soap12:Envelope"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "xmlns:xsi"}, Value: "http://www.w3.org/2001/XMLSchema-instance"},
		{Name: xml.Name{Local: "xmlns:xsd"}, Value: "http://www.w3.org/2001/XMLSchema"},
		{Name: xml.Name{Local: "xmlns:soap12"}, Value: soap12Namespace},
	}}
	body := xml.StartElement{Name: xml.Name{Local: "soap12:Body"}}
	operation := xml.StartElement{Name: xml.Name{Local: op}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "xmlns"}, Value: netGateNamespace},
	}}

	tokens := []xml.Token{envelope, body, operation}
	for _, t := range tokens {
		if err := enc.EncodeToken(t); err != nil {
			return nil, "", err
		}
	}

	write := func(name, value string) error {
		return enc.EncodeElement(value, xml.StartElement{Name: xml.Name{Local: name}})
	}
	if err := write("agentCode", call.Credentials.AgentCode); err != nil {
		return nil, "", err
	}
	if err := write("password", call.Credentials.Password); err != nil {
		return nil, "", err
	}
	for _, key := range fields.Keys() {
		if err := write(key, fields.Get(key)); err != nil {
			return nil, "", err
		}
	}

	for _, end := range []xml.EndElement{operation.End(), body.End(), envelope.End()} {
		if err := enc.EncodeToken(end); err != nil {
			return nil, "", err
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), op, nil
}

func cloneWithDefault(req *ports.TransactionRequest, key, value string) *ports.TransactionRequest {
	out := ports.NewTransactionRequest(req.Method)
	for k, v := range req.Fields {
		out.Set(k, v)
	}
	out.Set(key, value)
	return out
}
