package iats

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kevin07696/recurring-payment-service/internal/domain"
	"github.com/kevin07696/recurring-payment-service/internal/domain/ports"
)

type iatsResponse struct {
	Status        string         `xml:"STATUS"`
	Errors        string         `xml:"ERRORS"`
	ProcessResult *processResult `xml:"PROCESSRESULT"`
}

type processResult struct {
	AuthorizationResult string `xml:"AUTHORIZATIONRESULT"`
	CustomerCode        string `xml:"CUSTOMERCODE"`
	TransactionID       string `xml:"TRANSACTIONID"`
}

// errNoIATSResponse means the body parsed but carried no IATSRESPONSE element
var errNoIATSResponse = errors.New("no IATSRESPONSE element")

// parseResponse extracts the IATSRESPONSE element from a SOAP reply. Some
// gateway versions return it as escaped text inside the operation result, so
// text content containing the element is parsed again.
func parseResponse(body []byte) (*ports.GatewayResponse, error) {
	resp, err := findIATSResponse(body, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	out := &ports.GatewayResponse{
		Status: strings.TrimSpace(resp.Status),
		Errors: strings.TrimSpace(resp.Errors),
		Raw:    string(body),
	}
	if resp.ProcessResult != nil {
		out.HasProcessResult = true
		out.AuthorizationResult = strings.TrimSpace(resp.ProcessResult.AuthorizationResult)
		out.CustomerCode = strings.TrimSpace(resp.ProcessResult.CustomerCode)
		out.TransactionID = strings.TrimSpace(resp.ProcessResult.TransactionID)
	}
	return out, nil
}

func findIATSResponse(body []byte, nestedDepth int) (*iatsResponse, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	var embedded []byte

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "IATSRESPONSE" {
				var resp iatsResponse
				if err := dec.DecodeElement(&resp, &t); err != nil {
					return nil, err
				}
				return &resp, nil
			}
		case xml.CharData:
			if embedded == nil && bytes.Contains(t, []byte("<IATSRESPONSE")) {
				embedded = t.Copy()
			}
		}
	}

	if embedded != nil && nestedDepth > 0 {
		return findIATSResponse(embedded, nestedDepth-1)
	}
	return nil, errNoIATSResponse
}
