package iats

import "fmt"

const approvedChargeXML = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <ProcessCreditCardResponse xmlns="https://www.iatspayments.com/NetGate/">
      <ProcessCreditCardResult>
        <IATSRESPONSE xmlns="">
          <STATUS>Success</STATUS>
          <ERRORS />
          <PROCESSRESULT>
            <AUTHORIZATIONRESULT> OK: 678594:</AUTHORIZATIONRESULT>
            <CUSTOMERCODE />
            <TRANSACTIONID>A6DE6F24 </TRANSACTIONID>
          </PROCESSRESULT>
        </IATSRESPONSE>
      </ProcessCreditCardResult>
    </ProcessCreditCardResponse>
  </soap:Body>
</soap:Envelope>`

const escapedCustomerXML = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <CreateCreditCardCustomerCodeResponse xmlns="https://www.iatspayments.com/NetGate/">
      <CreateCreditCardCustomerCodeResult>&lt;IATSRESPONSE&gt;&lt;STATUS&gt;Success&lt;/STATUS&gt;&lt;ERRORS /&gt;&lt;PROCESSRESULT&gt;&lt;AUTHORIZATIONRESULT&gt;OK&lt;/AUTHORIZATIONRESULT&gt;&lt;CUSTOMERCODE&gt;A12345678&lt;/CUSTOMERCODE&gt;&lt;/PROCESSRESULT&gt;&lt;/IATSRESPONSE&gt;</CreateCreditCardCustomerCodeResult>
    </CreateCreditCardCustomerCodeResponse>
  </soap:Body>
</soap:Envelope>`

const agentErrorXML = `<?xml version="1.0" encoding="utf-8"?>
<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope">
  <soap:Body>
    <ProcessCreditCardResponse xmlns="https://www.iatspayments.com/NetGate/">
      <ProcessCreditCardResult>
        <IATSRESPONSE>
          <STATUS>Failure</STATUS>
          <ERRORS>Agent code has not been set up on the authorization system.</ERRORS>
        </IATSRESPONSE>
      </ProcessCreditCardResult>
    </ProcessCreditCardResponse>
  </soap:Body>
</soap:Envelope>`

func rejectXML(code int) string {
	return fmt.Sprintf(`<soap:Envelope xmlns:soap="http://www.w3.org/2003/05/soap-envelope"><soap:Body>
<ProcessCreditCardResponse xmlns="https://www.iatspayments.com/NetGate/"><ProcessCreditCardResult>
<IATSRESPONSE><STATUS>Success</STATUS><ERRORS /><PROCESSRESULT>
<AUTHORIZATIONRESULT>REJECT: %d</AUTHORIZATIONRESULT><CUSTOMERCODE /><TRANSACTIONID>B11</TRANSACTIONID>
</PROCESSRESULT></IATSRESPONSE></ProcessCreditCardResult></ProcessCreditCardResponse></soap:Body></soap:Envelope>`, code)
}
