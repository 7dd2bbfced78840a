package payment

import (
	"strings"
)

// rejectReasons maps iATS REJECT codes to readable decline reasons
var rejectReasons = map[string]string{
	"1":   "Agent code has not been set up on the authorization system",
	"2":   "Unable to process transaction. Verify and re-enter credit card information",
	"3":   "Invalid customer code",
	"4":   "Incorrect expiration date",
	"5":   "Invalid transaction. Verify and re-enter credit card information",
	"6":   "Please have cardholder call the number on the back of the card",
	"7":   "Lost or stolen card",
	"8":   "Invalid card status",
	"9":   "Restricted card status",
	"10":  "Error. Please verify and re-enter credit card information",
	"11":  "General decline code. Please have client call the number on the back of credit card",
	"12":  "Incorrect CVV2 or expiry date",
	"14":  "The card is over the limit",
	"15":  "General decline code. Please have client call the number on the back of credit card",
	"16":  "Invalid charge card number. Verify and re-enter credit card information",
	"17":  "Unable to authorize transaction. Authorizer needs more information for approval",
	"18":  "Card not supported by institution",
	"19":  "Incorrect CVV2 security code",
	"22":  "Bank timeout. Bank lines may be down or busy. Retry transaction later",
	"23":  "System error. Retry transaction later",
	"24":  "Charge card expired",
	"25":  "Capture card. Reported lost or stolen",
	"26":  "Invalid transaction, invalid expiry date. Please confirm and retry transaction",
	"27":  "Please have cardholder call the number on the back of the card",
	"32":  "Invalid charge card number",
	"39":  "Contact iATS",
	"40":  "Invalid card number. Card not supported by iATS",
	"41":  "Invalid expiry date",
	"42":  "CVV2 required",
	"43":  "Incorrect AVS",
	"45":  "Credit card name blocked",
	"46":  "Card tumbling",
	"47":  "Name tumbling",
	"48":  "IP blocked",
	"49":  "Velocity 1, IP block",
	"50":  "Velocity 2, IP block",
	"51":  "Velocity 3, IP block",
	"52":  "Credit card BIN country blocked",
	"100": "DO NOT REPROCESS",
}

// RejectCode extracts n from an authorization result of the form "REJECT: n"
func RejectCode(authResult string) (string, bool) {
	s := strings.TrimSpace(authResult)
	if !strings.HasPrefix(strings.ToUpper(s), "REJECT") {
		return "", false
	}
	s = strings.TrimSpace(s[len("REJECT"):])
	s = strings.TrimSpace(strings.TrimPrefix(s, ":"))
	if s == "" {
		return "", false
	}
	return s, true
}

// RejectReason returns the readable reason for an authorization result,
// or "" when the result carries no known reject code
func RejectReason(authResult string) string {
	code, ok := RejectCode(authResult)
	if !ok {
		return ""
	}
	return rejectReasons[code]
}
