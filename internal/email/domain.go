package email

import "github.com/connectsphere/connect-cli/internal/model"

// knownDomains maps normalized company names to their primary email domain.
// Covers the large companies people most often target; everything else falls
// back to the <name>.com convention.
var knownDomains = map[string]string{
	"microsoft":  "microsoft.com",
	"google":     "google.com",
	"alphabet":   "google.com",
	"apple":      "apple.com",
	"amazon":     "amazon.com",
	"meta":       "meta.com",
	"facebook":   "meta.com",
	"netflix":    "netflix.com",
	"tesla":      "tesla.com",
	"uber":       "uber.com",
	"airbnb":     "airbnb.com",
	"stripe":     "stripe.com",
	"salesforce": "salesforce.com",
	"adobe":      "adobe.com",
	"nvidia":     "nvidia.com",
	"intel":      "intel.com",
	"ibm":        "ibm.com",
	"oracle":     "oracle.com",
	"cisco":      "cisco.com",
	"paypal":     "paypal.com",
	"linkedin":   "linkedin.com",
	"twitter":    "twitter.com",
	"snap":       "snap.com",
	"snapchat":   "snap.com",
	"pinterest":  "pinterest.com",
	"reddit":     "reddit.com",
	"zoom":       "zoom.us",
	"slack":      "slack.com",
	"shopify":    "shopify.com",
	"square":     "squareup.com",
	"dropbox":    "dropbox.com",
	"spotify":    "spotify.com",
	"twilio":     "twilio.com",
}

// ResolveDomain maps a company display name to its email domain. Known
// companies come from the static table; unknown ones get <normalized>.com.
// Deterministic, no network.
func ResolveDomain(company string) string {
	key := model.Normalize(company)
	if d, ok := knownDomains[key]; ok {
		return d
	}
	return key + ".com"
}
