package sso

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"statusboard/internal/auth"
)

// Assertion is the fixed attribute set consumed from a federation assertion.
// Anything else the identity provider sends is ignored.
type Assertion struct {
	NameID      string
	Email       string
	GivenName   string
	FamilyName  string
	Affiliation string
}

// Client talks to the campus identity federation. The federation protocol
// itself is handled upstream; this client covers the contract surface the
// application needs: metadata exchange, attribute mapping and single logout.
// With skip set, no provider is contacted and Bypass supplies a synthetic
// principal for development.
type Client struct {
	metadataURL string
	httpc       *http.Client
	skip        bool
}

// New creates a federation client. metadataURL points at the IdP metadata
// document; skip enables the development bypass.
func New(metadataURL string, skip bool) *Client {
	return &Client{
		metadataURL: metadataURL,
		httpc:       &http.Client{Timeout: 10 * time.Second},
		skip:        skip,
	}
}

// Bypass returns the synthetic development principal, or nil when the bypass
// is not active.
func (c *Client) Bypass() *auth.Principal {
	if c == nil || !c.skip {
		return nil
	}
	return &auth.Principal{
		ID:    "dev-bypass",
		Email: "dev@nyu.edu",
		NetID: "dev",
		Name:  "Dev Bypass",
		Admin: true,
		SSO:   true,
	}
}

// Principal maps a consumed assertion to the session principal. The admin
// flag is never derived from assertion attributes.
func (c *Client) Principal(a Assertion) auth.Principal {
	netid := a.NameID
	if netid == "" && a.Email != "" {
		netid = strings.SplitN(a.Email, "@", 2)[0]
	}
	name := strings.TrimSpace(a.GivenName + " " + a.FamilyName)
	return auth.Principal{
		ID:    a.NameID,
		Email: strings.ToLower(a.Email),
		NetID: netid,
		Name:  name,
		SSO:   true,
	}
}

// IdPMetadata fetches the identity provider's metadata document.
func (c *Client) IdPMetadata(ctx context.Context) ([]byte, error) {
	if c.metadataURL == "" {
		return nil, fmt.Errorf("sso metadata url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.metadataURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("idp metadata fetch: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// SingleLogoutURL builds the IdP round-trip URL a federated logout redirects
// to after the local session is cleared.
func (c *Client) SingleLogoutURL(returnTo string) string {
	if c.metadataURL == "" {
		return ""
	}
	base := strings.TrimSuffix(c.metadataURL, "/metadata")
	return base + "/slo?return=" + url.QueryEscape(returnTo)
}

type spSSODescriptor struct {
	ProtocolSupport string       `xml:"protocolSupportEnumeration,attr"`
	ACS             []acsElement `xml:"AssertionConsumerService"`
}

type acsElement struct {
	Binding  string `xml:"Binding,attr"`
	Location string `xml:"Location,attr"`
	Index    int    `xml:"index,attr"`
}

type entityDescriptor struct {
	XMLName  xml.Name        `xml:"urn:oasis:names:tc:SAML:2.0:metadata EntityDescriptor"`
	EntityID string          `xml:"entityID,attr"`
	SPSSO    spSSODescriptor `xml:"SPSSODescriptor"`
}

// SPMetadata renders this service's provider metadata document.
func SPMetadata(entityID, acsURL string) ([]byte, error) {
	doc := entityDescriptor{
		EntityID: entityID,
		SPSSO: spSSODescriptor{
			ProtocolSupport: "urn:oasis:names:tc:SAML:2.0:protocol",
			ACS: []acsElement{{
				Binding:  "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST",
				Location: acsURL,
				Index:    0,
			}},
		},
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
