package rates

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/dgraph-io/ristretto"
	"github.com/sirupsen/logrus"

	"github.com/fincoach/fincoach/internal/config"
)

const (
	cacheKey = "key_rate"
	cacheTTL = 10 * time.Minute

	// Spread the dashboard shows on top of the raw centralbank rate
	savingsMargin = 5.0
)

// Client fetches the central bank key rate used as the savings reference
// rate on the dashboard. Responses are cached for a few minutes; the
// upstream feed only changes a handful of times a year.
type Client struct {
	url    string
	client *http.Client
	cache  *ristretto.Cache
	log    *logrus.Logger
}

// NewClient initializes a new key rate client
func NewClient(cfg *config.Config, log *logrus.Logger) (*Client, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 64,
		MaxCost:     16,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create rate cache: %w", err)
	}
	return &Client{
		url: cfg.CBRURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
		log:   log,
	}, nil
}

// buildSOAPRequest creates a SOAP request covering the last 30 days
func (c *Client) buildSOAPRequest() string {
	fromDate := time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	toDate := time.Now().Format("2006-01-02")
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<KeyRate xmlns="http://web.cbr.ru/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</KeyRate>
			</soap12:Body>
		</soap12:Envelope>`, fromDate, toDate)
}

// sendRequest posts the SOAP envelope to the rate feed
func (c *Client) sendRequest(soapRequest string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debugf("Key rate XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse extracts the latest key rate from the feed's diffgram
func (c *Client) parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	krElements := doc.FindElements("//diffgram/KeyRate/KR")
	if len(krElements) == 0 {
		return 0, fmt.Errorf("no key rate data found in XML")
	}

	rateElement := krElements[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found in XML")
	}

	var rate float64
	if _, err := fmt.Sscanf(rateElement.Text(), "%f", &rate); err != nil {
		return 0, fmt.Errorf("failed to parse rate: %w", err)
	}
	return rate, nil
}

// GetKeyRate retrieves the current savings reference rate: the central
// bank key rate plus a fixed margin. Cached between calls.
func (c *Client) GetKeyRate() (float64, error) {
	if cached, ok := c.cache.Get(cacheKey); ok {
		if rate, ok := cached.(float64); ok {
			return rate, nil
		}
	}

	body, err := c.sendRequest(c.buildSOAPRequest())
	if err != nil {
		return 0, err
	}

	rate, err := c.parseXMLResponse(body)
	if err != nil {
		return 0, err
	}
	rate += savingsMargin

	c.cache.SetWithTTL(cacheKey, rate, 1, cacheTTL)
	c.log.Infof("Retrieved key rate: %.2f%% (including %.2f%% margin)", rate, savingsMargin)
	return rate, nil
}
