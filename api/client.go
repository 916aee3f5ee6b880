// Package api - Client und JSON-Typen fuer den aeforge HTTP-Server.
//
// Die Methoden von [Client] entsprechen den Endpunkten des Servers:
// Version, Variants und Build. Die CLI nutzt den Client fuer --remote.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"runtime"

	"github.com/7blacky7/aeforge/envconfig"
	"github.com/7blacky7/aeforge/version"
)

// Client kapselt den Zustand fuer Anfragen an einen aeforge-Server.
// Neue Clients mit [ClientFromEnvironment] oder [NewClient] erstellen.
type Client struct {
	base *url.URL
	http *http.Client
}

func checkError(resp *http.Response, body []byte) error {
	if resp.StatusCode < http.StatusBadRequest {
		return nil
	}

	apiError := StatusError{StatusCode: resp.StatusCode, Status: resp.Status}

	err := json.Unmarshal(body, &apiError)
	if err != nil {
		// ganzer Body als Meldung, wenn er kein JSON ist
		apiError.ErrorMessage = string(body)
	}

	return apiError
}

// ClientFromEnvironment erstellt einen Client fuer AEFORGE_HOST.
// Format der Variable:
//
//	<scheme>://<host>:<port>
func ClientFromEnvironment() (*Client, error) {
	return &Client{
		base: envconfig.Host(),
		http: http.DefaultClient,
	}, nil
}

func NewClient(base *url.URL, http *http.Client) *Client {
	return &Client{
		base: base,
		http: http,
	}
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	var reqBody io.Reader
	if reqData != nil {
		data, err := json.Marshal(reqData)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	requestURL := c.base.JoinPath(path)
	request, err := http.NewRequestWithContext(ctx, method, requestURL.String(), reqBody)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("User-Agent", fmt.Sprintf("aeforge/%s (%s %s) Go/%s", version.Version, runtime.GOARCH, runtime.GOOS, runtime.Version()))

	respObj, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer respObj.Body.Close()

	respBody, err := io.ReadAll(respObj.Body)
	if err != nil {
		return err
	}

	if err := checkError(respObj, respBody); err != nil {
		return err
	}

	if len(respBody) > 0 && respData != nil {
		if err := json.Unmarshal(respBody, respData); err != nil {
			return err
		}
	}
	return nil
}

// Version gibt die Version des Servers zurueck
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp VersionResponse
	if err := c.do(ctx, http.MethodGet, "/api/version", nil, &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// Variants listet alle Varianten in kanonischer Reihenfolge
func (c *Client) Variants(ctx context.Context) (*VariantsResponse, error) {
	var resp VariantsResponse
	if err := c.do(ctx, http.MethodGet, "/api/variants", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Build baut eine Variante auf dem Server und gibt ihre Beschreibung zurueck
func (c *Client) Build(ctx context.Context, req *BuildRequest) (*BuildResponse, error) {
	var resp BuildResponse
	if err := c.do(ctx, http.MethodPost, "/api/build", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
