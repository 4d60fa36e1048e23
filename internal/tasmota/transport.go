package tasmota

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/tasmota/internal/logging"
	"github.com/muurk/tasmota/internal/version"
)

// CommandPath is the device endpoint that executes text commands
const CommandPath = "/cm"

// Getter performs a single HTTP GET and returns the status code and body.
// It is the only place the package touches the network.
type Getter interface {
	Get(ctx context.Context, rawURL string, query url.Values) (int, []byte, error)
}

// Sender sends one command and returns the decoded reply
type Sender interface {
	Send(ctx context.Context, command string) (*Reply, error)
}

// HTTPGetter implements Getter with net/http
type HTTPGetter struct {
	// Client is the underlying HTTP client. When nil a client without
	// keep-alives is used, so every call opens and closes its own connection.
	Client *http.Client
}

var defaultHTTPClient = &http.Client{
	Transport: &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
	},
}

// Get issues GET rawURL?query. A non-200 status is not an error at this level.
func (g *HTTPGetter) Get(ctx context.Context, rawURL string, query url.Values) (int, []byte, error) {
	target := rawURL
	if len(query) > 0 {
		// Tasmota decodes %20 reliably, '+' only on some builds
		target += "?" + strings.ReplaceAll(query.Encode(), "+", "%20")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("User-Agent", version.UserAgent())

	client := g.Client
	if client == nil {
		client = defaultHTTPClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// Transport sends commands to one device's /cm endpoint
type Transport struct {
	baseURL  string
	username string
	password string
	timeout  time.Duration
	getter   Getter
}

// NewTransport creates a transport. baseURL must already be normalized and
// the credential pair validated; Device construction does both.
func NewTransport(baseURL, username, password string, timeout time.Duration, getter Getter) *Transport {
	if getter == nil {
		getter = &HTTPGetter{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transport{
		baseURL:  baseURL,
		username: username,
		password: password,
		timeout:  timeout,
		getter:   getter,
	}
}

// Query returns the query parameters for command, including credentials
func (t *Transport) Query(command string) url.Values {
	q := url.Values{}
	q.Set("cmnd", command)
	if t.password != "" {
		q.Set("user", t.username)
		q.Set("password", t.password)
	}
	return q
}

// Send executes command on the device. The timeout covers the whole round
// trip. Nothing is retried.
func (t *Transport) Send(ctx context.Context, command string) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	requestID := uuid.NewString()
	label := commandLabel(command)
	logged := redactCommand(command)
	logging.LogCommand(requestID, logged, t.baseURL)

	start := time.Now()
	status, body, err := t.getter.Get(ctx, t.baseURL+CommandPath, t.Query(command))
	elapsed := time.Since(start)
	commandDuration.WithLabelValues(label).Observe(elapsed.Seconds())

	if err != nil {
		commandsSent.WithLabelValues(label, outcomeConnection).Inc()
		connErr := NewConnectionError("failed to send command", err)
		connErr.Command = command
		return nil, connErr
	}
	logging.LogReply(requestID, logged, status, len(body), elapsed)

	if status != http.StatusOK {
		commandsSent.WithLabelValues(label, outcomeHTTP).Inc()
		return nil, NewHTTPStatusError(command, status, body)
	}

	reply, err := ParseReply(body)
	if err != nil {
		commandsSent.WithLabelValues(label, outcomeDecode).Inc()
		logging.LogRawBytes("Undecodable reply", body)
		return nil, NewDecodeError(command, body, err)
	}

	commandsSent.WithLabelValues(label, outcomeOK).Inc()
	return reply, nil
}

// redactCommand hides the argument of commands that set a password
// (WebPassword, MqttPassword, Password1, or a Backlog containing one)
func redactCommand(command string) string {
	if !strings.Contains(strings.ToLower(command), "password") {
		return command
	}
	name, _, hasArg := strings.Cut(strings.TrimSpace(command), " ")
	if !hasArg {
		return name
	}
	return name + " ****"
}
