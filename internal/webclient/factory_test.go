package webclient_test

import (
	"context"
	"errors"
	"testing"

	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/webclient"
)

func TestNewWebClient_DefaultBackend(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("Failed to create default client: %v", err)
	}
	defer client.Close()

	if _, ok := client.(*webclient.NetHTTPClient); !ok {
		t.Fatalf("expected *NetHTTPClient for empty backend, got %T", client)
	}
}

func TestNewWebClient_ChromedpConstructsLazily(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{Client: webclient.ClientChromedp}, logging.NewNop())
	if err != nil {
		t.Fatalf("chromedp construction should not start a browser: %v", err)
	}
	defer client.Close()

	if _, ok := client.(*webclient.ChromedpClient); !ok {
		t.Fatalf("expected *ChromedpClient, got %T", client)
	}
}

func TestNewWebClient_UnknownBackend(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewWebClient(webclient.Config{Client: "carrier-pigeon"}, logging.NewNop())
	if err == nil {
		t.Fatal("Expected error for unknown backend, got nil")
	}
	if client != nil {
		t.Fatal("Expected nil client for unknown backend")
	}
}

type stubClient struct{}

func (stubClient) Do(context.Context, *webclient.Request) (*webclient.Response, error) {
	return nil, errors.New("stub")
}
func (stubClient) Get(context.Context, string) (*webclient.Response, error) {
	return nil, errors.New("stub")
}
func (stubClient) Close() error { return nil }

func TestRegisterBackend_CustomAndCaseInsensitive(t *testing.T) {
	t.Parallel()
	webclient.RegisterBackend("Stub-Factory-Test", func(webclient.Config, logging.Logger) (webclient.WebClient, error) {
		return stubClient{}, nil
	})

	client, err := webclient.NewWebClient(webclient.Config{Client: "stub-factory-test"}, logging.NewNop())
	if err != nil {
		t.Fatalf("NewWebClient: %v", err)
	}
	if _, ok := client.(stubClient); !ok {
		t.Fatalf("expected stubClient, got %T", client)
	}

	found := false
	for _, name := range webclient.ListBackends() {
		if name == "stub-factory-test" {
			found = true
		}
	}
	if !found {
		t.Errorf("ListBackends missing registered backend: %v", webclient.ListBackends())
	}
}

func TestNewWebClient_ConstructorError(t *testing.T) {
	t.Parallel()
	webclient.RegisterBackend("broken-factory-test", func(webclient.Config, logging.Logger) (webclient.WebClient, error) {
		return nil, errors.New("no browser")
	})
	_, err := webclient.NewWebClient(webclient.Config{Client: "broken-factory-test"}, logging.NewNop())
	if err == nil {
		t.Fatal("expected constructor error to surface")
	}
}
