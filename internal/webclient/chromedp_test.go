package webclient_test

import (
	"context"
	"strings"
	"testing"

	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/webclient"
)

func TestNewChromedpClient_Construct(t *testing.T) {
	t.Parallel()
	headful := false
	client, err := webclient.NewChromedpClient(webclient.Config{Client: webclient.ClientChromedp, Headless: &headful}, logging.NewNop())
	if err != nil {
		t.Fatalf("NewChromedpClient: %v", err)
	}
	if client == nil {
		t.Fatal("NewChromedpClient returned nil client without error")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

// Non-GET requests are rejected before a browser is launched, so this runs
// without Chrome installed.
func TestChromedpClient_DoRejectsNonGET(t *testing.T) {
	t.Parallel()
	client, err := webclient.NewChromedpClient(webclient.Config{Client: webclient.ClientChromedp}, logging.NewNop())
	if err != nil {
		t.Fatalf("NewChromedpClient: %v", err)
	}
	defer client.Close()

	_, err = client.Do(context.Background(), &webclient.Request{
		Method: "POST",
		URL:    "http://example.com",
	})
	if err == nil {
		t.Fatal("Expected error for POST request, got nil")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("Expected error about method not supported, got: %v", err)
	}
}

func TestChromedpClient_DoNilRequest(t *testing.T) {
	t.Parallel()
	client, _ := webclient.NewChromedpClient(webclient.Config{}, logging.NewNop())
	defer client.Close()

	if _, err := client.Do(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}
