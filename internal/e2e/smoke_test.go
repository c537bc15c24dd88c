package e2e

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smokePassword = "e2e-password"

func TestSmokeFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e smoke flow in short mode")
	}

	binaryPath := buildBinary(t)
	upstream := startCompletionStub(t)
	baseURL := startServer(t, binaryPath, upstream.URL)

	token := login(t, baseURL)

	reply := postJSON(t, baseURL+"/api/messages", token,
		map[string]string{"mode": "qa", "content": "the save button does nothing"})
	assert.Equal(t, "stubbed completion", reply["content"])

	history := getJSON(t, baseURL+"/api/history?mode=qa", token)
	assert.Equal(t, float64(2), history["count"])
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "chatapp-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/chatapp")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build chatapp binary: %s", string(output))
	return binaryPath
}

// startCompletionStub stands in for the Azure OpenAI endpoint.
func startCompletionStub(t *testing.T) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("api-key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"stubbed completion"}}]}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func startServer(t *testing.T, binaryPath, completionURL string) string {
	t.Helper()

	addr := freeAddr(t)
	cmd := exec.Command(binaryPath, "serve")
	cmd.Env = append(os.Environ(),
		"CHATAPP_SHARED_PASSWORD="+smokePassword,
		"CHATAPP_LISTEN_ADDR="+addr,
		"AZURE_OPENAI_API_KEY=e2e-key",
		"AZURE_OPENAI_ENDPOINT="+completionURL,
	)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		if t.Failed() {
			t.Logf("server output:\n%s", output.String())
		}
	})

	baseURL := "http://" + addr
	waitForHealth(t, baseURL)
	return baseURL
}

func freeAddr(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func waitForHealth(t *testing.T, baseURL string) {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatal("server never became healthy")
}

func login(t *testing.T, baseURL string) string {
	t.Helper()

	payload := postJSON(t, baseURL+"/api/login", "", map[string]string{"password": smokePassword})
	token, ok := payload["token"].(string)
	require.True(t, ok, "login response: %v", payload)
	require.NotEmpty(t, token)
	return token
}

func postJSON(t *testing.T, url, token string, body any) map[string]any {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return doJSON(t, req)
}

func getJSON(t *testing.T, url, token string) map[string]any {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	return doJSON(t, req)
}

func doJSON(t *testing.T, req *http.Request) map[string]any {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Less(t, resp.StatusCode, 300, "%s %s", req.Method, req.URL)

	var payload map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
