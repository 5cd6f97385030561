package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/staff-tracker-mcp/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		LogLevel:       "info",
		EdgeThreshold:  40,
		MatchTolerance: 1.2,
		MinStaffLength: 1,
	}
}

func newTestServer() *Server {
	return New(testConfig())
}

func TestNew(t *testing.T) {
	s := newTestServer()
	require.NotNil(t, s)
	assert.NotNil(t, s.cache)
	assert.NotNil(t, s.logger)
	assert.Equal(t, "0.1.0", s.version)

	s = New(testConfig(), WithVersion("1.2.3"), WithVersion(""), WithLogger(nil))
	assert.Equal(t, "1.2.3", s.version)
	assert.NotNil(t, s.logger)
}

func TestMCPRequest_Unmarshal(t *testing.T) {
	tests := []struct {
		name       string
		json       string
		wantID     interface{}
		wantMethod string
	}{
		{"string id", `{"jsonrpc":"2.0","id":"test-1","method":"tools/list"}`, "test-1", "tools/list"},
		{"number id", `{"jsonrpc":"2.0","id":42,"method":"ping"}`, float64(42), "ping"},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"initialize"}`, nil, "initialize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req MCPRequest
			require.NoError(t, json.Unmarshal([]byte(tt.json), &req))
			assert.Equal(t, tt.wantID, req.ID)
			assert.Equal(t, tt.wantMethod, req.Method)
			assert.Equal(t, "2.0", req.JSONRPC)
		})
	}
}

func TestMCPResponse_WithError(t *testing.T) {
	resp := newTestServer().errorResponse(7, -32000, "Tool execution failed", "boom")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{"jsonrpc":"2.0","id":7,"error":{"code":-32000,"message":"Tool execution failed","data":"boom"}}`, string(data))
}

func TestErrorResponse_OmitsEmptyData(t *testing.T) {
	resp := newTestServer().errorResponse(1, -32601, "Method not found: x", "")

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"data"`)
}

func TestHandleRequest_Initialize(t *testing.T) {
	s := New(testConfig(), WithVersion("9.9.9"))
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "initialize"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "2024-11-05", result["protocolVersion"])

	info, ok := result["serverInfo"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "staff-tracker-mcp", info["name"])
	assert.Equal(t, "9.9.9", info["version"])
}

func TestHandleRequest_Ping(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{JSONRPC: "2.0", ID: "p", Method: "ping"})

	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "p", resp.ID)
	assert.Equal(t, map[string]interface{}{}, resp.Result)
}

func TestHandleRequest_ToolsList(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 2, Method: "tools/list"})

	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	tools, ok := result["tools"].([]Tool)
	require.True(t, ok)
	assert.Len(t, tools, len(GetToolDefinitions()))
}

func TestHandleRequest_NotificationsInitialized(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{JSONRPC: "2.0", Method: "notifications/initialized"})
	assert.Nil(t, resp)
}

func TestHandleRequest_MethodNotFound(t *testing.T) {
	resp := newTestServer().handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 3, Method: "resources/list"})

	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "resources/list")
}

func TestServe(t *testing.T) {
	in := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	}, "\n")

	var out, logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	s := New(testConfig(), WithLogger(logger))

	require.NoError(t, s.Serve(strings.NewReader(in), &out))

	dec := json.NewDecoder(&out)
	var ids []interface{}
	for dec.More() {
		var resp MCPResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Nil(t, resp.Error)
		ids = append(ids, resp.ID)
	}
	assert.Equal(t, []interface{}{float64(1), float64(2)}, ids)
	assert.Contains(t, logs.String(), "failed to parse request")
}
