package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"briteverify/internal/mockapi"
	"briteverify/pkg/briteverify"
	"briteverify/pkg/verification"
)

const testAPIKey = "cli-key"

// setupAPI points the CLI's environment at a fresh fake API.
func setupAPI(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(mockapi.New(mockapi.WithAPIKey(testAPIKey), mockapi.WithPageSize(2)).Router())
	t.Cleanup(srv.Close)

	t.Setenv("BRITEVERIFY_API_KEY", testAPIKey)
	t.Setenv("BRITEVERIFY_V1_URL", srv.URL+"/api/v1")
	t.Setenv("BRITEVERIFY_V3_URL", srv.URL+"/api/v3")
	t.Setenv("BRITEVERIFY_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("DATABASE_URL", "")
}

func run(t *testing.T, args ...string) ([]byte, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.Bytes(), err
}

func runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(out, v), string(out))
}

func TestVerifyCommand(t *testing.T) {
	setupAPI(t)

	t.Run("positional email", func(t *testing.T) {
		var got struct {
			Email struct {
				Address string `json:"address"`
				Status  string `json:"status"`
			} `json:"email"`
		}
		runJSON(t, &got, "verify", "jane@example.com")
		assert.Equal(t, "jane@example.com", got.Email.Address)
		assert.Equal(t, "valid", got.Email.Status)
	})

	t.Run("field flags", func(t *testing.T) {
		var got map[string]any
		runJSON(t, &got, "verify", "--email", "jane@example.com", "--phone", "5555555555")
		assert.Contains(t, got, "email")
		assert.Contains(t, got, "phone")
		assert.NotContains(t, got, "address")
	})

	t.Run("no fields", func(t *testing.T) {
		_, err := run(t, "verify")
		assert.Error(t, err)
	})

	t.Run("yaml output", func(t *testing.T) {
		out, err := run(t, "--output", "yaml", "verify", "jane@example.com")
		require.NoError(t, err)
		var got map[string]any
		require.NoError(t, yaml.Unmarshal(out, &got))
		email, ok := got["email"].(map[string]any)
		require.True(t, ok, string(out))
		assert.Equal(t, "valid", email["status"])
	})

	t.Run("unknown output format", func(t *testing.T) {
		_, err := run(t, "--output", "xml", "balance")
		assert.ErrorContains(t, err, "--output")
	})
}

func TestBalanceCommand(t *testing.T) {
	setupAPI(t)

	var got verification.AccountCreditBalance
	runJSON(t, &got, "balance")
	assert.Equal(t, uint32(2165), got.Credits)
	assert.Equal(t, uint32(500), got.CreditsInReserve)
}

func TestWrongAPIKey(t *testing.T) {
	setupAPI(t)
	t.Setenv("BRITEVERIFY_API_KEY", "nope")

	_, err := run(t, "balance")
	assert.ErrorContains(t, err, "get balance")
}

func TestListCommands(t *testing.T) {
	setupAPI(t)

	var created verification.CreateListResponse
	runJSON(t, &created, "create-list",
		"--contact", "jane@example.com",
		"--contact", "5555555555",
		"--contact", `{"email":"sam@example.com","phone":"5555550100"}`,
		"--start",
	)
	id := created.List.ID
	require.NotEmpty(t, id)
	assert.Equal(t, verification.BatchComplete, created.List.State)

	t.Run("list", func(t *testing.T) {
		var got verification.VerificationListState
		runJSON(t, &got, "list", id)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, uint64(3), got.TotalVerified)
	})

	t.Run("lists by state", func(t *testing.T) {
		var got verification.GetListStatesResponse
		runJSON(t, &got, "lists", "--state", "complete")
		assert.Equal(t, []string{id}, got.IDs())

		runJSON(t, &got, "lists", "--state", "open")
		assert.Empty(t, got.Lists)
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := run(t, "lists", "--date", "yesterday")
		assert.ErrorContains(t, err, "--date")
	})

	t.Run("results", func(t *testing.T) {
		var got []map[string]any
		runJSON(t, &got, "results", id)
		require.Len(t, got, 3)
		assert.Equal(t, "jane@example.com", got[0]["email"])
	})

	t.Run("results needs exactly one selector", func(t *testing.T) {
		_, err := run(t, "results")
		assert.Error(t, err)
		_, err = run(t, "results", id, "--completed")
		assert.Error(t, err)
	})

	t.Run("results of completed lists", func(t *testing.T) {
		var got map[string][]map[string]any
		runJSON(t, &got, "results", "--completed")
		assert.Len(t, got[id], 3)
	})

	t.Run("unknown cache backend", func(t *testing.T) {
		_, err := run(t, "results", id, "--cache", "disk")
		assert.ErrorContains(t, err, "unknown cache backend")
	})

	t.Run("redis cache needs url", func(t *testing.T) {
		_, err := run(t, "results", id, "--cache", "redis")
		assert.ErrorContains(t, err, "REDIS_URL")
	})

	t.Run("delete", func(t *testing.T) {
		var got verification.DeleteListResponse
		runJSON(t, &got, "delete", id)
		assert.Equal(t, verification.BatchDeleted, got.List.State)

		_, err := run(t, "list", id)
		assert.ErrorContains(t, err, "not found")
	})
}

func TestStartAndTerminate(t *testing.T) {
	setupAPI(t)

	var created verification.CreateListResponse
	runJSON(t, &created, "create-list", "--contact", "jane@example.com")
	assert.Equal(t, verification.BatchOpen, created.List.State)

	var started verification.UpdateListResponse
	runJSON(t, &started, "start", created.List.ID)
	assert.Equal(t, verification.BatchComplete, started.List.State)

	var other verification.CreateListResponse
	runJSON(t, &other, "create-list")

	var terminated verification.UpdateListResponse
	runJSON(t, &terminated, "terminate", other.List.ID)
	assert.Equal(t, verification.BatchTerminated, terminated.List.State)

	t.Run("bad contact", func(t *testing.T) {
		_, err := run(t, "create-list", "--contact", "not a contact")
		assert.ErrorContains(t, err, "not a contact")
	})
}

func TestClientSharesMetricsAndBreaker(t *testing.T) {
	setupAPI(t)
	outage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(outage.Close)
	t.Setenv("BRITEVERIFY_V3_URL", outage.URL+"/api/v3")
	t.Setenv("BRITEVERIFY_BREAKER_FAILURES", "1")
	t.Setenv("BRITEVERIFY_BREAKER_COOLDOWN", "1h")

	a := newApp(io.Discard)
	cmd := a.rootCmd()
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"balance"})
	require.Error(t, cmd.ExecuteContext(context.Background()))

	families, err := a.registry.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "briteverify_client_request_duration_seconds")
	assert.Contains(t, names, "briteverify_client_failures_total")

	require.NotNil(t, a.breaker)
	assert.True(t, a.breaker.IsOpen())

	client, err := a.client()
	require.NoError(t, err)
	_, err = client.GetAccountBalance(context.Background())
	assert.ErrorIs(t, err, briteverify.ErrCircuitOpen)
}

func TestBreakerCanBeDisabled(t *testing.T) {
	setupAPI(t)
	t.Setenv("BRITEVERIFY_BREAKER_FAILURES", "0")

	a := newApp(io.Discard)
	cmd := a.rootCmd()
	cmd.SetArgs([]string{"balance"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Nil(t, a.breaker)
}
