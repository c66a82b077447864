package discord

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	domainerrors "gatekeeper/contexts/access-control/gateway-service/domain/errors"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(ClientConfig{
		BaseURL:      server.URL,
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURI:  "https://example.com/auth/",
	}, nil)
	return client, server
}

func TestExchangeCodeSendsFormEncodedGrant(t *testing.T) {
	var form url.Values
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/oauth2/token" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Fatalf("unexpected content type %q", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer"}`))
	}))

	token, err := client.ExchangeCode(context.Background(), "code-abc")
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("unexpected token %q", token)
	}
	if form.Get("grant_type") != "authorization_code" ||
		form.Get("code") != "code-abc" ||
		form.Get("client_id") != "client-1" ||
		form.Get("client_secret") != "secret-1" ||
		form.Get("redirect_uri") != "https://example.com/auth/" {
		t.Fatalf("unexpected form payload %v", form)
	}
}

func TestExchangeCodeMapsRejectionToInvalidToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))

	_, err := client.ExchangeCode(context.Background(), "expired-code")
	if !errors.Is(err, domainerrors.ErrCodeExchangeFailed) {
		t.Fatalf("expected code exchange error, got %v", err)
	}
}

func TestListGuildsUsesBearerToken(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/@me/guilds" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
			t.Fatalf("unexpected authorization header %q", auth)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"guild-1","name":"one"},{"id":"guild-2","name":"two"}]`))
	}))

	guilds, err := client.ListGuilds(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("list guilds failed: %v", err)
	}
	if len(guilds) != 2 || guilds[0] != "guild-1" || guilds[1] != "guild-2" {
		t.Fatalf("unexpected guild ids %v", guilds)
	}
}

func TestListMemberRolesTargetsGuildEndpoint(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/@me/guilds/guild-1/member" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"roles":["role-a","role-b"],"nick":"bob"}`))
	}))

	roles, err := client.ListMemberRoles(context.Background(), "tok-123", "guild-1")
	if err != nil {
		t.Fatalf("list member roles failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != "role-a" {
		t.Fatalf("unexpected roles %v", roles)
	}
}

func TestFetchProfileMapsFailureToProviderUnavailable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.FetchProfile(context.Background(), "tok-123")
	if !errors.Is(err, domainerrors.ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable, got %v", err)
	}
}

func TestFetchProfileReturnsUsername(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/@me" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"42","username":"bob"}`))
	}))

	profile, err := client.FetchProfile(context.Background(), "tok-123")
	if err != nil {
		t.Fatalf("fetch profile failed: %v", err)
	}
	if profile.Username != "bob" {
		t.Fatalf("unexpected username %q", profile.Username)
	}
}

func TestConsentURLCarriesClientAndScopes(t *testing.T) {
	raw := ConsentURL("", "client-1", "https://example.com/auth/")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse consent url: %v", err)
	}
	if !strings.HasSuffix(parsed.Path, "/oauth2/authorize") {
		t.Fatalf("unexpected consent path %s", parsed.Path)
	}
	query := parsed.Query()
	if query.Get("client_id") != "client-1" ||
		query.Get("redirect_uri") != "https://example.com/auth/" ||
		query.Get("response_type") != "code" {
		t.Fatalf("unexpected consent query %v", query)
	}
	if scope := query.Get("scope"); scope != "identify guilds guilds.members.read" {
		t.Fatalf("unexpected scope %q", scope)
	}
}
