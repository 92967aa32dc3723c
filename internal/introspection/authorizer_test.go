package introspection

import (
	"testing"

	"github.com/dropDatabas3/askjohn/internal/domain/repository"
)

func mkClient(id string) *repository.Client {
	return &repository.Client{ID: "row-" + id, ClientID: id}
}

func TestIntrospectionPermitted_NilInputs(t *testing.T) {
	p := Policy{ProtectionScope: "uma_protection"}
	owner := mkClient("owner")
	req := &Requester{Identity: DirectClient{ClientID: "owner"}, Client: mkClient("owner")}

	if p.IntrospectionPermitted(nil, owner, nil) {
		t.Fatal("nil requester must be denied")
	}
	if p.IntrospectionPermitted(&Requester{}, owner, nil) {
		t.Fatal("requester without client must be denied")
	}
	if p.IntrospectionPermitted(req, nil, nil) {
		t.Fatal("nil owner must be denied")
	}
}

func TestIntrospectionPermitted_Self(t *testing.T) {
	p := Policy{ProtectionScope: "uma_protection", CrossClientScopes: []string{"never-granted"}}

	// self vale para ambas variantes de identidad y sin mirar scopes
	direct := &Requester{Identity: DirectClient{ClientID: "app"}, Client: mkClient("app")}
	if !p.IntrospectionPermitted(direct, mkClient("app"), nil) {
		t.Fatal("direct self-introspection must be permitted")
	}

	delegated := &Requester{Identity: DelegatedClient{ClientID: "app"}, Client: mkClient("app")}
	if !p.IntrospectionPermitted(delegated, mkClient("app"), []string{"whatever"}) {
		t.Fatal("delegated self-introspection must be permitted")
	}
}

func TestIntrospectionPermitted_DirectNeverCrossesClients(t *testing.T) {
	p := Policy{ProtectionScope: "uma_protection"}
	req := &Requester{Identity: DirectClient{ClientID: "app"}, Client: mkClient("app")}

	if p.IntrospectionPermitted(req, mkClient("other"), []string{"openid"}) {
		t.Fatal("direct credentials must not reach other clients' tokens")
	}
}

func TestIntrospectionPermitted_DelegatedCrossClient(t *testing.T) {
	owner := mkClient("other")

	cases := []struct {
		name   string
		policy Policy
		grant  []string
		scopes []string
		want   bool
	}{
		{
			name:   "protection scope, no restriction",
			policy: Policy{ProtectionScope: "uma_protection"},
			grant:  []string{"uma_protection"},
			scopes: []string{"openid"},
			want:   true,
		},
		{
			name:   "missing protection scope",
			policy: Policy{ProtectionScope: "uma_protection"},
			grant:  []string{"openid"},
			scopes: []string{"openid"},
			want:   false,
		},
		{
			name:   "intersection hit",
			policy: Policy{ProtectionScope: "uma_protection", CrossClientScopes: []string{"api:read", "api:write"}},
			grant:  []string{"uma_protection"},
			scopes: []string{"openid", "api:read"},
			want:   true,
		},
		{
			name:   "intersection miss",
			policy: Policy{ProtectionScope: "uma_protection", CrossClientScopes: []string{"api:write"}},
			grant:  []string{"uma_protection"},
			scopes: []string{"openid", "api:read"},
			want:   false,
		},
		{
			name:   "token without scopes vs restriction",
			policy: Policy{ProtectionScope: "uma_protection", CrossClientScopes: []string{"api:read"}},
			grant:  []string{"uma_protection"},
			scopes: nil,
			want:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &Requester{
				Identity: DelegatedClient{ClientID: "app", GrantedScopes: tc.grant},
				Client:   mkClient("app"),
			}
			if got := tc.policy.IntrospectionPermitted(req, owner, tc.scopes); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
