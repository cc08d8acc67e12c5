package requestpolicy

import (
	"testing"

	"github.com/dalemusser/volunteerhub/internal/app/system/actor"
	"github.com/dalemusser/volunteerhub/internal/app/system/apperr"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseActivationRule(t *testing.T) {
	tests := []struct {
		in      string
		want    ActivationRule
		wantErr bool
	}{
		{"", ActivationAuthenticated, false},
		{"authenticated", ActivationAuthenticated, false},
		{" Admin ", ActivationAdmin, false},
		{"owner", "", true},
	}
	for _, tc := range tests {
		got, err := ParseActivationRule(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseActivationRule(%q) err: got %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseActivationRule(%q): got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPolicy(t *testing.T) {
	owner := &actor.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}
	other := &actor.Actor{ID: primitive.NewObjectID(), Role: models.RoleUser}
	admin := &actor.Actor{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	req := models.Request{ID: primitive.NewObjectID(), Requester: owner.ID}

	def := Default()
	open := Policy{Activation: ActivationAuthenticated, EnforceOwnership: false}
	strict := Policy{Activation: ActivationAdmin, EnforceOwnership: true}

	tests := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"create anonymous", def.CanCreate(nil), apperr.KindUnauthorized},
		{"create user", def.CanCreate(other), ""},

		{"edit anonymous", def.CanEdit(nil, req), apperr.KindUnauthorized},
		{"edit owner", def.CanEdit(owner, req), ""},
		{"edit admin enforced", def.CanEdit(admin, req), apperr.KindForbidden},
		{"edit admin not enforced", open.CanEdit(admin, req), ""},
		{"edit other enforced", def.CanEdit(other, req), apperr.KindForbidden},
		{"edit other not enforced", open.CanEdit(other, req), ""},

		{"activation anonymous", def.CanChangeActivation(nil), apperr.KindUnauthorized},
		{"activation user default", def.CanChangeActivation(other), ""},
		{"activation user admin-only", strict.CanChangeActivation(other), apperr.KindForbidden},
		{"activation admin admin-only", strict.CanChangeActivation(admin), ""},

		{"accept anonymous", def.CanAccept(nil, req), apperr.KindUnauthorized},
		{"accept requester", def.CanAccept(owner, req), apperr.KindForbidden},
		{"accept admin", def.CanAccept(admin, req), apperr.KindForbidden},
		{"accept other", def.CanAccept(other, req), ""},

		{"reject anonymous", def.CanReject(nil), apperr.KindUnauthorized},
		{"reject user", def.CanReject(other), ""},

		{"chat anonymous", def.CanChat(nil), apperr.KindUnauthorized},

		{"analytics user", def.CanViewAnalytics(other), apperr.KindForbidden},
		{"analytics admin", def.CanViewAnalytics(admin), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.want == "" {
				if tc.err != nil {
					t.Errorf("got %v, want nil", tc.err)
				}
				return
			}
			if got := apperr.KindOf(tc.err); got != tc.want {
				t.Errorf("kind: got %q, want %q (err %v)", got, tc.want, tc.err)
			}
		})
	}
}
