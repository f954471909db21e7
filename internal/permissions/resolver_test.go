package permissions

import (
	"math/rand"
	"testing"
)

func TestResolve_EmptyMember(t *testing.T) {
	resolved := Resolve()
	if resolved.Len() != 0 {
		t.Errorf("member with zero roles resolved to %v, want empty set", resolved)
	}
	for p := range catalog {
		if resolved.Has(p) {
			t.Errorf("empty resolution granted %s", p)
		}
	}
}

func TestResolve_UnionAcrossRoles(t *testing.T) {
	resolved := Resolve(
		[]Permission{PermViewChannels, PermSendMessages},
		[]Permission{PermPinMessages},
	)
	for _, p := range []Permission{PermViewChannels, PermSendMessages, PermPinMessages} {
		if !resolved.Has(p) {
			t.Errorf("expected %s to be granted", p)
		}
	}
	if resolved.Has(PermBanMembers) {
		t.Error("BAN_MEMBERS should not be granted")
	}
}

func TestResolve_AdministratorShortCircuit(t *testing.T) {
	resolved := Resolve(
		[]Permission{PermViewChannels},
		[]Permission{PermAdministrator},
	)
	if !resolved.Equal(All()) {
		t.Errorf("administrator should resolve to the full catalog, got %d of %d", resolved.Len(), CatalogSize())
	}
}

func TestResolve_AdministratorPositionIndependent(t *testing.T) {
	// ADMINISTRATOR on the Nth role must yield the same result as on the 1st.
	first := Resolve(
		[]Permission{PermAdministrator},
		[]Permission{PermViewChannels},
		[]Permission{PermPinMessages},
	)
	last := Resolve(
		[]Permission{PermViewChannels},
		[]Permission{PermPinMessages},
		[]Permission{PermAdministrator},
	)
	if !first.Equal(last) {
		t.Error("administrator short-circuit must be order-independent")
	}
	if !first.Equal(All()) {
		t.Error("administrator must grant the full catalog")
	}
}

func TestResolve_OrderIndependent(t *testing.T) {
	grants := [][]Permission{
		{PermViewChannels, PermSendMessages},
		{PermPinMessages, PermAttachFiles},
		{PermKickMembers},
		{PermInviteMembers, PermAddReactions},
	}
	want := Resolve(grants...)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([][]Permission, len(grants))
		copy(shuffled, grants)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := Resolve(shuffled...); !got.Equal(want) {
			t.Fatalf("resolution depends on role order: %v != %v", got, want)
		}
	}
}

func TestHas(t *testing.T) {
	if !Has(PermPinMessages, []Permission{PermPinMessages}) {
		t.Error("expected PIN_MESSAGES to be granted")
	}
	if Has(PermPinMessages) {
		t.Error("no roles should deny everything")
	}
	if !Has(PermManageEmojis, []Permission{PermAdministrator}) {
		t.Error("administrator should grant any catalog permission")
	}
}
