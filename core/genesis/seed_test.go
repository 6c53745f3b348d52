package genesis

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"defind/core/types"
	"defind/crypto"
)

type recordedApply struct {
	deposits     map[crypto.Identity]uint64
	descriptions []types.WebsiteDescription
	batches      int
}

func newRecordedApply() *recordedApply {
	return &recordedApply{deposits: make(map[crypto.Identity]uint64)}
}

func (r *recordedApply) Deposit(caller crypto.Identity, requestedMax uint64, attached uint64) (uint64, error) {
	accepted := attached
	if requestedMax < accepted {
		accepted = requestedMax
	}
	r.deposits[caller] += accepted
	return accepted, nil
}

func (r *recordedApply) SetDescription(_ crypto.Identity, desc types.WebsiteDescription) error {
	r.descriptions = append(r.descriptions, desc)
	return nil
}

func (r *recordedApply) ApplyStakeDelta(_ crypto.Identity, _ string, deltas []types.StakeDelta) ([]types.StakeEntry, error) {
	r.batches++
	entries := make([]types.StakeEntry, 0, len(deltas))
	for _, d := range deltas {
		entries = append(entries, types.StakeEntry{Amount: uint64(d.Value), Term: d.Term})
	}
	return entries, nil
}

func TestDefaultCatalogApply(t *testing.T) {
	catalog := DefaultCatalog()
	app := newRecordedApply()

	if err := catalog.Apply(app); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(app.descriptions) != len(catalog.Entries) {
		t.Fatalf("expected %d descriptions, got %d", len(catalog.Entries), len(app.descriptions))
	}
	if app.batches != len(catalog.Entries) {
		t.Fatalf("expected %d stake batches, got %d", len(catalog.Entries), app.batches)
	}

	// The donation for each entry covers exactly its stakes.
	owner := DeriveIdentity("NNS Dapp")
	want := uint64(10+2+10+10+5) * CreditUnit
	if app.deposits[owner] != want {
		t.Fatalf("expected donation %d, got %d", want, app.deposits[owner])
	}
}

func TestApplyRejectsOverflowingStakes(t *testing.T) {
	cases := map[string]Catalog{
		"single value overflows": {Entries: []SeedEntry{{
			Name: "Huge",
			Link: "https://huge.example",
			Stakes: []SeedStake{
				{Term: "huge", Value: math.MaxUint64/CreditUnit + 1},
			},
		}}},
		"total overflows": {Entries: []SeedEntry{{
			Name: "Split",
			Link: "https://split.example",
			Stakes: []SeedStake{
				{Term: "a", Value: math.MaxInt64 / CreditUnit},
				{Term: "b", Value: math.MaxInt64 / CreditUnit},
				{Term: "c", Value: math.MaxInt64 / CreditUnit},
			},
		}}},
	}
	for name, catalog := range cases {
		t.Run(name, func(t *testing.T) {
			app := newRecordedApply()
			if err := catalog.Apply(app); err == nil {
				t.Fatal("expected overflow error")
			}
			if len(app.deposits) != 0 || app.batches != 0 {
				t.Fatalf("overflowing entry must not apply: %+v", app)
			}
		})
	}
}

func TestDeriveIdentityStableAndDistinct(t *testing.T) {
	a := DeriveIdentity("alpha")
	if a != DeriveIdentity("alpha") {
		t.Fatal("derivation must be deterministic")
	}
	if a == DeriveIdentity("beta") {
		t.Fatal("distinct labels must derive distinct identities")
	}
	if a.IsAnonymous() {
		t.Fatal("derived identity must not be anonymous")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `entries:
  - name: Example
    link: https://example.org
    description: an example listing
    stakes:
      - term: example
        value: 3
      - term: demo
        value: 2
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	catalog, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(catalog.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(catalog.Entries))
	}
	entry := catalog.Entries[0]
	if entry.Name != "Example" || len(entry.Stakes) != 2 || entry.Stakes[0].Value != 3 {
		t.Fatalf("unexpected entry %+v", entry)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
