package config

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml"

	"github.com/lthiery/helium/internal/domain"
)

// OwnershipPrecision selects how an ownership fraction is applied.
type OwnershipPrecision string

const (
	// PrecisionExact applies the configured fraction at full decimal
	// precision.
	PrecisionExact OwnershipPrecision = "exact"
	// PrecisionPercent truncates the fraction to whole percentage points
	// before weighting (0.4567 becomes 0.45), matching the historical
	// report output.
	PrecisionPercent OwnershipPrecision = "percent"
)

// Account is one tracked account: a display label, its address, and the
// ownership fraction of its rewards attributed to the beneficiary.
type Account struct {
	Label     string
	Pubkey    string
	Ownership float64
}

// AccountsFile is a parsed accounts.toml. Accounts keep file order, which
// fixes the row order of every report artifact.
type AccountsFile struct {
	Accounts  []Account
	Precision OwnershipPrecision
}

// LoadAccounts reads and validates an accounts.toml of the form:
//
//	ownership_precision = "exact"   # optional
//
//	[accounts.hotspot-house]
//	pubkey = "13Ya..."
//	ownership = 0.5
func LoadAccounts(path string) (AccountsFile, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return AccountsFile{}, fmt.Errorf("loading %s: %w", path, err)
	}

	file := AccountsFile{Precision: PrecisionExact}

	if raw := tree.Get("ownership_precision"); raw != nil {
		precision, ok := raw.(string)
		if !ok {
			return AccountsFile{}, fmt.Errorf("%s: ownership_precision must be a string", path)
		}
		switch OwnershipPrecision(precision) {
		case PrecisionExact, PrecisionPercent:
			file.Precision = OwnershipPrecision(precision)
		default:
			return AccountsFile{}, fmt.Errorf("%s: ownership_precision %q, want %q or %q",
				path, precision, PrecisionExact, PrecisionPercent)
		}
	}

	accountsTree, ok := tree.Get("accounts").(*toml.Tree)
	if !ok {
		return AccountsFile{}, fmt.Errorf("%s: missing [accounts] tables", path)
	}

	for _, label := range orderedKeys(accountsTree) {
		sub, ok := accountsTree.Get(label).(*toml.Tree)
		if !ok {
			return AccountsFile{}, fmt.Errorf("%s: accounts.%s is not a table", path, label)
		}

		account, err := parseAccount(label, sub)
		if err != nil {
			return AccountsFile{}, fmt.Errorf("%s: %w", path, err)
		}
		file.Accounts = append(file.Accounts, account)
	}

	if len(file.Accounts) == 0 {
		return AccountsFile{}, fmt.Errorf("%s: no accounts configured", path)
	}
	return file, nil
}

func parseAccount(label string, tree *toml.Tree) (Account, error) {
	pubkey, ok := tree.Get("pubkey").(string)
	if !ok || pubkey == "" {
		return Account{}, fmt.Errorf("accounts.%s: missing pubkey", label)
	}
	if _, err := domain.ParseAddress(pubkey); err != nil {
		return Account{}, fmt.Errorf("accounts.%s: %w", label, err)
	}

	ownership, ok := tree.Get("ownership").(float64)
	if !ok {
		return Account{}, fmt.Errorf("accounts.%s: missing ownership", label)
	}
	if ownership < 0 || ownership > 1 {
		return Account{}, fmt.Errorf("accounts.%s: ownership %v outside [0,1]", label, ownership)
	}

	return Account{Label: label, Pubkey: pubkey, Ownership: ownership}, nil
}

// orderedKeys returns the sub-table keys in file order. go-toml's Keys()
// follows map iteration order, so positions are used to restore it.
func orderedKeys(tree *toml.Tree) []string {
	keys := tree.Keys()
	positions := make(map[string]int, len(keys))
	for _, k := range keys {
		positions[k] = tree.GetPosition(k).Line
	}
	sort.Slice(keys, func(i, j int) bool {
		return positions[keys[i]] < positions[keys[j]]
	})
	return keys
}
