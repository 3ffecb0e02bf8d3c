package solc

import (
	"errors"
	"log/slog"
	"path"
	"sort"
	"strings"
)

// ErrNoContract means the service answered without errors but none of the
// returned contracts could be matched to the entry file.
var ErrNoContract = errors.New("no contract matches the entry file")

// candidateKeys lists the key forms compilers have been seen to use for a
// file, most specific first: the exact name, the path-stripped name, a
// "./"-relative form, and the bare filename stem.
func candidateKeys(entry string) []string {
	base := path.Base(entry)
	stem := strings.TrimSuffix(base, path.Ext(base))
	keys := []string{entry, base, "./" + entry, "./" + base, stem}

	seen := map[string]bool{}
	var out []string
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// ResolveContract finds the contract matching entry. Candidate key forms
// are tried in a fixed order; then any compound "file:Contract" key whose
// contract part equals the filename stem; last, when exactly one contract
// exists, it is used and the fallback is logged.
func ResolveContract(contracts map[string]Contract, entry string, logger *slog.Logger) (Contract, string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(contracts) == 0 {
		return Contract{}, "", ErrNoContract
	}

	for _, key := range candidateKeys(entry) {
		if contract, ok := contracts[key]; ok {
			return contract, key, nil
		}
	}

	base := path.Base(entry)
	stem := strings.TrimSuffix(base, path.Ext(base))
	keys := make([]string, 0, len(contracts))
	for key := range contracts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if name, ok := strings.CutPrefix(path.Base(key), base+":"); ok && name == stem {
			return contracts[key], key, nil
		}
		if strings.HasSuffix(key, ":"+stem) {
			return contracts[key], key, nil
		}
	}

	if len(contracts) == 1 {
		key := keys[0]
		logger.Warn("no contract key matches entry file, falling back to the only contract",
			"entry", entry, "key", key)
		return contracts[key], key, nil
	}
	return Contract{}, "", ErrNoContract
}
