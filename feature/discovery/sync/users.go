package sync

import (
	"strings"

	"discovery-sync/feature/discovery/source"
)

// DefaultIgnoredUsers lists the built-in Windows accounts that never
// represent a real asset user.
const DefaultIgnoredUsers = "Administrator;Guest;DefaultAccount;WDAGUtilityAccount"

// IgnoredUserSet parses a semicolon-separated ignore list into a set.
func IgnoredUserSet(raw string) map[string]struct{} {
	if raw == "" {
		raw = DefaultIgnoredUsers
	}
	set := make(map[string]struct{})
	for _, name := range strings.Split(raw, ";") {
		if name = strings.TrimSpace(name); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

// ExtractUsers normalizes the user accounts of each asset in place and
// returns the unique lower-cased names across the page, ready for
// reference lookups. Per asset: the last logged-on user is kept, observed
// accounts on the ignore list are dropped, an account's email address is
// preferred over its bare name, and the bare last-user name is replaced by
// its email when one is known.
func ExtractUsers(assets []source.RawAsset, ignored map[string]struct{}) []string {
	var all []string
	seen := make(map[string]struct{})

	for i := range assets {
		a := &assets[i]

		names := make([]string, 0, len(a.Users)+1)
		member := make(map[string]struct{})
		add := func(name string) {
			if name == "" {
				return
			}
			if _, ok := member[name]; ok {
				return
			}
			member[name] = struct{}{}
			names = append(names, name)
		}
		drop := func(name string) {
			if _, ok := member[name]; !ok {
				return
			}
			delete(member, name)
			for j, n := range names {
				if n == name {
					names = append(names[:j], names[j+1:]...)
					break
				}
			}
		}

		add(a.LastUser)
		for _, u := range a.Users {
			if u.Name == "" {
				continue
			}
			if _, skip := ignored[u.Name]; skip {
				continue
			}
			if u.Email != "" {
				add(u.Email)
				if u.Name == a.LastUser {
					drop(a.LastUser)
				}
			} else {
				add(u.Name)
			}
		}

		if len(names) == 0 {
			continue
		}
		a.AllUsers = names
		for _, name := range names {
			lower := strings.ToLower(name)
			if _, ok := seen[lower]; !ok {
				seen[lower] = struct{}{}
				all = append(all, lower)
			}
		}
	}
	return all
}
