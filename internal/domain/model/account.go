package model

import "strings"

// Account is one login identity read from the credential file. Email is the
// lookup key; Token is the cached bearer credential and may be empty.
type Account struct {
	Email  string
	Secret string
	Token  string
}

// HasToken reports whether a cached token is available for reuse.
func (a Account) HasToken() bool {
	return strings.TrimSpace(a.Token) != ""
}

// AccountGroup is one line of the credential file.
type AccountGroup []Account

// Flatten returns every account across groups in file order.
func Flatten(groups []AccountGroup) []Account {
	var n int
	for _, g := range groups {
		n += len(g)
	}

	accounts := make([]Account, 0, n)
	for _, g := range groups {
		accounts = append(accounts, g...)
	}
	return accounts
}
