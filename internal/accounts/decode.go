package accounts

import (
	"bytes"
	"encoding/json"
	"fmt"

	"personmerge/internal/apperror"
	"personmerge/internal/merge"
)

// Account is an input account keyed by an opaque application identifier.
type Account = merge.Account[ApplicationID]

// Person is a merged person keyed by an opaque application identifier.
type Person = merge.Person[ApplicationID]

var requiredFields = []string{"application", "emails", "name"}

// Decode parses a JSON array of account records. A document that is not an
// array fails with ErrInvalidInputShape; a record that breaks the account
// contract fails with ErrMalformedAccount. An empty array decodes to an
// empty slice.
func Decode(data []byte) ([]Account, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperror.InvalidInputShape("provided data is not an array of accounts")
	}

	var records []json.RawMessage
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, apperror.InvalidInputShape(fmt.Sprintf("provided data is not a valid JSON array: %v", err))
	}

	accounts := make([]Account, 0, len(records))
	for i, record := range records {
		a, err := decodeAccount(i, record)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func decodeAccount(index int, record json.RawMessage) (Account, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(record, &fields); err != nil || fields == nil {
		return Account{}, apperror.MalformedAccount(index, "", "record is not an object")
	}
	for _, name := range requiredFields {
		if _, ok := fields[name]; !ok {
			return Account{}, apperror.MalformedAccount(index, name, fmt.Sprintf("missing field %q", name))
		}
	}

	var a Account
	if err := a.Application.UnmarshalJSON(fields["application"]); err != nil {
		return Account{}, apperror.MalformedAccount(index, "application", err.Error())
	}

	emails := bytes.TrimSpace(fields["emails"])
	if len(emails) == 0 || emails[0] != '[' {
		return Account{}, apperror.MalformedAccount(index, "emails", "emails must be an array of strings")
	}
	var list []*string
	if err := json.Unmarshal(emails, &list); err != nil {
		return Account{}, apperror.MalformedAccount(index, "emails", "emails must be an array of strings")
	}
	a.Emails = make([]string, 0, len(list))
	for _, email := range list {
		if email == nil {
			return Account{}, apperror.MalformedAccount(index, "emails", "emails must be an array of strings")
		}
		a.Emails = append(a.Emails, *email)
	}

	name := bytes.TrimSpace(fields["name"])
	if len(name) == 0 || name[0] != '"' {
		return Account{}, apperror.MalformedAccount(index, "name", "name must be a string")
	}
	if err := json.Unmarshal(name, &a.Name); err != nil {
		return Account{}, apperror.MalformedAccount(index, "name", err.Error())
	}
	return a, nil
}

// Encode renders persons as an indented JSON array.
func Encode(persons []Person) ([]byte, error) {
	out := make([]Person, len(persons))
	copy(out, persons)
	for i := range out {
		if out[i].Emails == nil {
			out[i].Emails = []string{}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
