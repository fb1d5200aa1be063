package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/minio/highwayhash"

	"personmerge/internal/merge"
)

var fingerprintKey = []byte("personmerge-fingerprint-key-0001")

// Fingerprint returns a stable hex digest of a person's email set. It does
// not depend on email order, so the same person yields the same fingerprint
// across runs and input orderings.
func Fingerprint[ID comparable](p merge.Person[ID]) (string, error) {
	emails := append([]string(nil), p.Emails...)
	sort.Strings(emails)

	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", err
	}
	if _, err := hash.Write([]byte(strings.Join(emails, "\n"))); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", hash.Sum64()), nil
}
