package datastore

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	reporterIDPrefix = "user-"
	reporterIDChars  = 9
	base36           = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// MintReporterID generates a fresh per-device reporter id of the form
// "user-" followed by nine base36 characters.
func MintReporterID() string {
	suffix := make([]byte, reporterIDChars)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(base36))))
		if err != nil {
			// crypto/rand failing is effectively unrecoverable; a
			// zero character keeps the id well-formed.
			suffix[i] = '0'
			continue
		}
		suffix[i] = base36[n.Int64()]
	}
	return reporterIDPrefix + string(suffix)
}

// EnsureReporterID returns the device's stable reporter id, minting and
// persisting one on first use.
func EnsureReporterID(ds Interface) (string, error) {
	id, err := ds.LoadReporterID()
	if err != nil {
		return "", fmt.Errorf("loading reporter id: %w", err)
	}
	if id != "" {
		return id, nil
	}

	id = MintReporterID()
	if err := ds.SaveReporterID(id); err != nil {
		return "", fmt.Errorf("saving reporter id: %w", err)
	}
	return id, nil
}
