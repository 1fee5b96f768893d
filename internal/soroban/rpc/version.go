package rpc

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/stellar/stellar-rpc/protocol"
	"golang.org/x/mod/semver"
)

var ErrVersionTooOld = errors.New("rpc node version too old")

// CheckVersion verifies that the node runs at least minVersion (semver,
// with or without a leading "v"). An empty minVersion only checks that the
// node answers.
func CheckVersion(ctx context.Context, c *Client, minVersion string) (*protocol.GetVersionInfoResponse, error) {
	info, err := c.GetVersionInfo(ctx)
	if err != nil {
		return nil, err
	}

	if minVersion == "" {
		return &info, nil
	}

	have := canonicalVersion(info.Version)
	want := canonicalVersion(minVersion)

	if !semver.IsValid(want) {
		return nil, errors.Errorf("invalid minimum version %q", minVersion)
	}

	if !semver.IsValid(have) {
		return nil, errors.Errorf("node reports invalid version %q", info.Version)
	}

	if semver.Compare(have, want) < 0 {
		return nil, errors.Wrapf(ErrVersionTooOld, "have %s, want >= %s", have, want)
	}

	return &info, nil
}

func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	// nodes report e.g. "22.1.0-abcdef" or "v22.1.0"
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
