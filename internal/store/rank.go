package store

import (
	"errors"
	"strings"
)

// Ranks are lowercase base36 strings compared lexicographically. A new rank
// is always computed between two neighbours, so a move touches one row.
const rankAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

var (
	ErrRankOrder   = errors.New("rank: lower bound must sort before upper bound")
	ErrRankNoSpace = errors.New("rank: no space between bounds")
	ErrRankInvalid = errors.New("rank: invalid character")
)

func normalizeRank(r string) string { return strings.ToLower(strings.TrimSpace(r)) }

func rankDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return 10 + int(c-'a'), true
	default:
		return 0, false
	}
}

// digitAt returns the digit of r at position i, or fallback past the end.
func digitAt(r string, i, fallback int) (int, error) {
	if i >= len(r) {
		return fallback, nil
	}
	d, ok := rankDigit(r[i])
	if !ok {
		return 0, ErrRankInvalid
	}
	return d, nil
}

// RankBetween returns a rank strictly between lo and hi. Either bound may be
// empty, meaning unbounded on that side.
func RankBetween(lo, hi string) (string, error) {
	lo, hi = normalizeRank(lo), normalizeRank(hi)
	if lo != "" && hi != "" && lo >= hi {
		return "", ErrRankOrder
	}
	inside := func(r string) bool {
		return r != "" && (lo == "" || lo < r) && (hi == "" || r < hi)
	}

	const top = len(rankAlphabet) - 1
	prefix := make([]byte, 0, 8)
	for i := 0; i < 256; i++ {
		dl, err := digitAt(lo, i, 0)
		if err != nil {
			return "", err
		}
		dh, err := digitAt(hi, i, top)
		if err != nil {
			return "", err
		}
		if dl == dh {
			prefix = append(prefix, rankAlphabet[dl])
			continue
		}
		var r string
		if dh-dl > 1 {
			r = string(append(prefix, rankAlphabet[dl+(dh-dl)/2]))
		} else {
			// Adjacent digits: any extension of lo still sorts before hi.
			r = lo + "0"
		}
		if !inside(r) {
			// e.g. "y" and "y0": nothing sorts strictly between them.
			return "", ErrRankNoSpace
		}
		return r, nil
	}
	return "", ErrRankNoSpace
}

func RankAfter(lo string) (string, error)  { return RankBetween(lo, "") }
func RankBefore(hi string) (string, error) { return RankBetween("", hi) }

// RankBetweenUnique is RankBetween skipping ranks already present in taken
// (keys normalized). Each retry tightens the lower bound.
func RankBetweenUnique(taken map[string]bool, lo, hi string) (string, error) {
	cur := normalizeRank(lo)
	hi = normalizeRank(hi)
	for i := 0; i < 256; i++ {
		r, err := RankBetween(cur, hi)
		if err != nil {
			return "", err
		}
		if !taken[r] {
			return r, nil
		}
		cur = r
	}
	return "", ErrRankNoSpace
}
